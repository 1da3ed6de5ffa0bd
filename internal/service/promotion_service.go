package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/promotion"
	"github.com/roob1e/tabularium/internal/scheduler"
)

// ── promotion errors ──

var (
	// ErrInvalidPromotionDate the date is not dd.MM or does not exist this year
	ErrInvalidPromotionDate = scheduler.ErrInvalidDate
	ErrPromotionRunning     = promotion.ErrRunInProgress
	ErrNoPromotionRun       = errors.New("promotion has not run yet")
)

// Trigger what started a run
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
)

// Scheduler the schedule manager surface the service needs
type Scheduler interface {
	SetSchedule(raw string) (string, error)
	CronExpression() string
	DateSpec() scheduler.DateSpec
	NextRun() time.Time
	Location() *time.Location
}

// RunRecord one finished run
type RunRecord struct {
	Trigger    Trigger
	FinishedAt time.Time
	Report     *promotion.Report
	Err        error
}

// RunHistory keeps the latest RunRecord. Safe for concurrent use.
type RunHistory struct {
	mu   sync.RWMutex
	last *RunRecord
	now  func() time.Time
}

// NewRunHistory creates an empty history
func NewRunHistory() *RunHistory {
	return &RunHistory{now: time.Now}
}

// Record stores the outcome of a run
func (h *RunHistory) Record(trigger Trigger, report *promotion.Report, err error) {
	rec := &RunRecord{Trigger: trigger, FinishedAt: h.now(), Report: report, Err: err}
	if report != nil {
		rec.FinishedAt = report.FinishedAt
	}
	h.mu.Lock()
	h.last = rec
	h.mu.Unlock()
}

// RecordScheduled adapter for the scheduler's report callback
func (h *RunHistory) RecordScheduled(report *promotion.Report, err error) {
	h.Record(TriggerSchedule, report, err)
}

// Last the latest record, nil before the first run
func (h *RunHistory) Last() *RunRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// LastReport the latest successful report, if the latest run succeeded
func (h *RunHistory) LastReport() *promotion.Report {
	rec := h.Last()
	if rec == nil || rec.Err != nil {
		return nil
	}
	return rec.Report
}

// PromotionService schedule administration and manual runs
type PromotionService interface {
	SetSchedule(raw string) (*dto.ScheduleUpdateResponse, error)
	GetSchedule() *dto.ScheduleResponse
	RunNow(ctx context.Context) (*promotion.Report, error)
	LastRun() (*dto.LastRunResponse, error)
	// Calendar iCalendar feed with a yearly event on the promotion date
	Calendar() (string, error)
}

type promotionService struct {
	sched   Scheduler
	runner  promotion.Runner
	history *RunHistory
	logger  *zap.Logger
	now     func() time.Time
}

// NewPromotionService creates a PromotionService
func NewPromotionService(sched Scheduler, runner promotion.Runner, history *RunHistory, logger *zap.Logger) PromotionService {
	return &promotionService{
		sched:   sched,
		runner:  runner,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── SetSchedule ──────────────────────

func (s *promotionService) SetSchedule(raw string) (*dto.ScheduleUpdateResponse, error) {
	expr, err := s.sched.SetSchedule(raw)
	if err != nil {
		return nil, err
	}
	return &dto.ScheduleUpdateResponse{
		CronExpression: expr,
		NextRun:        dto.FormatTime(s.sched.NextRun()),
	}, nil
}

// ────────────────────── GetSchedule ──────────────────────

func (s *promotionService) GetSchedule() *dto.ScheduleResponse {
	date := s.sched.DateSpec()
	return &dto.ScheduleResponse{
		CronExpression: s.sched.CronExpression(),
		Date:           date.String(),
		Day:            date.Day,
		Month:          int(date.Month),
		Timezone:       s.sched.Location().String(),
		NextRun:        dto.FormatTime(s.sched.NextRun()),
	}
}

// ────────────────────── RunNow ──────────────────────

func (s *promotionService) RunNow(ctx context.Context) (*promotion.Report, error) {
	report, err := s.runner.Run(ctx)
	if errors.Is(err, promotion.ErrRunInProgress) {
		return nil, ErrPromotionRunning
	}
	s.history.Record(TriggerManual, report, err)
	if err != nil {
		s.logger.Error("manual promotion failed", zap.Error(err))
		return nil, err
	}
	return report, nil
}

// ────────────────────── LastRun ──────────────────────

func (s *promotionService) LastRun() (*dto.LastRunResponse, error) {
	rec := s.history.Last()
	if rec == nil {
		return nil, ErrNoPromotionRun
	}

	resp := &dto.LastRunResponse{
		Trigger:    string(rec.Trigger),
		FinishedAt: dto.FormatTime(rec.FinishedAt),
		Succeeded:  rec.Err == nil,
	}
	if rec.Err != nil {
		resp.Error = rec.Err.Error()
	} else {
		resp.Report = rec.Report
	}
	return resp, nil
}

// ────────────────────── Calendar ──────────────────────

func (s *promotionService) Calendar() (string, error) {
	date := s.sched.DateSpec()
	next := s.sched.NextRun()
	if next.IsZero() {
		return "", fmt.Errorf("no upcoming promotion for %s", date)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tabularium//promotion//EN")
	cal.SetXWRCalName("Annual promotion")

	evt := cal.AddEvent(fmt.Sprintf("promotion-%02d%02d@tabularium", int(date.Month), date.Day))
	evt.SetDtStampTime(s.now().UTC())
	evt.SetAllDayStartAt(next)
	evt.SetAllDayEndAt(next.AddDate(0, 0, 1))
	evt.SetSummary("Annual student promotion")
	evt.SetDescription(fmt.Sprintf("Students move to next year's groups. Cron: %s (%s)",
		s.sched.CronExpression(), s.sched.Location()))
	evt.AddRrule("FREQ=YEARLY")

	return cal.Serialize(), nil
}
