package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/roob1e/tabularium/internal/promotion"
	"github.com/roob1e/tabularium/internal/scheduler"
)

type fakeScheduler struct {
	date scheduler.DateSpec
	next time.Time
}

func (f *fakeScheduler) SetSchedule(raw string) (string, error) {
	date, err := scheduler.ParseDateSpec(raw, f.next)
	if err != nil {
		return "", err
	}
	f.date = date
	f.next = time.Date(f.next.Year(), date.Month, date.Day, 0, 0, 0, 0, time.UTC)
	return date.CronExpression(), nil
}

func (f *fakeScheduler) CronExpression() string { return f.date.CronExpression() }
func (f *fakeScheduler) DateSpec() scheduler.DateSpec { return f.date }
func (f *fakeScheduler) NextRun() time.Time { return f.next }
func (f *fakeScheduler) Location() *time.Location { return time.UTC }

type fakeRunner struct {
	report *promotion.Report
	err    error
}

func (f *fakeRunner) Run(context.Context) (*promotion.Report, error) {
	return f.report, f.err
}

func setupTestPromotionService(runner promotion.Runner) (PromotionService, *RunHistory) {
	sched := &fakeScheduler{
		date: scheduler.DefaultDateSpec,
		next: time.Date(2026, time.July, 30, 0, 0, 0, 0, time.UTC),
	}
	history := NewRunHistory()
	return NewPromotionService(sched, runner, history, nopLogger()), history
}

func sampleReport() *promotion.Report {
	finished := time.Date(2026, time.July, 30, 0, 0, 1, 0, time.UTC)
	return &promotion.Report{
		StartedAt:  finished.Add(-time.Second),
		FinishedAt: finished,
		Promoted:   1,
		Graduates:  1,
		Held:       1,
		Moves: []promotion.Move{
			{StudentID: 1, StudentName: "Ivan", FromGroupID: 1, FromGroup: "10А", ToGroupID: 2, ToGroup: "11А"},
		},
	}
}

func TestPromotionService_Schedule(t *testing.T) {
	svc, _ := setupTestPromotionService(&fakeRunner{})

	got := svc.GetSchedule()
	if got.CronExpression != "0 0 0 30 7 *" || got.Date != "30.07" || got.Day != 30 || got.Month != 7 {
		t.Errorf("unexpected default schedule %+v", got)
	}
	if got.Timezone != "UTC" {
		t.Errorf("expected UTC, got %s", got.Timezone)
	}

	updated, err := svc.SetSchedule("01.09")
	if err != nil {
		t.Fatalf("SetSchedule: %v", err)
	}
	if updated.CronExpression != "0 0 0 1 9 *" {
		t.Errorf("unexpected expression %s", updated.CronExpression)
	}
	if updated.NextRun != "2026-09-01T00:00:00Z" {
		t.Errorf("unexpected next run %s", updated.NextRun)
	}

	if _, err := svc.SetSchedule("1.9"); !errors.Is(err, ErrInvalidPromotionDate) {
		t.Errorf("expected ErrInvalidPromotionDate, got %v", err)
	}
	if svc.GetSchedule().Date != "01.09" {
		t.Error("a rejected date must keep the current schedule")
	}
}

func TestPromotionService_RunNow(t *testing.T) {
	report := sampleReport()
	svc, history := setupTestPromotionService(&fakeRunner{report: report})

	if _, err := svc.LastRun(); !errors.Is(err, ErrNoPromotionRun) {
		t.Fatalf("expected ErrNoPromotionRun, got %v", err)
	}

	got, err := svc.RunNow(context.Background())
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if got != report {
		t.Error("RunNow should return the executor report")
	}

	last, err := svc.LastRun()
	if err != nil {
		t.Fatalf("LastRun: %v", err)
	}
	if last.Trigger != "manual" || !last.Succeeded || last.FinishedAt != "2026-07-30T00:00:01Z" {
		t.Errorf("unexpected last run %+v", last)
	}
	if history.LastReport() != report {
		t.Error("history should keep the report")
	}
}

func TestPromotionService_RunNow_Failure(t *testing.T) {
	svc, history := setupTestPromotionService(&fakeRunner{err: errMockDB})

	if _, err := svc.RunNow(context.Background()); !errors.Is(err, errMockDB) {
		t.Fatalf("expected db error, got %v", err)
	}
	last, _ := svc.LastRun()
	if last.Succeeded || last.Error == "" || last.Report != nil {
		t.Errorf("unexpected last run %+v", last)
	}
	if history.LastReport() != nil {
		t.Error("a failed run has no report")
	}
}

func TestPromotionService_RunNow_Busy(t *testing.T) {
	svc, _ := setupTestPromotionService(&fakeRunner{err: promotion.ErrRunInProgress})

	if _, err := svc.RunNow(context.Background()); !errors.Is(err, ErrPromotionRunning) {
		t.Fatalf("expected ErrPromotionRunning, got %v", err)
	}
	if _, err := svc.LastRun(); !errors.Is(err, ErrNoPromotionRun) {
		t.Error("a rejected run must not be recorded")
	}
}

func TestRunHistory_RecordScheduled(t *testing.T) {
	history := NewRunHistory()
	history.RecordScheduled(sampleReport(), nil)

	if rec := history.Last(); rec == nil || rec.Trigger != TriggerSchedule {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestPromotionService_Calendar(t *testing.T) {
	svc, _ := setupTestPromotionService(&fakeRunner{})

	body, err := svc.Calendar()
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	evt := events[0]

	checks := map[ics.ComponentProperty]string{
		ics.ComponentPropertySummary: "Annual student promotion",
		ics.ComponentPropertyRrule:   "FREQ=YEARLY",
		ics.ComponentPropertyDtStart: "20260730",
	}
	for prop, want := range checks {
		p := evt.GetProperty(prop)
		if p == nil {
			t.Errorf("%s missing", prop)
			continue
		}
		if p.Value != want {
			t.Errorf("%s = %q, want %q", prop, p.Value, want)
		}
	}
}
