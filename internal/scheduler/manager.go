// Package scheduler owns the single annual promotion trigger.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/roob1e/tabularium/internal/promotion"
)

// Runner executes one promotion
type Runner interface {
	Run(ctx context.Context) (*promotion.Report, error)
}

// Options tuning for NewManager. Zero values fall back to the defaults.
type Options struct {
	// Date installed at construction, DefaultDateSpec when zero
	Date DateSpec
	// Workers size of the pool running firings, 2 when zero
	Workers int
	// QueueSize firings waiting for a free worker before new ones are dropped
	QueueSize int
	// RunTimeout bounds a single run, 0 means no limit
	RunTimeout time.Duration
	// Location the cron expression is evaluated in, time.Local when nil
	Location *time.Location
	// OnReport receives the outcome of every scheduled run
	OnReport func(report *promotion.Report, err error)
}

const (
	defaultWorkers   = 2
	defaultQueueSize = 4
)

var cronParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// Manager keeps exactly one scheduled promotion job and replaces it atomically
type Manager struct {
	mu      sync.RWMutex
	cron    *cron.Cron
	entryID cron.EntryID
	sched   cron.Schedule
	expr    string
	date    DateSpec

	runner     Runner
	pool       *pool
	logger     *zap.Logger
	loc        *time.Location
	runTimeout time.Duration
	onReport   func(*promotion.Report, error)
	now        func() time.Time
}

// NewManager builds a Manager with opts.Date already scheduled.
// Nothing fires until Start.
func NewManager(runner Runner, opts Options, logger *zap.Logger) (*Manager, error) {
	if runner == nil {
		return nil, fmt.Errorf("scheduler: runner is required")
	}
	if opts.Date == (DateSpec{}) {
		opts.Date = DefaultDateSpec
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	clog := newCronLogger(logger)
	m := &Manager{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLocation(opts.Location),
			cron.WithLogger(clog),
			cron.WithChain(cron.Recover(clog)),
		),
		runner:     runner,
		pool:       newPool(opts.Workers, opts.QueueSize, logger),
		logger:     logger,
		loc:        opts.Location,
		runTimeout: opts.RunTimeout,
		onReport:   opts.OnReport,
		now:        time.Now,
	}

	if _, err := m.install(opts.Date); err != nil {
		return nil, err
	}
	return m, nil
}

// Start begins firing
func (m *Manager) Start() {
	m.pool.start()
	m.cron.Start()
	m.logger.Info("promotion scheduler started",
		zap.String("cron", m.CronExpression()),
		zap.Time("next_run", m.NextRun()),
		zap.Int("workers", m.pool.workers),
	)
}

// Stop cancels future firings and waits for running promotions until ctx is done
func (m *Manager) Stop(ctx context.Context) error {
	cronDone := m.cron.Stop()
	select {
	case <-cronDone.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := m.pool.stop(ctx); err != nil {
		m.logger.Warn("promotion scheduler stopped with runs in flight", zap.Error(err))
		return err
	}
	m.logger.Info("promotion scheduler stopped")
	return nil
}

// SetSchedule replaces the trigger with one for the dd.MM date in raw.
// On ErrInvalidDate the current trigger is left as it was.
func (m *Manager) SetSchedule(raw string) (string, error) {
	date, err := ParseDateSpec(raw, m.now().In(m.loc))
	if err != nil {
		m.logger.Warn("rejected promotion date", zap.String("input", raw), zap.Error(err))
		return "", err
	}
	return m.install(date)
}

// install swaps the cron entry under the write lock.
// A run already in progress is not affected by removing its entry.
func (m *Manager) install(date DateSpec) (string, error) {
	expr := date.CronExpression()
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return "", fmt.Errorf("scheduler: parse %q: %w", expr, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entryID != 0 {
		m.cron.Remove(m.entryID)
	}
	m.entryID = m.cron.Schedule(sched, cron.FuncJob(m.enqueue))
	m.sched = sched
	m.expr = expr
	m.date = date

	m.logger.Info("promotion schedule installed",
		zap.String("date", date.String()),
		zap.String("cron", expr),
	)
	return expr, nil
}

// CronExpression the expression currently installed
func (m *Manager) CronExpression() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.expr
}

// DateSpec the date currently installed
func (m *Manager) DateSpec() DateSpec {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.date
}

// NextRun the next firing time in the manager's location
func (m *Manager) NextRun() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sched.Next(m.now().In(m.loc))
}

// Location the zone the schedule is evaluated in
func (m *Manager) Location() *time.Location {
	return m.loc
}

func (m *Manager) enqueue() {
	if !m.pool.submit(m.fire) {
		m.logger.Warn("promotion firing dropped, worker pool busy or stopped",
			zap.String("cron", m.CronExpression()),
		)
	}
}

func (m *Manager) fire() {
	ctx := context.Background()
	if m.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.runTimeout)
		defer cancel()
	}

	m.logger.Info("scheduled promotion started")
	report, err := m.runner.Run(ctx)
	if err != nil {
		m.logger.Error("scheduled promotion failed", zap.Error(err))
	} else {
		m.logger.Info("scheduled promotion completed",
			zap.Int("promoted", report.Promoted),
			zap.Int("held", report.Held),
		)
	}

	if m.onReport != nil {
		m.onReport(report, err)
	}
}
