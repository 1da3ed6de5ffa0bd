// Package promotion moves every student into next year's group.
package promotion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// Placement a student and the group it currently belongs to
type Placement struct {
	StudentID   int64
	StudentName string
	GroupID     int64
	GroupLabel  string
}

// GroupRef a group resolved by label
type GroupRef struct {
	ID    int64
	Label string
}

// Roster persistence operations a promotion run needs
type Roster interface {
	ListStudents(ctx context.Context) ([]Placement, error)
	// FindGroupByLabel returns ok=false when no group carries the label
	FindGroupByLabel(ctx context.Context, label string) (GroupRef, bool, error)
	MoveStudent(ctx context.Context, studentID, groupID int64) error
	RecountMembership(ctx context.Context, groupIDs []int64) error
}

// Store hands out a Roster bound to a single transaction.
// Returning an error from fn rolls back every change made through r.
type Store interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, r Roster) error) error
}

// Move one promoted student
type Move struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	FromGroupID int64  `json:"from_group_id"`
	FromGroup   string `json:"from_group"`
	ToGroupID   int64  `json:"to_group_id"`
	ToGroup     string `json:"to_group"`
}

// Report outcome of one run. Held = Graduates + Unchanged.
type Report struct {
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Promoted   int       `json:"promoted"`
	Held       int       `json:"held"`
	Graduates  int       `json:"graduates"`
	Unchanged  int       `json:"unchanged"`
	Moves      []Move    `json:"moves"`
}

// Executor runs promotions against a Store
type Executor struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewExecutor creates an Executor
func NewExecutor(store Store, logger *zap.Logger) *Executor {
	return &Executor{store: store, logger: logger, now: time.Now}
}

// Run promotes the whole roster in one transaction.
// The first failing lookup or write aborts the run and nothing is committed.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	report := &Report{StartedAt: e.now(), Moves: []Move{}}

	err := e.store.WithinTransaction(ctx, func(ctx context.Context, r Roster) error {
		// every attempt starts from a clean report
		report.Promoted, report.Held, report.Graduates, report.Unchanged = 0, 0, 0, 0
		report.Moves = report.Moves[:0]

		students, err := r.ListStudents(ctx)
		if err != nil {
			return fmt.Errorf("list students: %w", err)
		}

		touched := make(map[int64]struct{})

		for _, st := range students {
			next := NextLabel(st.GroupLabel)

			target, found, err := r.FindGroupByLabel(ctx, next)
			if err != nil {
				return fmt.Errorf("student %d: find group %q: %w", st.StudentID, next, err)
			}

			if !found {
				report.Held++
				report.Graduates++
				e.logger.Info("student held, no next group",
					zap.Int64("student_id", st.StudentID),
					zap.String("student", st.StudentName),
					zap.String("group", st.GroupLabel),
					zap.String("next_group", next),
				)
				continue
			}
			if target.ID == st.GroupID {
				report.Held++
				report.Unchanged++
				continue
			}

			if err := r.MoveStudent(ctx, st.StudentID, target.ID); err != nil {
				return fmt.Errorf("student %d: move to group %d: %w", st.StudentID, target.ID, err)
			}

			touched[st.GroupID] = struct{}{}
			touched[target.ID] = struct{}{}
			report.Promoted++
			report.Moves = append(report.Moves, Move{
				StudentID:   st.StudentID,
				StudentName: st.StudentName,
				FromGroupID: st.GroupID,
				FromGroup:   st.GroupLabel,
				ToGroupID:   target.ID,
				ToGroup:     target.Label,
			})
			e.logger.Info("student promoted",
				zap.Int64("student_id", st.StudentID),
				zap.String("student", st.StudentName),
				zap.String("from", st.GroupLabel),
				zap.String("to", target.Label),
			)
		}

		if len(touched) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(touched))
		for id := range touched {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		if err := r.RecountMembership(ctx, ids); err != nil {
			return fmt.Errorf("recount membership: %w", err)
		}
		return nil
	})
	report.FinishedAt = e.now()

	if err != nil {
		e.logger.Error("promotion run aborted", zap.Error(err))
		return nil, err
	}

	e.logger.Info("promotion run finished",
		zap.Int("promoted", report.Promoted),
		zap.Int("held", report.Held),
		zap.Int("graduates", report.Graduates),
		zap.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}
