package promotion

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

// ── in-memory store ──

type memStudent struct {
	id      int64
	name    string
	groupID int64
}

type memStore struct {
	groups   map[int64]string
	students []memStudent

	findErr  map[string]error
	moveErr  map[int64]error
	listErr  error
	recounts [][]int64
	commits  int
}

func newMemStore(groups map[int64]string, students ...memStudent) *memStore {
	return &memStore{
		groups:   groups,
		students: students,
		findErr:  map[string]error{},
		moveErr:  map[int64]error{},
	}
}

// memTx works on a copy and writes it back only on success
type memTx struct {
	s        *memStore
	students []memStudent
	recounts [][]int64
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r Roster) error) error {
	tx := &memTx{s: m, students: append([]memStudent(nil), m.students...)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.students = tx.students
	m.recounts = append(m.recounts, tx.recounts...)
	m.commits++
	return nil
}

func (t *memTx) ListStudents(context.Context) ([]Placement, error) {
	if t.s.listErr != nil {
		return nil, t.s.listErr
	}
	out := make([]Placement, 0, len(t.students))
	for _, st := range t.students {
		out = append(out, Placement{
			StudentID:   st.id,
			StudentName: st.name,
			GroupID:     st.groupID,
			GroupLabel:  t.s.groups[st.groupID],
		})
	}
	return out, nil
}

func (t *memTx) FindGroupByLabel(_ context.Context, label string) (GroupRef, bool, error) {
	if err := t.s.findErr[label]; err != nil {
		return GroupRef{}, false, err
	}
	for id, name := range t.s.groups {
		if name == label {
			return GroupRef{ID: id, Label: name}, true, nil
		}
	}
	return GroupRef{}, false, nil
}

func (t *memTx) MoveStudent(_ context.Context, studentID, groupID int64) error {
	if err := t.s.moveErr[studentID]; err != nil {
		return err
	}
	for i := range t.students {
		if t.students[i].id == studentID {
			t.students[i].groupID = groupID
			return nil
		}
	}
	return errors.New("no such student")
}

func (t *memTx) RecountMembership(_ context.Context, groupIDs []int64) error {
	t.recounts = append(t.recounts, append([]int64(nil), groupIDs...))
	return nil
}

func (m *memStore) groupOf(studentID int64) int64 {
	for _, st := range m.students {
		if st.id == studentID {
			return st.groupID
		}
	}
	return 0
}

// ── tests ──

func TestExecutor_PromotesIntoExistingGroup(t *testing.T) {
	store := newMemStore(map[int64]string{1: "10А", 2: "11А"},
		memStudent{id: 100, name: "Иванов И.И.", groupID: 1},
	)

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}

	if report.Promoted != 1 || report.Held != 0 {
		t.Errorf("expected 1 promoted 0 held, got %d/%d", report.Promoted, report.Held)
	}
	if got := store.groupOf(100); got != 2 {
		t.Errorf("expected student 100 in group 2, got %d", got)
	}
	want := []Move{{StudentID: 100, StudentName: "Иванов И.И.", FromGroupID: 1, FromGroup: "10А", ToGroupID: 2, ToGroup: "11А"}}
	if !reflect.DeepEqual(report.Moves, want) {
		t.Errorf("unexpected moves: %+v", report.Moves)
	}
	if len(store.recounts) != 1 || !reflect.DeepEqual(store.recounts[0], []int64{1, 2}) {
		t.Errorf("expected one recount of [1 2], got %v", store.recounts)
	}
}

func TestExecutor_GraduateIsHeld(t *testing.T) {
	store := newMemStore(map[int64]string{1: "11А"},
		memStudent{id: 100, name: "Иванов И.И.", groupID: 1},
	)

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}

	if report.Promoted != 0 || report.Held != 1 || report.Graduates != 1 {
		t.Errorf("expected 0 promoted, 1 held graduate, got %+v", report)
	}
	if len(report.Moves) != 0 {
		t.Errorf("graduate must not appear in moves: %+v", report.Moves)
	}
	if got := store.groupOf(100); got != 1 {
		t.Errorf("student 100 must stay in group 1, got %d", got)
	}
	if len(store.recounts) != 0 {
		t.Errorf("no recount expected without moves, got %v", store.recounts)
	}
}

func TestExecutor_LabelWithoutDigitsIsUnchanged(t *testing.T) {
	store := newMemStore(map[int64]string{7: "Graduates"},
		memStudent{id: 1, name: "A", groupID: 7},
	)

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}
	if report.Held != 1 || report.Unchanged != 1 || report.Graduates != 0 {
		t.Errorf("expected held as unchanged, got %+v", report)
	}
}

func TestExecutor_MixedCohort(t *testing.T) {
	store := newMemStore(map[int64]string{
		1: "10А", 2: "11А", 3: "П-41", 4: "П-51", 5: "ИВТ-32",
	},
		memStudent{id: 1, name: "a", groupID: 1},
		memStudent{id: 2, name: "b", groupID: 2},
		memStudent{id: 3, name: "c", groupID: 3},
		memStudent{id: 4, name: "d", groupID: 5},
		memStudent{id: 5, name: "e", groupID: 1},
	)

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}

	if report.Promoted != 3 {
		t.Errorf("expected 3 promoted, got %d", report.Promoted)
	}
	if report.Graduates != 2 {
		t.Errorf("expected 2 graduates (11А, ИВТ-32), got %d", report.Graduates)
	}
	// roster order is kept
	var ids []int64
	for _, m := range report.Moves {
		ids = append(ids, m.StudentID)
	}
	if !reflect.DeepEqual(ids, []int64{1, 3, 5}) {
		t.Errorf("expected moves in roster order [1 3 5], got %v", ids)
	}
	// student 2 sits in 11А which gains members; it is not moved itself
	if store.groupOf(2) != 2 {
		t.Errorf("student 2 must stay in 11А")
	}
	if !reflect.DeepEqual(store.recounts, [][]int64{{1, 2, 3, 4}}) {
		t.Errorf("expected single recount [1 2 3 4], got %v", store.recounts)
	}
}

func TestExecutor_AbortsWholeRunOnFailure(t *testing.T) {
	boom := errors.New("boom")

	store := newMemStore(map[int64]string{1: "10А", 2: "11А", 3: "5Б", 4: "6Б"},
		memStudent{id: 1, name: "first", groupID: 1},
		memStudent{id: 2, name: "second", groupID: 3},
	)
	store.moveErr[2] = boom

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if report != nil {
		t.Errorf("no report expected on failure, got %+v", report)
	}
	if store.commits != 0 {
		t.Error("failed run must not commit")
	}
	if store.groupOf(1) != 1 {
		t.Error("earlier move must be rolled back")
	}
}

func TestExecutor_LookupAndListFailures(t *testing.T) {
	boom := errors.New("db down")

	store := newMemStore(map[int64]string{1: "10А"}, memStudent{id: 1, groupID: 1})
	store.findErr["11А"] = boom
	if _, err := NewExecutor(store, zap.NewNop()).Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected lookup error, got %v", err)
	}

	store = newMemStore(nil)
	store.listErr = boom
	if _, err := NewExecutor(store, zap.NewNop()).Run(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected list error, got %v", err)
	}
}

func TestExecutor_EmptyRoster(t *testing.T) {
	store := newMemStore(map[int64]string{1: "10А"})

	report, err := NewExecutor(store, zap.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run should succeed: %v", err)
	}
	if report.Promoted != 0 || report.Held != 0 || report.Moves == nil {
		t.Errorf("unexpected report for empty roster: %+v", report)
	}
	if store.commits != 1 {
		t.Errorf("expected one commit, got %d", store.commits)
	}
}
