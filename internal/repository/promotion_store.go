package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/promotion"
)

// PromotionStore runs a promotion inside one database transaction
type PromotionStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ promotion.Store = (*PromotionStore)(nil)

// NewPromotionStore creates a PromotionStore
func NewPromotionStore(db *gorm.DB) *PromotionStore {
	return &PromotionStore{db: db, now: time.Now}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise
func (s *PromotionStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context, r promotion.Roster) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &txRoster{tx: tx, now: s.now})
	})
}

// txRoster promotion.Roster bound to an open transaction
type txRoster struct {
	tx  *gorm.DB
	now func() time.Time
}

type placementRow struct {
	StudentID   int64
	StudentName string
	GroupID     int64
	GroupLabel  string
}

func (r *txRoster) ListStudents(ctx context.Context) ([]promotion.Placement, error) {
	var rows []placementRow
	err := r.tx.WithContext(ctx).
		Table("students").
		Select("students.id AS student_id, students.fullname AS student_name, students.group_id AS group_id, groups.name AS group_label").
		Joins("JOIN groups ON groups.id = students.group_id").
		Order("students.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]promotion.Placement, 0, len(rows))
	for _, row := range rows {
		out = append(out, promotion.Placement(row))
	}
	return out, nil
}

func (r *txRoster) FindGroupByLabel(ctx context.Context, label string) (promotion.GroupRef, bool, error) {
	var group model.Group
	err := r.tx.WithContext(ctx).
		Select("id", "name").
		Where("name = ?", label).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return promotion.GroupRef{}, false, nil
	}
	if err != nil {
		return promotion.GroupRef{}, false, err
	}
	return promotion.GroupRef{ID: group.ID, Label: group.Name}, true, nil
}

// MoveStudent reassigns the group and refreshes the stored age
func (r *txRoster) MoveStudent(ctx context.Context, studentID, groupID int64) error {
	var student model.Student
	if err := r.tx.WithContext(ctx).
		Select("id", "birthdate").
		Where("id = ?", studentID).
		First(&student).Error; err != nil {
		return err
	}
	student.RecalcAge(r.now())

	return r.tx.WithContext(ctx).
		Model(&model.Student{}).
		Where("id = ?", studentID).
		Updates(map[string]interface{}{
			"group_id":   groupID,
			"age":        student.Age,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *txRoster) RecountMembership(ctx context.Context, groupIDs []int64) error {
	return recountAmount(r.tx.WithContext(ctx), groupIDs)
}
