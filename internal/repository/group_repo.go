package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/model"
	pkgerrors "github.com/roob1e/tabularium/pkg/errors"
)

// GroupRepository group data access
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetByName(ctx context.Context, name string) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	// Update fails with ErrOptimisticLock when version no longer matches
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id int64) error
	CountStudents(ctx context.Context, groupID int64) (int64, error)
	// RecountAmount recomputes amount from the students table
	RecountAmount(ctx context.Context, groupIDs []int64) error
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo creates a GroupRepository
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) GetByName(ctx context.Context, name string) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *groupRepo) Update(ctx context.Context, group *model.Group) error {
	oldVersion := group.Version
	result := r.db.WithContext(ctx).
		Model(&model.Group{}).
		Where("id = ? AND version = ?", group.ID, oldVersion).
		Updates(map[string]interface{}{
			"name":       group.Name,
			"gpa":        group.GPA,
			"version":    oldVersion + 1,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	group.Version = oldVersion + 1
	return nil
}

func (r *groupRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Group{}).Error
}

func (r *groupRepo) CountStudents(ctx context.Context, groupID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

func (r *groupRepo) RecountAmount(ctx context.Context, groupIDs []int64) error {
	return recountAmount(r.db.WithContext(ctx), groupIDs)
}

// recountAmount one statement for the whole batch
func recountAmount(db *gorm.DB, groupIDs []int64) error {
	if len(groupIDs) == 0 {
		return nil
	}
	return db.Exec(
		`UPDATE groups SET amount = (SELECT COUNT(*) FROM students WHERE students.group_id = groups.id) WHERE id IN ?`,
		groupIDs,
	).Error
}
