package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/model"
)

// GradeRepository grade data access
type GradeRepository interface {
	Create(ctx context.Context, grade *model.Grade) error
	GetByID(ctx context.Context, id int64) (*model.Grade, error)
	List(ctx context.Context) ([]model.Grade, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.Grade, error)
	Update(ctx context.Context, grade *model.Grade) error
	Delete(ctx context.Context, id int64) error
}

type gradeRepo struct {
	db *gorm.DB
}

// NewGradeRepo creates a GradeRepository
func NewGradeRepo(db *gorm.DB) GradeRepository {
	return &gradeRepo{db: db}
}

func (r *gradeRepo) Create(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *gradeRepo) GetByID(ctx context.Context, id int64) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *gradeRepo) List(ctx context.Context) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("id ASC").
		Find(&grades).Error
	return grades, err
}

func (r *gradeRepo) Update(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Where("id = ?", grade.ID).
		Updates(map[string]interface{}{
			"student_id": grade.StudentID,
			"subject_id": grade.SubjectID,
			"teacher_id": grade.TeacherID,
			"grade":      grade.Value,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *gradeRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Grade{}).Error
}
