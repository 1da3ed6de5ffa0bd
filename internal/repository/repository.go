package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every repository
type Repository struct {
	Student      StudentRepository
	Group        GroupRepository
	Subject      SubjectRepository
	Teacher      TeacherRepository
	Grade        GradeRepository
	User         UserRepository
	RefreshToken RefreshTokenRepository

	db *gorm.DB
}

// NewRepository builds the aggregate over db
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Student:      NewStudentRepo(db),
		Group:        NewGroupRepo(db),
		Subject:      NewSubjectRepo(db),
		Teacher:      NewTeacherRepo(db),
		Grade:        NewGradeRepo(db),
		User:         NewUserRepo(db),
		RefreshToken: NewRefreshTokenRepo(db),
		db:           db,
	}
}

// Transaction runs fn with a Repository bound to one database transaction.
// A Repository assembled without a database (unit tests) runs fn on itself.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}
