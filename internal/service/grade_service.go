package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/repository"
)

// ── grade errors ──

var (
	ErrGradeNotFound   = errors.New("grade not found")
	ErrGradeOutOfRange = errors.New("grade must be between 0 and 10")
)

const (
	minGrade = 0
	maxGrade = 10
)

// GradeService grade use cases
type GradeService interface {
	List(ctx context.Context) ([]dto.GradeResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.GradeResponse, error)
	Create(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error)
	Update(ctx context.Context, id int64, req *dto.GradeRequest) (*dto.GradeResponse, error)
	Delete(ctx context.Context, id int64) error
}

type gradeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGradeService creates a GradeService
func NewGradeService(repo *repository.Repository, logger *zap.Logger) GradeService {
	return &gradeService{repo: repo, logger: logger}
}

func (s *gradeService) List(ctx context.Context) ([]dto.GradeResponse, error) {
	grades, err := s.repo.Grade.List(ctx)
	if err != nil {
		s.logger.Error("list grades failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, *toGradeResponse(&grades[i]))
	}
	return result, nil
}

func (s *gradeService) GetByID(ctx context.Context, id int64) (*dto.GradeResponse, error) {
	grade, err := s.getGrade(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *gradeService) Create(ctx context.Context, req *dto.GradeRequest) (*dto.GradeResponse, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	grade := &model.Grade{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Value:     *req.Grade,
	}
	if err := s.repo.Grade.Create(ctx, grade); err != nil {
		s.logger.Error("create grade failed", zap.Error(err))
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *gradeService) Update(ctx context.Context, id int64, req *dto.GradeRequest) (*dto.GradeResponse, error) {
	grade, err := s.getGrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	grade.StudentID = req.StudentID
	grade.SubjectID = req.SubjectID
	grade.TeacherID = req.TeacherID
	grade.Value = *req.Grade

	if err := s.repo.Grade.Update(ctx, grade); err != nil {
		s.logger.Error("update grade failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toGradeResponse(grade), nil
}

func (s *gradeService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getGrade(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Grade.Delete(ctx, id); err != nil {
		s.logger.Error("delete grade failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// validate range first, then referenced rows
func (s *gradeService) validate(ctx context.Context, req *dto.GradeRequest) error {
	if req.Grade == nil || *req.Grade < minGrade || *req.Grade > maxGrade {
		return ErrGradeOutOfRange
	}
	if _, err := s.repo.Student.GetByID(ctx, req.StudentID); err != nil {
		return mapNotFound(err, ErrStudentNotFound)
	}
	if _, err := s.repo.Subject.GetByID(ctx, req.SubjectID); err != nil {
		return mapNotFound(err, ErrSubjectNotFound)
	}
	if req.TeacherID != nil {
		if _, err := s.repo.Teacher.GetByID(ctx, *req.TeacherID); err != nil {
			return mapNotFound(err, ErrTeacherNotFound)
		}
	}
	return nil
}

func (s *gradeService) getGrade(ctx context.Context, id int64) (*model.Grade, error) {
	grade, err := s.repo.Grade.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("get grade failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return grade, nil
}

func toGradeResponse(g *model.Grade) *dto.GradeResponse {
	return &dto.GradeResponse{
		ID:        g.ID,
		StudentID: g.StudentID,
		SubjectID: g.SubjectID,
		TeacherID: g.TeacherID,
		Grade:     g.Value,
	}
}

func mapNotFound(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
