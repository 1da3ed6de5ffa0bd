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

// ErrSubjectNotFound no subject with that id
var ErrSubjectNotFound = errors.New("subject not found")

// SubjectService subject use cases
type SubjectService interface {
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error)
	Create(ctx context.Context, req *dto.SubjectRequest) (*dto.SubjectResponse, error)
	Update(ctx context.Context, id int64, req *dto.SubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id int64) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService creates a SubjectService
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("list subjects failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *subjectService) GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) Create(ctx context.Context, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{Name: req.Name}
	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("create subject failed", zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) Update(ctx context.Context, id int64, req *dto.SubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.getSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	subject.Name = req.Name
	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		s.logger.Error("update subject failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

func (s *subjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getSubject(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		s.logger.Error("delete subject failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *subjectService) getSubject(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("get subject failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func toSubjectResponse(sub *model.Subject) *dto.SubjectResponse {
	ids := make([]int64, 0, len(sub.Teachers))
	for _, t := range sub.Teachers {
		ids = append(ids, t.ID)
	}
	return &dto.SubjectResponse{ID: sub.ID, Name: sub.Name, TeacherIDs: ids}
}
