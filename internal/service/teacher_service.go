package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/repository"
)

// ErrTeacherNotFound no teacher with that id
var ErrTeacherNotFound = errors.New("teacher not found")

// TeacherService teacher use cases. The subject set is replaced as a whole on update.
type TeacherService interface {
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TeacherResponse, error)
	Create(ctx context.Context, req *dto.TeacherRequest) (*dto.TeacherResponse, error)
	Update(ctx context.Context, id int64, req *dto.TeacherRequest) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id int64) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService creates a TeacherService
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("list teachers failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

func (s *teacherService) GetByID(ctx context.Context, id int64) (*dto.TeacherResponse, error) {
	teacher, err := s.getTeacher(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Create(ctx context.Context, req *dto.TeacherRequest) (*dto.TeacherResponse, error) {
	subjects, err := s.resolveSubjects(ctx, req.SubjectIDs)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{Fullname: req.Fullname, Phone: req.Phone, Subjects: subjects}
	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("create teacher failed", zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Update(ctx context.Context, id int64, req *dto.TeacherRequest) (*dto.TeacherResponse, error) {
	teacher, err := s.getTeacher(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.resolveSubjects(ctx, req.SubjectIDs)
	if err != nil {
		return nil, err
	}

	teacher.Fullname = req.Fullname
	teacher.Phone = req.Phone
	teacher.Subjects = subjects

	if err := s.repo.Teacher.Update(ctx, teacher); err != nil {
		s.logger.Error("update teacher failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

func (s *teacherService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getTeacher(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		s.logger.Error("delete teacher failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *teacherService) getTeacher(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("get teacher failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

// resolveSubjects every id must exist; duplicates collapse
func (s *teacherService) resolveSubjects(ctx context.Context, ids []int64) ([]model.Subject, error) {
	unique := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(unique) == 0 {
		return []model.Subject{}, nil
	}

	want := make([]int64, 0, len(unique))
	for id := range unique {
		want = append(want, id)
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	subjects, err := s.repo.Subject.ListByIDs(ctx, want)
	if err != nil {
		s.logger.Error("load subjects failed", zap.Error(err))
		return nil, err
	}
	if len(subjects) != len(want) {
		return nil, ErrSubjectNotFound
	}
	return subjects, nil
}

func toTeacherResponse(t *model.Teacher) *dto.TeacherResponse {
	ids := make([]int64, 0, len(t.Subjects))
	for _, sub := range t.Subjects {
		ids = append(ids, sub.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &dto.TeacherResponse{ID: t.ID, Fullname: t.Fullname, Phone: t.Phone, SubjectIDs: ids}
}
