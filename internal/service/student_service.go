package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/repository"
)

// ── student errors ──

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrInvalidBirthdate = errors.New("birthdate must be YYYY-MM-DD and not in the future")
)

const birthdateLayout = "2006-01-02"

// StudentService student use cases.
// Every write recounts the amount of the groups it touched in the same transaction.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	Create(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error)
	Update(ctx context.Context, id int64, req *dto.StudentRequest) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewStudentService creates a StudentService
func NewStudentService(repo *repository.Repository, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *toStudentResponse(&students[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.getStudent(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	return toStudentResponse(student), nil
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	birthdate, err := s.parseBirthdate(req.Birthdate)
	if err != nil {
		return nil, err
	}

	student := &model.Student{
		Fullname:  req.Fullname,
		Phone:     req.Phone,
		Birthdate: birthdate,
		GroupID:   req.GroupID,
	}
	student.RecalcAge(s.now())

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		group, err := s.getGroup(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}
		if err := tx.Student.Create(ctx, student); err != nil {
			return err
		}
		student.Group = group
		return tx.Group.RecountAmount(ctx, []int64{group.ID})
	})
	if err != nil {
		if !errors.Is(err, ErrGroupNotFound) {
			s.logger.Error("create student failed", zap.Error(err))
		}
		return nil, err
	}

	return toStudentResponse(student), nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id int64, req *dto.StudentRequest) (*dto.StudentResponse, error) {
	birthdate, err := s.parseBirthdate(req.Birthdate)
	if err != nil {
		return nil, err
	}

	var student *model.Student
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err = s.getStudent(ctx, tx, id)
		if err != nil {
			return err
		}
		group, err := s.getGroup(ctx, tx, req.GroupID)
		if err != nil {
			return err
		}

		oldGroupID := student.GroupID
		student.Fullname = req.Fullname
		student.Phone = req.Phone
		student.Birthdate = birthdate
		student.GroupID = group.ID
		student.Group = group
		student.RecalcAge(s.now())

		if err := tx.Student.Update(ctx, student); err != nil {
			return err
		}

		touched := []int64{group.ID}
		if oldGroupID != group.ID {
			touched = append(touched, oldGroupID)
		}
		return tx.Group.RecountAmount(ctx, touched)
	})
	if err != nil {
		if !errors.Is(err, ErrStudentNotFound) && !errors.Is(err, ErrGroupNotFound) {
			s.logger.Error("update student failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}

	return toStudentResponse(student), nil
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		student, err := s.getStudent(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Student.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Group.RecountAmount(ctx, []int64{student.GroupID})
	})
	if err != nil && !errors.Is(err, ErrStudentNotFound) {
		s.logger.Error("delete student failed", zap.Int64("id", id), zap.Error(err))
	}
	return err
}

// ── helpers ──

func (s *studentService) getStudent(ctx context.Context, repo *repository.Repository, id int64) (*model.Student, error) {
	student, err := repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *studentService) getGroup(ctx context.Context, repo *repository.Repository, id int64) (*model.Group, error) {
	group, err := repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (s *studentService) parseBirthdate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(birthdateLayout, raw)
	if err != nil || t.After(s.now()) {
		return nil, ErrInvalidBirthdate
	}
	return &t, nil
}

func toStudentResponse(st *model.Student) *dto.StudentResponse {
	resp := &dto.StudentResponse{
		ID:       st.ID,
		Fullname: st.Fullname,
		Age:      st.Age,
		Phone:    st.Phone,
		GroupID:  st.GroupID,
	}
	if st.Birthdate != nil {
		resp.Birthdate = st.Birthdate.Format(birthdateLayout)
	}
	if st.Group != nil {
		resp.GroupName = st.Group.Name
	}
	return resp
}
