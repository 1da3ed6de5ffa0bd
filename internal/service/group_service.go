package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/model"
	"github.com/roob1e/tabularium/internal/repository"
	pkgerrors "github.com/roob1e/tabularium/pkg/errors"
)

// ── group errors ──

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupNameExists  = errors.New("group name already exists")
	ErrGroupHasStudents = errors.New("group still has students")
)

// GroupService group use cases. Amount is maintained by the student and promotion flows.
type GroupService interface {
	List(ctx context.Context) ([]dto.GroupResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.GroupResponse, error)
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	Delete(ctx context.Context, id int64) error
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService creates a GroupService
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("list groups failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *toGroupResponse(&groups[i]))
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *groupService) GetByID(ctx context.Context, id int64) (*dto.GroupResponse, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	return toGroupResponse(group), nil
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if err := s.ensureNameFree(ctx, req.Name); err != nil {
		return nil, err
	}

	group := &model.Group{Name: req.Name, GPA: req.GPA}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("create group failed", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return toGroupResponse(group), nil
}

// ────────────────────── Update ──────────────────────

func (s *groupService) Update(ctx context.Context, id int64, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.getGroup(ctx, id)
	if err != nil {
		return nil, err
	}
	if group.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil && *req.Name != group.Name {
		if err := s.ensureNameFree(ctx, *req.Name); err != nil {
			return nil, err
		}
		group.Name = *req.Name
	}
	if req.GPA != nil {
		group.GPA = req.GPA
	}

	if err := s.repo.Group.Update(ctx, group); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("update group failed", zap.Int64("id", id), zap.Error(err))
		}
		return nil, err
	}
	return toGroupResponse(group), nil
}

// ────────────────────── Delete ──────────────────────

func (s *groupService) Delete(ctx context.Context, id int64) error {
	if _, err := s.getGroup(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.Group.CountStudents(ctx, id)
	if err != nil {
		s.logger.Error("count group students failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrGroupHasStudents
	}

	if err := s.repo.Group.Delete(ctx, id); err != nil {
		s.logger.Error("delete group failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *groupService) getGroup(ctx context.Context, id int64) (*model.Group, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("get group failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return group, nil
}

func (s *groupService) ensureNameFree(ctx context.Context, name string) error {
	existing, err := s.repo.Group.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("get group by name failed", zap.String("name", name), zap.Error(err))
		return err
	}
	if existing != nil {
		return ErrGroupNameExists
	}
	return nil
}

func toGroupResponse(g *model.Group) *dto.GroupResponse {
	return &dto.GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Amount:    g.Amount,
		GPA:       g.GPA,
		Version:   g.Version,
		CreatedAt: dto.FormatTime(g.CreatedAt),
		UpdatedAt: dto.FormatTime(g.UpdatedAt),
	}
}
