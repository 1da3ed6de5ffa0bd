package service

import (
	"go.uber.org/zap"

	"github.com/roob1e/tabularium/config"
	"github.com/roob1e/tabularium/internal/promotion"
	"github.com/roob1e/tabularium/internal/repository"
	"github.com/roob1e/tabularium/pkg/jwt"
)

// Service aggregates every service
type Service struct {
	Auth      AuthService
	Student   StudentService
	Group     GroupService
	Subject   SubjectService
	Teacher   TeacherService
	Grade     GradeService
	Promotion PromotionService
	Export    ExportService
}

// PromotionDeps the scheduler, the guarded runner shared with it and the run history it reports to
type PromotionDeps struct {
	Scheduler Scheduler
	Runner    promotion.Runner
	History   *RunHistory
}

// NewService builds the aggregate. blacklist may be nil.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	promo PromotionDeps,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, blacklist, logger),
		Student:   NewStudentService(repo, logger),
		Group:     NewGroupService(repo, logger),
		Subject:   NewSubjectService(repo, logger),
		Teacher:   NewTeacherService(repo, logger),
		Grade:     NewGradeService(repo, logger),
		Promotion: NewPromotionService(promo.Scheduler, promo.Runner, promo.History, logger),
		Export:    NewExportService(repo, promo.History, logger),
	}
}
