package handler

import "github.com/roob1e/tabularium/internal/service"

// Handler aggregates every HTTP handler
type Handler struct {
	Auth      *AuthHandler
	Student   *StudentHandler
	Group     *GroupHandler
	Subject   *SubjectHandler
	Teacher   *TeacherHandler
	Grade     *GradeHandler
	Scheduler *SchedulerHandler
	Export    *ExportHandler
}

// NewHandler builds the aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth),
		Student:   NewStudentHandler(svc.Student),
		Group:     NewGroupHandler(svc.Group),
		Subject:   NewSubjectHandler(svc.Subject),
		Teacher:   NewTeacherHandler(svc.Teacher),
		Grade:     NewGradeHandler(svc.Grade),
		Scheduler: NewSchedulerHandler(svc.Promotion),
		Export:    NewExportHandler(svc.Export),
	}
}
