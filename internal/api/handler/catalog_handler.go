package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/roob1e/tabularium/internal/dto"
	"github.com/roob1e/tabularium/internal/service"
	"github.com/roob1e/tabularium/pkg/response"
)

// ═══════════════════════════════════════════════════════════
// Subjects
// ═══════════════════════════════════════════════════════════

// SubjectHandler subject endpoints
type SubjectHandler struct {
	subjectSvc service.SubjectService
}

// NewSubjectHandler creates a SubjectHandler
func NewSubjectHandler(subjectSvc service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjectSvc: subjectSvc}
}

// ListSubjects GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.subjectSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": subjects})
}

// GetSubject GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	subject, err := h.subjectSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, subject)
}

// CreateSubject POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	subject, err := h.subjectSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.Created(c, subject)
}

// UpdateSubject PUT /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	subject, err := h.subjectSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, subject)
}

// DeleteSubject DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.subjectSvc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ═══════════════════════════════════════════════════════════
// Teachers
// ═══════════════════════════════════════════════════════════

// TeacherHandler teacher endpoints
type TeacherHandler struct {
	teacherSvc service.TeacherService
}

// NewTeacherHandler creates a TeacherHandler
func NewTeacherHandler(teacherSvc service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherSvc: teacherSvc}
}

// ListTeachers GET /api/v1/teachers
func (h *TeacherHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.teacherSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": teachers})
}

// GetTeacher GET /api/v1/teachers/:id
func (h *TeacherHandler) GetTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	teacher, err := h.teacherSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, teacher)
}

// CreateTeacher POST /api/v1/teachers
func (h *TeacherHandler) CreateTeacher(c *gin.Context) {
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	teacher, err := h.teacherSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher PUT /api/v1/teachers/:id replaces fields and the subject set
func (h *TeacherHandler) UpdateTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.TeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	teacher, err := h.teacherSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, teacher)
}

// DeleteTeacher DELETE /api/v1/teachers/:id
func (h *TeacherHandler) DeleteTeacher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.teacherSvc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// ═══════════════════════════════════════════════════════════
// Grades
// ═══════════════════════════════════════════════════════════

// GradeHandler grade endpoints
type GradeHandler struct {
	gradeSvc service.GradeService
}

// NewGradeHandler creates a GradeHandler
func NewGradeHandler(gradeSvc service.GradeService) *GradeHandler {
	return &GradeHandler{gradeSvc: gradeSvc}
}

// ListGrades GET /api/v1/grades
func (h *GradeHandler) ListGrades(c *gin.Context) {
	grades, err := h.gradeSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": grades})
}

// GetGrade GET /api/v1/grades/:id
func (h *GradeHandler) GetGrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	grade, err := h.gradeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, grade)
}

// CreateGrade POST /api/v1/grades
func (h *GradeHandler) CreateGrade(c *gin.Context) {
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	grade, err := h.gradeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.Created(c, grade)
}

// UpdateGrade PUT /api/v1/grades/:id
func (h *GradeHandler) UpdateGrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}
	grade, err := h.gradeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, grade)
}

// DeleteGrade DELETE /api/v1/grades/:id
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.gradeSvc.Delete(c.Request.Context(), id); err != nil {
		handleCatalogError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleCatalogError subjects, teachers and grades reference each other, so they share one mapping
func handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSubjectNotFound):
		response.NotFound(c, 13001, "subject not found")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14001, "teacher not found")
	case errors.Is(err, service.ErrGradeNotFound):
		response.NotFound(c, 15001, "grade not found")
	case errors.Is(err, service.ErrGradeOutOfRange):
		response.BadRequest(c, 15002, "grade must be between 0 and 10")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 11001, "student not found")
	default:
		response.InternalError(c)
	}
}
