package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roob1e/tabularium/internal/service"
	"github.com/roob1e/tabularium/pkg/response"
)

// maxDateBody a date is five characters; quotes and whitespace fit easily
const maxDateBody = 64

// SchedulerHandler annual promotion schedule endpoints
type SchedulerHandler struct {
	promoSvc service.PromotionService
}

// NewSchedulerHandler creates a SchedulerHandler
func NewSchedulerHandler(promoSvc service.PromotionService) *SchedulerHandler {
	return &SchedulerHandler{promoSvc: promoSvc}
}

// SetDate replaces the promotion date.
// POST /api/v1/scheduler/date
// The body is the raw date, "30.07" or 30.07; quotes are optional.
func (h *SchedulerHandler) SetDate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || len(raw) > maxDateBody {
		h.handleSchedulerError(c, service.ErrInvalidPromotionDate)
		return
	}

	result, err := h.promoSvc.SetSchedule(string(raw))
	if err != nil {
		h.handleSchedulerError(c, err)
		return
	}

	response.OK(c, result)
}

// GetCron the installed trigger
// GET /api/v1/scheduler/cron
func (h *SchedulerHandler) GetCron(c *gin.Context) {
	response.OK(c, h.promoSvc.GetSchedule())
}

// RunNow promotes immediately and returns the report
// POST /api/v1/scheduler/run
func (h *SchedulerHandler) RunNow(c *gin.Context) {
	report, err := h.promoSvc.RunNow(c.Request.Context())
	if err != nil {
		h.handleSchedulerError(c, err)
		return
	}

	response.OK(c, report)
}

// LastRun outcome of the latest run
// GET /api/v1/scheduler/last-run
func (h *SchedulerHandler) LastRun(c *gin.Context) {
	result, err := h.promoSvc.LastRun()
	if err != nil {
		h.handleSchedulerError(c, err)
		return
	}

	response.OK(c, result)
}

// Calendar iCalendar feed of the promotion date
// GET /api/v1/scheduler/calendar.ics
func (h *SchedulerHandler) Calendar(c *gin.Context) {
	body, err := h.promoSvc.Calendar()
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `inline; filename="promotion.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *SchedulerHandler) handleSchedulerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPromotionDate):
		response.BadRequest(c, 17001, service.ErrInvalidPromotionDate.Error())
	case errors.Is(err, service.ErrNoPromotionRun):
		response.NotFound(c, 17002, "promotion has not run yet")
	case errors.Is(err, service.ErrPromotionRunning):
		response.Conflict(c, 17003, "a promotion run is already in progress")
	default:
		response.ErrorWithDetails(c, http.StatusInternalServerError, 17004, "promotion failed, nothing was changed", err.Error())
	}
}
