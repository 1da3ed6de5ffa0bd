package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/roob1e/tabularium/internal/service"
	"github.com/roob1e/tabularium/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudents roster, one sheet per group
// GET /api/v1/export/students
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportStudents(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendWorkbook(c, buf, filename)
}

// ExportPromotion report of the latest successful promotion
// GET /api/v1/export/promotion
func (h *ExportHandler) ExportPromotion(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportPromotion(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	sendWorkbook(c, buf, filename)
}

func sendWorkbook(c *gin.Context, buf *bytes.Buffer, filename string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoStudents):
		response.NotFound(c, 18001, "no students to export")
	case errors.Is(err, service.ErrExportNoReport):
		response.NotFound(c, 18002, "no successful promotion run to export")
	default:
		response.InternalError(c)
	}
}
