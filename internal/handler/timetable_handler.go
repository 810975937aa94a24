package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type timetableSolver interface {
	RunSolver(ctx context.Context) (*dto.ScheduleResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleRequest) (*dto.ScheduleResponse, error)
	Current(ctx context.Context) ([]scheduler.Entry, bool, error)
}

type timetableExporter interface {
	Export(ctx context.Context, query dto.ExportQuery) (*dto.ExportResult, error)
}

// TimetableHandler exposes solver and timetable endpoints.
type TimetableHandler struct {
	service  timetableSolver
	exporter timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, exporter *service.ExportService) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// RunSolver godoc
// @Summary Rebuild the timetable
// @Description Solves the full timetable from stored courses, faculty, rooms and elections and replaces the current timetable.
// @Tags Timetable
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /api/run-solver [post]
func (h *TimetableHandler) RunSolver(c *gin.Context) {
	result, err := h.service.RunSolver(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reschedule godoc
// @Summary Reschedule around faculty locks
// @Description Re-solves with temporary faculty locks, keeping as many courses of the previous schedule in place as possible.
// @Tags Timetable
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.RescheduleRequest true "Reschedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /api/reschedule [post]
func (h *TimetableHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reschedule payload"))
		return
	}
	result, err := h.service.Reschedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Current godoc
// @Summary Current timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/timetable [get]
func (h *TimetableHandler) Current(c *gin.Context) {
	entries, cached, err := h.service.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	internalmiddleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, entries, nil, internalmiddleware.ExtractMeta(c))
}

// Export godoc
// @Summary Export the current timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /api/timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.FileName, result.ContentType, result.Content)
}
