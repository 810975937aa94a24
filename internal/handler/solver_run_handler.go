package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/response"
)

type solverRunner interface {
	Submit(ctx context.Context, req dto.SubmitSolverRunRequest, requestedBy string) (*models.SolverRun, error)
	Get(ctx context.Context, id string) (*models.SolverRun, error)
}

// SolverRunHandler exposes asynchronous solver runs.
type SolverRunHandler struct {
	service solverRunner
}

// NewSolverRunHandler constructs the handler.
func NewSolverRunHandler(svc *service.SolverRunService) *SolverRunHandler {
	return &SolverRunHandler{service: svc}
}

// Submit godoc
// @Summary Queue a solver run
// @Tags Solver Runs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.SubmitSolverRunRequest true "Run payload"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /api/solver-runs [post]
func (h *SolverRunHandler) Submit(c *gin.Context) {
	var req dto.SubmitSolverRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid solver run payload"))
		return
	}
	run, err := h.service.Submit(c.Request.Context(), req, operatorSubject(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+run.ID)
	response.Accepted(c, run)
}

// Get godoc
// @Summary Solver run status
// @Tags Solver Runs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/solver-runs/{id} [get]
func (h *SolverRunHandler) Get(c *gin.Context) {
	run, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}
