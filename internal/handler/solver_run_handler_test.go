package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	internalmiddleware "github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type solverRunnerMock struct {
	req         dto.SubmitSolverRunRequest
	requestedBy string
	err         error
}

func (m *solverRunnerMock) Submit(ctx context.Context, req dto.SubmitSolverRunRequest, requestedBy string) (*models.SolverRun, error) {
	m.req = req
	m.requestedBy = requestedBy
	if m.err != nil {
		return nil, m.err
	}
	return &models.SolverRun{ID: "run-1", Mode: models.SolverRunMode(req.Mode), Status: models.SolverRunQueued, CreatedAt: time.Now()}, nil
}

func (m *solverRunnerMock) Get(ctx context.Context, id string) (*models.SolverRun, error) {
	if id != "run-1" {
		return nil, appErrors.ErrNotFound
	}
	return &models.SolverRun{ID: id, Status: models.SolverRunSucceeded}, nil
}

func TestSolverRunHandlerSubmit(t *testing.T) {
	mock := &solverRunnerMock{}
	handler := &SolverRunHandler{service: mock}
	c, w := newTestContext(http.MethodPost, "/api/solver-runs", []byte(`{"mode":"rebuild"}`))
	c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
		Role:             models.RoleScheduler,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "registrar"},
	})

	handler.Submit(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "registrar", mock.requestedBy)
	assert.Equal(t, "rebuild", mock.req.Mode)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "queued", data["status"])
	assert.Contains(t, w.Header().Get("Location"), "run-1")
}

func TestSolverRunHandlerSubmitQueueFull(t *testing.T) {
	handler := &SolverRunHandler{service: &solverRunnerMock{err: appErrors.ErrQueueFull}}
	c, w := newTestContext(http.MethodPost, "/api/solver-runs", []byte(`{"mode":"rebuild"}`))

	handler.Submit(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSolverRunHandlerGet(t *testing.T) {
	handler := &SolverRunHandler{service: &solverRunnerMock{}}

	c, w := newTestContext(http.MethodGet, "/api/solver-runs/run-1", nil)
	c.AddParam("id", "run-1")
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(http.MethodGet, "/api/solver-runs/missing", nil)
	c.AddParam("id", "missing")
	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
