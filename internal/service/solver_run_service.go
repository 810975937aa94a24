package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/jobs"
)

const solverRunJobType = "solver_run"

type timetableRunner interface {
	RunSolver(ctx context.Context) (*dto.ScheduleResponse, error)
	Reschedule(ctx context.Context, req dto.RescheduleRequest) (*dto.ScheduleResponse, error)
}

// SolverRunConfig sizes the asynchronous run pool.
type SolverRunConfig struct {
	Workers   int
	QueueSize int
	TTL       time.Duration
}

type solverRunJob struct {
	RunID      string
	Mode       models.SolverRunMode
	Reschedule *dto.RescheduleRequest
}

// SolverRunService executes solver invocations off the request goroutine and
// keeps their outcome for a limited time.
type SolverRunService struct {
	runner    timetableRunner
	queue     *jobs.Queue
	store     *runStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSolverRunService builds the service and its worker queue. Start must be
// called before Submit.
func NewSolverRunService(runner timetableRunner, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg SolverRunConfig) *SolverRunService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	s := &SolverRunService{
		runner:    runner,
		store:     newRunStore(cfg.TTL),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
	s.queue = jobs.NewQueue("solver-runs", s.handle, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		Logger:     logger,
	})
	return s
}

// Start launches the workers.
func (s *SolverRunService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop cancels running solves and waits for workers to exit.
func (s *SolverRunService) Stop() {
	s.queue.Stop()
}

// Submit validates and enqueues a run.
func (s *SolverRunService) Submit(ctx context.Context, req dto.SubmitSolverRunRequest, requestedBy string) (*models.SolverRun, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solver run payload")
	}
	mode := models.SolverRunMode(req.Mode)
	if mode == models.SolverRunModeReschedule && len(req.Reschedule.Locks()) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one constraint is required")
	}

	run := models.SolverRun{
		ID:          uuid.NewString(),
		Mode:        mode,
		Status:      models.SolverRunQueued,
		RequestedBy: requestedBy,
		CreatedAt:   s.now(),
	}
	s.store.Save(run)

	job := jobs.Job{
		ID:      run.ID,
		Type:    solverRunJobType,
		Payload: solverRunJob{RunID: run.ID, Mode: mode, Reschedule: req.Reschedule},
	}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.store.Delete(run.ID)
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.ErrQueueFull
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue solver run")
	}
	s.metrics.SetSolverQueuePending(s.queue.Pending())

	s.logger.Info("solver run queued", zap.String("run_id", run.ID), zap.String("mode", string(mode)), zap.String("requested_by", requestedBy))
	return &run, nil
}

// Get returns the state of a run.
func (s *SolverRunService) Get(ctx context.Context, id string) (*models.SolverRun, error) {
	run, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "solver run not found")
	}
	return &run, nil
}

func (s *SolverRunService) handle(ctx context.Context, job jobs.Job) (err error) {
	payload, ok := job.Payload.(solverRunJob)
	if !ok {
		return errors.New("unexpected solver run payload")
	}
	s.metrics.SetSolverQueuePending(s.queue.Pending())

	started := s.now()
	s.store.Update(payload.RunID, func(run *models.SolverRun) {
		run.Status = models.SolverRunRunning
		run.StartedAt = &started
	})
	defer func() {
		if r := recover(); r != nil {
			finished := s.now()
			s.store.Update(payload.RunID, func(run *models.SolverRun) {
				run.Status = models.SolverRunFailed
				run.Error = appErrors.ErrInternal.Message
				run.FinishedAt = &finished
			})
			err = fmt.Errorf("solver run %s panicked: %v", payload.RunID, r)
		}
	}()

	var (
		resp   *dto.ScheduleResponse
		runErr error
	)
	switch payload.Mode {
	case models.SolverRunModeReschedule:
		resp, runErr = s.runner.Reschedule(ctx, *payload.Reschedule)
	default:
		resp, runErr = s.runner.RunSolver(ctx)
	}

	finished := s.now()
	s.store.Update(payload.RunID, func(run *models.SolverRun) {
		run.FinishedAt = &finished
		if runErr != nil {
			run.Status = runStatusFromError(runErr)
			run.Error = appErrors.FromError(runErr).Message
			return
		}
		run.Status = models.SolverRunSucceeded
		run.Schedule = resp.Schedule
		run.Changed = resp.Changed
		run.Kept = resp.Kept
	})

	fields := []zap.Field{zap.String("run_id", payload.RunID), zap.Duration("elapsed", finished.Sub(started))}
	if runErr != nil {
		s.logger.Warn("solver run finished without schedule", append(fields, zap.Error(runErr))...)
	} else {
		s.logger.Info("solver run succeeded", append(fields, zap.Int("entries", len(resp.Schedule)))...)
	}
	return nil
}

func runStatusFromError(err error) models.SolverRunStatus {
	switch appErrors.FromError(err).Code {
	case appErrors.ErrNoSolution.Code:
		return models.SolverRunNoSolution
	case appErrors.ErrSolverTimeout.Code:
		return models.SolverRunTimeout
	default:
		return models.SolverRunFailed
	}
}

// runStore keeps runs in memory. Finished runs expire ttl after completion;
// unfinished runs never expire.
type runStore struct {
	ttl   time.Duration
	mu    sync.Mutex
	items *cache.Cache
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		items: cache.New(cache.NoExpiration, ttl),
	}
}

func (s *runStore) Save(run models.SolverRun) {
	s.items.Set(run.ID, run, s.expiration(run))
}

// Update applies fn to a stored run. Expired or unknown runs are left alone.
func (s *runStore) Update(id string, fn func(*models.SolverRun)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.Get(id)
	if !ok {
		return
	}
	fn(&run)
	s.Save(run)
}

func (s *runStore) Get(id string) (models.SolverRun, bool) {
	v, ok := s.items.Get(id)
	if !ok {
		return models.SolverRun{}, false
	}
	run, ok := v.(models.SolverRun)
	return run, ok
}

func (s *runStore) Delete(id string) {
	s.items.Delete(id)
}

func (s *runStore) expiration(run models.SolverRun) time.Duration {
	if run.FinishedAt == nil {
		return cache.NoExpiration
	}
	return s.ttl
}
