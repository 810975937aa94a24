package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

const (
	cacheKeyCurrentTimetable = "timetable:current"
	cachePatternTimetable    = "timetable:*"
)

type solverDataLoader interface {
	LoadSnapshot(ctx context.Context) (*models.SolverSnapshot, error)
}

type timetableStore interface {
	ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rows []models.TimetableRow) error
	List(ctx context.Context) ([]models.TimetableRow, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type scheduleSolver interface {
	Solve(ctx context.Context, in scheduler.Input, opts scheduler.Options) (*scheduler.Result, error)
}

// TimetableConfig governs the timetable service.
type TimetableConfig struct {
	Verify   bool
	CacheTTL time.Duration
}

// TimetableService runs the solver against stored data and persists the
// resulting timetable.
type TimetableService struct {
	data      solverDataLoader
	store     timetableStore
	tx        txProvider
	solver    scheduleSolver
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	data solverDataLoader,
	store timetableStore,
	tx txProvider,
	solver scheduleSolver,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableConfig,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		data:      data,
		store:     store,
		tx:        tx,
		solver:    solver,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// RunSolver rebuilds the whole timetable with no prior schedule and no locks
// and stores it as the current timetable.
func (s *TimetableService) RunSolver(ctx context.Context) (*dto.ScheduleResponse, error) {
	return s.execute(ctx, models.SolverRunModeRebuild, scheduler.Options{}, true)
}

// Reschedule re-solves around the requested locks while keeping as many
// courses of the previous schedule in place as possible.
func (s *TimetableService) Reschedule(ctx context.Context, req dto.RescheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule payload")
	}
	locks := req.Locks()
	if len(locks) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one constraint is required")
	}

	opts := scheduler.Options{Locks: locks, Previous: req.PreviousSchedule}
	resp, err := s.execute(ctx, models.SolverRunModeReschedule, opts, req.Persist)
	if err != nil {
		return nil, err
	}
	resp.Changed = ChangedCourses(req.PreviousSchedule, resp.Schedule)
	return resp, nil
}

// Current returns the stored timetable resolved into full entries.
func (s *TimetableService) Current(ctx context.Context) ([]scheduler.Entry, bool, error) {
	var cached []scheduler.Entry
	if s.cache.Get(ctx, cacheKeyCurrentTimetable, &cached) {
		return cached, true, nil
	}

	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, false, err
	}
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	in, index := BuildSolverInput(snapshot)
	entries, skipped := EntriesFromRows(in, index, rows)
	if skipped > 0 {
		s.logger.Warn("stored timetable references missing records", zap.Int("skipped_rows", skipped))
	}

	s.cache.Set(ctx, cacheKeyCurrentTimetable, entries, s.cfg.CacheTTL)
	return entries, false, nil
}

func (s *TimetableService) execute(ctx context.Context, mode models.SolverRunMode, opts scheduler.Options, persist bool) (*dto.ScheduleResponse, error) {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	in, index := BuildSolverInput(snapshot)

	result, err := s.solver.Solve(ctx, in, opts)
	if err != nil {
		s.metrics.ObserveSolve(string(mode), "error", 0, 0)
		return nil, mapSolveError(err)
	}
	s.metrics.ObserveSolve(string(mode), result.Status.String(), result.Variables, result.Elapsed)

	switch {
	case result.Status == scheduler.StatusInfeasible:
		return nil, appErrors.Clone(appErrors.ErrNoSolution, noSolutionMessage(result.Diagnostics))
	case !result.Status.Solved():
		return nil, appErrors.ErrSolverTimeout
	}

	if s.cfg.Verify {
		if violations := scheduler.Verify(in, opts.Locks, result.Schedule); len(violations) > 0 {
			s.logger.Error("solver returned an invalid schedule",
				zap.String("mode", string(mode)),
				zap.Int("violations", len(violations)),
				zap.String("first", violations[0].Message),
			)
			return nil, appErrors.Clone(appErrors.ErrInternal, "solver returned an invalid schedule")
		}
	}

	if persist {
		if err := s.persist(ctx, index, result.Schedule); err != nil {
			return nil, err
		}
	}

	return &dto.ScheduleResponse{
		Status:      result.Status.String(),
		Schedule:    result.Schedule,
		Kept:        result.Kept,
		Persisted:   persist,
		Diagnostics: result.Diagnostics,
		ElapsedMS:   result.Elapsed.Milliseconds(),
	}, nil
}

func (s *TimetableService) loadSnapshot(ctx context.Context) (*models.SolverSnapshot, error) {
	start := time.Now()
	snapshot, err := s.data.LoadSnapshot(ctx)
	s.metrics.ObserveDBQuery("solver_snapshot", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solver data")
	}
	return snapshot, nil
}

func (s *TimetableService) persist(ctx context.Context, index *scheduler.TimeslotIndex, entries []scheduler.Entry) (err error) {
	rows, err := TimetableRows(index, entries)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to map schedule onto timeslots")
	}
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.store.ReplaceAll(ctx, tx, rows); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store timetable")
		return err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable")
		return err
	}

	s.cache.Invalidate(ctx, cachePatternTimetable)
	s.logger.Info("timetable stored", zap.Int("entries", len(rows)))
	return nil
}

func mapSolveError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrModelTooLarge):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "timetable model exceeds the configured variable limit")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return appErrors.Wrap(err, appErrors.ErrSolverTimeout.Code, appErrors.ErrSolverTimeout.Status, appErrors.ErrSolverTimeout.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "solver failed")
	}
}

func noSolutionMessage(diag scheduler.Diagnostics) string {
	if len(diag.UncoveredCourses) == 0 {
		return appErrors.ErrNoSolution.Message
	}
	ids := make([]string, len(diag.UncoveredCourses))
	for i, id := range diag.UncoveredCourses {
		ids[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("no eligible faculty, room and timeslot for courses %s", strings.Join(ids, ", "))
}
