package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Status is the terminal verdict of a solve.
type Status int

const (
	// StatusUnknown means the search stopped before reaching a verdict.
	StatusUnknown Status = iota
	// StatusOptimal means the objective is proven best.
	StatusOptimal
	// StatusFeasible means a valid schedule was found without an optimality proof.
	StatusFeasible
	// StatusInfeasible means no schedule satisfies the hard constraints.
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Solved reports whether the status carries a schedule.
func (s Status) Solved() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// ErrModelTooLarge is returned when the model exceeds Config.MaxVariables.
var ErrModelTooLarge = errors.New("scheduler: model exceeds variable limit")

// Result is the outcome of one solve. Schedule is nil unless Status.Solved().
type Result struct {
	Status      Status           `json:"-"`
	Schedule    []Entry          `json:"schedule"`
	Variables   int              `json:"variables"`
	Rewards     int              `json:"rewards"`
	Kept        int              `json:"kept"`
	Counts      ConstraintCounts `json:"constraints"`
	Diagnostics Diagnostics      `json:"diagnostics"`
	Elapsed     time.Duration    `json:"elapsed"`
}

// Config bounds a solve.
type Config struct {
	Timeout      time.Duration
	MaxVariables int
}

// Solver builds a fresh model per call and hands it to an Engine. It keeps no
// state between calls and is safe for concurrent use.
type Solver struct {
	engine Engine
	logger *zap.Logger
	cfg    Config
}

// New constructs a Solver. A nil engine selects the SAT engine.
func New(engine Engine, logger *zap.Logger, cfg Config) *Solver {
	if engine == nil {
		engine = NewSATEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{engine: engine, logger: logger, cfg: cfg}
}

// Solve builds and searches the model for in. Infeasible and unknown outcomes
// are reported through Result.Status, not as errors.
func (s *Solver) Solve(ctx context.Context, in Input, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	model := BuildModel(in, opts)
	diag := model.Diagnostics()
	s.logger.Debug("scheduler model built",
		zap.Int("courses", len(model.Eligibility().Courses())),
		zap.Int("timeslots", len(model.Eligibility().Timeslots())),
		zap.Int("variables", model.NumVariables()),
		zap.Int("constraints", len(model.Constraints())),
		zap.Int("locks", len(opts.Locks)),
		zap.Bool("objective", model.HasObjective()),
	)
	if s.cfg.MaxVariables > 0 && model.NumVariables() > s.cfg.MaxVariables {
		return nil, fmt.Errorf("%w: %d > %d", ErrModelTooLarge, model.NumVariables(), s.cfg.MaxVariables)
	}

	result := &Result{
		Variables:   model.NumVariables(),
		Rewards:     len(model.Rewards()),
		Counts:      model.Counts(),
		Diagnostics: diag,
	}

	switch {
	case len(model.Eligibility().Courses()) == 0:
		result.Status = StatusFeasible
		result.Schedule = []Entry{}
	case len(diag.UncoveredCourses) > 0:
		result.Status = StatusInfeasible
	default:
		searchCtx := ctx
		if s.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			searchCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
			defer cancel()
		}
		status, assignment, err := s.engine.Search(searchCtx, model)
		if err != nil {
			return nil, fmt.Errorf("search scheduling model: %w", err)
		}
		result.Status = status
		if status.Solved() {
			result.Schedule = decode(model, assignment)
			result.Kept = keptRewards(model, assignment)
		}
	}
	result.Elapsed = time.Since(start)

	fields := []zap.Field{
		zap.String("status", result.Status.String()),
		zap.Duration("elapsed", result.Elapsed),
		zap.Int("entries", len(result.Schedule)),
	}
	if result.Rewards > 0 {
		fields = append(fields, zap.Int("rewards", result.Rewards), zap.Int("kept", result.Kept))
	}
	if len(diag.UncoveredCourses) > 0 {
		fields = append(fields, zap.Int64s("uncovered_courses", diag.UncoveredCourses))
	}
	if diag.IgnoredLocks > 0 || diag.StalePriorEntries > 0 || diag.SkippedCourses > 0 || diag.SkippedRooms > 0 || diag.SkippedFaculty > 0 {
		fields = append(fields,
			zap.Int("ignored_locks", diag.IgnoredLocks),
			zap.Int("stale_prior_entries", diag.StalePriorEntries),
			zap.Int("skipped_courses", diag.SkippedCourses),
			zap.Int("skipped_rooms", diag.SkippedRooms),
			zap.Int("skipped_faculty", diag.SkippedFaculty),
		)
	}
	s.logger.Info("scheduler solve finished", fields...)
	return result, nil
}

// decode turns the true assignment variables into entries ordered by day,
// slot and course id.
func decode(m *Model, assignment []bool) []Entry {
	elig := m.Eligibility()
	courses := lo.KeyBy(elig.Courses(), func(c Course) int64 { return c.ID })
	faculty := lo.KeyBy(elig.Faculty(), func(f Faculty) int64 { return f.ID })
	rooms := lo.KeyBy(elig.Rooms(), func(r Room) int64 { return r.ID })

	entries := make([]Entry, 0, len(courses))
	for _, v := range elig.Variables() {
		if !isTrue(assignment, v.Index) {
			continue
		}
		entries = append(entries, Entry{
			Day:     v.At.Day,
			Slot:    v.At.Slot,
			Course:  courses[v.CourseID],
			Faculty: faculty[v.FacultyID],
			Room:    rooms[v.RoomID],
		})
	}
	SortEntries(entries)
	return entries
}

func keptRewards(m *Model, assignment []bool) int {
	return lo.CountBy(m.Rewards(), func(r Reward) bool {
		return isTrue(assignment, r.Variable.Index)
	})
}

func isTrue(assignment []bool, index int) bool {
	return index >= 1 && index <= len(assignment) && assignment[index-1]
}

// SortEntries orders entries by day, slot and course id.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		return a.Course.ID < b.Course.ID
	})
}
