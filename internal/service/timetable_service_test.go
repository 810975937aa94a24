package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func TestTimetableServiceRunSolverPersists(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectCommit()
	store := &timetableStoreStub{}
	svc := newTimetableFixture(t, timetableFixtureConfig{tx: tx, store: store})

	resp, err := svc.RunSolver(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "feasible", resp.Status)
	assert.True(t, resp.Persisted)
	require.Len(t, resp.Schedule, 2)
	require.Len(t, store.replaced, 2)
	for _, row := range store.replaced {
		assert.Contains(t, []int64{5, 6}, row.TimeslotID)
	}
	assert.NotEqual(t, store.replaced[0].TimeslotID, store.replaced[1].TimeslotID, "shared student forces distinct slots")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceRunSolverRollsBackOnStoreFailure(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	mock.ExpectBegin()
	mock.ExpectRollback()
	store := &timetableStoreStub{replaceErr: errors.New("disk full")}
	svc := newTimetableFixture(t, timetableFixtureConfig{tx: tx, store: store})

	_, err := svc.RunSolver(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableServiceRunSolverNoSolution(t *testing.T) {
	snapshot := timetableSnapshot()
	snapshot.Rooms[0].Capacity = 5
	snapshot.Rooms[1].Capacity = 5
	store := &timetableStoreStub{}
	svc := newTimetableFixture(t, timetableFixtureConfig{snapshot: snapshot, store: store})

	_, err := svc.RunSolver(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoSolution.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "1, 2")
	assert.Nil(t, store.replaced)
}

func TestTimetableServiceSolverErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{name: "too large", err: scheduler.ErrModelTooLarge, code: appErrors.ErrValidation.Code},
		{name: "deadline", err: context.DeadlineExceeded, code: appErrors.ErrSolverTimeout.Code},
		{name: "other", err: errors.New("boom"), code: appErrors.ErrInternal.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTimetableFixture(t, timetableFixtureConfig{solver: &solverStub{err: tc.err}})
			_, err := svc.RunSolver(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestTimetableServiceUnknownStatusIsTimeout(t *testing.T) {
	svc := newTimetableFixture(t, timetableFixtureConfig{solver: &solverStub{result: &scheduler.Result{Status: scheduler.StatusUnknown}}})
	_, err := svc.RunSolver(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSolverTimeout.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceRejectsInvalidSchedule(t *testing.T) {
	snapshot := timetableSnapshot()
	in, _ := BuildSolverInput(snapshot)
	bogus := []scheduler.Entry{
		{Day: 0, Slot: 0, Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]},
		{Day: 0, Slot: 0, Course: in.Courses[1], Faculty: in.Faculty[0], Room: in.Rooms[0]},
	}
	svc := newTimetableFixture(t, timetableFixtureConfig{
		snapshot: snapshot,
		solver:   &solverStub{result: &scheduler.Result{Status: scheduler.StatusFeasible, Schedule: bogus}},
		verify:   true,
	})

	_, err := svc.RunSolver(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceRescheduleRequiresLock(t *testing.T) {
	svc := newTimetableFixture(t, timetableFixtureConfig{})
	in, _ := BuildSolverInput(timetableSnapshot())

	_, err := svc.Reschedule(context.Background(), dto.RescheduleRequest{
		PreviousSchedule: []scheduler.Entry{{Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Reschedule(context.Background(), dto.RescheduleRequest{
		Constraint: &dto.LockRequest{FacultyID: 1, Day: 0, Slot: 0},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceRescheduleMovesLockedCourse(t *testing.T) {
	store := &timetableStoreStub{}
	svc := newTimetableFixture(t, timetableFixtureConfig{store: store})
	in, _ := BuildSolverInput(timetableSnapshot())
	previous := []scheduler.Entry{
		{Day: 0, Slot: 0, Course: in.Courses[0], Faculty: in.Faculty[0], Room: in.Rooms[0]},
		{Day: 0, Slot: 1, Course: in.Courses[1], Faculty: in.Faculty[1], Room: in.Rooms[1]},
	}

	resp, err := svc.Reschedule(context.Background(), dto.RescheduleRequest{
		Constraint:       &dto.LockRequest{FacultyID: 2, Day: 0, Slot: 1},
		PreviousSchedule: previous,
	})
	require.NoError(t, err)

	assert.False(t, resp.Persisted)
	assert.Nil(t, store.replaced)
	require.Len(t, resp.Schedule, 2)
	for _, entry := range resp.Schedule {
		if entry.Faculty.ID == 2 {
			assert.NotEqual(t, scheduler.Coordinate{Day: 0, Slot: 1}, entry.At())
		}
	}
	assert.Equal(t, ChangedCourses(previous, resp.Schedule), resp.Changed)
	assert.Equal(t, 2-resp.Changed, resp.Kept)
}

func TestTimetableServiceCurrent(t *testing.T) {
	store := &timetableStoreStub{rows: []models.TimetableRow{
		{CourseID: 2, FacultyID: 2, RoomID: 11, TimeslotID: 6},
		{CourseID: 1, FacultyID: 1, RoomID: 10, TimeslotID: 5},
		{CourseID: 99, FacultyID: 1, RoomID: 10, TimeslotID: 5},
	}}
	svc := newTimetableFixture(t, timetableFixtureConfig{store: store})

	entries, cached, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Course.ID)
	assert.Equal(t, scheduler.Coordinate{Day: 0, Slot: 0}, entries[0].At())
	assert.Equal(t, int64(2), entries[1].Course.ID)
	assert.Equal(t, scheduler.Coordinate{Day: 0, Slot: 1}, entries[1].At())
}

func TestTimetableServiceCurrentLoadError(t *testing.T) {
	svc := newTimetableFixture(t, timetableFixtureConfig{loadErr: sql.ErrConnDone})
	_, _, err := svc.Current(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

type timetableFixtureConfig struct {
	snapshot *models.SolverSnapshot
	loadErr  error
	store    *timetableStoreStub
	tx       txProvider
	solver   scheduleSolver
	verify   bool
}

func newTimetableFixture(t *testing.T, cfg timetableFixtureConfig) *TimetableService {
	t.Helper()
	if cfg.snapshot == nil {
		cfg.snapshot = timetableSnapshot()
	}
	if cfg.store == nil {
		cfg.store = &timetableStoreStub{}
	}
	if cfg.solver == nil {
		cfg.solver = scheduler.New(nil, zap.NewNop(), scheduler.Config{Timeout: 10 * time.Second})
	}
	loader := &snapshotLoaderStub{snapshot: cfg.snapshot, err: cfg.loadErr}
	return NewTimetableService(loader, cfg.store, cfg.tx, cfg.solver, nil, nil, nil, zap.NewNop(), TimetableConfig{Verify: cfg.verify})
}

// timetableSnapshot has two Monday slots and two courses sharing a student.
func timetableSnapshot() *models.SolverSnapshot {
	return &models.SolverSnapshot{
		Courses: []models.Course{
			{ID: 1, Code: "CS101", Title: "Intro", Type: "lecture", Enrollment: 30},
			{ID: 2, Code: "CS102", Title: "Data", Type: "lecture", Enrollment: 20},
		},
		Faculty: []models.Faculty{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Grace"}},
		Rooms: []models.Room{
			{ID: 10, Name: "A-101", Capacity: 40, Type: "lecture"},
			{ID: 11, Name: "A-102", Capacity: 40, Type: "lecture"},
		},
		Elections: []models.StudentCourse{{StudentID: 100, CourseID: 1}, {StudentID: 100, CourseID: 2}},
		Timeslots: []models.Timeslot{
			{ID: 6, DayOfWeek: "Mon", StartTime: "10:00:00"},
			{ID: 5, DayOfWeek: "Mon", StartTime: "09:00:00"},
		},
		Availability: []models.FacultyAvailability{
			{FacultyID: 1, TimeslotID: 5}, {FacultyID: 1, TimeslotID: 6},
			{FacultyID: 2, TimeslotID: 5}, {FacultyID: 2, TimeslotID: 6},
		},
		Preferences: []models.FacultyPreference{
			{FacultyID: 1, CourseID: 1}, {FacultyID: 2, CourseID: 1},
			{FacultyID: 1, CourseID: 2}, {FacultyID: 2, CourseID: 2},
		},
	}
}

type snapshotLoaderStub struct {
	snapshot *models.SolverSnapshot
	err      error
}

func (s *snapshotLoaderStub) LoadSnapshot(ctx context.Context) (*models.SolverSnapshot, error) {
	return s.snapshot, s.err
}

type timetableStoreStub struct {
	rows       []models.TimetableRow
	replaced   []models.TimetableRow
	replaceErr error
}

func (s *timetableStoreStub) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rows []models.TimetableRow) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = rows
	return nil
}

func (s *timetableStoreStub) List(ctx context.Context) ([]models.TimetableRow, error) {
	return s.rows, nil
}

type solverStub struct {
	result *scheduler.Result
	err    error
}

func (s *solverStub) Solve(ctx context.Context, in scheduler.Input, opts scheduler.Options) (*scheduler.Result, error) {
	return s.result, s.err
}

type txProviderMock struct {
	db *sqlx.DB
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}
