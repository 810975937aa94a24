package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSolverDataRepositoryLoadSnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolverDataRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, title, type, enrollment FROM course ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "title", "type", "enrollment"}).
			AddRow(1, "CS101", "Intro", "lecture", 30))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, department FROM faculty ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "department"}).
			AddRow(1, "Ada", "CS").
			AddRow(2, "Grace", nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, capacity, type FROM room ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "type"}).
			AddRow(10, "A-101", 30, "lecture"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT student_id, course_id FROM student_course")).
		WillReturnRows(sqlmock.NewRows([]string{"student_id", "course_id"}).AddRow(100, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, day_of_week, COALESCE(CAST(start_time AS TEXT), '') AS start_time FROM timeslot")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "day_of_week", "start_time"}).
			AddRow(5, "Mon", "09:00:00").
			AddRow(6, "Mon", "10:00:00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT entity_id AS faculty_id, timeslot_id FROM constraint_log WHERE constraint_type = $1 AND entity_type = $2")).
		WithArgs("FACULTY_AVAIL", "FACULTY").
		WillReturnRows(sqlmock.NewRows([]string{"faculty_id", "timeslot_id"}).AddRow(1, 5))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT faculty_id, course_id FROM faculty_preference")).
		WillReturnRows(sqlmock.NewRows([]string{"faculty_id", "course_id"}).AddRow(1, 1))
	mock.ExpectCommit()

	snapshot, err := repo.LoadSnapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snapshot.Courses, 1)
	assert.Equal(t, models.Course{ID: 1, Code: "CS101", Title: "Intro", Type: "lecture", Enrollment: 30}, snapshot.Courses[0])
	require.Len(t, snapshot.Faculty, 2)
	require.NotNil(t, snapshot.Faculty[0].Department)
	assert.Equal(t, "CS", *snapshot.Faculty[0].Department)
	assert.Nil(t, snapshot.Faculty[1].Department)
	assert.Len(t, snapshot.Rooms, 1)
	assert.Equal(t, []models.StudentCourse{{StudentID: 100, CourseID: 1}}, snapshot.Elections)
	assert.Equal(t, []models.Timeslot{{ID: 5, DayOfWeek: "Mon", StartTime: "09:00:00"}, {ID: 6, DayOfWeek: "Mon", StartTime: "10:00:00"}}, snapshot.Timeslots)
	assert.Equal(t, []models.FacultyAvailability{{FacultyID: 1, TimeslotID: 5}}, snapshot.Availability)
	assert.Equal(t, []models.FacultyPreference{{FacultyID: 1, CourseID: 1}}, snapshot.Preferences)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSolverDataRepositoryLoadSnapshotFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSolverDataRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM course")).WillReturnError(errors.New("relation \"course\" does not exist"))
	mock.ExpectRollback()

	_, err := repo.LoadSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load courses")
	assert.NoError(t, mock.ExpectationsWereMet())
}
