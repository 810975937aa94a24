package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

const (
	constraintTypeFacultyAvailability = "FACULTY_AVAIL"
	entityTypeFaculty                 = "FACULTY"
)

// SolverDataRepository reads the row sets a solver invocation needs.
type SolverDataRepository struct {
	db *sqlx.DB
}

// NewSolverDataRepository constructs the repository.
func NewSolverDataRepository(db *sqlx.DB) *SolverDataRepository {
	return &SolverDataRepository{db: db}
}

// LoadSnapshot reads every row set inside one read-only transaction so the
// solver sees a consistent view. Timeslots come back Mon..Fri first, then any
// other label, each day ordered by start time.
func (r *SolverDataRepository) LoadSnapshot(ctx context.Context) (*models.SolverSnapshot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	snapshot := &models.SolverSnapshot{}
	queries := []struct {
		name  string
		dest  interface{}
		query string
		args  []interface{}
	}{
		{"courses", &snapshot.Courses, `SELECT id, code, title, type, enrollment FROM course ORDER BY id`, nil},
		{"faculty", &snapshot.Faculty, `SELECT id, name, department FROM faculty ORDER BY id`, nil},
		{"rooms", &snapshot.Rooms, `SELECT id, name, capacity, type FROM room ORDER BY id`, nil},
		{"student elections", &snapshot.Elections, `SELECT student_id, course_id FROM student_course ORDER BY student_id, course_id`, nil},
		{"timeslots", &snapshot.Timeslots, timeslotQuery, nil},
		{"faculty availability", &snapshot.Availability,
			`SELECT entity_id AS faculty_id, timeslot_id FROM constraint_log WHERE constraint_type = $1 AND entity_type = $2 ORDER BY entity_id, timeslot_id`,
			[]interface{}{constraintTypeFacultyAvailability, entityTypeFaculty}},
		{"faculty preferences", &snapshot.Preferences, `SELECT faculty_id, course_id FROM faculty_preference ORDER BY course_id, faculty_id`, nil},
	}
	for _, q := range queries {
		if err := tx.SelectContext(ctx, q.dest, q.query, q.args...); err != nil {
			return nil, fmt.Errorf("load %s: %w", q.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return snapshot, nil
}

const timeslotQuery = `SELECT id, day_of_week, COALESCE(CAST(start_time AS TEXT), '') AS start_time FROM timeslot
ORDER BY CASE LOWER(LEFT(day_of_week, 3))
	WHEN 'mon' THEN 0 WHEN 'tue' THEN 1 WHEN 'wed' THEN 2 WHEN 'thu' THEN 3 WHEN 'fri' THEN 4
	ELSE 5 END, start_time, id`
