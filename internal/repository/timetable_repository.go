package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TimetableRepository persists the current timetable.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ReplaceAll swaps the stored timetable for rows. Callers pass a transaction
// so readers never observe a partial timetable.
func (r *TimetableRepository) ReplaceAll(ctx context.Context, exec sqlx.ExtContext, rows []models.TimetableRow) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM timetable`); err != nil {
		return fmt.Errorf("clear timetable: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	const insertQuery = `INSERT INTO timetable (course_id, faculty_id, room_id, timeslot_id)
VALUES (:course_id, :faculty_id, :room_id, :timeslot_id)`
	if _, err := sqlx.NamedExecContext(ctx, target, insertQuery, rows); err != nil {
		return fmt.Errorf("insert timetable rows: %w", err)
	}
	return nil
}

// List returns the stored timetable rows.
func (r *TimetableRepository) List(ctx context.Context) ([]models.TimetableRow, error) {
	const query = `SELECT course_id, faculty_id, room_id, timeslot_id FROM timetable ORDER BY timeslot_id, course_id`
	var rows []models.TimetableRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return rows, nil
}
