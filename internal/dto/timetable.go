package dto

import "github.com/noah-isme/timetable-api/internal/scheduler"

// LockRequest forbids a faculty member from teaching at a coordinate.
type LockRequest struct {
	FacultyID int64 `json:"faculty_id" validate:"required"`
	Day       int   `json:"day" validate:"min=0,max=4"`
	Slot      int   `json:"slot" validate:"min=0"`
}

// Lock converts the request into a solver lock.
func (l LockRequest) Lock() scheduler.Lock {
	return scheduler.Lock{FacultyID: l.FacultyID, Day: l.Day, Slot: l.Slot}
}

// RescheduleRequest re-solves around temporary locks while keeping as much of
// the previous schedule as possible. Constraint is the single-lock form.
type RescheduleRequest struct {
	Constraints      []LockRequest     `json:"constraints" validate:"omitempty,dive"`
	Constraint       *LockRequest      `json:"constraint" validate:"omitempty"`
	PreviousSchedule []scheduler.Entry `json:"previous_schedule" validate:"required,min=1"`
	Persist          bool              `json:"persist"`
}

// Locks merges the single and list forms.
func (r RescheduleRequest) Locks() []scheduler.Lock {
	locks := make([]scheduler.Lock, 0, len(r.Constraints)+1)
	if r.Constraint != nil {
		locks = append(locks, r.Constraint.Lock())
	}
	for _, l := range r.Constraints {
		locks = append(locks, l.Lock())
	}
	return locks
}

// ScheduleResponse is the outcome of a solve.
type ScheduleResponse struct {
	Status      string                `json:"status"`
	Schedule    []scheduler.Entry     `json:"schedule"`
	Changed     int                   `json:"changed"`
	Kept        int                   `json:"kept"`
	Persisted   bool                  `json:"persisted"`
	Diagnostics scheduler.Diagnostics `json:"diagnostics"`
	ElapsedMS   int64                 `json:"elapsed_ms"`
}

// SubmitSolverRunRequest enqueues an asynchronous solve.
type SubmitSolverRunRequest struct {
	Mode       string             `json:"mode" validate:"required,oneof=rebuild reschedule"`
	Reschedule *RescheduleRequest `json:"reschedule" validate:"required_if=Mode reschedule,omitempty"`
}

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format"`
}

// ExportResult is a rendered timetable file.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
