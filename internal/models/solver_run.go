package models

import (
	"time"

	"github.com/noah-isme/timetable-api/internal/scheduler"
)

// SolverRunMode distinguishes full rebuilds from incremental reschedules.
type SolverRunMode string

const (
	SolverRunModeRebuild    SolverRunMode = "rebuild"
	SolverRunModeReschedule SolverRunMode = "reschedule"
)

// SolverRunStatus tracks the lifecycle of an asynchronous run.
type SolverRunStatus string

const (
	SolverRunQueued     SolverRunStatus = "queued"
	SolverRunRunning    SolverRunStatus = "running"
	SolverRunSucceeded  SolverRunStatus = "succeeded"
	SolverRunNoSolution SolverRunStatus = "no_solution"
	SolverRunTimeout    SolverRunStatus = "timeout"
	SolverRunFailed     SolverRunStatus = "failed"
)

// Terminal reports whether the run has finished.
func (s SolverRunStatus) Terminal() bool {
	switch s {
	case SolverRunSucceeded, SolverRunNoSolution, SolverRunTimeout, SolverRunFailed:
		return true
	}
	return false
}

// SolverRun is the state of an asynchronous solver invocation.
type SolverRun struct {
	ID          string            `json:"id"`
	Mode        SolverRunMode     `json:"mode"`
	Status      SolverRunStatus   `json:"status"`
	Schedule    []scheduler.Entry `json:"schedule,omitempty"`
	Changed     int               `json:"changed"`
	Kept        int               `json:"kept"`
	Error       string            `json:"error,omitempty"`
	RequestedBy string            `json:"requested_by,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	FinishedAt  *time.Time        `json:"finished_at,omitempty"`
}
