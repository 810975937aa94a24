package scheduler

import (
	"context"
	"fmt"

	"github.com/crillab/gophersat/solver"
)

// Engine searches a built model and returns a terminal status together with
// the value of every variable (index i holds variable i+1) when one was found.
type Engine interface {
	Search(ctx context.Context, m *Model) (Status, []bool, error)
}

// SATEngine runs models on the gophersat pseudo-boolean solver.
type SATEngine struct{}

// NewSATEngine returns the default engine.
func NewSATEngine() *SATEngine {
	return &SATEngine{}
}

type searchOutcome struct {
	result solver.Result
	err    error
}

// Search solves the model, minimising the number of false rewards when the
// model has an objective. gophersat cannot be interrupted, so the search runs
// in its own goroutine and Search returns StatusUnknown as soon as ctx is done.
// The abandoned search finishes in the background and its result is dropped.
func (e *SATEngine) Search(ctx context.Context, m *Model) (Status, []bool, error) {
	pb := solver.ParsePBConstrs(m.Constraints())
	if rewards := m.Rewards(); len(rewards) > 0 {
		lits := make([]solver.Lit, len(rewards))
		weights := make([]int, len(rewards))
		for i, r := range rewards {
			lits[i] = solver.IntToLit(int32(-r.Index))
			weights[i] = 1
		}
		pb.SetCostFunc(lits, weights)
	}

	done := make(chan searchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- searchOutcome{err: fmt.Errorf("sat search panicked: %v", r)}
			}
		}()
		s := solver.New(pb)
		done <- searchOutcome{result: s.Optimal(nil, nil)}
	}()

	select {
	case <-ctx.Done():
		return StatusUnknown, nil, nil
	case out := <-done:
		if out.err != nil {
			return StatusUnknown, nil, out.err
		}
		switch out.result.Status {
		case solver.Sat:
			if m.HasObjective() {
				return StatusOptimal, out.result.Model, nil
			}
			return StatusFeasible, out.result.Model, nil
		case solver.Unsat:
			return StatusInfeasible, nil, nil
		default:
			return StatusUnknown, nil, nil
		}
	}
}
