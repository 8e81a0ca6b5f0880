// Package executor defines the contract between the solver and whatever
// actually performs moves against a live game (a memory writer, a UI
// automation layer, a simulator). The core search never retries or
// tracks execution; everything of that nature lives here, on the
// collaborator's side of the boundary.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/move"
	"github.com/cmocanu/klondike/solver"
)

const readRetryAttempts = 3

var (
	// ErrEmptySolution means there was nothing to execute.
	ErrEmptySolution = errors.New("no solution to execute")
	// ErrOutOfSync means the environment state could not be re-derived
	// after a failed move.
	ErrOutOfSync = errors.New("game state out of sync and could not be re-read")
)

// MoveExecutor performs a single abstract move against the environment
// and reads the environment's current state back. Each move is
// translatable independently; the runner makes no assumption about how
// a move is physically executed.
type MoveExecutor interface {
	ExecuteMove(ctx context.Context, m move.Move) error
	ReadState(ctx context.Context) (*game.State, error)
}

// Runner walks a solution against a MoveExecutor. On a failed move it
// re-derives a fresh state from the environment (with bounded retry)
// instead of trusting its own tracking, and carries on.
type Runner struct {
	ex       MoveExecutor
	delay    time.Duration
	statusFn func(string)
}

// NewRunner creates a runner with no per-move delay.
func NewRunner(ex MoveExecutor) *Runner {
	return &Runner{ex: ex}
}

// SetDelay sets a pause between executed moves, for environments that
// need animations or repaints to settle.
func (r *Runner) SetDelay(d time.Duration) {
	r.delay = d
}

// SetStatusCallback registers a human-readable status line consumer.
func (r *Runner) SetStatusCallback(fn func(string)) {
	r.statusFn = fn
}

func (r *Runner) status(format string, args ...any) {
	if r.statusFn != nil {
		r.statusFn(fmt.Sprintf(format, args...))
	}
}

// Run executes every move of the solution in order. It returns
// ErrOutOfSync if a failed move leaves the environment unreadable, or
// the context's error if cancelled mid-run.
func (r *Runner) Run(ctx context.Context, sol *solver.Solution) error {
	if sol == nil || len(sol.Moves) == 0 {
		return ErrEmptySolution
	}
	r.status("Executing solution with %d moves...", len(sol.Moves))

	tracked, err := r.readFresh(ctx)
	if err != nil {
		return err
	}

	for i, m := range sol.Moves {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.status("Move %d/%d: %s", i+1, len(sol.Moves), m.ShortDescription())

		if err := r.ex.ExecuteMove(ctx, m); err != nil {
			log.Warn().Err(err).Int("move", i+1).Msg("move failed; re-reading state")
			r.status("Move failed. State may be out of sync.")
			tracked, err = r.readFresh(ctx)
			if err != nil {
				return err
			}
			continue
		}

		tracked = tracked.ApplyMove(m)
		if r.delay > 0 {
			select {
			case <-time.After(r.delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	r.status("Solution execution completed.")
	log.Debug().Int("foundation-count", tracked.FoundationCount).Msg("execution-finished")
	return nil
}

// readFresh re-derives the environment's state with bounded retry.
func (r *Runner) readFresh(ctx context.Context) (*game.State, error) {
	s, err := retry.DoWithData(
		func() (*game.State, error) {
			return r.ex.ReadState(ctx)
		},
		retry.Attempts(readRetryAttempts),
		retry.Context(ctx),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutOfSync, err)
	}
	return s, nil
}
