// Package solver implements a weighted A*-style best-first search over
// Klondike game states. The search is anytime: it tracks the best
// partial progress and the shortest winning line seen so far, keeps
// searching after the first win, and returns whatever it has when the
// frontier, the iteration budget or the caller's context runs out.
package solver

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/move"
)

const defaultProgressInterval = 100

var (
	// ErrNoInitialState is returned when Solve is handed a nil state;
	// the conversion layer signals unusable input by producing no state,
	// and the search must never run over it.
	ErrNoInitialState = errors.New("no initial state to solve")
)

// Progress is an immutable snapshot handed to the progress callback. The
// engine never mutates a Solution it has already exposed; best-solution
// updates allocate fresh copies.
type Progress struct {
	Iterations    int
	MaxIterations int
	BestPartial   *Solution
	BestWinning   *Solution
	Message       string
}

// ProgressFunc receives progress snapshots. It is called from the search
// goroutine; implementations that share data with other goroutines must
// synchronize on their side.
type ProgressFunc func(Progress)

// LogEntry is a struct meant for serializing to a search log stream, for
// debug and tuning purposes.
type LogEntry struct {
	Iteration   int    `json:"iteration" yaml:"iteration"`
	Frontier    int    `json:"frontier" yaml:"frontier"`
	Visited     int    `json:"visited" yaml:"visited"`
	BestPartial int    `json:"best_partial" yaml:"best_partial"`
	BestWinning int    `json:"best_winning,omitempty" yaml:"best_winning,omitempty"`
	Message     string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Solver holds the search configuration. The zero value is not usable;
// construct with NewSolver.
type Solver struct {
	maxIterations    int
	heuristicWeight  float64
	progressInterval int
	progressFn       ProgressFunc
	logStream        io.Writer

	expanded atomic.Uint64
}

// NewSolver creates a solver with the given iteration budget and
// heuristic weight. A weight of 0 degenerates to uniform-cost search
// (complete within the budget, but slow); larger weights trade
// optimality for speed.
func NewSolver(maxIterations int, heuristicWeight float64) *Solver {
	return &Solver{
		maxIterations:    maxIterations,
		heuristicWeight:  heuristicWeight,
		progressInterval: defaultProgressInterval,
	}
}

// SetProgressCallback registers a callback invoked every progress
// interval and on every best-solution change.
func (s *Solver) SetProgressCallback(fn ProgressFunc) {
	s.progressFn = fn
}

// SetProgressInterval overrides how many expansions pass between
// periodic progress reports.
func (s *Solver) SetProgressInterval(n int) {
	if n > 0 {
		s.progressInterval = n
	}
}

// SetLogStream directs a YAML stream of search log entries to w.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// frontier node: priority orders the heap, counter breaks ties FIFO.
type node struct {
	priority float64
	counter  uint64
	cost     int
	state    *game.State
	path     []move.Move
}

type frontier []*node

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].counter < f[j].counter
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) {
	*f = append(*f, x.(*node))
}

func (f *frontier) Pop() any {
	old := *f
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*f = old[:len(old)-1]
	return n
}

// Solve searches from the initial state and returns the best winning
// solution found, or the best partial one if no win was reached. Budget
// exhaustion, frontier exhaustion and context cancellation are normal
// termination paths, not errors.
func (s *Solver) Solve(ctx context.Context, initial *game.State) (*Solution, error) {
	if initial == nil {
		return nil, ErrNoInitialState
	}
	if s.maxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", s.maxIterations)
	}
	if s.heuristicWeight < 0 {
		return nil, fmt.Errorf("heuristic weight must be non-negative, got %v", s.heuristicWeight)
	}

	tstart := time.Now()
	s.expanded.Store(0)

	var sol *Solution
	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var last uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				n := s.expanded.Load()
				log.Debug().Uint64("eps", n-last).Msg("expansions-per-second")
				last = n
			}
		}
	})

	g.Go(func() error {
		sol = s.search(ctx, initial)
		done <- true
		return nil
	})

	err := g.Wait()
	log.Debug().
		Uint64("expanded", s.expanded.Load()).
		Int("foundation-count", sol.FoundationCount).
		Int("moves", len(sol.Moves)).
		Bool("won", sol.Won()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Msg("solve-returning")
	return sol, err
}

func (s *Solver) search(ctx context.Context, initial *game.State) *Solution {
	var f frontier
	heap.Init(&f)

	var counter uint64
	heap.Push(&f, &node{
		priority: -s.heuristicWeight * float64(initial.HeuristicScore()),
		counter:  counter,
		state:    initial,
	})

	visited := make(map[string]struct{})
	bestPartial := &Solution{}
	var bestWinning *Solution
	iterations := 0
	message := "Starting search..."

	report := func() {
		if s.progressFn != nil {
			s.progressFn(Progress{
				Iterations:    iterations,
				MaxIterations: s.maxIterations,
				BestPartial:   bestPartial,
				BestWinning:   bestWinning,
				Message:       message,
			})
		}
		s.writeLogEntry(iterations, len(f), len(visited), bestPartial, bestWinning, message)
	}

	for f.Len() > 0 && iterations < s.maxIterations {
		if ctx.Err() != nil {
			message = "Search cancelled."
			report()
			break
		}

		n := heap.Pop(&f).(*node)
		key := n.state.Key()
		if _, ok := visited[key]; ok {
			// Duplicate pops are discarded without charging the budget.
			continue
		}
		visited[key] = struct{}{}
		iterations++
		s.expanded.Add(1)

		if n.state.FoundationCount > bestPartial.FoundationCount {
			bestPartial = &Solution{
				FoundationCount: n.state.FoundationCount,
				Moves:           append([]move.Move(nil), n.path...),
			}
			message = fmt.Sprintf("Found partial solution with %d/52 cards in foundations",
				bestPartial.FoundationCount)
			report()
		}

		if n.state.IsWon() && (bestWinning == nil || len(n.path) < len(bestWinning.Moves)) {
			bestWinning = &Solution{
				FoundationCount: n.state.FoundationCount,
				Moves:           append([]move.Move(nil), n.path...),
			}
			message = fmt.Sprintf("Found solution with %d moves! Continuing search...",
				len(bestWinning.Moves))
			report()
			// Keep searching for a shorter winning line.
		}

		moves := n.state.AvailableMoves()
		prioritizeMoves(moves)
		for _, m := range moves {
			next := n.state.ApplyMove(m)
			if _, ok := visited[next.Key()]; ok {
				continue
			}
			counter++
			cost := n.cost + 1
			path := make([]move.Move, len(n.path)+1)
			copy(path, n.path)
			path[len(n.path)] = m
			heap.Push(&f, &node{
				priority: float64(cost) - s.heuristicWeight*float64(next.HeuristicScore()),
				counter:  counter,
				cost:     cost,
				state:    next,
				path:     path,
			})
		}

		if iterations%s.progressInterval == 0 {
			report()
		}
	}

	message = fmt.Sprintf("Search completed after %d iterations.", iterations)
	if bestWinning != nil {
		message = fmt.Sprintf("Best solution found requires %d moves.", len(bestWinning.Moves))
	}
	report()

	if bestWinning != nil {
		return bestWinning
	}
	return bestPartial
}

func (s *Solver) writeLogEntry(iterations, frontierLen, visitedLen int,
	bestPartial, bestWinning *Solution, message string) {

	if s.logStream == nil {
		return
	}
	entry := LogEntry{
		Iteration:   iterations,
		Frontier:    frontierLen,
		Visited:     visitedLen,
		BestPartial: bestPartial.FoundationCount,
		Message:     message,
	}
	if bestWinning != nil {
		entry.BestWinning = len(bestWinning.Moves)
	}
	out, err := yaml.Marshal([]LogEntry{entry})
	if err != nil {
		log.Err(err).Msg("error marshaling search log entry")
		return
	}
	s.logStream.Write(out)
}
