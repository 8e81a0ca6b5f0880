package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/cmocanu/klondike/automatic"
	"github.com/cmocanu/klondike/solver"
)

var errNoGame = errors.New("no game loaded; use 'new' or 'load' first")

// solve starts a search on the current position on its own goroutine.
// The command loop stays responsive; 'stop' cancels the search and the
// best solution found so far is kept.
func (sc *ShellController) solve(args []string) error {
	if sc.curState == nil {
		return errNoGame
	}
	maxIterations := sc.cfg.MaxIterations
	weight := sc.cfg.HeuristicWeight
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("bad iteration budget %q", args[0])
		}
		maxIterations = n
	}
	if len(args) > 1 {
		w, err := strconv.ParseFloat(args[1], 64)
		if err != nil || w < 0 {
			return fmt.Errorf("bad heuristic weight %q", args[1])
		}
		weight = w
	}

	// Open the log file before flipping solveRunning; an early return
	// after that point would wedge the shell in the "already running"
	// state with no goroutine left to clear it.
	var logFile *os.File
	if sc.cfg.SearchLogPath != "" {
		f, err := os.Create(sc.cfg.SearchLogPath)
		if err != nil {
			return err
		}
		logFile = f
	}

	sc.solveMu.Lock()
	if sc.solveRunning {
		sc.solveMu.Unlock()
		if logFile != nil {
			logFile.Close()
		}
		return fmt.Errorf("a solve is already running; 'stop' it first")
	}
	ctx, cancel := context.WithCancel(context.Background())
	sc.solveCancel = cancel
	sc.solveRunning = true
	sc.solveMu.Unlock()

	s := solver.NewSolver(maxIterations, weight)
	s.SetProgressInterval(sc.cfg.ProgressInterval)

	lastMessage := ""
	s.SetProgressCallback(func(p solver.Progress) {
		// Progress arrives on the search goroutine; only narrate when
		// something actually changed, so the prompt stays usable.
		if p.Message == lastMessage {
			return
		}
		lastMessage = p.Message
		sc.showMessage(sc.printer.Sprintf("[%d/%d] %s",
			p.Iterations, p.MaxIterations, p.Message))
	})

	if logFile != nil {
		s.SetLogStream(logFile)
	}

	initial := sc.curState
	sc.showMessage(sc.printer.Sprintf("Solving with budget %d, weight %v...",
		maxIterations, weight))

	sc.solveWg.Add(1)
	go func() {
		defer sc.solveWg.Done()
		sol, err := s.Solve(ctx, initial)
		if logFile != nil {
			logFile.Close()
		}
		sc.solveMu.Lock()
		sc.solveRunning = false
		sc.solveCancel = nil
		sc.lastSolution = sol
		sc.solveMu.Unlock()
		if err != nil {
			sc.showMessage("Solve error: " + err.Error())
			return
		}
		sc.printSolution(sol)
	}()
	return nil
}

// waitSolve blocks until a running solve, if any, has finished.
func (sc *ShellController) waitSolve() {
	sc.solveWg.Wait()
}

// stopSolve cancels a running solve, if any. The searcher returns the
// bests recorded so far.
func (sc *ShellController) stopSolve() {
	sc.solveMu.Lock()
	cancel := sc.solveCancel
	sc.solveMu.Unlock()
	if cancel != nil {
		cancel()
		log.Debug().Msg("solve cancelled")
	}
}

// autosolve runs a batch of seeded deals and prints aggregate stats.
func (sc *ShellController) autosolve(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: autosolve <games> [threads]")
	}
	games, err := strconv.Atoi(args[0])
	if err != nil || games <= 0 {
		return fmt.Errorf("bad game count %q", args[0])
	}
	threads := 1
	if len(args) > 1 {
		threads, err = strconv.Atoi(args[1])
		if err != nil || threads <= 0 {
			return fmt.Errorf("bad thread count %q", args[1])
		}
	}

	var store *automatic.ResultStore
	if sc.cfg.ResultsDBPath != "" {
		store, err = automatic.OpenResultStore(sc.cfg.ResultsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	results, err := automatic.RunBatch(context.Background(), automatic.BatchConfig{
		Games:           games,
		Threads:         threads,
		MaxIterations:   sc.cfg.MaxIterations,
		HeuristicWeight: sc.cfg.HeuristicWeight,
		Store:           store,
	})
	if err != nil {
		return err
	}
	stats := automatic.ComputeStats(results)
	sc.showMessage(sc.printer.Sprintf(
		"Solved %d deals: %d wins (%.1f%%), avg foundation count %.1f",
		stats.Games, stats.Wins, stats.WinRate*100, stats.AvgFoundationCount))
	if stats.Wins > 0 {
		sc.showMessage(sc.printer.Sprintf("Average winning solution: %.1f moves",
			stats.AvgWinningMoves))
	}
	return nil
}
