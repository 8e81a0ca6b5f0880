// Package automatic contains the batch-solving logic: deal a range of
// seeded games, solve them on a worker pool, and collect result logs and
// aggregate statistics. Useful for tuning the heuristic weight and the
// iteration budget.
package automatic

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/solver"
)

var (
	SolveCounter *expvar.Int
	IsSolving    *expvar.Int
)

func init() {
	SolveCounter = expvar.NewInt("solveCounter")
	IsSolving = expvar.NewInt("isSolving")
}

// Result is the outcome of solving one seeded deal.
type Result struct {
	Seed            uint64
	Won             bool
	FoundationCount int
	Moves           int
	Iterations      int
	Elapsed         time.Duration
}

// BatchConfig configures a batch run.
type BatchConfig struct {
	Games           int
	Threads         int
	StartSeed       uint64
	MaxIterations   int
	HeuristicWeight float64
	// LogFilename, if set, receives one CSV row per solved deal.
	LogFilename string
	// Store, if set, also records every result.
	Store *ResultStore
}

// RunBatch solves cfg.Games consecutive seeds starting at cfg.StartSeed
// and returns the results, ordered arbitrarily. Cancelling the context
// stops feeding new deals; deals already being solved finish under their
// own budget promptly because the solver polls the same context.
func RunBatch(ctx context.Context, cfg BatchConfig) ([]Result, error) {
	if cfg.Games <= 0 {
		return nil, fmt.Errorf("batch needs a positive number of games, got %d", cfg.Games)
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}

	var logfile *os.File
	var err error
	if cfg.LogFilename != "" {
		logfile, err = os.Create(cfg.LogFilename)
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Int("games", cfg.Games).Int("threads", cfg.Threads).Msg("starting batch")

	jobs := make(chan uint64, 100)
	resultsChan := make(chan Result, 100)
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)

	for i := 0; i < cfg.Threads; i++ {
		go func() {
			defer wg.Done()
			IsSolving.Add(1)
			defer IsSolving.Add(-1)
			for seed := range jobs {
				resultsChan <- solveSeed(ctx, seed, cfg.MaxIterations, cfg.HeuristicWeight)
				SolveCounter.Add(1)
			}
		}()
	}

	go func() {
	feedLoop:
		for i := 0; i < cfg.Games; i++ {
			select {
			case jobs <- cfg.StartSeed + uint64(i):
			case <-ctx.Done():
				log.Info().Msg("got stop signal, no more deals queued")
				break feedLoop
			}
		}
		close(jobs)
		wg.Wait()
		close(resultsChan)
	}()

	if logfile != nil {
		logfile.WriteString("seed,won,foundation_count,moves,iterations,elapsed_ms\n")
	}
	var results []Result
	for r := range resultsChan {
		results = append(results, r)
		if logfile != nil {
			logfile.WriteString(csvRow(r))
		}
		if cfg.Store != nil {
			if err := cfg.Store.Save(r); err != nil {
				log.Err(err).Uint64("seed", r.Seed).Msg("error saving result")
			}
		}
	}
	if logfile != nil {
		logfile.Close()
	}
	log.Info().Int("solved", len(results)).Msg("batch finished")
	return results, nil
}

func solveSeed(ctx context.Context, seed uint64, maxIterations int, weight float64) Result {
	s := solver.NewSolver(maxIterations, weight)
	var iterations int
	s.SetProgressCallback(func(p solver.Progress) {
		iterations = p.Iterations
	})
	start := time.Now()
	sol, err := s.Solve(ctx, game.NewDeal(seed))
	if err != nil {
		// Only possible with a bad configuration; record zero progress.
		log.Err(err).Uint64("seed", seed).Msg("solve error")
		return Result{Seed: seed, Elapsed: time.Since(start)}
	}
	return Result{
		Seed:            seed,
		Won:             sol.Won(),
		FoundationCount: sol.FoundationCount,
		Moves:           len(sol.Moves),
		Iterations:      iterations,
		Elapsed:         time.Since(start),
	}
}

func csvRow(r Result) string {
	return fmt.Sprintf("%d,%t,%d,%d,%d,%d\n",
		r.Seed, r.Won, r.FoundationCount, r.Moves, r.Iterations,
		r.Elapsed.Milliseconds())
}

// BatchStats aggregates a batch run.
type BatchStats struct {
	Games              int
	Wins               int
	WinRate            float64
	AvgFoundationCount float64
	AvgWinningMoves    float64
}

// ComputeStats summarizes batch results.
func ComputeStats(results []Result) BatchStats {
	stats := BatchStats{Games: len(results)}
	if stats.Games == 0 {
		return stats
	}
	wins := lo.Filter(results, func(r Result, _ int) bool { return r.Won })
	stats.Wins = len(wins)
	stats.WinRate = float64(stats.Wins) / float64(stats.Games)
	stats.AvgFoundationCount = float64(lo.SumBy(results, func(r Result) int {
		return r.FoundationCount
	})) / float64(stats.Games)
	if stats.Wins > 0 {
		stats.AvgWinningMoves = float64(lo.SumBy(wins, func(r Result) int {
			return r.Moves
		})) / float64(stats.Wins)
	}
	return stats
}
