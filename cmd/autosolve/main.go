// The autosolve command solves a batch of seeded deals without the
// interactive shell, for win-rate measurement and parameter tuning.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/namsral/flag"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cmocanu/klondike/automatic"
	"github.com/cmocanu/klondike/config"
)

func main() {
	cfg := &config.Config{}

	fs := flag.NewFlagSet("autosolve", flag.ExitOnError)
	games := fs.Int("games", 100, "number of consecutive seeds to solve")
	threads := fs.Int("threads", runtime.NumCPU(), "worker goroutines")
	startSeed := fs.Uint64("start-seed", 0, "first deal seed")
	logFilename := fs.String("log-file", "", "CSV file receiving one row per deal")
	fs.IntVar(&cfg.MaxIterations, "max-iterations", 100000, "search budget per deal")
	fs.Float64Var(&cfg.HeuristicWeight, "heuristic-weight", 1.0, "heuristic weight")
	fs.StringVar(&cfg.ResultsDBPath, "results-db", "", "sqlite database recording every result")
	fs.BoolVar(&cfg.Debug, "debug", false, "debug logging")
	fs.Parse(os.Args[1:])

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(output).Level(level).With().Timestamp().Logger()

	var store *automatic.ResultStore
	if cfg.ResultsDBPath != "" {
		var err error
		store, err = automatic.OpenResultStore(cfg.ResultsDBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("opening results store")
		}
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	results, err := automatic.RunBatch(ctx, automatic.BatchConfig{
		Games:           *games,
		Threads:         *threads,
		StartSeed:       *startSeed,
		MaxIterations:   cfg.MaxIterations,
		HeuristicWeight: cfg.HeuristicWeight,
		LogFilename:     *logFilename,
		Store:           store,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("batch failed")
	}

	stats := automatic.ComputeStats(results)
	p := message.NewPrinter(language.English)
	fmt.Println(p.Sprintf("Solved %d deals: %d wins (%.1f%%)",
		stats.Games, stats.Wins, stats.WinRate*100))
	fmt.Println(p.Sprintf("Average foundation count: %.1f", stats.AvgFoundationCount))
	if stats.Wins > 0 {
		fmt.Println(p.Sprintf("Average winning solution: %.1f moves", stats.AvgWinningMoves))
	}
}
