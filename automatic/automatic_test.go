package automatic

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunBatch(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "batch.csv")
	results, err := RunBatch(context.Background(), BatchConfig{
		Games:           4,
		Threads:         2,
		StartSeed:       100,
		MaxIterations:   200,
		HeuristicWeight: 1.0,
		LogFilename:     logPath,
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	seeds := map[uint64]bool{}
	for _, r := range results {
		seeds[r.Seed] = true
		assert.GreaterOrEqual(t, r.FoundationCount, 0)
		assert.LessOrEqual(t, r.Iterations, 200)
	}
	for seed := uint64(100); seed < 104; seed++ {
		assert.True(t, seeds[seed])
	}

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "seed,won,foundation_count,moves,iterations,elapsed_ms", lines[0])
	assert.Len(t, lines, 5)
}

func TestRunBatchValidation(t *testing.T) {
	_, err := RunBatch(context.Background(), BatchConfig{Games: 0})
	assert.Error(t, err)
}

func TestComputeStats(t *testing.T) {
	results := []Result{
		{Seed: 1, Won: true, FoundationCount: 52, Moves: 90},
		{Seed: 2, Won: false, FoundationCount: 10, Moves: 30},
		{Seed: 3, Won: true, FoundationCount: 52, Moves: 110},
		{Seed: 4, Won: false, FoundationCount: 6, Moves: 12},
	}
	stats := ComputeStats(results)
	assert.Equal(t, 4, stats.Games)
	assert.Equal(t, 2, stats.Wins)
	assert.InDelta(t, 0.5, stats.WinRate, 1e-9)
	assert.InDelta(t, 30.0, stats.AvgFoundationCount, 1e-9)
	assert.InDelta(t, 100.0, stats.AvgWinningMoves, 1e-9)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.Games)
	assert.Equal(t, 0.0, stats.WinRate)
}

func TestResultStore(t *testing.T) {
	store, err := OpenResultStore(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(Result{
		Seed: 7, Won: true, FoundationCount: 52, Moves: 95,
		Iterations: 4000, Elapsed: 1500 * time.Millisecond,
	}))
	require.NoError(t, store.Save(Result{
		Seed: 8, Won: false, FoundationCount: 14, Moves: 22,
		Iterations: 10000, Elapsed: 3 * time.Second,
	}))
	require.NoError(t, store.Save(Result{
		Seed: 9, Won: true, FoundationCount: 52, Moves: 80,
		Iterations: 2500, Elapsed: time.Second,
	}))

	wins, err := store.Wins(10)
	require.NoError(t, err)
	require.Len(t, wins, 2)
	assert.Equal(t, uint64(9), wins[0].Seed) // shortest solution first
	assert.Equal(t, 80, wins[0].Moves)
	assert.Equal(t, 1500*time.Millisecond, wins[1].Elapsed)
}
