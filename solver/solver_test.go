package solver

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmocanu/klondike/card"
	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/move"
)

// oneMoveWin builds a position with spades at queen and the king of
// spades alone on the first tableau.
func oneMoveWin() *game.State {
	s := game.Empty()
	s.Foundations = [game.NumFoundations]int8{12, 12, 12, 11}
	s.Tableaus[0] = []game.TableauCard{{Card: card.Card(51), FaceUp: true}}
	return game.NewState(s.Stock, s.Waste, s.Foundations, s.Tableaus, 0)
}

func TestSolveOneMoveWin(t *testing.T) {
	sol, err := NewSolver(10000, 1.0).Solve(context.Background(), oneMoveWin())
	require.NoError(t, err)
	assert.True(t, sol.Won())
	assert.Equal(t, 52, sol.FoundationCount)
	require.Len(t, sol.Moves, 1)
	assert.Equal(t, move.NewTableauToFoundation(0), sol.Moves[0])
}

func TestSolveExhaustsTinyStateSpace(t *testing.T) {
	// The only cards in play are the king of spades (movable between the
	// seven columns) and its winning foundation move: 8 distinct
	// positions. Deduplication must exhaust the frontier long before the
	// budget does.
	var lastIterations int
	s := NewSolver(10000, 1.0)
	s.SetProgressCallback(func(p Progress) {
		lastIterations = p.Iterations
	})
	sol, err := s.Solve(context.Background(), oneMoveWin())
	require.NoError(t, err)
	assert.True(t, sol.Won())
	assert.LessOrEqual(t, lastIterations, 8)
}

func TestSolveUniformCostStillWins(t *testing.T) {
	sol, err := NewSolver(10000, 0).Solve(context.Background(), oneMoveWin())
	require.NoError(t, err)
	assert.True(t, sol.Won())
	assert.Len(t, sol.Moves, 1)
}

func TestSolveTerminatesUnderRecycling(t *testing.T) {
	// Only draws are ever legal; every recycle bumps the cycle counter,
	// so the search must stop on the iteration budget, not hang.
	s := game.Empty()
	s.Stock = []card.Card{5}

	var lastIterations int
	solver := NewSolver(500, 1.0)
	solver.SetProgressCallback(func(p Progress) {
		lastIterations = p.Iterations
	})
	sol, err := solver.Solve(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, sol.Won())
	assert.Equal(t, 0, sol.FoundationCount)
	assert.Empty(t, sol.Moves)
	assert.LessOrEqual(t, lastIterations, 500)
}

func TestSolveCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sol, err := NewSolver(100000, 1.0).Solve(ctx, game.NewDeal(5))
	require.NoError(t, err) // cancellation is a normal termination path
	assert.NotNil(t, sol)
	assert.False(t, sol.Won())
}

func TestSolveReportsProgress(t *testing.T) {
	var reports []Progress
	s := NewSolver(300, 1.0)
	s.SetProgressInterval(50)
	s.SetProgressCallback(func(p Progress) {
		reports = append(reports, p)
	})
	_, err := s.Solve(context.Background(), game.NewDeal(11))
	require.NoError(t, err)

	require.NotEmpty(t, reports)
	final := reports[len(reports)-1]
	assert.Equal(t, 300, final.MaxIterations)
	assert.NotNil(t, final.BestPartial)
	assert.NotEmpty(t, final.Message)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i].Iterations, reports[i-1].Iterations)
	}
}

func TestSolveSnapshotsAreImmutable(t *testing.T) {
	// A best-partial snapshot handed to the callback must not change
	// after later updates.
	var snapshots []*Solution
	var counts []int
	var moveLens []int
	s := NewSolver(500, 1.0)
	s.SetProgressCallback(func(p Progress) {
		snapshots = append(snapshots, p.BestPartial)
		counts = append(counts, p.BestPartial.FoundationCount)
		moveLens = append(moveLens, len(p.BestPartial.Moves))
	})
	_, err := s.Solve(context.Background(), game.NewDeal(23))
	require.NoError(t, err)

	for i, snap := range snapshots {
		assert.Equal(t, counts[i], snap.FoundationCount)
		assert.Equal(t, moveLens[i], len(snap.Moves))
	}
	// Distinct bests are distinct objects.
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].FoundationCount != snapshots[i-1].FoundationCount {
			assert.NotSame(t, snapshots[i-1], snapshots[i])
		}
	}
}

func TestSolveBestPartialOnRealDeal(t *testing.T) {
	sol, err := NewSolver(2000, 1.0).Solve(context.Background(), game.NewDeal(1))
	require.NoError(t, err)
	require.NotNil(t, sol)
	// Replaying the returned moves from the deal must reach the claimed
	// foundation count.
	s := game.NewDeal(1)
	for _, m := range sol.Moves {
		s = s.ApplyMove(m)
	}
	assert.Equal(t, sol.FoundationCount, s.FoundationCount)
}

func TestSolveConfigErrors(t *testing.T) {
	_, err := NewSolver(1000, 1.0).Solve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoInitialState)

	_, err = NewSolver(0, 1.0).Solve(context.Background(), game.NewDeal(1))
	assert.Error(t, err)

	_, err = NewSolver(1000, -0.5).Solve(context.Background(), game.NewDeal(1))
	assert.Error(t, err)
}

func TestSolveLogStream(t *testing.T) {
	var buf bytes.Buffer
	s := NewSolver(200, 1.0)
	s.SetLogStream(&buf)
	_, err := s.Solve(context.Background(), game.NewDeal(9))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "- iteration:"))
}
