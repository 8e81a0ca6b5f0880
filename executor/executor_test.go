package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmocanu/klondike/card"
	"github.com/cmocanu/klondike/game"
	"github.com/cmocanu/klondike/move"
	"github.com/cmocanu/klondike/solver"
)

// fakeGame applies moves against an in-memory state, optionally failing
// some ExecuteMove calls and some ReadState calls.
type fakeGame struct {
	state       *game.State
	failMoves   map[int]bool // 0-based call index
	failReads   int          // number of ReadState calls to fail first
	moveCalls   int
	readCalls   int
	executedLog []move.Move
}

func (f *fakeGame) ExecuteMove(ctx context.Context, m move.Move) error {
	idx := f.moveCalls
	f.moveCalls++
	if f.failMoves[idx] {
		return errors.New("drag rejected")
	}
	f.state = f.state.ApplyMove(m)
	f.executedLog = append(f.executedLog, m)
	return nil
}

func (f *fakeGame) ReadState(ctx context.Context) (*game.State, error) {
	f.readCalls++
	if f.failReads > 0 {
		f.failReads--
		return nil, errors.New("process not readable")
	}
	return f.state.Copy(), nil
}

func oneMoveWinState() *game.State {
	s := game.Empty()
	s.Foundations = [game.NumFoundations]int8{12, 12, 12, 11}
	s.Tableaus[0] = []game.TableauCard{{Card: card.Card(51), FaceUp: true}}
	return game.NewState(s.Stock, s.Waste, s.Foundations, s.Tableaus, 0)
}

func TestRunHappyPath(t *testing.T) {
	f := &fakeGame{state: oneMoveWinState()}
	sol := &solver.Solution{
		FoundationCount: 52,
		Moves:           []move.Move{move.NewTableauToFoundation(0)},
	}

	var statuses []string
	r := NewRunner(f)
	r.SetStatusCallback(func(s string) { statuses = append(statuses, s) })

	require.NoError(t, r.Run(context.Background(), sol))
	assert.True(t, f.state.IsWon())
	assert.Equal(t, sol.Moves, f.executedLog)
	assert.Contains(t, statuses[0], "1 moves")
	assert.Equal(t, "Solution execution completed.", statuses[len(statuses)-1])
}

func TestRunEmptySolution(t *testing.T) {
	r := NewRunner(&fakeGame{state: game.Empty()})
	assert.ErrorIs(t, r.Run(context.Background(), nil), ErrEmptySolution)
	assert.ErrorIs(t, r.Run(context.Background(), &solver.Solution{}), ErrEmptySolution)
}

func TestRunRereadsOnMoveFailure(t *testing.T) {
	f := &fakeGame{
		state:     oneMoveWinState(),
		failMoves: map[int]bool{0: true},
	}
	sol := &solver.Solution{
		FoundationCount: 52,
		Moves: []move.Move{
			move.NewTableauToFoundation(0),
			move.NewTableauToFoundation(0),
		},
	}
	r := NewRunner(f)
	require.NoError(t, r.Run(context.Background(), sol))
	// First attempt failed and triggered a re-read; the retry of the
	// same logical move came from the solution's second entry.
	assert.True(t, f.state.IsWon())
	assert.GreaterOrEqual(t, f.readCalls, 2)
}

func TestRunRetriesStateReads(t *testing.T) {
	f := &fakeGame{state: oneMoveWinState(), failReads: 2}
	sol := &solver.Solution{
		FoundationCount: 52,
		Moves:           []move.Move{move.NewTableauToFoundation(0)},
	}
	r := NewRunner(f)
	require.NoError(t, r.Run(context.Background(), sol))
	assert.GreaterOrEqual(t, f.readCalls, 3)
}

func TestRunOutOfSync(t *testing.T) {
	// Every read fails: the initial read exhausts its retries.
	f := &fakeGame{state: oneMoveWinState(), failReads: 100}
	sol := &solver.Solution{
		FoundationCount: 52,
		Moves:           []move.Move{move.NewTableauToFoundation(0)},
	}
	r := NewRunner(f)
	assert.ErrorIs(t, r.Run(context.Background(), sol), ErrOutOfSync)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &fakeGame{state: oneMoveWinState()}
	sol := &solver.Solution{
		FoundationCount: 52,
		Moves:           []move.Move{move.NewTableauToFoundation(0)},
	}
	r := NewRunner(f)
	err := r.Run(ctx, sol)
	assert.Error(t, err)
}
