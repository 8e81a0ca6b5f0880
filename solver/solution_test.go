package solver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/cmocanu/klondike/move"
)

func TestPrioritizeMoves(t *testing.T) {
	is := is.New(t)
	moves := []move.Move{
		move.NewDraw(),
		move.NewWasteToTableau(2),
		move.NewTableauToTableau(0, 2, 3),
		move.NewTableauToFoundation(1),
		move.NewWasteToFoundation(),
	}
	prioritizeMoves(moves)
	is.Equal(moves, []move.Move{
		move.NewWasteToFoundation(),
		move.NewTableauToFoundation(1),
		move.NewTableauToTableau(0, 2, 3),
		move.NewWasteToTableau(2),
		move.NewDraw(),
	})
}

func TestPrioritizeMovesIsStable(t *testing.T) {
	is := is.New(t)
	moves := []move.Move{
		move.NewTableauToTableau(0, 1, 2),
		move.NewTableauToTableau(3, 2, 4),
		move.NewTableauToTableau(5, 1, 6),
	}
	prioritizeMoves(moves)
	// Equal priorities keep the enumeration order.
	is.Equal(moves, []move.Move{
		move.NewTableauToTableau(0, 1, 2),
		move.NewTableauToTableau(3, 2, 4),
		move.NewTableauToTableau(5, 1, 6),
	})
}

func TestSolutionWon(t *testing.T) {
	is := is.New(t)
	is.True(!(&Solution{}).Won())
	is.True(!(&Solution{FoundationCount: 51}).Won())
	is.True((&Solution{FoundationCount: 52}).Won())
}
