package solver

import (
	"sort"

	"github.com/cmocanu/klondike/move"
)

// Solution is an ordered move sequence together with the foundation
// count reached at its end. It is used both for the best-partial and the
// best-winning results; a zero-progress Solution (no moves) is a valid
// outcome of a search.
type Solution struct {
	FoundationCount int
	Moves           []move.Move
}

// Won is true if the solution plays out to a won game.
func (s *Solution) Won() bool {
	return s.FoundationCount == 52
}

// Static move priorities. Only the relative order matters: foundation
// moves first, tableau rearrangement next, drawing last. The table biases
// which equal-cost frontier entries get expanded first; it has no effect
// on correctness.
const (
	priorityWasteToFoundation   = 1000000
	priorityTableauToFoundation = 950000
	priorityTableauToTableau    = 500000
	priorityWasteToTableau      = 400000
	priorityDraw                = 1000
)

func movePriority(m move.Move) int {
	switch m.Type() {
	case move.TypeWasteToFoundation:
		return priorityWasteToFoundation
	case move.TypeTableauToFoundation:
		return priorityTableauToFoundation
	case move.TypeTableauToTableau:
		return priorityTableauToTableau
	case move.TypeWasteToTableau:
		return priorityWasteToTableau
	case move.TypeDraw:
		return priorityDraw
	}
	return 0
}

// prioritizeMoves sorts candidate moves best-first. The sort is stable
// so the state's deterministic enumeration order breaks ties.
func prioritizeMoves(moves []move.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return movePriority(moves[i]) > movePriority(moves[j])
	})
}
