// Package game contains the Klondike domain model: the immutable game
// state, move legality, move enumeration, the pure transition function
// and the heuristic evaluation the solver searches on.
package game

import (
	"encoding/binary"

	"github.com/cmocanu/klondike/card"
	"github.com/cmocanu/klondike/move"
)

const (
	// NumTableaus is the number of tableau columns.
	NumTableaus = 7
	// NumFoundations is the number of foundation piles, one per suit.
	NumFoundations = 4
	// FoundationEmpty is the foundation value before an ace is placed.
	FoundationEmpty = -1
)

// Heuristic weights. The evaluation is deliberately inadmissible; it is
// tuned to pull the search toward foundation progress and uncovering
// face-down cards, not to bound the true remaining distance.
const (
	weightFoundationCard = 10000
	weightFaceUp         = 200
	weightFaceDown       = -1000
	weightStockCycle     = -30000
	weightWasteCard      = -800
	weightStockCard      = -200
)

// TableauCard is one card in a tableau column together with its face-up
// flag.
type TableauCard struct {
	Card   card.Card
	FaceUp bool
}

// State is a single Klondike position, the unit of search. States are
// never mutated once built; ApplyMove returns a fresh State. Within any
// tableau the face-down cards form a contiguous prefix and the face-up
// suffix is a strictly descending alternating-color run. The transition
// function maintains that invariant by construction and never
// re-validates it wholesale.
type State struct {
	// Stock is the draw pile; the tail is the next card drawn.
	Stock []card.Card
	// Waste receives drawn cards; only the tail is playable.
	Waste []card.Card
	// Foundations holds, per suit, the rank of the top card placed, or
	// FoundationEmpty.
	Foundations [NumFoundations]int8
	// Tableaus are the seven working columns.
	Tableaus [NumTableaus][]TableauCard
	// StockCycles counts waste-to-stock recycles.
	StockCycles int
	// FoundationCount caches the total number of cards resting on
	// foundations (0-52). Maintained by NewState and ApplyMove.
	FoundationCount int
}

// NewState builds a state from raw piles and computes the cached
// foundation count. The slices are owned by the new state afterwards.
func NewState(stock, waste []card.Card, foundations [NumFoundations]int8,
	tableaus [NumTableaus][]TableauCard, stockCycles int) *State {

	s := &State{
		Stock:       stock,
		Waste:       waste,
		Foundations: foundations,
		Tableaus:    tableaus,
		StockCycles: stockCycles,
	}
	s.FoundationCount = s.countFoundationCards()
	return s
}

// Empty returns a state with no cards anywhere and empty foundations.
// Mostly useful as a base for tests and for the pos package.
func Empty() *State {
	return &State{
		Foundations: [NumFoundations]int8{
			FoundationEmpty, FoundationEmpty, FoundationEmpty, FoundationEmpty,
		},
	}
}

func (s *State) countFoundationCards() int {
	n := 0
	for _, rank := range s.Foundations {
		if rank > FoundationEmpty {
			n += int(rank) + 1
		}
	}
	return n
}

// IsWon is true when every foundation has been built up to the king.
func (s *State) IsWon() bool {
	for _, rank := range s.Foundations {
		if rank != card.KingRank {
			return false
		}
	}
	return true
}

// Copy makes a deep copy of the state.
func (s *State) Copy() *State {
	c := &State{
		Stock:           append([]card.Card(nil), s.Stock...),
		Waste:           append([]card.Card(nil), s.Waste...),
		Foundations:     s.Foundations,
		StockCycles:     s.StockCycles,
		FoundationCount: s.FoundationCount,
	}
	for i := range s.Tableaus {
		c.Tableaus[i] = append([]TableauCard(nil), s.Tableaus[i]...)
	}
	return c
}

// CanMoveToFoundation is true if the card is the next one its suit's
// foundation needs.
func (s *State) CanMoveToFoundation(c card.Card) bool {
	return int8(c.Rank()) == s.Foundations[c.Suit()]+1
}

// CanMoveToTableau is true if the card may be placed on tableau dst:
// a king on an empty column, otherwise opposite color and exactly one
// rank below the column's face-up top card.
func (s *State) CanMoveToTableau(c card.Card, dst int) bool {
	pile := s.Tableaus[dst]
	if len(pile) == 0 {
		return c.Rank() == card.KingRank
	}
	top := pile[len(pile)-1]
	if !top.FaceUp {
		return false
	}
	return c.Black() != top.Card.Black() && c.Rank() == top.Card.Rank()-1
}

// AvailableMoves enumerates every legal move, deterministically, in a
// fixed pile-index order. The order biases which equal-priority frontier
// entries the solver expands first; it has no bearing on correctness.
func (s *State) AvailableMoves() []move.Move {
	var moves []move.Move

	// Waste to foundation or tableau.
	if len(s.Waste) > 0 {
		top := s.Waste[len(s.Waste)-1]
		if s.CanMoveToFoundation(top) {
			moves = append(moves, move.NewWasteToFoundation())
		}
		for i := 0; i < NumTableaus; i++ {
			if s.CanMoveToTableau(top, i) {
				moves = append(moves, move.NewWasteToTableau(i))
			}
		}
	}

	// Tableau to foundation.
	for i := 0; i < NumTableaus; i++ {
		pile := s.Tableaus[i]
		if len(pile) == 0 {
			continue
		}
		top := pile[len(pile)-1]
		if top.FaceUp && s.CanMoveToFoundation(top.Card) {
			moves = append(moves, move.NewTableauToFoundation(i))
		}
	}

	// Tableau to tableau runs. Only the bottom-most card of the moved
	// run is checked against the destination; the rest of the run is a
	// valid descending alternating-color sequence by construction.
	for src := 0; src < NumTableaus; src++ {
		pile := s.Tableaus[src]
		faceUpStart := len(pile)
		for idx, tc := range pile {
			if tc.FaceUp {
				faceUpStart = idx
				break
			}
		}
		for cut := faceUpStart; cut < len(pile); cut++ {
			bottom := pile[cut].Card
			count := len(pile) - cut
			for dst := 0; dst < NumTableaus; dst++ {
				if dst == src {
					continue
				}
				if s.CanMoveToTableau(bottom, dst) {
					moves = append(moves, move.NewTableauToTableau(src, count, dst))
				}
			}
		}
	}

	// Draw one from stock, or recycle the waste.
	if len(s.Stock) > 0 || len(s.Waste) > 0 {
		moves = append(moves, move.NewDraw())
	}

	return moves
}

// ApplyMove is the pure transition function. It never mutates the
// receiver; it returns the resulting state. If the move's static shape
// is malformed (index out of range, empty source pile, bad run length)
// the receiver itself is returned unchanged; callers that construct
// their own moves must not assume the move occurred. ApplyMove checks
// only the shape, not legality; the solver only feeds it moves from
// AvailableMoves.
func (s *State) ApplyMove(m move.Move) *State {
	switch m.Type() {
	case move.TypeDraw:
		return s.applyDraw()
	case move.TypeWasteToFoundation:
		return s.applyWasteToFoundation()
	case move.TypeWasteToTableau:
		return s.applyWasteToTableau(m.Dest())
	case move.TypeTableauToFoundation:
		return s.applyTableauToFoundation(m.Source())
	case move.TypeTableauToTableau:
		return s.applyTableauToTableau(m.Source(), m.Count(), m.Dest())
	}
	return s
}

func (s *State) applyDraw() *State {
	if len(s.Stock) == 0 && len(s.Waste) == 0 {
		return s
	}
	n := s.Copy()
	if len(n.Stock) > 0 {
		c := n.Stock[len(n.Stock)-1]
		n.Stock = n.Stock[:len(n.Stock)-1]
		n.Waste = append(n.Waste, c)
	} else {
		n.Stock = make([]card.Card, len(n.Waste))
		for i, c := range n.Waste {
			n.Stock[len(n.Waste)-1-i] = c
		}
		n.Waste = n.Waste[:0]
		n.StockCycles++
	}
	return n
}

func (s *State) applyWasteToFoundation() *State {
	if len(s.Waste) == 0 {
		return s
	}
	n := s.Copy()
	c := n.Waste[len(n.Waste)-1]
	n.Waste = n.Waste[:len(n.Waste)-1]
	n.Foundations[c.Suit()]++
	n.FoundationCount = n.countFoundationCards()
	return n
}

func (s *State) applyWasteToTableau(dst int) *State {
	if len(s.Waste) == 0 || dst < 0 || dst >= NumTableaus {
		return s
	}
	n := s.Copy()
	c := n.Waste[len(n.Waste)-1]
	n.Waste = n.Waste[:len(n.Waste)-1]
	n.Tableaus[dst] = append(n.Tableaus[dst], TableauCard{Card: c, FaceUp: true})
	return n
}

func (s *State) applyTableauToFoundation(src int) *State {
	if src < 0 || src >= NumTableaus || len(s.Tableaus[src]) == 0 {
		return s
	}
	n := s.Copy()
	pile := n.Tableaus[src]
	c := pile[len(pile)-1].Card
	n.Tableaus[src] = pile[:len(pile)-1]
	n.Foundations[c.Suit()]++
	n.flipTop(src)
	n.FoundationCount = n.countFoundationCards()
	return n
}

func (s *State) applyTableauToTableau(src, count, dst int) *State {
	if src < 0 || src >= NumTableaus || dst < 0 || dst >= NumTableaus || src == dst {
		return s
	}
	pile := s.Tableaus[src]
	if len(pile) == 0 || count < 1 || count > len(pile) {
		return s
	}
	n := s.Copy()
	cut := len(pile) - count
	run := n.Tableaus[src][cut:]
	n.Tableaus[dst] = append(n.Tableaus[dst], run...)
	n.Tableaus[src] = n.Tableaus[src][:cut]
	n.flipTop(src)
	return n
}

// flipTop turns the top card of tableau idx face-up if it exists and is
// face-down.
func (n *State) flipTop(idx int) {
	pile := n.Tableaus[idx]
	if len(pile) > 0 && !pile[len(pile)-1].FaceUp {
		pile[len(pile)-1].FaceUp = true
	}
}

// HeuristicScore evaluates the state; higher is better. Holding all else
// fixed, a higher foundation count strictly increases the score.
func (s *State) HeuristicScore() int {
	score := s.FoundationCount * weightFoundationCard
	for i := range s.Tableaus {
		for _, tc := range s.Tableaus[i] {
			if tc.FaceUp {
				score += weightFaceUp
			} else {
				score += weightFaceDown
			}
		}
	}
	score += s.StockCycles * weightStockCycle
	score += len(s.Waste) * weightWasteCard
	score += len(s.Stock) * weightStockCard
	return score
}

// Key returns the canonical deduplication key: the exact ordered
// contents of every pile, face-up flags included, plus the cycle count.
// Two states are the same position iff their keys are byte-equal.
func (s *State) Key() string {
	// Card ids fit in 6 bits, so bit 7 carries the face-up flag and the
	// remaining values double as pile separators.
	const sep = byte(0x7f)
	buf := make([]byte, 0, 4+card.NumCards+NumFoundations+NumTableaus+3)
	for _, c := range s.Stock {
		buf = append(buf, byte(c))
	}
	buf = append(buf, sep)
	for _, c := range s.Waste {
		buf = append(buf, byte(c))
	}
	buf = append(buf, sep)
	for _, rank := range s.Foundations {
		buf = append(buf, byte(rank+1))
	}
	for i := range s.Tableaus {
		buf = append(buf, sep)
		for _, tc := range s.Tableaus[i] {
			b := byte(tc.Card)
			if tc.FaceUp {
				b |= 0x80
			}
			buf = append(buf, b)
		}
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(s.StockCycles))
	return string(buf)
}
