package pos

import (
	"errors"
	"fmt"

	"github.com/cmocanu/klondike/card"
	"github.com/cmocanu/klondike/game"
)

// Pile indices in the raw description contract.
const (
	PileStock           = 0
	PileWaste           = 1
	PileFirstFoundation = 2
	PileLastFoundation  = 5
	PileFirstTableau    = 6
	PileLastTableau     = 12
)

var (
	// ErrNoCards means the description held no valid card at all; no
	// state is produced and the solver is never invoked on it.
	ErrNoCards = errors.New("pile description contains no cards")
)

// PileCard is one card of a raw pile description.
type PileCard struct {
	ID     int
	FaceUp bool
}

// Pile is one raw pile: 0 is the stock, 1 the waste, 2-5 the
// foundations in suit order, 6-12 the tableaus.
type Pile struct {
	ID    int
	Cards []PileCard
}

// FromPiles converts a raw pile description into a game state. Card ids
// outside [0, 51] are dropped silently, foundation piles contribute only
// the rank of their top card, stock and waste keep their given order and
// tableau piles keep their face-up flags verbatim. A description that
// yields an unusable state is rejected with an error.
func FromPiles(piles []Pile) (*game.State, error) {
	s := game.Empty()

	for _, pile := range piles {
		switch {
		case pile.ID == PileStock:
			for _, pc := range pile.Cards {
				if validID(pc.ID) {
					s.Stock = append(s.Stock, card.Card(pc.ID))
				}
			}
		case pile.ID == PileWaste:
			for _, pc := range pile.Cards {
				if validID(pc.ID) {
					s.Waste = append(s.Waste, card.Card(pc.ID))
				}
			}
		case pile.ID >= PileFirstFoundation && pile.ID <= PileLastFoundation:
			if len(pile.Cards) == 0 {
				continue
			}
			top := pile.Cards[len(pile.Cards)-1]
			if validID(top.ID) {
				s.Foundations[pile.ID-PileFirstFoundation] = int8(card.Card(top.ID).Rank())
			}
		case pile.ID >= PileFirstTableau && pile.ID <= PileLastTableau:
			idx := pile.ID - PileFirstTableau
			for _, pc := range pile.Cards {
				if validID(pc.ID) {
					s.Tableaus[idx] = append(s.Tableaus[idx],
						game.TableauCard{Card: card.Card(pc.ID), FaceUp: pc.FaceUp})
				}
			}
		}
	}

	s.FoundationCount = 0
	for _, rank := range s.Foundations {
		if rank > game.FoundationEmpty {
			s.FoundationCount += int(rank) + 1
		}
	}
	if err := checkUsable(s); err != nil {
		return nil, err
	}
	return s, nil
}

func validID(id int) bool {
	return id >= 0 && id < card.NumCards
}

// checkUsable rejects clearly invalid states instead of letting a search
// run over garbage: a state with no cards at all, or one where a card id
// appears more than once across stock, waste, foundations and tableaus.
func checkUsable(s *game.State) error {
	var seen [card.NumCards]bool
	total := 0
	mark := func(c card.Card) error {
		if seen[c] {
			return fmt.Errorf("card %s appears more than once", c)
		}
		seen[c] = true
		total++
		return nil
	}
	for _, c := range s.Stock {
		if err := mark(c); err != nil {
			return err
		}
	}
	for _, c := range s.Waste {
		if err := mark(c); err != nil {
			return err
		}
	}
	for suit, rank := range s.Foundations {
		for r := 0; int8(r) <= rank; r++ {
			if err := mark(card.New(r, suit)); err != nil {
				return err
			}
		}
	}
	for i := range s.Tableaus {
		for _, tc := range s.Tableaus[i] {
			if err := mark(tc.Card); err != nil {
				return err
			}
		}
	}
	if total == 0 {
		return ErrNoCards
	}
	return nil
}
