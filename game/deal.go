package game

import (
	"encoding/binary"

	"lukechampine.com/frand"

	"github.com/cmocanu/klondike/card"
)

// NewDeal shuffles a full deck with the given seed and lays out a
// standard Klondike game: tableau i gets i+1 cards with only the top one
// face-up, and the remaining 24 cards form the stock. The same seed
// always produces the same deal.
func NewDeal(seed uint64) *State {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	rng := frand.NewCustom(key[:], 1024, 12)

	deck := make([]card.Card, card.NumCards)
	for i := range deck {
		deck[i] = card.Card(i)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	s := Empty()
	next := 0
	for i := 0; i < NumTableaus; i++ {
		pile := make([]TableauCard, 0, i+1)
		for j := 0; j <= i; j++ {
			pile = append(pile, TableauCard{Card: deck[next], FaceUp: j == i})
			next++
		}
		s.Tableaus[i] = pile
	}
	s.Stock = append([]card.Card(nil), deck[next:]...)
	return s
}
