package game

import (
	"testing"

	"github.com/matryer/is"
)

func TestNewDealLayout(t *testing.T) {
	is := is.New(t)
	s := NewDeal(1)

	is.Equal(len(s.Stock), 24)
	is.Equal(len(s.Waste), 0)
	is.Equal(s.StockCycles, 0)
	is.Equal(s.FoundationCount, 0)
	for i := range s.Tableaus {
		is.Equal(len(s.Tableaus[i]), i+1)
		for j, tc := range s.Tableaus[i] {
			is.Equal(tc.FaceUp, j == i) // only the top card is face-up
		}
	}
	is.True(cardConserved(s))
}

func TestNewDealDeterministic(t *testing.T) {
	is := is.New(t)
	is.Equal(NewDeal(1234).Key(), NewDeal(1234).Key())
	is.True(NewDeal(1).Key() != NewDeal(2).Key())
}
