package move

import (
	"testing"

	"github.com/matryer/is"
)

type descTestStruct struct {
	m    Move
	desc string
}

var descTests = []descTestStruct{
	{NewDraw(), "Draw card from Stock or recycle Waste"},
	{NewWasteToFoundation(), "Move card from Waste to Foundation"},
	{NewWasteToTableau(0), "Move card from Waste to Tableau 1"},
	{NewWasteToTableau(6), "Move card from Waste to Tableau 7"},
	{NewTableauToFoundation(2), "Move top card from Tableau 3 to Foundation"},
	{NewTableauToTableau(0, 1, 4), "Move 1 card from Tableau 1 to Tableau 5"},
	{NewTableauToTableau(3, 5, 1), "Move 5 cards from Tableau 4 to Tableau 2"},
}

func TestShortDescription(t *testing.T) {
	for _, tc := range descTests {
		if got := tc.m.ShortDescription(); got != tc.desc {
			t.Errorf("For %v got %q, expected %q", tc.m, got, tc.desc)
		}
	}
}

func TestAccessors(t *testing.T) {
	is := is.New(t)
	m := NewTableauToTableau(2, 3, 6)
	is.Equal(m.Type(), TypeTableauToTableau)
	is.Equal(m.Source(), 2)
	is.Equal(m.Count(), 3)
	is.Equal(m.Dest(), 6)
}

func TestMovesCompareByValue(t *testing.T) {
	is := is.New(t)
	is.Equal(NewDraw(), NewDraw())
	is.Equal(NewTableauToTableau(1, 2, 3), NewTableauToTableau(1, 2, 3))
	is.True(NewTableauToTableau(1, 2, 3) != NewTableauToTableau(1, 2, 4))
	is.True(NewWasteToFoundation() != NewDraw())
}
