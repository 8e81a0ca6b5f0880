package game

import (
	"fmt"
	"strings"

	"github.com/cmocanu/klondike/card"
)

// ToDisplayText renders the state for terminal display. Face-down
// tableau cards show as "##"; foundations show their current top card.
func (s *State) ToDisplayText() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Stock: %d cards   Waste:", len(s.Stock)))
	if len(s.Waste) == 0 {
		sb.WriteString(" (empty)")
	} else {
		// Show at most the last three waste cards; only the final one
		// is playable.
		start := len(s.Waste) - 3
		if start < 0 {
			start = 0
		}
		if start > 0 {
			sb.WriteString(" ...")
		}
		for _, c := range s.Waste[start:] {
			sb.WriteString(" " + c.String())
		}
	}
	sb.WriteString(fmt.Sprintf("   Cycles: %d\n", s.StockCycles))

	sb.WriteString("Foundations:")
	for suit, rank := range s.Foundations {
		if rank == FoundationEmpty {
			sb.WriteString(" --")
		} else {
			sb.WriteString(" " + card.New(int(rank), suit).String())
		}
	}
	sb.WriteString(fmt.Sprintf("   (%d/52)\n\n", s.FoundationCount))

	maxLen := 0
	for i := range s.Tableaus {
		if len(s.Tableaus[i]) > maxLen {
			maxLen = len(s.Tableaus[i])
		}
	}
	sb.WriteString("  T1  T2  T3  T4  T5  T6  T7\n")
	for row := 0; row < maxLen; row++ {
		for i := range s.Tableaus {
			pile := s.Tableaus[i]
			switch {
			case row >= len(pile):
				sb.WriteString("    ")
			case !pile[row].FaceUp:
				sb.WriteString("  ##")
			default:
				sb.WriteString(fmt.Sprintf("  %s", pile[row].Card))
			}
		}
		sb.WriteString("\n")
	}
	if s.IsWon() {
		sb.WriteString("\nGame won!\n")
	}
	return sb.String()
}
