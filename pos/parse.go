// Package pos converts external position descriptions into game states.
// It owns the single-line position notation used by the shell and the
// raw pile-description contract used by state-acquisition collaborators.
package pos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cmocanu/klondike/card"
	"github.com/cmocanu/klondike/game"
)

// Position notation, one line, space-separated fields:
//
//	<stock> <waste> <foundations> <t1>/<t2>/.../<t7> [cycles]
//
// Stock, waste and tableau piles are comma-separated two-letter card
// codes, or "-" when empty. In tableau piles letter case carries the
// face-up flag: "ks" is a face-down king of spades, "KS" face-up. The
// foundations field is four characters, the top rank per suit in
// clubs/diamonds/hearts/spades order, "-" for an empty foundation.
//
//	5H,9C AS,2D -A-- ks,QH/JS/-/-/-/-/- 1

// Parse builds a state from position notation.
func Parse(notation string) (*game.State, error) {
	fields := strings.Fields(strings.TrimSpace(notation))
	if len(fields) != 4 && len(fields) != 5 {
		return nil, fmt.Errorf("position must have 4 or 5 space-separated fields, got %d", len(fields))
	}

	s := game.Empty()

	stock, err := parsePile(fields[0])
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	for _, tc := range stock {
		s.Stock = append(s.Stock, tc.Card)
	}

	waste, err := parsePile(fields[1])
	if err != nil {
		return nil, fmt.Errorf("waste: %w", err)
	}
	for _, tc := range waste {
		s.Waste = append(s.Waste, tc.Card)
	}

	if len(fields[2]) != game.NumFoundations {
		return nil, fmt.Errorf("foundations field must be %d characters, got %q",
			game.NumFoundations, fields[2])
	}
	for suit := 0; suit < game.NumFoundations; suit++ {
		ch := fields[2][suit]
		if ch == '-' {
			continue
		}
		c, err := card.Parse(string([]byte{ch, suitLetter(suit)}))
		if err != nil {
			return nil, fmt.Errorf("foundations: %w", err)
		}
		s.Foundations[suit] = int8(c.Rank())
	}

	tabs := strings.Split(fields[3], "/")
	if len(tabs) != game.NumTableaus {
		return nil, fmt.Errorf("expected %d tableau piles, got %d", game.NumTableaus, len(tabs))
	}
	for i, t := range tabs {
		pile, err := parsePile(t)
		if err != nil {
			return nil, fmt.Errorf("tableau %d: %w", i+1, err)
		}
		s.Tableaus[i] = pile
	}

	if len(fields) == 5 {
		cycles, err := strconv.Atoi(fields[4])
		if err != nil || cycles < 0 {
			return nil, fmt.Errorf("bad stock cycle count %q", fields[4])
		}
		s.StockCycles = cycles
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

// parsePile parses a comma-separated card list; "-" is the empty pile.
// The face-up flag is true iff the rank letter is uppercase.
func parsePile(field string) ([]game.TableauCard, error) {
	if field == "-" || field == "" {
		return nil, nil
	}
	codes := strings.Split(field, ",")
	pile := make([]game.TableauCard, 0, len(codes))
	for _, code := range codes {
		c, err := card.Parse(code)
		if err != nil {
			return nil, err
		}
		faceUp := code[0] >= 'A' && code[0] <= 'Z'
		pile = append(pile, game.TableauCard{Card: c, FaceUp: faceUp})
	}
	return pile, nil
}

// String renders a state in position notation. Parse(String(s)) yields
// a state with the same canonical key.
func String(s *game.State) string {
	var sb strings.Builder

	writeCards := func(cards []card.Card) {
		if len(cards) == 0 {
			sb.WriteByte('-')
			return
		}
		for i, c := range cards {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(c.String())
		}
	}

	writeCards(s.Stock)
	sb.WriteByte(' ')
	writeCards(s.Waste)
	sb.WriteByte(' ')
	for suit := 0; suit < game.NumFoundations; suit++ {
		rank := s.Foundations[suit]
		if rank == game.FoundationEmpty {
			sb.WriteByte('-')
		} else {
			sb.WriteByte(card.New(int(rank), suit).String()[0])
		}
	}
	sb.WriteByte(' ')
	for i := range s.Tableaus {
		if i > 0 {
			sb.WriteByte('/')
		}
		if len(s.Tableaus[i]) == 0 {
			sb.WriteByte('-')
			continue
		}
		for j, tc := range s.Tableaus[i] {
			if j > 0 {
				sb.WriteByte(',')
			}
			code := tc.Card.String()
			if !tc.FaceUp {
				code = strings.ToLower(code)
			}
			sb.WriteString(code)
		}
	}
	if s.StockCycles > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(s.StockCycles))
	}
	return sb.String()
}

func suitLetter(suit int) byte {
	return "CDHS"[suit]
}
