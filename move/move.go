// Package move defines the closed set of Klondike moves and their
// human-readable descriptions. A move is pure data; legality and
// application live in the game package.
package move

import "fmt"

// Type is a kind of move.
type Type uint8

const (
	// TypeDraw advances the stock: one card stock to waste, or a full
	// waste-to-stock recycle when the stock is empty.
	TypeDraw Type = iota
	// TypeWasteToFoundation plays the top waste card on its foundation.
	TypeWasteToFoundation
	// TypeWasteToTableau plays the top waste card on a tableau.
	TypeWasteToTableau
	// TypeTableauToFoundation plays a tableau's top card on its foundation.
	TypeTableauToFoundation
	// TypeTableauToTableau moves a trailing face-up run between tableaus.
	TypeTableauToTableau
)

// Move is one of the five move shapes. Payload fields that a shape does
// not use are zero. Moves are small value types and are compared with ==.
type Move struct {
	t     Type
	src   int8
	dst   int8
	count int8
}

// NewDraw creates a draw/recycle move.
func NewDraw() Move {
	return Move{t: TypeDraw}
}

// NewWasteToFoundation creates a waste-to-foundation move. The target
// foundation is implied by the suit of the waste's top card.
func NewWasteToFoundation() Move {
	return Move{t: TypeWasteToFoundation}
}

// NewWasteToTableau creates a waste-to-tableau move onto tableau dst.
func NewWasteToTableau(dst int) Move {
	return Move{t: TypeWasteToTableau, dst: int8(dst)}
}

// NewTableauToFoundation creates a tableau-to-foundation move from
// tableau src.
func NewTableauToFoundation(src int) Move {
	return Move{t: TypeTableauToFoundation, src: int8(src)}
}

// NewTableauToTableau creates a move of the trailing count-card run of
// tableau src onto tableau dst.
func NewTableauToTableau(src, count, dst int) Move {
	return Move{t: TypeTableauToTableau, src: int8(src), count: int8(count), dst: int8(dst)}
}

// Type returns the move's shape.
func (m Move) Type() Type {
	return m.t
}

// Source returns the source tableau index for tableau moves.
func (m Move) Source() int {
	return int(m.src)
}

// Dest returns the destination tableau index for tableau-bound moves.
func (m Move) Dest() int {
	return int(m.dst)
}

// Count returns the run length for tableau-to-tableau moves.
func (m Move) Count() int {
	return int(m.count)
}

// String provides a terse form for debugging and logs.
func (m Move) String() string {
	switch m.t {
	case TypeDraw:
		return "<draw>"
	case TypeWasteToFoundation:
		return "<waste>F>"
	case TypeWasteToTableau:
		return fmt.Sprintf("<waste>T%d>", m.dst+1)
	case TypeTableauToFoundation:
		return fmt.Sprintf("<T%d>F>", m.src+1)
	case TypeTableauToTableau:
		return fmt.Sprintf("<T%d(%d)>T%d>", m.src+1, m.count, m.dst+1)
	}
	return "<unhandled move>"
}

// ShortDescription is the one-line human-readable form shown to users.
// Tableau indices are 1-based in user-facing text.
func (m Move) ShortDescription() string {
	switch m.t {
	case TypeDraw:
		return "Draw card from Stock or recycle Waste"
	case TypeWasteToFoundation:
		return "Move card from Waste to Foundation"
	case TypeWasteToTableau:
		return fmt.Sprintf("Move card from Waste to Tableau %d", m.dst+1)
	case TypeTableauToFoundation:
		return fmt.Sprintf("Move top card from Tableau %d to Foundation", m.src+1)
	case TypeTableauToTableau:
		plural := "cards"
		if m.count == 1 {
			plural = "card"
		}
		return fmt.Sprintf("Move %d %s from Tableau %d to Tableau %d",
			m.count, plural, m.src+1, m.dst+1)
	}
	return "Unknown move"
}
