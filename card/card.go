// Package card implements the card model. A card is a single integer
// identifier in [0, 51]; rank and suit are bit-packed into it, so the
// package is mostly pure functions over that identifier.
package card

import "fmt"

// Suit constants. The ordering matches the foundation slot ordering used
// everywhere else in this repository.
const (
	Clubs = iota
	Diamonds
	Hearts
	Spades
)

const (
	// NumCards is the size of a standard deck.
	NumCards = 52
	// KingRank is the highest rank (0 = Ace ... 12 = King).
	KingRank = 12
)

var rankLetters = [13]byte{'A', '2', '3', '4', '5', '6', '7', '8', '9', 'T', 'J', 'Q', 'K'}
var suitLetters = [4]byte{'C', 'D', 'H', 'S'}

var rankNames = [13]string{
	"Ace", "2", "3", "4", "5", "6", "7", "8", "9", "10", "Jack", "Queen", "King",
}
var suitNames = [4]string{"Clubs", "Diamonds", "Hearts", "Spades"}

// Card is a card identifier. Values outside [0, 51] are not valid cards;
// use Valid to check identifiers that come from the outside world.
type Card uint8

// New builds a card from a rank (0-12) and suit (0-3).
func New(rank, suit int) Card {
	return Card(rank<<2 | suit)
}

// Rank returns the card's rank, 0 (Ace) through 12 (King).
func (c Card) Rank() int {
	return int(c >> 2)
}

// Suit returns the card's suit, one of Clubs, Diamonds, Hearts, Spades.
func (c Card) Suit() int {
	return int(c & 3)
}

// Black is true for clubs and spades.
func (c Card) Black() bool {
	s := c.Suit()
	return s == Clubs || s == Spades
}

// Valid is true if the identifier denotes a real card.
func (c Card) Valid() bool {
	return c < NumCards
}

// String returns the card's two-letter code, e.g. "AS" for the ace of
// spades or "TD" for the ten of diamonds.
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("??(%d)", uint8(c))
	}
	return string([]byte{rankLetters[c.Rank()], suitLetters[c.Suit()]})
}

// Name returns the long form, e.g. "Ace of Spades".
func (c Card) Name() string {
	if !c.Valid() {
		return fmt.Sprintf("invalid card (%d)", uint8(c))
	}
	return rankNames[c.Rank()] + " of " + suitNames[c.Suit()]
}

// Parse converts a two-letter code back into a card. It is
// case-insensitive; the position notation uses case to carry the face-up
// flag, which is not this package's concern.
func Parse(code string) (Card, error) {
	if len(code) != 2 {
		return 0, fmt.Errorf("card code must be 2 characters, got %q", code)
	}
	r := upper(code[0])
	s := upper(code[1])
	rank := -1
	for i, l := range rankLetters {
		if l == r {
			rank = i
			break
		}
	}
	if rank == -1 {
		return 0, fmt.Errorf("unknown rank letter %q in %q", string(r), code)
	}
	suit := -1
	for i, l := range suitLetters {
		if l == s {
			suit = i
			break
		}
	}
	if suit == -1 {
		return 0, fmt.Errorf("unknown suit letter %q in %q", string(s), code)
	}
	return New(rank, suit), nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
