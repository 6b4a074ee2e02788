package holdem

import (
	"encoding/json"
	"fmt"
)

// Card suit constants (0-3)
const (
	Club    = 0 // ♣
	Diamond = 1 // ♦
	Heart   = 2 // ♥
	Spade   = 3 // ♠
)

// Card rank constants for face cards and ace
const (
	Jack  = 11
	Queen = 12
	King  = 13
	Ace   = 1 // low in straights, high in value
)

// FaceDown is the display character for hidden cards.
const FaceDown = "▓"

// Card represents a playing card with suit and rank.
// Rank 0 indicates a face-down or uninitialized card.
type Card struct {
	suit uint8 // 0-3: clubs, diamonds, hearts, spades
	rank uint8 // 1-13: ace through king (0 = face down)
}

// NewCard creates a new Card, rejecting invalid suits and ranks.
func NewCard(suit uint8, rank uint8) (Card, error) {
	if suit > 3 || rank == 0 || rank > 13 {
		return Card{}, fmt.Errorf("invalid card %d, %d", suit, rank)
	}
	return Card{suit: suit, rank: rank}, nil
}

// Suit returns the suit value of the Card (0-3: clubs, diamonds, hearts, spades).
func (c Card) Suit() uint8 { return c.suit }

// Rank returns the rank value of the Card (1-13: ace through king).
func (c Card) Rank() uint8 { return c.rank }

// IsFaceDown reports whether the card has been withheld from the viewer.
func (c Card) IsFaceDown() bool { return c.rank == 0 }

// String returns a compact representation using suit symbols and rank
// abbreviations (A, J, Q, K, or the number).
func (c Card) String() string {
	if c.rank == 0 {
		return FaceDown
	}

	var suit string
	switch c.suit {
	case Club:
		suit = "♣"
	case Diamond:
		suit = "♦"
	case Heart:
		suit = "♥"
	case Spade:
		suit = "♠"
	default:
		suit = "?"
	}

	var rank string
	switch c.rank {
	case Ace:
		rank = "A"
	case Jack:
		rank = "J"
	case Queen:
		rank = "Q"
	case King:
		rank = "K"
	default:
		rank = fmt.Sprintf("%d", c.rank)
	}
	return rank + suit
}

type wireCard struct {
	Suit uint8 `json:"suit"`
	Rank uint8 `json:"rank"`
}

// MarshalJSON encodes the card for snapshots. Face-down cards round-trip.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{Suit: c.suit, Rank: c.rank})
}

// UnmarshalJSON decodes a card from a snapshot.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Suit > 3 || w.Rank > 13 {
		return fmt.Errorf("invalid card %d, %d", w.Suit, w.Rank)
	}
	c.suit = w.Suit
	c.rank = w.Rank
	return nil
}
