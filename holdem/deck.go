package holdem

import "math/rand/v2"

const deckSize = 52

// Deck is a standard 52-card deck dealt from the top.
type Deck struct {
	cards []Card
}

// NewDeck returns a full deck in canonical order.
func NewDeck() *Deck {
	d := &Deck{}
	d.Reset()
	return d
}

// Reset restores the full 52 cards in canonical order.
func (d *Deck) Reset() {
	d.cards = make([]Card, 0, deckSize)
	for suit := uint8(0); suit <= 3; suit++ {
		for rank := uint8(1); rank <= 13; rank++ {
			d.cards = append(d.cards, Card{suit: suit, rank: rank})
		}
	}
}

// Shuffle randomizes the order of the remaining cards.
func (d *Deck) Shuffle() {
	rand.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the top card. It panics on an empty deck, which
// cannot happen in a six-player hand.
func (d *Deck) Deal() Card {
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c
}

// DealCards removes and returns the top n cards.
func (d *Deck) DealCards(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.Deal()
	}
	return cards
}

// Remaining returns how many cards are left to deal.
func (d *Deck) Remaining() int { return len(d.cards) }
