package holdem

import (
	"fmt"

	"github.com/paulhankin/poker"
)

// makeFinalHand assembles the 7-card hand (5 community + 2 hole) for a seat
// in the evaluator's card representation.
func (g *Game) makeFinalHand(p *Player) ([7]poker.Card, error) {
	var final [7]poker.Card
	for i, c := range g.community {
		card, err := poker.MakeCard(poker.Suit(c.suit), poker.Rank(c.rank))
		if err != nil {
			return [7]poker.Card{}, fmt.Errorf("invalid board card at idx %d: %w", i, err)
		}
		final[i] = card
	}
	for i, c := range p.hand {
		card, err := poker.MakeCard(poker.Suit(c.suit), poker.Rank(c.rank))
		if err != nil {
			return [7]poker.Card{}, fmt.Errorf("invalid hole card for %s: %w", p.username, err)
		}
		final[5+i] = card
	}
	return final, nil
}

// handWinners scores every seat still contesting the hand and returns the
// best, in table order. Ties return multiple winners.
func (g *Game) handWinners() ([]*Player, error) {
	var winners []*Player
	best := int16(-1)

	for _, p := range g.ActivePlayers() {
		if len(p.hand) != HandSize {
			continue
		}
		final, err := g.makeFinalHand(p)
		if err != nil {
			return nil, err
		}
		score := poker.Eval7(&final)
		switch {
		case score > best:
			best = score
			winners = winners[:0]
			winners = append(winners, p)
		case score == best:
			winners = append(winners, p)
		}
	}

	if len(winners) == 0 {
		return nil, fmt.Errorf("no seat eligible for the pot")
	}
	return winners, nil
}

// DescribeHand returns a human-readable description of a seat's best hand,
// such as "Kings full of Tens".
func (g *Game) DescribeHand(seat int) (string, error) {
	p := g.players[seat]
	if len(p.hand) != HandSize {
		return "", fmt.Errorf("%s has no cards this hand", p.username)
	}
	final, err := g.makeFinalHand(p)
	if err != nil {
		return "", err
	}
	return poker.Describe(final[:])
}
