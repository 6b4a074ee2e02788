package holdem

import (
	"fmt"
	"strings"
)

// PlayerState tracks a seat across a hand.
type PlayerState string

const (
	StateWaiting    PlayerState = "waiting"
	StateBetting    PlayerState = "betting"
	StateAllIn      PlayerState = "all_in"
	StateFolded     PlayerState = "folded"
	StateOutOfMoney PlayerState = "out_of_money"
)

// Action is a move a player can take on their turn.
type Action string

const (
	ActionFold  Action = "fold"
	ActionCheck Action = "check"
	ActionBet   Action = "bet"
	ActionCall  Action = "call"
	ActionAllIn Action = "all_in"
)

// ParseAction maps the wire spelling of an action to its Action value.
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case ActionFold, ActionCheck, ActionBet, ActionCall, ActionAllIn:
		return Action(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Player is one seat at the table.
type Player struct {
	username string
	chips    int
	bet      int // committed across the whole hand
	turnBet  int // committed in the current betting round
	hand     []Card
	state    PlayerState
}

// NewPlayer seats a player with a starting stack.
func NewPlayer(username string, chips int) *Player {
	return &Player{
		username: username,
		chips:    chips,
		state:    StateWaiting,
	}
}

func (p *Player) Username() string   { return p.username }
func (p *Player) Chips() int         { return p.chips }
func (p *Player) Bet() int           { return p.bet }
func (p *Player) TurnBet() int       { return p.turnBet }
func (p *Player) Hand() []Card       { return p.hand }
func (p *Player) State() PlayerState { return p.state }

func (p *Player) setHand(cards []Card) { p.hand = cards }

func (p *Player) addChips(amount int) { p.chips += amount }

// placeBet commits amount from the stack, going all-in when the stack
// cannot cover it.
func (p *Player) placeBet(amount int) {
	if p.chips <= amount {
		p.bet += p.chips
		p.turnBet += p.chips
		p.chips = 0
		p.state = StateAllIn
		return
	}
	p.bet += amount
	p.turnBet += amount
	p.chips -= amount
	p.state = StateBetting
}

func (p *Player) fold() { p.state = StateFolded }

func (p *Player) resetBet()     { p.bet = 0 }
func (p *Player) resetTurnBet() { p.turnBet = 0 }

// resetState prepares the seat for the next hand. Busted players stay out.
func (p *Player) resetState() {
	p.state = StateWaiting
	if p.chips == 0 {
		p.state = StateOutOfMoney
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("%s: %d | %s | %d", p.username, p.chips, p.state, p.turnBet)
}
