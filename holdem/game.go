package holdem

import (
	"fmt"
	"sort"
)

// Table constants.
const (
	NumPlayers    = 6
	HandSize      = 2
	CommunitySize = 5
	StartingChips = 10000
	MaxHands      = 20

	initialSmallBlind = 50
	initialBigBlind   = 100
	handsPerBlind     = 5
	blindIncrease     = 2
)

// Phase is the current betting round of a hand.
type Phase string

const (
	Preflop Phase = "preflop"
	Flop    Phase = "flop"
	Turn    Phase = "turn"
	River   Phase = "river"
)

// Game holds the complete state of one table. Methods are not safe for
// concurrent use.
type Game struct {
	players   []*Player
	deck      *Deck
	community []Card

	handsPlayed   int
	smallBlindBet int
	bigBlindBet   int
	smallBlind    int // seat index
	bigBlind      int // seat index
	lastRaiser    int
	current       int
	pot           int
	currentBet    int
	handOver      bool
	gameOver      bool
	phase         Phase
}

// NewGame seats the given usernames and starts the first hand, posting blinds.
func NewGame(usernames []string) (*Game, error) {
	if len(usernames) != NumPlayers {
		return nil, fmt.Errorf("a table seats %d players, got %d", NumPlayers, len(usernames))
	}

	g := &Game{
		deck:          NewDeck(),
		smallBlindBet: initialSmallBlind,
		bigBlindBet:   initialBigBlind,
		smallBlind:    0,
		bigBlind:      1,
		phase:         Preflop,
	}
	for _, username := range usernames {
		g.players = append(g.players, NewPlayer(username, StartingChips))
	}

	g.startHand()
	return g, nil
}

// Players returns all seats in table order.
func (g *Game) Players() []*Player { return g.players }

// Seat returns the index of the named player, or -1.
func (g *Game) Seat(username string) int {
	for i, p := range g.players {
		if p.username == username {
			return i
		}
	}
	return -1
}

// ActivePlayers returns the seats still contesting the current hand.
func (g *Game) ActivePlayers() []*Player {
	var active []*Player
	for _, p := range g.players {
		if p.state != StateFolded && p.state != StateOutOfMoney {
			active = append(active, p)
		}
	}
	return active
}

// Current returns the seat index whose turn it is.
func (g *Game) Current() int { return g.current }

// CurrentBet returns the bet to match in the current betting round.
func (g *Game) CurrentBet() int { return g.currentBet }

// Pot returns the chips at stake in the current hand.
func (g *Game) Pot() int { return g.pot }

// Phase returns the current betting round.
func (g *Game) Phase() Phase { return g.phase }

// HandsPlayed returns how many hands have been completed.
func (g *Game) HandsPlayed() int { return g.handsPlayed }

// IsHandOver reports whether the current hand has reached showdown.
func (g *Game) IsHandOver() bool { return g.handOver }

// IsGameOver reports whether the tournament is finished.
func (g *Game) IsGameOver() bool { return g.gameOver }

// GameWinners returns all seats ordered by final stack, ascending.
func (g *Game) GameWinners() []*Player {
	winners := make([]*Player, len(g.players))
	copy(winners, g.players)
	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].chips < winners[j].chips
	})
	return winners
}

func (g *Game) isInactive(seat int) bool {
	switch g.players[seat].state {
	case StateFolded, StateAllIn, StateOutOfMoney:
		return true
	}
	return false
}

func (g *Game) nextActive(seat int) int {
	next := (seat + 1) % NumPlayers
	for g.isInactive(next) {
		next = (next + 1) % NumPlayers
	}
	return next
}

func (g *Game) updateBlinds() {
	g.smallBlind = g.nextActive(g.smallBlind)
	g.bigBlind = g.nextActive(g.bigBlind)

	if g.handsPlayed%handsPerBlind == 0 {
		g.smallBlindBet *= blindIncrease
		g.bigBlindBet *= blindIncrease
	}
}

func (g *Game) isHandDone() bool {
	if g.phase == River && g.current == g.lastRaiser {
		return true
	}
	active := g.ActivePlayers()
	if len(active) == 1 {
		return true
	}

	notAllIn := 0
	for _, p := range active {
		if p.state != StateAllIn {
			notAllIn++
		}
	}
	return notAllIn == 0
}

func (g *Game) isGameDone() bool {
	if g.handsPlayed == MaxHands {
		return true
	}

	withMoney := 0
	for _, p := range g.players {
		if p.chips > 0 {
			withMoney++
		}
	}
	return withMoney == 1
}

// startHand shuffles, deals hole and community cards, and posts the blinds.
// The community cards stay hidden until their street; snapshots reveal them
// per phase.
func (g *Game) startHand() {
	g.pot = 0
	g.lastRaiser = -1
	g.currentBet = 0
	g.current = g.smallBlind
	g.phase = Preflop
	g.handOver = false
	g.gameOver = false

	g.deck.Reset()
	g.deck.Shuffle()

	for _, p := range g.players {
		if p.state != StateOutOfMoney {
			p.setHand(g.deck.DealCards(HandSize))
		}
	}
	g.community = g.deck.DealCards(CommunitySize)

	g.TakeAction(ActionBet, g.smallBlindBet)
	g.TakeAction(ActionBet, g.bigBlindBet)
}

func (g *Game) nextHand() {
	g.handsPlayed++

	for _, p := range g.players {
		p.resetBet()
		p.resetTurnBet()
		p.resetState()
	}

	g.updateBlinds()
	g.startHand()
}

// EndHand settles the pot among the hand winners and moves to the next hand,
// or finishes the tournament. Side pots form when winners committed unequal
// amounts. Integer splits leave the remainder with the winner who committed
// the least, so no chips ever leave the table.
func (g *Game) EndHand() error {
	winners, err := g.handWinners()
	if err != nil {
		return err
	}
	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].bet < winners[j].bet
	})

	n := len(winners)
	for i := 0; i < n-1; i++ {
		sidePot := winners[i].bet - winners[i+1].bet
		g.pot -= sidePot
		share := sidePot / (i + 1)
		rem := sidePot - share*(i+1)
		for j := i; j >= 0; j-- {
			winners[j].addChips(share)
		}
		winners[0].addChips(rem)
	}

	share := g.pot / n
	rem := g.pot - share*n
	for _, w := range winners {
		w.addChips(share)
	}
	winners[0].addChips(rem)

	if g.isGameDone() {
		g.gameOver = true
		return nil
	}
	g.nextHand()
	return nil
}

// nextStreet advances the betting round, resets per-round bets and hands the
// turn back to the small blind side.
func (g *Game) nextStreet() {
	switch g.phase {
	case Preflop:
		g.phase = Flop
	case Flop:
		g.phase = Turn
	case Turn:
		g.phase = River
	}

	g.currentBet = 0
	for _, p := range g.players {
		p.resetTurnBet()
	}

	g.current = g.smallBlind
	if g.isInactive(g.current) {
		g.current = g.nextActive(g.current)
	}
	g.lastRaiser = g.current
}

func (g *Game) afterAction() {
	g.current = (g.current + 1) % NumPlayers
	if g.isHandDone() {
		g.handOver = true
		g.phase = River
	} else if g.current == g.lastRaiser {
		g.nextStreet()
	} else if g.isInactive(g.current) {
		g.afterAction()
	}
}

// TakeAction applies the current player's move and advances the turn. A bet
// exceeding the stack becomes all-in. Calls after the hand or game is over
// are ignored.
func (g *Game) TakeAction(action Action, amount int) {
	if g.handOver || g.gameOver {
		return
	}

	player := g.players[g.current]
	before := player.bet
	switch action {
	case ActionFold:
		player.fold()
	case ActionBet:
		player.placeBet(amount)
		if player.bet > g.currentBet {
			g.currentBet = player.bet
			g.lastRaiser = g.current
		}
	case ActionCall:
		player.placeBet(g.currentBet - player.bet)
	case ActionCheck:
	case ActionAllIn:
		player.placeBet(player.chips)
		if player.bet > g.currentBet {
			g.currentBet = player.bet
			g.lastRaiser = g.current
		}
	}

	g.pot += player.bet - before
	g.afterAction()
}
