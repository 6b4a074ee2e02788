package holdem

import "encoding/json"

// PlayerView is one seat as a viewer is allowed to see it. Hand is empty for
// opponents until showdown.
type PlayerView struct {
	Username string      `json:"username"`
	Chips    int         `json:"chips"`
	Bet      int         `json:"bet"`
	TurnBet  int         `json:"turnBet"`
	State    PlayerState `json:"state"`
	Hand     []Card      `json:"hand,omitempty"`
}

// Snapshot is a per-viewer projection of the table, the only game state that
// ever crosses the wire. Community cards are included only up to the current
// street even though all five are dealt up front.
type Snapshot struct {
	Players       []PlayerView `json:"players"`
	Winners       []string     `json:"winners,omitempty"`
	Community     []Card       `json:"community"`
	HandSummaries []string     `json:"handSummaries,omitempty"`
	Phase         Phase        `json:"phase"`
	GameOver      bool         `json:"gameOver"`
	HandOver      bool         `json:"handOver"`
	Viewer        int          `json:"viewer"`
	Current       int          `json:"current"`
	SmallBlind    int          `json:"smallBlind"`
	BigBlind      int          `json:"bigBlind"`
	SmallBlindBet int          `json:"smallBlindBet"`
	BigBlindBet   int          `json:"bigBlindBet"`
	HandsPlayed   int          `json:"handsPlayed"`
	Pot           int          `json:"pot"`
}

// Snapshot renders the table for one seat. While a hand is running, only the
// viewer's own hole cards appear; at showdown every surviving hand is shown
// together with its description and the winners.
func (g *Game) Snapshot(viewer int) (Snapshot, error) {
	snap := Snapshot{
		Phase:         g.phase,
		GameOver:      g.gameOver,
		HandOver:      g.handOver,
		Viewer:        viewer,
		Current:       g.current,
		SmallBlind:    g.smallBlind,
		BigBlind:      g.bigBlind,
		SmallBlindBet: g.smallBlindBet,
		BigBlindBet:   g.bigBlindBet,
		HandsPlayed:   g.handsPlayed,
		Pot:           g.pot,
	}

	switch {
	case g.gameOver:
		for _, p := range g.players {
			snap.Players = append(snap.Players, viewOf(p, true))
		}
		for _, w := range g.GameWinners() {
			snap.Winners = append(snap.Winners, w.username)
		}
	case g.handOver:
		for i, p := range g.players {
			snap.Players = append(snap.Players, viewOf(p, true))
			if len(p.hand) == HandSize {
				desc, err := g.DescribeHand(i)
				if err != nil {
					return Snapshot{}, err
				}
				snap.HandSummaries = append(snap.HandSummaries, desc)
			} else {
				snap.HandSummaries = append(snap.HandSummaries, "")
			}
		}
		winners, err := g.handWinners()
		if err != nil {
			return Snapshot{}, err
		}
		for _, w := range winners {
			snap.Winners = append(snap.Winners, w.username)
		}
	default:
		for i, p := range g.players {
			snap.Players = append(snap.Players, viewOf(p, i == viewer))
		}
	}

	switch g.phase {
	case Flop:
		snap.Community = g.community[:3]
	case Turn:
		snap.Community = g.community[:4]
	case River:
		snap.Community = g.community[:5]
	}

	return snap, nil
}

func viewOf(p *Player, showHand bool) PlayerView {
	v := PlayerView{
		Username: p.username,
		Chips:    p.chips,
		Bet:      p.bet,
		TurnBet:  p.turnBet,
		State:    p.state,
	}
	if showHand {
		v.Hand = p.hand
	}
	return v
}

// CurrentBet returns the bet to match, derived from the per-round bets so
// the client never needs extra fields to act on.
func (s Snapshot) CurrentBet() int {
	max := 0
	for _, p := range s.Players {
		if p.TurnBet > max {
			max = p.TurnBet
		}
	}
	return max
}

// Encode serializes the snapshot for the wire.
func (s Snapshot) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSnapshot parses a snapshot received from the server.
func DecodeSnapshot(s string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(s), &snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
