package holdem

import "testing"

func names() []string {
	return []string{"alice", "bob", "carol", "dave", "eve", "frank"}
}

func totalChips(g *Game) int {
	total := g.Pot()
	for _, p := range g.Players() {
		total += p.Chips()
	}
	return total
}

// TestNewGamePostsBlinds checks that the first hand opens with the blinds
// already in the pot and the turn on the seat after the big blind.
func TestNewGamePostsBlinds(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Pot() != 150 {
		t.Errorf("expected pot 150 after blinds, got %d", g.Pot())
	}
	if g.Players()[0].Bet() != 50 {
		t.Errorf("expected small blind bet 50, got %d", g.Players()[0].Bet())
	}
	if g.Players()[1].Bet() != 100 {
		t.Errorf("expected big blind bet 100, got %d", g.Players()[1].Bet())
	}
	if g.Current() != 2 {
		t.Errorf("expected seat 2 to act first, got %d", g.Current())
	}
	if g.CurrentBet() != 100 {
		t.Errorf("expected current bet 100, got %d", g.CurrentBet())
	}
	for _, p := range g.Players() {
		if len(p.Hand()) != HandSize {
			t.Errorf("%s has %d hole cards", p.Username(), len(p.Hand()))
		}
	}
}

func TestNewGameWrongSeatCount(t *testing.T) {
	if _, err := NewGame([]string{"alice", "bob"}); err == nil {
		t.Fatal("expected error for wrong seat count")
	}
}

// TestFoldAroundEndsHand folds everyone but the big blind and checks the pot
// lands there.
func TestFoldAroundEndsHand(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		g.TakeAction(ActionFold, 0)
	}

	if !g.IsHandOver() {
		t.Fatal("expected hand to be over after five folds")
	}
	if err := g.EndHand(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The big blind put in 100 and won the 150 pot. The next hand has
	// already posted its blinds, so count the stack plus committed chips.
	if got := g.Players()[1].Chips() + g.Players()[1].Bet(); got != StartingChips+50 {
		t.Errorf("expected winner holdings %d, got %d", StartingChips+50, got)
	}
	if g.HandsPlayed() != 1 {
		t.Errorf("expected 1 hand played, got %d", g.HandsPlayed())
	}
	if totalChips(g) != NumPlayers*StartingChips {
		t.Errorf("chips left the table: total %d", totalChips(g))
	}
}

// TestCheckedDownHandReachesShowdown calls the blinds and checks every
// street, then settles the pot.
func TestCheckedDownHandReachesShowdown(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 5; i++ {
		g.TakeAction(ActionCall, 0)
	}
	if g.Phase() != Flop {
		t.Fatalf("expected flop after preflop calls, got %s", g.Phase())
	}

	for _, want := range []Phase{Turn, River} {
		for i := 0; i < NumPlayers; i++ {
			g.TakeAction(ActionCheck, 0)
		}
		if g.Phase() != want {
			t.Fatalf("expected %s, got %s", want, g.Phase())
		}
	}

	for i := 0; i < NumPlayers; i++ {
		g.TakeAction(ActionCheck, 0)
	}
	if !g.IsHandOver() {
		t.Fatal("expected showdown after checking the river")
	}
	if g.Pot() != 600 {
		t.Errorf("expected pot 600, got %d", g.Pot())
	}

	if err := g.EndHand(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totalChips(g) != NumPlayers*StartingChips {
		t.Errorf("chips left the table: total %d", totalChips(g))
	}
}

// TestBlindsDoubleEveryFiveHands plays five fold-around hands and checks
// the blind escalation.
func TestBlindsDoubleEveryFiveHands(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for hand := 0; hand < 5; hand++ {
		for !g.IsHandOver() {
			g.TakeAction(ActionFold, 0)
		}
		if err := g.EndHand(); err != nil {
			t.Fatalf("hand %d: unexpected error: %v", hand, err)
		}
	}

	if g.smallBlindBet != 100 || g.bigBlindBet != 200 {
		t.Errorf("expected blinds 100/200 after five hands, got %d/%d",
			g.smallBlindBet, g.bigBlindBet)
	}
}

// TestBetBeyondStackGoesAllIn bets more than the stack and expects the
// player to be all-in rather than in debt.
func TestBetBeyondStackGoesAllIn(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seat := g.Current()
	g.TakeAction(ActionBet, StartingChips*2)

	p := g.Players()[seat]
	if p.State() != StateAllIn {
		t.Errorf("expected all_in, got %s", p.State())
	}
	if p.Chips() != 0 {
		t.Errorf("expected empty stack, got %d", p.Chips())
	}
	if p.Bet() != StartingChips {
		t.Errorf("expected full stack committed, got %d", p.Bet())
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"fold", "CHECK", "Bet", "call", "all_in"} {
		if _, err := ParseAction(s); err != nil {
			t.Errorf("ParseAction(%q): unexpected error: %v", s, err)
		}
	}
	if _, err := ParseAction("raise_the_roof"); err == nil {
		t.Error("expected error for unknown action")
	}
}

// TestSnapshotHidesOpponentCards checks redaction while the hand runs and
// full disclosure at showdown.
func TestSnapshotHidesOpponentCards(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := g.Snapshot(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Community) != 0 {
		t.Errorf("expected no community cards preflop, got %d", len(snap.Community))
	}
	for i, pv := range snap.Players {
		if i == 2 && len(pv.Hand) != HandSize {
			t.Errorf("viewer cannot see their own hand")
		}
		if i != 2 && len(pv.Hand) != 0 {
			t.Errorf("seat %d hand leaked to viewer", i)
		}
	}

	for i := 0; i < 5; i++ {
		g.TakeAction(ActionFold, 0)
	}
	snap, err = g.Snapshot(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !snap.HandOver {
		t.Fatal("expected showdown snapshot")
	}
	if len(snap.Winners) == 0 {
		t.Error("expected winners at showdown")
	}
	if len(snap.Community) != CommunitySize {
		t.Errorf("expected full board at showdown, got %d", len(snap.Community))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, err := NewGame(names())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap, err := g.Snapshot(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	encoded, err := snap.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if decoded.Pot != snap.Pot || decoded.Phase != snap.Phase {
		t.Errorf("snapshot did not survive the wire: %+v vs %+v", decoded, snap)
	}
	if decoded.CurrentBet() != 100 {
		t.Errorf("expected current bet 100 from turn bets, got %d", decoded.CurrentBet())
	}
	if len(decoded.Players[0].Hand) != HandSize {
		t.Errorf("viewer hand lost in encoding")
	}
}
