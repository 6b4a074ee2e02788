package holdem

import "testing"

func TestNewCardValidation(t *testing.T) {
	if _, err := NewCard(4, 5); err == nil {
		t.Error("expected error for suit 4")
	}
	if _, err := NewCard(0, 0); err == nil {
		t.Error("expected error for rank 0")
	}
	if _, err := NewCard(0, 14); err == nil {
		t.Error("expected error for rank 14")
	}
	c, err := NewCard(Heart, Queen)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.String() != "Q♥" {
		t.Errorf("expected Q♥, got %s", c.String())
	}
}

func TestDeckDealsFiftyTwoUniqueCards(t *testing.T) {
	d := NewDeck()
	d.Shuffle()

	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		c := d.Deal()
		if seen[c] {
			t.Fatalf("card dealt twice: %s", c)
		}
		seen[c] = true
	}
	if len(seen) != deckSize {
		t.Errorf("expected %d cards, got %d", deckSize, len(seen))
	}
}
