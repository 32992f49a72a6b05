package domain

import (
	"errors"
	"testing"
)

func TestCodeRoundTrip(t *testing.T) {
	for _, c := range NewDeck() {
		code := Code(c)
		got, err := FromCode(code)
		if err != nil {
			t.Fatalf("FromCode(%q) error: %v", code, err)
		}
		if got != c {
			t.Errorf("FromCode(Code(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestFromCodeMalformed(t *testing.T) {
	for _, code := range []string{"", "X", "9X", "ZZZ"} {
		if _, err := FromCode(code); !errors.Is(err, ErrMalformedCard) {
			t.Errorf("FromCode(%q) error = %v, want ErrMalformedCard", code, err)
		}
	}
}

func TestIsPermanentTrump(t *testing.T) {
	trumps := []Card{
		{Suit: Clubs, Rank: Jack}, {Suit: Spades, Rank: Jack},
		{Suit: Hearts, Rank: Jack}, {Suit: Diamonds, Rank: Jack},
		{Suit: Clubs, Rank: Queen}, {Suit: Spades, Rank: Queen},
	}
	for _, c := range trumps {
		if !IsPermanentTrump(c) {
			t.Errorf("IsPermanentTrump(%v) = false, want true", c)
		}
	}

	nonTrumps := []Card{
		{Suit: Hearts, Rank: Queen}, {Suit: Diamonds, Rank: Queen},
		{Suit: Hearts, Rank: Ace}, {Suit: Clubs, Rank: Ace},
	}
	for _, c := range nonTrumps {
		if IsPermanentTrump(c) {
			t.Errorf("IsPermanentTrump(%v) = true, want false", c)
		}
	}
}

func TestPointValueTotalsDeck(t *testing.T) {
	total := 0
	for _, c := range NewDeck() {
		total += PointValue(c)
	}
	if total != 120 {
		t.Errorf("deck point total = %d, want 120", total)
	}
}

func TestTrumpRankOrdering(t *testing.T) {
	trumpSuit := Hearts
	order := []Card{
		{Suit: Clubs, Rank: Queen},
		{Suit: Spades, Rank: Queen},
		{Suit: Clubs, Rank: Jack},
		{Suit: Spades, Rank: Jack},
		{Suit: Hearts, Rank: Jack},
		{Suit: Diamonds, Rank: Jack},
		{Suit: Hearts, Rank: Ace},
		{Suit: Hearts, Rank: King},
		{Suit: Hearts, Rank: Queen},
		{Suit: Hearts, Rank: Ten},
	}
	for i := 0; i < len(order)-1; i++ {
		hi, ok := TrumpRank(order[i], trumpSuit)
		if !ok {
			t.Fatalf("TrumpRank(%v) not trump", order[i])
		}
		lo, ok := TrumpRank(order[i+1], trumpSuit)
		if !ok {
			t.Fatalf("TrumpRank(%v) not trump", order[i+1])
		}
		if hi <= lo {
			t.Errorf("expected %v to outrank %v under %v trump", order[i], order[i+1], trumpSuit)
		}
	}
}

func TestTrumpSuitQueenOnlyRanksForRedSuits(t *testing.T) {
	if r, ok := TrumpRank(Card{Suit: Clubs, Rank: Queen}, Clubs); !ok || r != 20 {
		t.Fatalf("Clubs Q should resolve via permanentTrumpRank path (rank 20), not trump-suit Queen case; got %d, %v", r, ok)
	}
	if r, ok := TrumpRank(Card{Suit: Spades, Rank: Queen}, Spades); !ok || r != 19 {
		t.Fatalf("Spades Q should resolve via permanentTrumpRank path (rank 19), not trump-suit Queen case; got %d, %v", r, ok)
	}
}

func TestBeatsTrumpAlwaysWinsOverNonTrump(t *testing.T) {
	trump := Card{Suit: Hearts, Rank: Seven}
	nonTrump := Card{Suit: Clubs, Rank: Ace}
	if !Beats(trump, nonTrump, Hearts, Clubs) {
		t.Errorf("trump seven should beat non-trump ace")
	}
	if Beats(nonTrump, trump, Hearts, Clubs) {
		t.Errorf("non-trump ace should not beat trump seven")
	}
}

func TestBeatsRequiresFollowingLeadSuit(t *testing.T) {
	lead := Clubs
	winner := Card{Suit: Clubs, Rank: Ace}
	offSuit := Card{Suit: Diamonds, Rank: Ace}
	if Beats(offSuit, winner, Spades, lead) {
		t.Errorf("off-suit card must not beat a card that followed lead suit")
	}
}

func TestLeadSuitForTrumpVersusPlain(t *testing.T) {
	if LeadSuitFor(Card{Suit: Hearts, Rank: Jack}, Spades) != SuitTrumpLed {
		t.Errorf("permanent trump opener should set SuitTrumpLed")
	}
	if LeadSuitFor(Card{Suit: Spades, Rank: Seven}, Spades) != SuitTrumpLed {
		t.Errorf("trump-suit opener should set SuitTrumpLed")
	}
	if got := LeadSuitFor(Card{Suit: Diamonds, Rank: Ace}, Spades); got != Diamonds {
		t.Errorf("non-trump opener should lead its own suit, got %v", got)
	}
}
