package domain

import "testing"

func TestLegalCardsMustFollowLiteralLeadSuit(t *testing.T) {
	trick := &TrickState{
		LeadSuit:    Clubs,
		LeadSuitSet: true,
		TrumpSuit:   Hearts,
		CardsPlayed: []PlayedCard{{Seat: 0, Card: Card{Clubs, Ace}}},
	}
	hand := []Card{{Clubs, King}, {Diamonds, Ace}, {Hearts, Seven}}
	legal := LegalCards(trick, hand)
	if len(legal) != 1 || legal[0] != (Card{Clubs, King}) {
		t.Errorf("LegalCards = %v, want only Clubs King", legal)
	}
}

func TestLegalCardsAnyTrumpWhenTrumpLed(t *testing.T) {
	trick := &TrickState{
		LeadSuit:    SuitTrumpLed,
		LeadSuitSet: true,
		TrumpSuit:   Hearts,
		CardsPlayed: []PlayedCard{{Seat: 0, Card: Card{Hearts, Seven}}},
	}
	hand := []Card{{Clubs, Jack}, {Hearts, King}, {Diamonds, Ace}}
	legal := LegalCards(trick, hand)
	if len(legal) != 2 {
		t.Errorf("LegalCards = %v, want the 2 trump cards (Clubs J permanent + Hearts K)", legal)
	}
}

func TestLegalCardsFallsBackToWholeHandWhenVoid(t *testing.T) {
	trick := &TrickState{
		LeadSuit:    Spades,
		LeadSuitSet: true,
		TrumpSuit:   Hearts,
		CardsPlayed: []PlayedCard{{Seat: 0, Card: Card{Spades, Ace}}},
	}
	hand := []Card{{Clubs, King}, {Diamonds, Ace}}
	legal := LegalCards(trick, hand)
	if len(legal) != 2 {
		t.Errorf("LegalCards should fall back to full hand when void in lead suit, got %v", legal)
	}
}

func TestPlayCardEnforcesTurnOrder(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	hand1 := []Card{{Clubs, Seven}}
	err := gts.PlayCard(1, Card{Clubs, Seven}, hand1)
	if err == nil {
		t.Fatalf("expected ErrNotYourTurn")
	}
}

func TestPlayCardRejectsCardNotInHand(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	hand := []Card{{Clubs, Seven}}
	if err := gts.PlayCard(0, Card{Diamonds, Ace}, hand); err == nil {
		t.Fatalf("expected ErrCardNotInHand")
	}
}

func TestPlayCardEnforcesFollowSuit(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	hand0 := []Card{{Clubs, Ace}}
	if err := gts.PlayCard(0, Card{Clubs, Ace}, hand0); err != nil {
		t.Fatalf("seat 0 lead: unexpected error %v", err)
	}
	hand1 := []Card{{Clubs, King}, {Diamonds, Ace}}
	if err := gts.PlayCard(1, Card{Diamonds, Ace}, hand1); err == nil {
		t.Fatalf("expected ErrIllegalFollowSuit when holding a Clubs card")
	}
	if err := gts.PlayCard(1, Card{Clubs, King}, hand1); err != nil {
		t.Fatalf("following suit should be legal, got %v", err)
	}
}

func TestResolveTrickPicksHighestByBeats(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	plays := []struct {
		seat int
		card Card
	}{
		{0, Card{Clubs, King}},
		{1, Card{Clubs, Ace}},
		{2, Card{Hearts, Seven}}, // trump, should win
		{3, Card{Clubs, Ten}},
	}
	for _, p := range plays {
		if err := gts.PlayCard(p.seat, p.card, []Card{p.card}); err != nil {
			t.Fatalf("seat %d: unexpected error %v", p.seat, err)
		}
	}
	last := gts.History[len(gts.History)-1]
	if last.TrickWinner != 2 {
		t.Errorf("TrickWinner = %d, want 2 (the trump card)", last.TrickWinner)
	}
}

func TestCompleteTrickAdvancesLeaderAndStartsNextTrick(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	cards := []Card{{Clubs, King}, {Clubs, Ace}, {Clubs, Queen}, {Clubs, Jack}}
	for seat, c := range cards {
		if err := gts.PlayCard(seat, c, []Card{c}); err != nil {
			t.Fatalf("seat %d: %v", seat, err)
		}
	}
	if gts.Current == nil {
		t.Fatalf("expected trick 2 to begin")
	}
	if gts.Current.TrickNumber != 2 {
		t.Errorf("TrickNumber = %d, want 2", gts.Current.TrickNumber)
	}
	winner := gts.History[0].TrickWinner
	if gts.Current.CurrentPlayer != winner {
		t.Errorf("next trick leader = %d, want trick winner %d", gts.Current.CurrentPlayer, winner)
	}
}

func TestGameCompletesAtTrickEight(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	gts.Current.TrickNumber = 8
	cards := []Card{{Clubs, King}, {Clubs, Ace}, {Clubs, Queen}, {Clubs, Jack}}
	for seat, c := range cards {
		if err := gts.PlayCard(seat, c, []Card{c}); err != nil {
			t.Fatalf("seat %d: %v", seat, err)
		}
	}
	if !gts.GameComplete {
		t.Errorf("GameComplete = false after trick 8, want true")
	}
	if gts.Current != nil {
		t.Errorf("Current should be nil once the game is complete")
	}
}

func TestPlayCardRejectsOnceTrickComplete(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	gts.Current.TrickNumber = 8
	cards := []Card{{Clubs, King}, {Clubs, Ace}, {Clubs, Queen}, {Clubs, Jack}}
	for seat, c := range cards {
		_ = gts.PlayCard(seat, c, []Card{c})
	}
	if err := gts.PlayCard(0, Card{Hearts, Seven}, []Card{{Hearts, Seven}}); err == nil {
		t.Fatalf("expected ErrTrickAlreadyComplete once the game has ended")
	}
}

func TestIndividualVolRequiresOneSeatWinningAllEightTricks(t *testing.T) {
	gts := NewGameTrickState(Hearts, 0, 0)
	trumpCards := []Card{
		{Clubs, Queen}, {Spades, Queen}, {Clubs, Jack}, {Spades, Jack},
		{Hearts, Jack}, {Diamonds, Jack}, {Hearts, Ace}, {Hearts, King},
	}
	for trickNum := 0; trickNum < 8; trickNum++ {
		leader := gts.Current.CurrentPlayer
		for i := 0; i < 4; i++ {
			seat := (leader + i) % 4
			var card Card
			if seat == 0 {
				card = trumpCards[trickNum]
			} else {
				card = Card{Clubs, Rank(i)}
			}
			if err := gts.PlayCard(seat, card, []Card{card}); err != nil {
				t.Fatalf("trick %d seat %d: unexpected error %v", trickNum+1, seat, err)
			}
		}
	}
	if !gts.GameComplete {
		t.Fatalf("expected game to complete after 8 tricks")
	}
	if !gts.IndividualVol() {
		t.Errorf("IndividualVol() = false, want true when seat 0 wins all 8 tricks")
	}
}
