package domain

import "fmt"

// PlayedCard is one card played into a trick by the seat that played it.
type PlayedCard struct {
	Seat int
	Card Card
}

// TrickState represents a single trick in progress or completed.
type TrickState struct {
	TrickNumber   int // 1..8
	LeadSuit      Suit
	LeadSuitSet   bool
	CardsPlayed   []PlayedCard
	CurrentPlayer int
	TrickWinner   int
	WinnerSet     bool
	Complete      bool
	TrumpSuit     Suit
}

// GameTrickState is the cumulative playing-phase state for one game: the
// current trick plus running totals, the trump partnership, and the
// history of completed tricks used for individual-vol detection.
type GameTrickState struct {
	Current            *TrickState
	TrumpTeamTricks    int
	OpponentTeamTricks int
	TrumpTeamPoints    int
	OpponentTeamPoints int
	DeclarerSeat       int
	PartnerSeat        int
	GameComplete       bool
	History            []TrickState
}

// NewGameTrickState starts trick #1 led by leaderSeat, for the given
// trump declarer (partnerSeat is always declarerSeat+2 mod 4).
func NewGameTrickState(trumpSuit Suit, declarerSeat, leaderSeat int) *GameTrickState {
	return &GameTrickState{
		Current: &TrickState{
			TrickNumber:   1,
			CurrentPlayer: leaderSeat,
			TrumpSuit:     trumpSuit,
		},
		DeclarerSeat: declarerSeat,
		PartnerSeat:  (declarerSeat + 2) % 4,
	}
}

func (gts *GameTrickState) isTrumpTeam(seat int) bool {
	return seat == gts.DeclarerSeat || seat == gts.PartnerSeat
}

// LegalCards returns the subset of hand legal to play into trick. The
// holder must follow the effective lead suit (a literal suit, or "any
// trump" when SuitTrumpLed) when able; otherwise every card is legal.
func LegalCards(trick *TrickState, hand []Card) []Card {
	if len(trick.CardsPlayed) == 0 || !trick.LeadSuitSet {
		return append([]Card{}, hand...)
	}

	var subset []Card
	if trick.LeadSuit == SuitTrumpLed {
		for _, c := range hand {
			if IsTrump(c, trick.TrumpSuit) {
				subset = append(subset, c)
			}
		}
	} else {
		for _, c := range hand {
			if c.Suit == trick.LeadSuit && !IsPermanentTrump(c) {
				subset = append(subset, c)
			}
		}
	}

	if len(subset) == 0 {
		return append([]Card{}, hand...)
	}
	return subset
}

// PlayCard plays card for seat into the current trick, enforcing turn
// order and follow-suit, and resolves the trick once 4 cards are in.
// hand is the playing seat's hand before the card is removed; callers are
// responsible for removing the card from persisted hand state afterward.
func (gts *GameTrickState) PlayCard(seat int, card Card, hand []Card) error {
	trick := gts.Current
	if trick == nil || trick.Complete {
		return ErrTrickAlreadyComplete
	}
	if seat != trick.CurrentPlayer {
		return ErrNotYourTurn
	}
	if !containsCard(hand, card) {
		return ErrCardNotInHand
	}
	legal := LegalCards(trick, hand)
	if !containsCard(legal, card) {
		return ErrIllegalFollowSuit
	}

	if len(trick.CardsPlayed) == 0 {
		trick.LeadSuit = LeadSuitFor(card, trick.TrumpSuit)
		trick.LeadSuitSet = true
	}

	trick.CardsPlayed = append(trick.CardsPlayed, PlayedCard{Seat: seat, Card: card})

	if len(trick.CardsPlayed) < 4 {
		trick.CurrentPlayer = (seat + 1) % 4
		return nil
	}

	gts.resolveTrick(trick)
	return nil
}

func (gts *GameTrickState) resolveTrick(trick *TrickState) {
	if len(trick.CardsPlayed) != 4 {
		panic(fmt.Sprintf("resolveTrick: trick has %d cards, want 4", len(trick.CardsPlayed)))
	}

	winner := trick.CardsPlayed[0]
	for _, pc := range trick.CardsPlayed[1:] {
		if Beats(pc.Card, winner.Card, trick.TrumpSuit, trick.LeadSuit) {
			winner = pc
		}
	}

	trick.TrickWinner = winner.Seat
	trick.WinnerSet = true
	trick.Complete = true

	gts.completeTrick(*trick)
}

// completeTrick accumulates points/trick counts for the winning team and
// either starts the next trick or marks the game complete at trick 8.
func (gts *GameTrickState) completeTrick(trick TrickState) {
	points := 0
	for _, pc := range trick.CardsPlayed {
		points += PointValue(pc.Card)
	}

	if gts.isTrumpTeam(trick.TrickWinner) {
		gts.TrumpTeamTricks++
		gts.TrumpTeamPoints += points
	} else {
		gts.OpponentTeamTricks++
		gts.OpponentTeamPoints += points
	}

	gts.History = append(gts.History, trick)

	if trick.TrickNumber >= 8 {
		gts.GameComplete = true
		gts.Current = nil
		return
	}

	gts.Current = &TrickState{
		TrickNumber:   trick.TrickNumber + 1,
		CurrentPlayer: trick.TrickWinner,
		TrumpSuit:     trick.TrumpSuit,
	}
}

// IndividualVol reports whether a single seat won all 8 tricks of a
// completed game and that seat belongs to the trump team.
func (gts *GameTrickState) IndividualVol() bool {
	if len(gts.History) != 8 {
		return false
	}
	first := gts.History[0].TrickWinner
	if !gts.isTrumpTeam(first) {
		return false
	}
	for _, t := range gts.History[1:] {
		if t.TrickWinner != first {
			return false
		}
	}
	return true
}

func containsCard(cards []Card, card Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
