package app

import "sjavs/internal/domain"

// EventKind identifies a client-bound event, per spec.md §6.3's minimum
// vocabulary. Mirrors the teacher's EventKind/Event split in
// internal/app/events.go.
type EventKind string

const (
	EventPlayerJoined    EventKind = "player_joined"
	EventPlayerLeft      EventKind = "player_left"
	EventGameStarted     EventKind = "game_started"
	EventHandUpdated     EventKind = "hand_updated"
	EventBidMade         EventKind = "bid_made"
	EventPassMade        EventKind = "pass_made"
	EventCardsRedealt    EventKind = "cards_redealt"
	EventBiddingComplete EventKind = "bidding_complete"
	EventCardPlayed      EventKind = "card_played"
	EventTrickCompleted  EventKind = "trick_completed"
	EventGameComplete    EventKind = "game_complete"
	EventMatchCancelled  EventKind = "match_cancelled"
)

// PlayerJoinedPayload is broadcast when a new or reconnecting user joins.
type PlayerJoinedPayload struct {
	Seat     int    `json:"seat"`
	UserID   string `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// PlayerLeftPayload is broadcast when a seat empties or the match ends.
type PlayerLeftPayload struct {
	Seat   int    `json:"seat"`
	UserID string `json:"user_id"`
}

// GameStartedPayload is broadcast to the whole match on Start/Redeal.
type GameStartedPayload struct {
	DealerPosition int `json:"dealer_position"`
	CurrentBidder  int `json:"current_bidder"`
}

// HandUpdatedPayload is a private event sent to exactly one seat holder.
type HandUpdatedPayload struct {
	Cards         []string       `json:"cards"`
	TrumpCounts   map[string]int `json:"trump_counts"`
	AvailableBids []BidOptionDTO `json:"available_bids"`
}

// BidOptionDTO is the wire shape of a domain.BidOption.
type BidOptionDTO struct {
	Length      int    `json:"length"`
	Suit        string `json:"suit"`
	IsClubMatch bool   `json:"is_club_match"`
}

// BidMadePayload is broadcast on a successful bid. Suit is hidden from
// non-final bids per spec.md §6.3 until bidding completes: the service
// fills Suit only on the bid that completes bidding, and it is omitted
// from the JSON otherwise.
type BidMadePayload struct {
	Seat       int    `json:"seat"`
	Length     int    `json:"length"`
	Suit       string `json:"suit,omitempty"`
	NextBidder int    `json:"next_bidder"`
}

// PassMadePayload is broadcast on a successful pass.
type PassMadePayload struct {
	Seat       int  `json:"seat"`
	NextBidder int  `json:"next_bidder"`
	AllPassed  bool `json:"all_passed"`
}

// BiddingCompletePayload is broadcast once a declarer is settled.
type BiddingCompletePayload struct {
	Declarer    int          `json:"declarer"`
	TrumpSuit   string       `json:"trump_suit"`
	Partnership [2]int       `json:"partnership"`
	WinningBid  BidOptionDTO `json:"winning_bid"`
	FirstLeader int          `json:"first_leader"`
}

// CardPlayedPayload is broadcast on every PlayCard.
type CardPlayedPayload struct {
	Seat          int    `json:"seat"`
	CardCode      string `json:"card_code"`
	TrickNumber   int    `json:"trick_number"`
	TrickComplete bool   `json:"trick_complete"`
	TrickWinner   *int   `json:"trick_winner,omitempty"`
	TrickPoints   *int   `json:"trick_points,omitempty"`
}

// TrickCompletedPayload is broadcast alongside CardPlayedPayload when a
// trick resolves.
type TrickCompletedPayload struct {
	TrickNumber int `json:"trick_number"`
	Winner      int `json:"winner"`
	Points      int `json:"points"`
	NextLeader  int `json:"next_leader"`
}

// GameCompletePayload is broadcast once the 8th trick resolves and
// scoring/Cross have been applied.
type GameCompletePayload struct {
	TrumpTeamPoints    int           `json:"trump_team_points"`
	OpponentTeamPoints int           `json:"opponent_team_points"`
	TrumpTeamTricks    int           `json:"trump_team_tricks"`
	OpponentTeamTricks int           `json:"opponent_team_tricks"`
	ResultKind         string        `json:"result_kind"`
	Description        string        `json:"description"`
	IndividualVol      bool          `json:"individual_vol"`
	TrumpTeamDelta     int           `json:"trump_team_delta"`
	OpponentTeamDelta  int           `json:"opponent_team_delta"`
	CrossStateAfter    CrossStateDTO `json:"cross_state_after"`
	CrossWinner        string        `json:"cross_winner,omitempty"` // "trump" | "opponent"
}

// CrossStateDTO is the wire shape of domain.CrossState.
type CrossStateDTO struct {
	TrumpTeamRemaining    int  `json:"trump_team_remaining"`
	OpponentTeamRemaining int  `json:"opponent_team_remaining"`
	TrumpTeamCrosses      int  `json:"trump_team_crosses"`
	OpponentTeamCrosses   int  `json:"opponent_team_crosses"`
	NextGameBonus         int  `json:"next_game_bonus"`
	RubberComplete        bool `json:"rubber_complete"`
}

func crossStateDTO(cs *domain.CrossState) CrossStateDTO {
	return CrossStateDTO{
		TrumpTeamRemaining:    cs.TrumpTeamRemaining,
		OpponentTeamRemaining: cs.OpponentTeamRemaining,
		TrumpTeamCrosses:      cs.TrumpTeamCrosses,
		OpponentTeamCrosses:   cs.OpponentTeamCrosses,
		NextGameBonus:         cs.NextGameBonus,
		RubberComplete:        cs.RubberComplete,
	}
}

func codesOf(cards []domain.Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = domain.Code(c)
	}
	return codes
}

func trumpCountsDTO(counts map[domain.Suit]int) map[string]int {
	out := make(map[string]int, len(counts))
	for s, n := range counts {
		out[s.String()] = n
	}
	return out
}

func bidOptionsDTO(opts []domain.BidOption) []BidOptionDTO {
	out := make([]BidOptionDTO, len(opts))
	for i, o := range opts {
		out[i] = BidOptionDTO{Length: o.Length, Suit: o.Suit.String(), IsClubMatch: o.IsClubMatch}
	}
	return out
}
