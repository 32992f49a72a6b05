package app

import (
	"context"

	"sjavs/internal/domain"
)

// SnapshotPayload is the phase-specific sync-on-load payload (C11). Only
// the fields relevant to the match's current phase are populated; the
// rest stay at their zero value, which on the wire means "nil, not
// empty" for the privacy-sensitive hand/legal-card fields per spec.md
// §4.11.
type SnapshotPayload struct {
	Phase      string    `json:"phase"`
	SnapshotTS int64     `json:"snapshot_ts"`
	MatchID    string    `json:"match_id"`
	Players    [4]string `json:"players"`

	// Waiting
	IsHost        bool `json:"is_host,omitempty"`
	PlayersNeeded int  `json:"players_needed,omitempty"`
	CanStart      bool `json:"can_start,omitempty"`

	// Dealing
	DealerPosition  *int   `json:"dealer_position,omitempty"`
	DealingProgress string `json:"dealing_progress,omitempty"`

	// Bidding
	CurrentBidder *int           `json:"current_bidder,omitempty"`
	HighestBid    *BidOptionDTO  `json:"highest_bid,omitempty"`
	PassedSeats   []int          `json:"passed_seats,omitempty"`
	YourHand      []string       `json:"your_hand,omitempty"`
	YourTrumps    map[string]int `json:"your_trump_counts,omitempty"`
	YourBids      []BidOptionDTO `json:"your_available_bids,omitempty"`
	CanBid        bool           `json:"can_bid,omitempty"`
	CanPass       bool           `json:"can_pass,omitempty"`

	// Playing
	TrumpSuit      string         `json:"trump_suit,omitempty"`
	Declarer       *int           `json:"declarer,omitempty"`
	Partnership    *[2]int        `json:"partnership,omitempty"`
	Trick          *TrickStateDTO `json:"trick,omitempty"`
	Score          *ScoreDTO      `json:"score,omitempty"`
	YourLegalCards []string       `json:"your_legal_cards,omitempty"`

	// Completed
	Result          *ScoringRecordDTO `json:"result,omitempty"`
	CrossState      *CrossStateDTO    `json:"cross_state,omitempty"`
	RubberWinner    string            `json:"rubber_winner,omitempty"`
	CanStartNewGame bool              `json:"can_start_new_game,omitempty"`
}

// ScoringRecordDTO is the shape of a per-game scoring record.
// BuildSnapshot does not fill it: a Completed snapshot leaves Result nil
// and carries the cross state, rubber winner and can_start_new_game.
type ScoringRecordDTO struct {
	TrumpTeamPoints    int    `json:"trump_team_points"`
	OpponentTeamPoints int    `json:"opponent_team_points"`
	TrumpTeamTricks    int    `json:"trump_team_tricks"`
	OpponentTeamTricks int    `json:"opponent_team_tricks"`
	ResultKind         string `json:"result_kind"`
	IndividualVol      bool   `json:"individual_vol"`
	TrumpTeamDelta     int    `json:"trump_team_delta"`
	OpponentTeamDelta  int    `json:"opponent_team_delta"`
}

// BuildSnapshot assembles the phase-specific sync-on-load payload for
// userID's current match. snapshotTS must already be now_ms()+1 (spec.md
// §5's monotonic-dominance rule); the caller stamps it so every command
// handler and the snapshot builder agree on one clock source.
func (s *Service) BuildSnapshot(ctx context.Context, userID string, snapshotTS int64) (SnapshotPayload, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return SnapshotPayload{}, err
	}

	seat := match.SeatOf(userID)
	payload := SnapshotPayload{
		Phase:      string(match.Status),
		SnapshotTS: snapshotTS,
		MatchID:    matchID,
		Players:    match.Players,
	}

	switch match.Status {
	case domain.StatusWaiting:
		payload.IsHost = seat == 0
		payload.PlayersNeeded = 4 - match.PlayerCount()
		payload.CanStart = payload.IsHost && match.PlayerCount() == 4

	case domain.StatusDealing:
		payload.DealerPosition = match.DealerPosition
		progress, err := s.dealingProgress(ctx, matchID)
		if err != nil {
			return SnapshotPayload{}, err
		}
		payload.DealingProgress = progress

	case domain.StatusBidding:
		payload.DealerPosition = match.DealerPosition
		payload.CurrentBidder = match.CurrentBidder
		if match.HighestBidder != nil {
			payload.HighestBid = &BidOptionDTO{Length: *match.HighestBidLength, Suit: match.HighestBidSuit.String()}
		}
		for passedSeat := range match.BiddingPasses {
			payload.PassedSeats = append(payload.PassedSeats, passedSeat)
		}

		if seat >= 0 {
			hand, err := s.repo.GetHand(ctx, matchID, seat)
			if err != nil {
				return SnapshotPayload{}, err
			}
			payload.YourHand = codesOf(hand)
			payload.YourTrumps = trumpCountsDTO(domain.TrumpCounts(hand))
			payload.YourBids = bidOptionsDTO(domain.AvailableBids(hand, match.HighestBidLength, match.HighestBidSuit))
			payload.CanBid = match.CurrentBidder != nil && *match.CurrentBidder == seat
			payload.CanPass = payload.CanBid
		}

	case domain.StatusPlaying:
		payload.TrumpSuit = match.TrumpSuit.String()
		payload.Declarer = match.TrumpDeclarer
		if match.TrumpDeclarer != nil {
			partnership := [2]int{*match.TrumpDeclarer, (*match.TrumpDeclarer + 2) % 4}
			payload.Partnership = &partnership
		}

		gts, ok, err := s.repo.GetTrickState(ctx, matchID)
		if err != nil {
			return SnapshotPayload{}, err
		}
		if ok {
			score := ScoreDTO{
				TrumpTeamTricks:    gts.TrumpTeamTricks,
				OpponentTeamTricks: gts.OpponentTeamTricks,
				TrumpTeamPoints:    gts.TrumpTeamPoints,
				OpponentTeamPoints: gts.OpponentTeamPoints,
			}
			payload.Score = &score
			if gts.Current != nil {
				dto := trickStateDTO(gts.Current)
				payload.Trick = &dto
			}

			if seat >= 0 {
				hand, err := s.repo.GetHand(ctx, matchID, seat)
				if err != nil {
					return SnapshotPayload{}, err
				}
				payload.YourHand = codesOf(hand)
				if gts.Current != nil && gts.Current.CurrentPlayer == seat {
					payload.YourLegalCards = codesOf(domain.LegalCards(gts.Current, hand))
				}
			}
		}

	case domain.StatusCompleted:
		cs, err := s.repo.GetCrossState(ctx, matchID)
		if err != nil {
			return SnapshotPayload{}, err
		}
		dto := crossStateDTO(cs)
		payload.CrossState = &dto
		if cs.RubberComplete {
			if cs.TrumpTeamCrosses > cs.OpponentTeamCrosses {
				payload.RubberWinner = "trump"
			} else {
				payload.RubberWinner = "opponent"
			}
		} else {
			payload.CanStartNewGame = seat == 0
		}
	}

	return payload, nil
}

// dealingProgress reports how far the current deal has gotten by
// counting how many seats already have a stored hand, per spec.md
// §4.11's Dealing phase derivation.
func (s *Service) dealingProgress(ctx context.Context, matchID string) (string, error) {
	dealt := 0
	for seat := 0; seat < 4; seat++ {
		hand, err := s.repo.GetHand(ctx, matchID, seat)
		if err != nil {
			return "", err
		}
		if len(hand) > 0 {
			dealt++
		}
	}
	switch {
	case dealt == 0:
		return "starting", nil
	case dealt < 4:
		return "dealing", nil
	default:
		return "complete", nil
	}
}
