// Package app implements the Command Handlers (C9): the thin operation
// surface of spec.md §6.4. Each handler authenticates the actor (the
// caller already did so; we trust the passed user id per spec.md §1's
// external-collaborator boundary), loads state via ports.Repository
// (C8), validates and mutates via internal/domain (C7/C3/C4), persists,
// and returns the resulting []ports.Event for the transport adapter to
// publish through ports.EventBus (C10) and address via the Connection
// Registry (C12) — the adapter already has to walk Recipients against
// live sinks, so it is the natural owner of the actual Publish call.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sjavs/internal/domain"
	"sjavs/internal/ports"
)

// defaultNumberOfCrosses is the rubber length used when a match is
// created; spec.md §6.4's create_match() takes no parameters, so this is
// the "single-cross rubber (default)" spec.md §4.6 describes before its
// own Open Questions note makes number_of_crosses authoritative.
const defaultNumberOfCrosses = 1

const maxPinAttempts = 10

const retryBackoff = 80 * time.Millisecond

// Service holds the Command Handlers. It has no mutable state of its
// own; all state lives behind repo.
type Service struct {
	repo   ports.Repository
	logger *zap.Logger
}

// NewService constructs a Service. logger may be zap.NewNop() in tests.
func NewService(repo ports.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// withRetry retries fn once after retryBackoff when it fails with
// ErrInfrastructureUnavailable, per spec.md §7's "retry the outer
// command at most once" policy. It wraps a whole command's persistence
// step rather than individual store calls, so a retried command can
// never double-apply a domain mutation — each repository write is keyed
// by the command's already-computed resulting state (spec.md §4.8).
func withRetry(fn func() error) error {
	err := fn()
	if err != nil && errors.Is(err, domain.ErrInfrastructureUnavailable) {
		time.Sleep(retryBackoff)
		err = fn()
	}
	return err
}

func (s *Service) matchForUser(ctx context.Context, userID string) (string, *domain.Match, error) {
	matchID, ok, err := s.repo.GetMatchIDForUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrNotInGame
	}
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return "", nil, err
	}
	return matchID, match, nil
}

// CreateMatch creates a new Waiting match with a freshly generated 4
// digit pin, retrying pin generation up to maxPinAttempts times against
// collisions in the pins hash (spec.md is silent on the retry count;
// decided and recorded in DESIGN.md).
func (s *Service) CreateMatch(ctx context.Context, hostUserID string) (CreateMatchResponse, error) {
	if _, ok, err := s.repo.GetMatchIDForUser(ctx, hostUserID); err != nil {
		return CreateMatchResponse{}, err
	} else if ok {
		return CreateMatchResponse{}, fmt.Errorf("%w: already in a match", domain.ErrMalformedRequest)
	}

	matchID := uuid.New().String()

	var pin string
	var reserved bool
	for attempt := 0; attempt < maxPinAttempts; attempt++ {
		candidate := fmt.Sprintf("%04d", rand.IntN(10000))
		ok, err := s.repo.ReservePin(ctx, candidate, matchID)
		if err != nil {
			return CreateMatchResponse{}, err
		}
		if ok {
			pin = candidate
			reserved = true
			break
		}
	}
	if !reserved {
		return CreateMatchResponse{}, fmt.Errorf("%w: exhausted %d pin generation attempts", domain.ErrInfrastructureUnavailable, maxPinAttempts)
	}

	match := domain.NewMatch(matchID, pin, hostUserID, defaultNumberOfCrosses, time.Now().UnixMilli())

	err := withRetry(func() error {
		if err := s.repo.CreateMatch(ctx, match); err != nil {
			return err
		}
		return s.repo.SaveCrossState(ctx, matchID, domain.NewCrossState())
	})
	if err != nil {
		_ = s.repo.ReleasePin(ctx, pin)
		return CreateMatchResponse{}, err
	}
	if err := s.repo.SetMatchIDForUser(ctx, hostUserID, matchID); err != nil {
		s.logger.Warn("set player_games after create failed", zap.String("match_id", matchID), zap.Error(err))
	}

	return CreateMatchResponse{MatchID: matchID, Pin: pin}, nil
}

// JoinMatch seats userID in the match identified by pin. A user already
// seated (a reconnect, not a fresh join) is accepted silently and
// reported via Reconnect=true rather than erroring.
func (s *Service) JoinMatch(ctx context.Context, userID, pin string) (JoinMatchResponse, []ports.Event, error) {
	matchID, ok, err := s.repo.ResolvePin(ctx, pin)
	if err != nil {
		return JoinMatchResponse{}, nil, err
	}
	if !ok {
		return JoinMatchResponse{}, nil, domain.ErrInvalidPin
	}
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return JoinMatchResponse{}, nil, err
	}

	if seat := match.SeatOf(userID); seat >= 0 {
		return JoinMatchResponse{MatchID: matchID, Seat: seat, Players: match.Players, Reconnect: true}, nil, nil
	}

	seat, err := match.Join(userID)
	if err != nil {
		return JoinMatchResponse{}, nil, err
	}

	if err := withRetry(func() error { return s.repo.SaveMatch(ctx, match) }); err != nil {
		return JoinMatchResponse{}, nil, err
	}
	if err := s.repo.SetMatchIDForUser(ctx, userID, matchID); err != nil {
		s.logger.Warn("set player_games after join failed", zap.String("match_id", matchID), zap.Error(err))
	}

	username, _ := s.repo.GetUsername(ctx, userID)
	event := ports.Event{
		Kind:    string(EventPlayerJoined),
		MatchID: matchID,
		Payload: PlayerJoinedPayload{Seat: seat, UserID: userID, Username: username},
	}

	return JoinMatchResponse{MatchID: matchID, Seat: seat, Players: match.Players}, []ports.Event{event}, nil
}

// LeaveMatch removes userID from their current match.
func (s *Service) LeaveMatch(ctx context.Context, userID string) (LeaveMatchResponse, []ports.Event, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return LeaveMatchResponse{}, nil, err
	}

	res, err := match.Leave(userID)
	if err != nil {
		return LeaveMatchResponse{}, nil, err
	}

	events := []ports.Event{{
		Kind:    string(EventPlayerLeft),
		MatchID: matchID,
		Payload: PlayerLeftPayload{Seat: res.FreedSeat, UserID: userID},
	}}

	if res.Cancelled {
		if err := withRetry(func() error { return s.repo.CleanupMatch(ctx, match) }); err != nil {
			return LeaveMatchResponse{}, nil, err
		}
		events = append(events, ports.Event{
			Kind:    string(EventMatchCancelled),
			MatchID: matchID,
			Payload: struct{}{},
		})
		return LeaveMatchResponse{OK: true}, events, nil
	}

	if err := withRetry(func() error { return s.repo.SaveMatch(ctx, match) }); err != nil {
		return LeaveMatchResponse{}, nil, err
	}
	if err := s.repo.ClearMatchIDForUser(ctx, userID); err != nil {
		s.logger.Warn("clear player_games after leave failed", zap.String("match_id", matchID), zap.Error(err))
	}

	return LeaveMatchResponse{OK: true}, events, nil
}

// GetMatchInfo is the supplemented read-only lookup a reconnecting
// client uses before it has subscribed to the match channel.
func (s *Service) GetMatchInfo(ctx context.Context, userID string) (GetMatchInfoResponse, error) {
	_, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return GetMatchInfoResponse{}, err
	}
	return GetMatchInfoResponse{
		MatchID: match.ID,
		Pin:     match.Pin,
		Status:  string(match.Status),
		Players: match.Players,
	}, nil
}

// StartGame deals the hands of the next game of the rubber (the first
// game, or one prepared by BeginNextGame) and enters Bidding.
func (s *Service) StartGame(ctx context.Context, hostUserID string) (StartGameResponse, []ports.Event, error) {
	matchID, match, err := s.matchForUser(ctx, hostUserID)
	if err != nil {
		return StartGameResponse{}, nil, err
	}

	res, err := match.Start(hostUserID, func() int { return rand.IntN(4) })
	if err != nil {
		return StartGameResponse{}, nil, err
	}

	events, err := s.persistDeal(ctx, matchID, match, res)
	if err != nil {
		return StartGameResponse{}, nil, err
	}

	return StartGameResponse{
		Status:         string(match.Status),
		DealerPosition: res.DealerPosition,
		CurrentBidder:  *match.CurrentBidder,
	}, events, nil
}

// persistDeal stores a freshly dealt set of hands and their trump-count
// analyses, saves the match header, and builds the broadcast +
// per-seat private hand_updated events common to Start and Redeal.
func (s *Service) persistDeal(ctx context.Context, matchID string, match *domain.Match, res domain.StartResult) ([]ports.Event, error) {
	err := withRetry(func() error {
		for seat := 0; seat < 4; seat++ {
			if err := s.repo.SaveHand(ctx, matchID, seat, res.Hands[seat]); err != nil {
				return err
			}
			if err := s.repo.SaveHandAnalysis(ctx, matchID, seat, domain.TrumpCounts(res.Hands[seat])); err != nil {
				return err
			}
		}
		return s.repo.SaveMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	events := []ports.Event{{
		Kind:    string(EventGameStarted),
		MatchID: matchID,
		Payload: GameStartedPayload{DealerPosition: res.DealerPosition, CurrentBidder: *match.CurrentBidder},
	}}

	for seat := 0; seat < 4; seat++ {
		userID := match.Players[seat]
		if userID == "" {
			continue
		}
		counts := domain.TrumpCounts(res.Hands[seat])
		opts := domain.AvailableBids(res.Hands[seat], nil, nil)
		events = append(events, ports.Event{
			Kind:    string(EventHandUpdated),
			MatchID: matchID,
			Payload: HandUpdatedPayload{
				Cards:         codesOf(res.Hands[seat]),
				TrumpCounts:   trumpCountsDTO(counts),
				AvailableBids: bidOptionsDTO(opts),
			},
			Recipients: []string{userID},
		})
	}

	return events, nil
}

// GetHand returns the caller's own hand, trump counts, and legal bids.
func (s *Service) GetHand(ctx context.Context, userID string) (GetHandResponse, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return GetHandResponse{}, err
	}
	seat := match.SeatOf(userID)
	if seat < 0 {
		return GetHandResponse{}, domain.ErrNotInGame
	}
	hand, err := s.repo.GetHand(ctx, matchID, seat)
	if err != nil {
		return GetHandResponse{}, err
	}
	counts := domain.TrumpCounts(hand)
	opts := domain.AvailableBids(hand, match.HighestBidLength, match.HighestBidSuit)
	return GetHandResponse{
		Cards:         codesOf(hand),
		TrumpCounts:   trumpCountsDTO(counts),
		AvailableBids: bidOptionsDTO(opts),
	}, nil
}

// Bid places a bid for the calling seat.
func (s *Service) Bid(ctx context.Context, userID string, length int, suit domain.Suit) (BidResponse, []ports.Event, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return BidResponse{}, nil, err
	}
	seat := match.SeatOf(userID)
	if seat < 0 {
		return BidResponse{}, nil, domain.ErrNotInGame
	}
	hand, err := s.repo.GetHand(ctx, matchID, seat)
	if err != nil {
		return BidResponse{}, nil, err
	}

	res, err := match.Bid(seat, length, suit, hand)
	if err != nil {
		return BidResponse{}, nil, err
	}

	events, err := s.persistBiddingOutcome(ctx, matchID, match, seat, length, suit, res.BiddingComplete, res.NextBidder, res.Declarer, res.TrumpSuit, res.FirstLeader)
	if err != nil {
		return BidResponse{}, nil, err
	}

	resp := BidResponse{NextBidder: res.NextBidder, BiddingComplete: res.BiddingComplete}
	if res.BiddingComplete {
		resp.TrumpRevealed = res.TrumpSuit.String()
	}
	return resp, events, nil
}

// Pass records a pass for the calling seat, handling the all-pass
// redeal and 3-of-4-pass bidding-finish transitions inline.
func (s *Service) Pass(ctx context.Context, userID string) (PassResponse, []ports.Event, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return PassResponse{}, nil, err
	}
	seat := match.SeatOf(userID)
	if seat < 0 {
		return PassResponse{}, nil, domain.ErrNotInGame
	}

	res, err := match.Pass(seat)
	if err != nil {
		return PassResponse{}, nil, err
	}

	if res.Redealt {
		startRes, err := match.Redeal()
		if err != nil {
			return PassResponse{}, nil, err
		}
		events, err := s.persistRedeal(ctx, matchID, match, startRes)
		if err != nil {
			return PassResponse{}, nil, err
		}
		passEvent := ports.Event{
			Kind:    string(EventPassMade),
			MatchID: matchID,
			Payload: PassMadePayload{Seat: seat, AllPassed: true},
		}
		return PassResponse{Redealt: true}, append([]ports.Event{passEvent}, events...), nil
	}

	events, err := s.persistBiddingOutcome(ctx, matchID, match, seat, 0, domain.Hearts, res.BiddingComplete, res.NextBidder, res.Declarer, res.TrumpSuit, res.FirstLeader)
	if err != nil {
		return PassResponse{}, nil, err
	}

	passEvent := ports.Event{
		Kind:    string(EventPassMade),
		MatchID: matchID,
		Payload: PassMadePayload{Seat: seat, NextBidder: res.NextBidder},
	}
	resp := PassResponse{NextBidder: res.NextBidder, BiddingComplete: res.BiddingComplete}
	if res.BiddingComplete {
		resp.TrumpRevealed = res.TrumpSuit.String()
	}
	return resp, append([]ports.Event{passEvent}, events...), nil
}

// persistBiddingOutcome saves the match header after a Bid/Pass call and
// builds the bid_made/pass target's bidding_complete events, including
// standing up the first GameTrickState once a declarer is settled.
func (s *Service) persistBiddingOutcome(ctx context.Context, matchID string, match *domain.Match, seat, length int, suit domain.Suit, complete bool, nextBidder, declarer int, trumpSuit domain.Suit, firstLeader int) ([]ports.Event, error) {
	var gts *domain.GameTrickState
	if complete {
		gts = domain.NewGameTrickState(trumpSuit, declarer, firstLeader)
	}

	err := withRetry(func() error {
		if err := s.repo.SaveMatch(ctx, match); err != nil {
			return err
		}
		if gts != nil {
			return s.repo.SaveTrickState(ctx, matchID, gts)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var events []ports.Event
	if length > 0 {
		bidPayload := BidMadePayload{Seat: seat, Length: length, NextBidder: nextBidder}
		if complete {
			bidPayload.Suit = suit.String()
		}
		events = append(events, ports.Event{Kind: string(EventBidMade), MatchID: matchID, Payload: bidPayload})
	}

	if complete {
		winningLength := length
		if match.HighestBidLength != nil {
			winningLength = *match.HighestBidLength
		}
		events = append(events, ports.Event{
			Kind:    string(EventBiddingComplete),
			MatchID: matchID,
			Payload: BiddingCompletePayload{
				Declarer:    declarer,
				TrumpSuit:   trumpSuit.String(),
				Partnership: [2]int{declarer, (declarer + 2) % 4},
				WinningBid:  BidOptionDTO{Length: winningLength, Suit: trumpSuit.String()},
				FirstLeader: firstLeader,
			},
		})
	}

	return events, nil
}

// persistRedeal stores freshly dealt hands after an all-pass redeal and
// builds the cards_redealt broadcast + private hand_updated events.
func (s *Service) persistRedeal(ctx context.Context, matchID string, match *domain.Match, res domain.StartResult) ([]ports.Event, error) {
	dealEvents, err := s.persistDeal(ctx, matchID, match, res)
	if err != nil {
		return nil, err
	}
	// Re-tag the broadcast event as cards_redealt instead of game_started.
	if len(dealEvents) > 0 {
		dealEvents[0].Kind = string(EventCardsRedealt)
	}
	return dealEvents, nil
}

// PlayCard plays a card for the calling seat, resolving the trick (and
// the game, if this is the 8th trick) inline.
func (s *Service) PlayCard(ctx context.Context, userID, cardCode string) (PlayCardResponse, []ports.Event, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return PlayCardResponse{}, nil, err
	}
	if match.Status != domain.StatusPlaying {
		return PlayCardResponse{}, nil, fmt.Errorf("%w: match is not playing", domain.ErrWrongPhase)
	}
	seat := match.SeatOf(userID)
	if seat < 0 {
		return PlayCardResponse{}, nil, domain.ErrNotInGame
	}

	card, err := domain.FromCode(cardCode)
	if err != nil {
		return PlayCardResponse{}, nil, err
	}

	hand, err := s.repo.GetHand(ctx, matchID, seat)
	if err != nil {
		return PlayCardResponse{}, nil, err
	}

	gts, ok, err := s.repo.GetTrickState(ctx, matchID)
	if err != nil {
		return PlayCardResponse{}, nil, err
	}
	if !ok {
		return PlayCardResponse{}, nil, fmt.Errorf("%w: no active trick", domain.ErrWrongPhase)
	}

	priorHistoryLen := len(gts.History)
	if err := gts.PlayCard(seat, card, hand); err != nil {
		return PlayCardResponse{}, nil, err
	}

	newHand := removeCard(hand, card)

	trickJustCompleted := len(gts.History) > priorHistoryLen

	events := []ports.Event{}
	var completedTrick domain.TrickState
	if trickJustCompleted {
		completedTrick = gts.History[len(gts.History)-1]
	}

	err = withRetry(func() error {
		if err := s.repo.SaveHand(ctx, matchID, seat, newHand); err != nil {
			return err
		}
		if trickJustCompleted {
			if err := s.repo.SaveTrickHistory(ctx, matchID, completedTrick.TrickNumber, completedTrick); err != nil {
				return err
			}
		}
		if !gts.GameComplete {
			return s.repo.SaveTrickState(ctx, matchID, gts)
		}
		return nil
	})
	if err != nil {
		return PlayCardResponse{}, nil, err
	}

	cardPlayed := CardPlayedPayload{
		Seat:          seat,
		CardCode:      cardCode,
		TrickComplete: trickJustCompleted,
	}
	if trickJustCompleted {
		cardPlayed.TrickNumber = completedTrick.TrickNumber
		winner := completedTrick.TrickWinner
		points := trickPoints(completedTrick)
		cardPlayed.TrickWinner = &winner
		cardPlayed.TrickPoints = &points
	} else if gts.Current != nil {
		cardPlayed.TrickNumber = gts.Current.TrickNumber
	}
	events = append(events, ports.Event{Kind: string(EventCardPlayed), MatchID: matchID, Payload: cardPlayed})

	resp := PlayCardResponse{TrickComplete: trickJustCompleted}

	if trickJustCompleted {
		winner := completedTrick.TrickWinner
		points := trickPoints(completedTrick)
		resp.TrickWinner = &winner
		resp.TrickPoints = &points

		nextLeader := completedTrick.TrickWinner
		if gts.Current != nil {
			nextLeader = gts.Current.CurrentPlayer
		}
		events = append(events, ports.Event{
			Kind:    string(EventTrickCompleted),
			MatchID: matchID,
			Payload: TrickCompletedPayload{
				TrickNumber: completedTrick.TrickNumber,
				Winner:      completedTrick.TrickWinner,
				Points:      points,
				NextLeader:  nextLeader,
			},
		})
	}

	if gts.GameComplete {
		resp.GameComplete = true
		completionEvents, err := s.completeGameplay(ctx, matchID, match, gts)
		if err != nil {
			return PlayCardResponse{}, nil, err
		}
		events = append(events, completionEvents...)
	}

	if gts.Current != nil {
		resp.TrickState = trickStateDTO(gts.Current)
	}

	return resp, events, nil
}

// completeGameplay scores the finished game, applies the Cross delta,
// and transitions the match either to the next game's Waiting state or
// to Completed if the rubber has ended.
func (s *Service) completeGameplay(ctx context.Context, matchID string, match *domain.Match, gts *domain.GameTrickState) ([]ports.Event, error) {
	result, err := domain.CalculateGameResult(
		gts.TrumpTeamPoints, gts.OpponentTeamPoints,
		gts.TrumpTeamTricks, gts.OpponentTeamTricks,
		*match.TrumpSuit, gts.IndividualVol(),
	)
	if err != nil {
		return nil, err
	}

	cs, err := s.repo.GetCrossState(ctx, matchID)
	if err != nil {
		return nil, err
	}
	outcome := domain.ApplyGameResult(cs, result, match.NumberOfCrosses)

	if cs.RubberComplete {
		match.FinishRubber()
	} else {
		match.BeginNextGame()
	}

	err = withRetry(func() error {
		if err := s.repo.SaveCrossState(ctx, matchID, cs); err != nil {
			return err
		}
		if err := s.repo.DeleteTrickState(ctx, matchID); err != nil {
			return err
		}
		if cs.RubberComplete {
			return s.repo.CleanupMatch(ctx, match)
		}
		if err := s.repo.CleanupGameState(ctx, matchID, 4); err != nil {
			return err
		}
		return s.repo.SaveMatch(ctx, match)
	})
	if err != nil {
		return nil, err
	}

	payload := GameCompletePayload{
		TrumpTeamPoints:    gts.TrumpTeamPoints,
		OpponentTeamPoints: gts.OpponentTeamPoints,
		TrumpTeamTricks:    gts.TrumpTeamTricks,
		OpponentTeamTricks: gts.OpponentTeamTricks,
		ResultKind:         string(result.Kind),
		Description:        result.Description,
		IndividualVol:      result.IndividualVol,
		TrumpTeamDelta:     result.TrumpDelta,
		OpponentTeamDelta:  result.OpponentDelta,
		CrossStateAfter:    crossStateDTO(cs),
	}
	if outcome.TrumpWonCross {
		payload.CrossWinner = "trump"
	} else if outcome.OpponentWonCross {
		payload.CrossWinner = "opponent"
	}

	return []ports.Event{{Kind: string(EventGameComplete), MatchID: matchID, Payload: payload}}, nil
}

// GetTrickState returns the current trick plus the caller's own hand and
// (only on their turn) the subset of it that is legal to play.
func (s *Service) GetTrickState(ctx context.Context, userID string) (GetTrickStateResponse, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return GetTrickStateResponse{}, err
	}
	seat := match.SeatOf(userID)
	if seat < 0 {
		return GetTrickStateResponse{}, domain.ErrNotInGame
	}

	gts, ok, err := s.repo.GetTrickState(ctx, matchID)
	if err != nil {
		return GetTrickStateResponse{}, err
	}
	if !ok {
		return GetTrickStateResponse{}, fmt.Errorf("%w: no active trick", domain.ErrWrongPhase)
	}

	hand, err := s.repo.GetHand(ctx, matchID, seat)
	if err != nil {
		return GetTrickStateResponse{}, err
	}

	resp := GetTrickStateResponse{
		YourHand: codesOf(hand),
		Score: ScoreDTO{
			TrumpTeamTricks:    gts.TrumpTeamTricks,
			OpponentTeamTricks: gts.OpponentTeamTricks,
			TrumpTeamPoints:    gts.TrumpTeamPoints,
			OpponentTeamPoints: gts.OpponentTeamPoints,
		},
	}

	if gts.Current != nil {
		dto := trickStateDTO(gts.Current)
		resp.Trick = &dto
		resp.YourTurn = gts.Current.CurrentPlayer == seat
		if resp.YourTurn {
			resp.LegalCards = codesOf(domain.LegalCards(gts.Current, hand))
		}
	}

	return resp, nil
}

// CompleteGame is an idempotent, best-effort re-read of the Cross state
// after a game ends. The authoritative scoring broadcast is the
// game_complete event PlayCard already emitted at the 8th trick; this
// command exists for a client that missed it (spec.md §6.4).
func (s *Service) CompleteGame(ctx context.Context, userID string) (CompleteGameResponse, error) {
	matchID, match, err := s.matchForUser(ctx, userID)
	if err != nil {
		return CompleteGameResponse{}, err
	}
	cs, err := s.repo.GetCrossState(ctx, matchID)
	if err != nil {
		return CompleteGameResponse{}, err
	}

	resp := CompleteGameResponse{
		CrossScores:  crossStateDTO(cs),
		NewGameReady: match.Status == domain.StatusWaiting,
	}
	if cs.RubberComplete {
		if cs.TrumpTeamCrosses > cs.OpponentTeamCrosses {
			resp.CrossWon = "trump"
		} else {
			resp.CrossWon = "opponent"
		}
	}
	return resp, nil
}

func removeCard(hand []domain.Card, card domain.Card) []domain.Card {
	out := make([]domain.Card, 0, len(hand))
	removed := false
	for _, c := range hand {
		if !removed && c == card {
			removed = true
			continue
		}
		out = append(out, c)
	}
	return out
}

func trickPoints(trick domain.TrickState) int {
	total := 0
	for _, pc := range trick.CardsPlayed {
		total += domain.PointValue(pc.Card)
	}
	return total
}

func trickStateDTO(trick *domain.TrickState) TrickStateDTO {
	dto := TrickStateDTO{
		TrickNumber:   trick.TrickNumber,
		CurrentPlayer: trick.CurrentPlayer,
	}
	if trick.LeadSuitSet {
		dto.LeadSuit = trick.LeadSuit.String()
	}
	for _, pc := range trick.CardsPlayed {
		dto.CardsPlayed = append(dto.CardsPlayed, PlayedCardDTO{Seat: pc.Seat, Card: domain.Code(pc.Card)})
	}
	return dto
}
