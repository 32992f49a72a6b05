// Package redisstore implements the C8 persistence contract and the C10
// event bus over github.com/redis/go-redis/v9, using exactly the key
// layout of spec.md §6.1 and the pub/sub channel naming of spec.md §6.2.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"sjavs/internal/domain"
	"sjavs/internal/ports"
)

// Repository is the go-redis/v9-backed ports.Repository implementation.
type Repository struct {
	client    *redis.Client
	logger    *zap.Logger
	headerTTL time.Duration
}

// NewRepository wraps an already-configured *redis.Client. headerTTL is
// applied to a match's header keys (config.Config.MatchHeaderTTL) so an
// abandoned match's keys expire instead of leaking forever; 0 disables
// expiry.
func NewRepository(client *redis.Client, logger *zap.Logger, headerTTL time.Duration) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{client: client, logger: logger, headerTTL: headerTTL}
}

func wrapErr(err error) error {
	if err == nil || err == redis.Nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrInfrastructureUnavailable, err)
}

func matchFields(match *domain.Match) map[string]any {
	fields := map[string]any{
		"id":                match.ID,
		"pin":               match.Pin,
		"status":            string(match.Status),
		"number_of_crosses": match.NumberOfCrosses,
		"current_cross":     match.CurrentCross,
		"created_timestamp": match.CreatedTimestamp,
	}
	optionalInt := func(name string, v *int) {
		if v != nil {
			fields[name] = *v
		}
	}
	optionalSuit := func(name string, v *domain.Suit) {
		if v != nil {
			fields[name] = int(*v)
		}
	}
	optionalInt("dealer_position", match.DealerPosition)
	optionalInt("current_bidder", match.CurrentBidder)
	optionalInt("current_leader", match.CurrentLeader)
	optionalInt("trump_declarer", match.TrumpDeclarer)
	optionalInt("highest_bid_length", match.HighestBidLength)
	optionalInt("highest_bidder", match.HighestBidder)
	optionalSuit("trump_suit", match.TrumpSuit)
	optionalSuit("highest_bid_suit", match.HighestBidSuit)
	return fields
}

func (r *Repository) writeMatch(ctx context.Context, pipe redis.Pipeliner, match *domain.Match) {
	key := matchKey(match.ID)
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, matchFields(match))

	playersKey := playersKey(match.ID)
	pipe.Del(ctx, playersKey)
	players := make([]any, 4)
	for i, p := range match.Players {
		players[i] = p
	}
	pipe.RPush(ctx, playersKey, players...)

	passesKey := biddingPassesKey(match.ID)
	pipe.Del(ctx, passesKey)
	if len(match.BiddingPasses) > 0 {
		seats := make([]any, 0, len(match.BiddingPasses))
		for seat, passed := range match.BiddingPasses {
			if passed {
				seats = append(seats, seat)
			}
		}
		if len(seats) > 0 {
			pipe.SAdd(ctx, passesKey, seats...)
		}
	}

	if r.headerTTL > 0 {
		pipe.Expire(ctx, key, r.headerTTL)
		pipe.Expire(ctx, playersKey, r.headerTTL)
		pipe.Expire(ctx, passesKey, r.headerTTL)
	}
}

func (r *Repository) CreateMatch(ctx context.Context, match *domain.Match) error {
	pipe := r.client.TxPipeline()
	r.writeMatch(ctx, pipe, match)
	pipe.HSet(ctx, playerGamesKey, match.Host(), match.ID)
	pipe.HSet(ctx, pinsKey, match.Pin, match.ID)
	_, err := pipe.Exec(ctx)
	return wrapErr(err)
}

func (r *Repository) SaveMatch(ctx context.Context, match *domain.Match) error {
	pipe := r.client.TxPipeline()
	r.writeMatch(ctx, pipe, match)
	_, err := pipe.Exec(ctx)
	return wrapErr(err)
}

func (r *Repository) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	fields, err := r.client.HGetAll(ctx, matchKey(matchID)).Result()
	if err != nil {
		return nil, wrapErr(err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, matchID)
	}

	players, err := r.client.LRange(ctx, playersKey(matchID), 0, 3).Result()
	if err != nil {
		return nil, wrapErr(err)
	}

	passedSeats, err := r.client.SMembers(ctx, biddingPassesKey(matchID)).Result()
	if err != nil {
		return nil, wrapErr(err)
	}

	match := &domain.Match{
		ID:              matchID,
		Pin:             fields["pin"],
		Status:          domain.Status(fields["status"]),
		NumberOfCrosses: atoiOr(fields["number_of_crosses"], 1),
		CurrentCross:    atoiOr(fields["current_cross"], 0),
		BiddingPasses:   make(map[int]bool),
	}
	match.CreatedTimestamp, _ = strconv.ParseInt(fields["created_timestamp"], 10, 64)
	for i := 0; i < 4 && i < len(players); i++ {
		match.Players[i] = players[i]
	}
	for _, s := range passedSeats {
		if seat, err := strconv.Atoi(s); err == nil {
			match.BiddingPasses[seat] = true
		}
	}

	match.DealerPosition = optionalIntField(fields, "dealer_position")
	match.CurrentBidder = optionalIntField(fields, "current_bidder")
	match.CurrentLeader = optionalIntField(fields, "current_leader")
	match.TrumpDeclarer = optionalIntField(fields, "trump_declarer")
	match.HighestBidLength = optionalIntField(fields, "highest_bid_length")
	match.HighestBidder = optionalIntField(fields, "highest_bidder")
	match.TrumpSuit = optionalSuitField(fields, "trump_suit")
	match.HighestBidSuit = optionalSuitField(fields, "highest_bid_suit")

	return match, nil
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func optionalIntField(fields map[string]string, name string) *int {
	v, ok := fields[name]
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func optionalSuitField(fields map[string]string, name string) *domain.Suit {
	n := optionalIntField(fields, name)
	if n == nil {
		return nil
	}
	s := domain.Suit(*n)
	return &s
}

func (r *Repository) DeleteMatch(ctx context.Context, matchID string) error {
	err := r.client.Del(ctx, matchKey(matchID), playersKey(matchID), biddingPassesKey(matchID)).Err()
	return wrapErr(err)
}

func (r *Repository) GetMatchIDForUser(ctx context.Context, userID string) (string, bool, error) {
	id, err := r.client.HGet(ctx, playerGamesKey, userID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr(err)
	}
	return id, true, nil
}

func (r *Repository) SetMatchIDForUser(ctx context.Context, userID, matchID string) error {
	return wrapErr(r.client.HSet(ctx, playerGamesKey, userID, matchID).Err())
}

func (r *Repository) ClearMatchIDForUser(ctx context.Context, userID string) error {
	return wrapErr(r.client.HDel(ctx, playerGamesKey, userID).Err())
}

func (r *Repository) ReservePin(ctx context.Context, pin, matchID string) (bool, error) {
	ok, err := r.client.HSetNX(ctx, pinsKey, pin, matchID).Result()
	if err != nil {
		return false, wrapErr(err)
	}
	return ok, nil
}

func (r *Repository) ResolvePin(ctx context.Context, pin string) (string, bool, error) {
	id, err := r.client.HGet(ctx, pinsKey, pin).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr(err)
	}
	return id, true, nil
}

func (r *Repository) ReleasePin(ctx context.Context, pin string) error {
	return wrapErr(r.client.HDel(ctx, pinsKey, pin).Err())
}

func (r *Repository) SaveHand(ctx context.Context, matchID string, seat int, hand []domain.Card) error {
	key := handKey(matchID, seat)
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(hand) > 0 {
		codes := make([]any, len(hand))
		for i, c := range hand {
			codes[i] = domain.Code(c)
		}
		pipe.RPush(ctx, key, codes...)
	}
	_, err := pipe.Exec(ctx)
	return wrapErr(err)
}

func (r *Repository) GetHand(ctx context.Context, matchID string, seat int) ([]domain.Card, error) {
	codes, err := r.client.LRange(ctx, handKey(matchID, seat), 0, -1).Result()
	if err != nil {
		return nil, wrapErr(err)
	}
	hand := make([]domain.Card, 0, len(codes))
	for _, code := range codes {
		c, err := domain.FromCode(code)
		if err != nil {
			return nil, err
		}
		hand = append(hand, c)
	}
	return hand, nil
}

func (r *Repository) SaveHandAnalysis(ctx context.Context, matchID string, seat int, counts map[domain.Suit]int) error {
	key := handAnalysisKey(matchID, seat)
	fields := make(map[string]any, len(counts))
	for suit, n := range counts {
		fields[suit.String()] = n
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fields)
	_, err := pipe.Exec(ctx)
	return wrapErr(err)
}

func (r *Repository) SaveTrickState(ctx context.Context, matchID string, state *domain.GameTrickState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return wrapErr(r.client.Set(ctx, trickStateKey(matchID), blob, 0).Err())
}

func (r *Repository) GetTrickState(ctx context.Context, matchID string) (*domain.GameTrickState, bool, error) {
	blob, err := r.client.Get(ctx, trickStateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, wrapErr(err)
	}
	var state domain.GameTrickState
	if err := json.Unmarshal(blob, &state); err != nil {
		return nil, false, err
	}
	return &state, true, nil
}

func (r *Repository) DeleteTrickState(ctx context.Context, matchID string) error {
	return wrapErr(r.client.Del(ctx, trickStateKey(matchID)).Err())
}

func (r *Repository) SaveTrickHistory(ctx context.Context, matchID string, trickNumber int, trick domain.TrickState) error {
	blob, err := json.Marshal(trick)
	if err != nil {
		return err
	}
	return wrapErr(r.client.Set(ctx, trickHistoryKey(matchID, trickNumber), blob, 0).Err())
}

func (r *Repository) SaveCrossState(ctx context.Context, matchID string, cs *domain.CrossState) error {
	blob, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return wrapErr(r.client.Set(ctx, crossStateKey(matchID), blob, 0).Err())
}

func (r *Repository) GetCrossState(ctx context.Context, matchID string) (*domain.CrossState, error) {
	blob, err := r.client.Get(ctx, crossStateKey(matchID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: no cross state for %s", domain.ErrGameNotFound, matchID)
	}
	if err != nil {
		return nil, wrapErr(err)
	}
	var cs domain.CrossState
	if err := json.Unmarshal(blob, &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *Repository) DeleteCrossState(ctx context.Context, matchID string) error {
	return wrapErr(r.client.Del(ctx, crossStateKey(matchID)).Err())
}

func (r *Repository) GetUsername(ctx context.Context, userID string) (string, error) {
	name, err := r.client.HGet(ctx, usernamesKey, userID).Result()
	if err == redis.Nil {
		return "", nil
	}
	return name, wrapErr(err)
}

func (r *Repository) CleanupGameState(ctx context.Context, matchID string, seats int) error {
	keys := []string{trickStateKey(matchID)}
	for seat := 0; seat < seats; seat++ {
		keys = append(keys, handKey(matchID, seat), handAnalysisKey(matchID, seat))
	}
	for n := 1; n <= 8; n++ {
		keys = append(keys, trickHistoryKey(matchID, n))
	}
	return wrapErr(r.client.Del(ctx, keys...).Err())
}

func (r *Repository) CleanupMatch(ctx context.Context, match *domain.Match) error {
	keys := []string{
		matchKey(match.ID), playersKey(match.ID), biddingPassesKey(match.ID),
		trickStateKey(match.ID), crossStateKey(match.ID),
	}
	for seat := 0; seat < 4; seat++ {
		keys = append(keys, handKey(match.ID, seat), handAnalysisKey(match.ID, seat))
	}
	for n := 1; n <= 8; n++ {
		keys = append(keys, trickHistoryKey(match.ID, n))
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, keys...)
	if match.Pin != "" {
		pipe.HDel(ctx, pinsKey, match.Pin)
	}
	for _, userID := range match.Players {
		if userID != "" {
			pipe.HDel(ctx, playerGamesKey, userID)
		}
	}
	_, err := pipe.Exec(ctx)
	return wrapErr(err)
}

var _ ports.Repository = (*Repository)(nil)
