package ports

import (
	"context"

	"sjavs/internal/domain"
)

// Repository is the C8 persistence contract: serializes/deserializes the
// Match header (C7), hands (C2/C3), trick state (C4), and Cross state
// (C6) into the external key/value store, using the key layout of
// spec.md §6.1. ports/redisstore.Repository is the go-redis/v9
// implementation.
type Repository interface {
	// CreateMatch persists a brand-new match header and seats its host,
	// also recording the player_games and pins entries. Returns
	// ErrInfrastructureUnavailable on a transient store failure.
	CreateMatch(ctx context.Context, match *domain.Match) error

	// SaveMatch overwrites the match header (normal_match:{id}) plus the
	// players list (normal_match:{id}:players) with the current state.
	SaveMatch(ctx context.Context, match *domain.Match) error

	// GetMatch loads the match header and players list. Returns
	// domain.ErrGameNotFound if the match does not exist.
	GetMatch(ctx context.Context, matchID string) (*domain.Match, error)

	// DeleteMatch removes the match header and players list. The service
	// does not call it; completion and cancellation go through CleanupMatch.
	DeleteMatch(ctx context.Context, matchID string) error

	// GetMatchIDForUser resolves the player_games hash entry for userID.
	// Returns ok=false if the user is not in any active match.
	GetMatchIDForUser(ctx context.Context, userID string) (matchID string, ok bool, err error)

	// SetMatchIDForUser records userID's current match in player_games.
	SetMatchIDForUser(ctx context.Context, userID, matchID string) error

	// ClearMatchIDForUser removes userID's player_games entry.
	ClearMatchIDForUser(ctx context.Context, userID string) error

	// ReservePin atomically claims pin -> matchID in the pins hash,
	// failing (false, nil) if the pin is already taken so CreateMatch can
	// retry with a freshly generated pin.
	ReservePin(ctx context.Context, pin, matchID string) (reserved bool, err error)

	// ResolvePin looks up the matchID for an active pin.
	ResolvePin(ctx context.Context, pin string) (matchID string, ok bool, err error)

	// ReleasePin frees a pin from the pins hash. CreateMatch calls it when
	// persisting a new match fails; at completion/cancel CleanupMatch
	// removes the pin itself.
	ReleasePin(ctx context.Context, pin string) error

	// SaveHand stores a seat's hand as a serialized card-code list
	// (game_hands:{match_id}:{seat}).
	SaveHand(ctx context.Context, matchID string, seat int, hand []domain.Card) error

	// GetHand loads a seat's hand.
	GetHand(ctx context.Context, matchID string, seat int) ([]domain.Card, error)

	// SaveHandAnalysis stores a seat's trump counts
	// (game_hand_analysis:{match_id}:{seat}), recomputed on every redeal.
	SaveHandAnalysis(ctx context.Context, matchID string, seat int, counts map[domain.Suit]int) error

	// SaveTrickState stores the current GameTrickState blob
	// (game_trick_state:{match_id}).
	SaveTrickState(ctx context.Context, matchID string, state *domain.GameTrickState) error

	// GetTrickState loads the current GameTrickState blob. Returns
	// ok=false if no playing-phase trick state exists for matchID.
	GetTrickState(ctx context.Context, matchID string) (state *domain.GameTrickState, ok bool, err error)

	// DeleteTrickState removes the trick state blob at game end.
	DeleteTrickState(ctx context.Context, matchID string) error

	// SaveTrickHistory stores one completed trick
	// (game_trick_history:{match_id}:{n}) for audit/replay-free inspection.
	SaveTrickHistory(ctx context.Context, matchID string, trickNumber int, trick domain.TrickState) error

	// SaveCrossState stores the CrossState blob (cross_state:{match_id}).
	SaveCrossState(ctx context.Context, matchID string, cs *domain.CrossState) error

	// GetCrossState loads the CrossState blob.
	GetCrossState(ctx context.Context, matchID string) (*domain.CrossState, error)

	// DeleteCrossState removes the Cross state blob when the rubber ends.
	DeleteCrossState(ctx context.Context, matchID string) error

	// GetUsername is a read-only lookup into the "usernames" hash, owned
	// outside this core (spec.md §6.1), read by JoinMatch for the joining
	// player's display name.
	GetUsername(ctx context.Context, userID string) (string, error)

	// CleanupGameState deletes the per-game hand/trick keys for matchID
	// (spec.md §6.1 Expiration) without touching the match header or
	// Cross state, used between games of the same rubber.
	CleanupGameState(ctx context.Context, matchID string, seats int) error

	// CleanupMatch deletes every key owned by matchID (hands, trick,
	// cross, pin, player_games for every seated user) once a rubber
	// completes or the match is cancelled.
	CleanupMatch(ctx context.Context, match *domain.Match) error
}
