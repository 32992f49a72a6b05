package app

import (
	"context"
	"fmt"
	"sync"

	"sjavs/internal/domain"
	"sjavs/internal/ports"
)

// fakeRepository is an in-memory ports.Repository used by service tests,
// mirroring the teacher's habit of driving tests against hand-rolled
// in-memory state rather than a live store.
type fakeRepository struct {
	mu sync.Mutex

	matches     map[string]*domain.Match
	playerGames map[string]string
	pins        map[string]string
	hands       map[string]map[int][]domain.Card
	analysis    map[string]map[int]map[domain.Suit]int
	trickState  map[string]*domain.GameTrickState
	trickHist   map[string]map[int]domain.TrickState
	crossState  map[string]*domain.CrossState
	usernames   map[string]string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		matches:     make(map[string]*domain.Match),
		playerGames: make(map[string]string),
		pins:        make(map[string]string),
		hands:       make(map[string]map[int][]domain.Card),
		analysis:    make(map[string]map[int]map[domain.Suit]int),
		trickState:  make(map[string]*domain.GameTrickState),
		trickHist:   make(map[string]map[int]domain.TrickState),
		crossState:  make(map[string]*domain.CrossState),
		usernames:   make(map[string]string),
	}
}

func (f *fakeRepository) CreateMatch(ctx context.Context, match *domain.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[match.ID] = match
	return nil
}

func (f *fakeRepository) SaveMatch(ctx context.Context, match *domain.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[match.ID] = match
	return nil
}

func (f *fakeRepository) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[matchID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return m, nil
}

func (f *fakeRepository) DeleteMatch(ctx context.Context, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, matchID)
	return nil
}

func (f *fakeRepository) GetMatchIDForUser(ctx context.Context, userID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.playerGames[userID]
	return id, ok, nil
}

func (f *fakeRepository) SetMatchIDForUser(ctx context.Context, userID, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerGames[userID] = matchID
	return nil
}

func (f *fakeRepository) ClearMatchIDForUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.playerGames, userID)
	return nil
}

func (f *fakeRepository) ReservePin(ctx context.Context, pin, matchID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, taken := f.pins[pin]; taken {
		return false, nil
	}
	f.pins[pin] = matchID
	return true, nil
}

func (f *fakeRepository) ResolvePin(ctx context.Context, pin string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.pins[pin]
	return id, ok, nil
}

func (f *fakeRepository) ReleasePin(ctx context.Context, pin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pins, pin)
	return nil
}

func (f *fakeRepository) SaveHand(ctx context.Context, matchID string, seat int, hand []domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hands[matchID] == nil {
		f.hands[matchID] = make(map[int][]domain.Card)
	}
	f.hands[matchID][seat] = hand
	return nil
}

func (f *fakeRepository) GetHand(ctx context.Context, matchID string, seat int) ([]domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hands[matchID][seat], nil
}

func (f *fakeRepository) SaveHandAnalysis(ctx context.Context, matchID string, seat int, counts map[domain.Suit]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.analysis[matchID] == nil {
		f.analysis[matchID] = make(map[int]map[domain.Suit]int)
	}
	f.analysis[matchID][seat] = counts
	return nil
}

func (f *fakeRepository) SaveTrickState(ctx context.Context, matchID string, state *domain.GameTrickState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trickState[matchID] = state
	return nil
}

func (f *fakeRepository) GetTrickState(ctx context.Context, matchID string) (*domain.GameTrickState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.trickState[matchID]
	return state, ok, nil
}

func (f *fakeRepository) DeleteTrickState(ctx context.Context, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.trickState, matchID)
	return nil
}

func (f *fakeRepository) SaveTrickHistory(ctx context.Context, matchID string, trickNumber int, trick domain.TrickState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.trickHist[matchID] == nil {
		f.trickHist[matchID] = make(map[int]domain.TrickState)
	}
	f.trickHist[matchID][trickNumber] = trick
	return nil
}

func (f *fakeRepository) SaveCrossState(ctx context.Context, matchID string, cs *domain.CrossState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crossState[matchID] = cs
	return nil
}

func (f *fakeRepository) GetCrossState(ctx context.Context, matchID string) (*domain.CrossState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cs, ok := f.crossState[matchID]
	if !ok {
		return nil, fmt.Errorf("%w: no cross state for %s", domain.ErrGameNotFound, matchID)
	}
	return cs, nil
}

func (f *fakeRepository) DeleteCrossState(ctx context.Context, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.crossState, matchID)
	return nil
}

func (f *fakeRepository) GetUsername(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usernames[userID], nil
}

func (f *fakeRepository) CleanupGameState(ctx context.Context, matchID string, seats int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.hands, matchID)
	delete(f.analysis, matchID)
	delete(f.trickState, matchID)
	delete(f.trickHist, matchID)
	return nil
}

func (f *fakeRepository) CleanupMatch(ctx context.Context, match *domain.Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, match.ID)
	delete(f.pins, match.Pin)
	delete(f.hands, match.ID)
	delete(f.analysis, match.ID)
	delete(f.trickState, match.ID)
	delete(f.trickHist, match.ID)
	delete(f.crossState, match.ID)
	for _, userID := range match.Players {
		if userID != "" {
			delete(f.playerGames, userID)
		}
	}
	return nil
}

// eventKinds is a small test helper extracting the Kind of each returned
// event in order, since Service handlers return events for the caller
// (here, the test) to publish rather than publishing them directly.
func eventKinds(events []ports.Event) []string {
	kinds := make([]string, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}
