package domain

import "fmt"

// Status is the lifecycle phase of a Match.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusDealing   Status = "dealing"
	StatusBidding   Status = "bidding"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Match is the authoritative per-match state machine (C7). It holds no
// hands, trick, or Cross state directly — those are separate aggregates
// (see hand.go, trick.go, cross.go) composed by the app layer, matching
// the key layout of spec.md §6.1.
type Match struct {
	ID     string
	Pin    string
	Status Status

	// Players is seat-indexed; "" means the seat is empty. Host is
	// players[0] by convention: Join always assigns the lowest empty
	// seat, so the first joiner (the creator) always lands in seat 0.
	Players [4]string

	DealerPosition   *int
	CurrentBidder    *int
	CurrentLeader    *int
	TrumpSuit        *Suit
	TrumpDeclarer    *int
	HighestBidLength *int
	HighestBidder    *int
	HighestBidSuit   *Suit
	BiddingPasses    map[int]bool

	NumberOfCrosses  int
	CurrentCross     int
	CreatedTimestamp int64
}

// NewMatch creates a Waiting match owned by hostUserID, seated at 0.
func NewMatch(id, pin, hostUserID string, numberOfCrosses int, createdAt int64) *Match {
	m := &Match{
		ID:               id,
		Pin:              pin,
		Status:           StatusWaiting,
		NumberOfCrosses:  numberOfCrosses,
		CreatedTimestamp: createdAt,
		BiddingPasses:    make(map[int]bool),
	}
	m.Players[0] = hostUserID
	return m
}

// Host returns the host user id (seat 0), or "" if the match has no host
// (should not happen once created).
func (m *Match) Host() string {
	return m.Players[0]
}

// PlayerCount returns how many seats are occupied.
func (m *Match) PlayerCount() int {
	n := 0
	for _, p := range m.Players {
		if p != "" {
			n++
		}
	}
	return n
}

// SeatOf returns the seat index for userID, or -1 if not seated.
func (m *Match) SeatOf(userID string) int {
	for i, p := range m.Players {
		if p == userID {
			return i
		}
	}
	return -1
}

// lowestEmptySeat returns the first empty seat index, or -1 if full.
func (m *Match) lowestEmptySeat() int {
	for i, p := range m.Players {
		if p == "" {
			return i
		}
	}
	return -1
}

// Join seats userID at the lowest empty seat. Only legal while Waiting.
func (m *Match) Join(userID string) (seat int, err error) {
	if m.Status != StatusWaiting {
		return 0, fmt.Errorf("%w: match is not waiting for players", ErrWrongPhase)
	}
	if m.SeatOf(userID) >= 0 {
		return 0, fmt.Errorf("%w: already seated", ErrMalformedRequest)
	}
	seat = m.lowestEmptySeat()
	if seat < 0 {
		return 0, ErrMatchFull
	}
	m.Players[seat] = userID
	return seat, nil
}

// LeaveResult describes the effect of a Leave call.
type LeaveResult struct {
	FreedSeat int
	Cancelled bool
}

// Leave removes userID from the match. While Waiting, a non-host leaving
// frees their seat; the host leaving cancels the match. In any other
// phase, any participant leaving ends that rubber as Cancelled.
func (m *Match) Leave(userID string) (LeaveResult, error) {
	seat := m.SeatOf(userID)
	if seat < 0 {
		return LeaveResult{}, ErrNotInGame
	}

	if m.Status == StatusWaiting {
		if seat == 0 {
			m.Status = StatusCancelled
			return LeaveResult{FreedSeat: seat, Cancelled: true}, nil
		}
		m.Players[seat] = ""
		return LeaveResult{FreedSeat: seat}, nil
	}

	m.Status = StatusCancelled
	m.clearTransientState()
	return LeaveResult{FreedSeat: seat, Cancelled: true}, nil
}

func (m *Match) clearTransientState() {
	m.DealerPosition = nil
	m.CurrentBidder = nil
	m.CurrentLeader = nil
	m.TrumpSuit = nil
	m.TrumpDeclarer = nil
	m.HighestBidLength = nil
	m.HighestBidder = nil
	m.HighestBidSuit = nil
	m.BiddingPasses = make(map[int]bool)
}

// StartResult carries the freshly-dealt hands and dealer chosen by Start.
type StartResult struct {
	DealerPosition int
	Hands          [4][]Card
}

// Start transitions Waiting -> Dealing -> Bidding. Only the host may
// start, and all 4 seats must be occupied. pickRandomSeat is used only
// for the first game of a rubber (no prior dealer); subsequent games
// rotate the dealer forward (see BeginNextGame).
func (m *Match) Start(actorUserID string, pickRandomSeat func() int) (StartResult, error) {
	if m.Status != StatusWaiting {
		return StartResult{}, fmt.Errorf("%w: match is not waiting", ErrWrongPhase)
	}
	if actorUserID != m.Host() {
		return StartResult{}, ErrNotHost
	}
	if m.PlayerCount() < 4 {
		return StartResult{}, fmt.Errorf("%w: need 4 players, have %d", ErrMalformedRequest, m.PlayerCount())
	}

	dealer := m.DealerPosition
	var dealerPos int
	if dealer == nil {
		dealerPos = pickRandomSeat()
	} else {
		dealerPos = *dealer
	}

	m.Status = StatusDealing
	m.BiddingPasses = make(map[int]bool)
	m.HighestBidLength = nil
	m.HighestBidder = nil
	m.HighestBidSuit = nil
	m.TrumpSuit = nil
	m.TrumpDeclarer = nil

	hands, err := DealUntilValid()
	if err != nil {
		return StartResult{}, err
	}

	m.DealerPosition = &dealerPos
	m.beginBidding()

	return StartResult{DealerPosition: dealerPos, Hands: hands}, nil
}

// beginBidding transitions Dealing -> Bidding: current_bidder is the seat
// after the dealer.
func (m *Match) beginBidding() {
	m.Status = StatusBidding
	first := (*m.DealerPosition + 1) % 4
	m.CurrentBidder = &first
}

func (m *Match) activeBidders() []int {
	var active []int
	for seat := 0; seat < 4; seat++ {
		if !m.BiddingPasses[seat] {
			active = append(active, seat)
		}
	}
	return active
}

func (m *Match) nextBidderAfter(seat int) int {
	for i := 1; i <= 4; i++ {
		candidate := (seat + i) % 4
		if !m.BiddingPasses[candidate] {
			return candidate
		}
	}
	return seat
}

// BidResult reports whether a Bid call concluded bidding.
type BidResult struct {
	NextBidder      int
	BiddingComplete bool
	TrumpSuit       Suit
	Declarer        int
	FirstLeader     int
}

// Bid validates and applies a bid from seat using the seat's hand to
// confirm the actual trump count supports the claimed length.
func (m *Match) Bid(seat, length int, suit Suit, hand []Card) (BidResult, error) {
	if m.Status != StatusBidding {
		return BidResult{}, fmt.Errorf("%w: not bidding", ErrWrongPhase)
	}
	if m.CurrentBidder == nil || seat != *m.CurrentBidder {
		return BidResult{}, ErrNotYourTurn
	}
	if m.BiddingPasses[seat] {
		return BidResult{}, ErrAlreadyPassed
	}
	if length < 5 || length > 8 {
		return BidResult{}, fmt.Errorf("%w: length %d out of range", ErrMalformedRequest, length)
	}

	counts := TrumpCounts(hand)
	if counts[suit] < length {
		return BidResult{}, ErrBidExceedsTrumps
	}

	if m.HighestBidder != nil {
		if !BidBeats(length, suit, *m.HighestBidLength, *m.HighestBidSuit) {
			return BidResult{}, ErrBidNotBetter
		}
	}

	m.HighestBidLength = &length
	m.HighestBidSuit = &suit
	m.HighestBidder = &seat

	active := m.activeBidders()
	if len(active) == 1 && active[0] == seat {
		return m.finishBidding(seat, suit), nil
	}

	next := m.nextBidderAfter(seat)
	m.CurrentBidder = &next

	if next == seat {
		// Safety net: every other seat already passed and the turn
		// pointer wrapped straight back to the bid winner.
		return m.finishBidding(seat, suit), nil
	}

	return BidResult{NextBidder: next}, nil
}

// PassResult reports the effect of a Pass call, including whether it
// triggered an all-pass redeal.
type PassResult struct {
	NextBidder      int
	BiddingComplete bool
	Redealt         bool
	TrumpSuit       Suit
	Declarer        int
	FirstLeader     int
}

// Pass records seat passing in the current bidding round.
func (m *Match) Pass(seat int) (PassResult, error) {
	if m.Status != StatusBidding {
		return PassResult{}, fmt.Errorf("%w: not bidding", ErrWrongPhase)
	}
	if m.CurrentBidder == nil || seat != *m.CurrentBidder {
		return PassResult{}, ErrNotYourTurn
	}
	if m.BiddingPasses[seat] {
		return PassResult{}, ErrAlreadyPassed
	}

	m.BiddingPasses[seat] = true

	if len(m.BiddingPasses) == 4 && m.HighestBidder == nil {
		m.Status = StatusDealing
		m.BiddingPasses = make(map[int]bool)
		return PassResult{Redealt: true}, nil
	}

	active := m.activeBidders()
	if m.HighestBidder != nil && len(active) == 1 && active[0] == *m.HighestBidder {
		res := m.finishBidding(*m.HighestBidder, *m.HighestBidSuit)
		return PassResult{
			BiddingComplete: res.BiddingComplete,
			TrumpSuit:       res.TrumpSuit,
			Declarer:        res.Declarer,
			FirstLeader:     res.FirstLeader,
		}, nil
	}

	next := m.nextBidderAfter(seat)
	m.CurrentBidder = &next

	if m.HighestBidder != nil && next == *m.HighestBidder {
		res := m.finishBidding(*m.HighestBidder, *m.HighestBidSuit)
		return PassResult{
			BiddingComplete: res.BiddingComplete,
			TrumpSuit:       res.TrumpSuit,
			Declarer:        res.Declarer,
			FirstLeader:     res.FirstLeader,
		}, nil
	}

	return PassResult{NextBidder: next}, nil
}

// Redeal re-enters Dealing with the same dealer: called by the app layer
// after Pass reports Redealt, once a fresh valid deal is produced.
func (m *Match) Redeal() (StartResult, error) {
	if m.Status != StatusDealing {
		return StartResult{}, fmt.Errorf("%w: not dealing", ErrWrongPhase)
	}
	hands, err := DealUntilValid()
	if err != nil {
		return StartResult{}, err
	}
	m.beginBidding()
	return StartResult{DealerPosition: *m.DealerPosition, Hands: hands}, nil
}

func (m *Match) finishBidding(declarer int, trumpSuit Suit) BidResult {
	m.Status = StatusPlaying
	m.TrumpSuit = &trumpSuit
	m.TrumpDeclarer = &declarer
	firstLeader := (*m.DealerPosition + 1) % 4
	m.CurrentLeader = &firstLeader
	m.CurrentBidder = nil

	return BidResult{
		BiddingComplete: true,
		TrumpSuit:       trumpSuit,
		Declarer:        declarer,
		FirstLeader:     firstLeader,
	}
}

// BeginNextGame rotates the dealer and clears per-game state, returning
// the match to Waiting so the host can start the next game of the rubber.
func (m *Match) BeginNextGame() {
	next := (*m.DealerPosition + 1) % 4
	m.DealerPosition = &next
	m.Status = StatusWaiting
	m.CurrentBidder = nil
	m.CurrentLeader = nil
	m.TrumpSuit = nil
	m.TrumpDeclarer = nil
	m.HighestBidLength = nil
	m.HighestBidder = nil
	m.HighestBidSuit = nil
	m.BiddingPasses = make(map[int]bool)
}

// FinishRubber marks the match Completed; called once CrossState reports
// RubberComplete.
func (m *Match) FinishRubber() {
	m.Status = StatusCompleted
}
