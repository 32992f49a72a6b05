package domain

// crossStart is the countdown total both sides start a rubber at.
const crossStart = 24

// onTheHookTotal is the remaining total at which a side is "on the hook".
const onTheHookTotal = 6

// CrossState tracks the two Cross countdown totals for one rubber.
type CrossState struct {
	TrumpTeamRemaining    int
	OpponentTeamRemaining int
	TrumpTeamCrosses      int
	OpponentTeamCrosses   int
	NextGameBonus         int
	RubberComplete        bool
}

// NewCrossState starts a fresh rubber with both sides at 24.
func NewCrossState() *CrossState {
	return &CrossState{
		TrumpTeamRemaining:    crossStart,
		OpponentTeamRemaining: crossStart,
	}
}

// CrossOutcome summarizes the effect of applying one game's result.
type CrossOutcome struct {
	TrumpDoubleVictory    bool
	OpponentDoubleVictory bool
	TrumpWonCross         bool
	OpponentWonCross      bool
}

// ApplyGameResult applies a scored game's deltas to the Cross totals.
// numberOfCrosses is the authoritative target (spec.md §9 Open Questions):
// RubberComplete is set only once TrumpTeamCrosses or OpponentTeamCrosses
// reaches it.
func ApplyGameResult(cs *CrossState, result GameResult, numberOfCrosses int) CrossOutcome {
	if result.IsTie {
		cs.NextGameBonus += 2
		return CrossOutcome{}
	}

	bonus := cs.NextGameBonus
	cs.NextGameBonus = 0

	trumpDelta := result.TrumpDelta
	opponentDelta := result.OpponentDelta
	if trumpDelta > 0 {
		trumpDelta += bonus
	} else if opponentDelta > 0 {
		opponentDelta += bonus
	}

	var outcome CrossOutcome

	if trumpDelta > 0 {
		winnerBefore := cs.TrumpTeamRemaining
		cs.TrumpTeamRemaining -= trumpDelta
		if cs.TrumpTeamRemaining <= 0 {
			cs.TrumpTeamCrosses++
			outcome.TrumpWonCross = true
			outcome.TrumpDoubleVictory = winnerBefore == crossStart
		}
	}

	if opponentDelta > 0 {
		winnerBefore := cs.OpponentTeamRemaining
		cs.OpponentTeamRemaining -= opponentDelta
		if cs.OpponentTeamRemaining <= 0 {
			cs.OpponentTeamCrosses++
			outcome.OpponentWonCross = true
			outcome.OpponentDoubleVictory = winnerBefore == crossStart
		}
	}

	if cs.TrumpTeamCrosses >= numberOfCrosses || cs.OpponentTeamCrosses >= numberOfCrosses {
		cs.RubberComplete = true
	}

	return outcome
}

// TrumpOnTheHook reports whether the trump team's remaining total is
// exactly the "on the hook" threshold.
func TrumpOnTheHook(cs *CrossState) bool {
	return cs.TrumpTeamRemaining == onTheHookTotal
}

// OpponentOnTheHook reports whether the opponent team's remaining total is
// exactly the "on the hook" threshold.
func OpponentOnTheHook(cs *CrossState) bool {
	return cs.OpponentTeamRemaining == onTheHookTotal
}
