package domain

import "fmt"

// ResultKind classifies how a completed game was won.
type ResultKind string

const (
	ResultNormal        ResultKind = "normal"
	ResultVol           ResultKind = "vol"
	ResultIndividualVol ResultKind = "individual_vol"
	ResultOpponentVol   ResultKind = "opponent_vol"
	ResultTie           ResultKind = "tie"
)

// GameResult is the outcome of scoring one completed 8-trick game.
type GameResult struct {
	TrumpDelta    int
	OpponentDelta int
	Kind          ResultKind
	Description   string
	IndividualVol bool
	IsTie         bool
}

// clubsMultiplier doubles scoring deltas when Clubs is trump.
func clubsMultiplier(trumpSuit Suit) int {
	if trumpSuit == Clubs {
		return 2
	}
	return 1
}

// CalculateGameResult converts a completed game's points/tricks into a
// Cross delta per the Sjavs scoring table. trumpPoints+opponentPoints
// must equal 120 and trumpTricks+opponentTricks must equal 8.
func CalculateGameResult(trumpPoints, opponentPoints, trumpTricks, opponentTricks int, trumpSuit Suit, individualVol bool) (GameResult, error) {
	if trumpPoints+opponentPoints != 120 {
		return GameResult{}, fmt.Errorf("%w: points %d+%d != 120", ErrMalformedRequest, trumpPoints, opponentPoints)
	}
	if trumpTricks+opponentTricks != 8 {
		return GameResult{}, fmt.Errorf("%w: tricks %d+%d != 8", ErrMalformedRequest, trumpTricks, opponentTricks)
	}

	c := clubsMultiplier(trumpSuit)

	switch {
	case trumpTricks == 8:
		if individualVol {
			return GameResult{TrumpDelta: 16 * c, Kind: ResultIndividualVol, IndividualVol: true, Description: "individual vol"}, nil
		}
		return GameResult{TrumpDelta: 12 * c, Kind: ResultVol, Description: "vol"}, nil

	case opponentTricks == 8:
		return GameResult{OpponentDelta: 16, Kind: ResultOpponentVol, Description: "opponent vol"}, nil

	case trumpPoints == 60 && opponentPoints == 60:
		return GameResult{Kind: ResultTie, IsTie: true, Description: "tie at 60-60"}, nil

	case trumpPoints >= 90:
		return GameResult{TrumpDelta: 4 * c, Kind: ResultNormal, Description: "trump team won 90-120 points"}, nil

	case trumpPoints >= 61:
		return GameResult{TrumpDelta: 2 * c, Kind: ResultNormal, Description: "trump team won 61-89 points"}, nil

	case trumpPoints >= 31:
		return GameResult{OpponentDelta: 4 * c, Kind: ResultNormal, Description: "opponent team held trump team to 31-59 points"}, nil

	default:
		return GameResult{OpponentDelta: 8 * c, Kind: ResultNormal, Description: "opponent team held trump team to 0-30 points"}, nil
	}
}
