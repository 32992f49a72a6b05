// Package apierr maps the domain/app sentinel error taxonomy (spec.md
// §7) to a stable wire code and an HTTP-analogous status, the way the
// teacher's rpc.go maps internal conditions to pb.ErrorCode before a
// response ever reaches a client. Only Command Handlers use this
// package; rule engines and the repository/event-bus adapters return
// plain wrapped sentinel errors.
package apierr

import (
	"errors"

	"sjavs/internal/domain"
)

// Code is a stable, client-facing error code.
type Code string

const (
	CodeMalformedCard    Code = "malformed_card"
	CodeMalformedRequest Code = "malformed_request"
	CodeInvalidPin       Code = "invalid_pin"

	CodeNotAuthenticated Code = "not_authenticated"
	CodeNotInGame        Code = "not_in_game"
	CodeNotHost          Code = "not_host"
	CodeNotYourTurn      Code = "not_your_turn"

	CodeGameNotFound           Code = "game_not_found"
	CodeWrongPhase             Code = "wrong_phase"
	CodeBiddingAlreadyComplete Code = "bidding_already_complete"
	CodeTrickAlreadyComplete   Code = "trick_already_complete"
	CodeGameAlreadyComplete    Code = "game_already_complete"

	CodeBidNotBetter      Code = "bid_not_better"
	CodeBidExceedsTrumps  Code = "bid_exceeds_actual_trumps"
	CodeCardNotInHand     Code = "card_not_in_hand"
	CodeIllegalFollowSuit Code = "illegal_follow_suit"
	CodeAlreadyPassed     Code = "already_passed"

	CodeMatchFull         Code = "match_full"
	CodeDealingImpossible Code = "dealing_impossible"

	CodeInfrastructureUnavailable Code = "infrastructure_unavailable"
	CodeInternal                  Code = "internal"
)

// Response is the wire shape of a failed command: a stable code, an
// HTTP-analogous status (spec.md §6.4), and a safe human-readable
// message. No internal error detail beyond err.Error() is leaked.
type Response struct {
	Code    Code   `json:"code"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type mapping struct {
	sentinel error
	code     Code
	status   int
}

// table is ordered most-specific first; errors.Is is checked in order so
// a more specific sentinel wins when an error could satisfy more than one
// (it never does today, but the ordering keeps the contract explicit).
var table = []mapping{
	{domain.ErrMalformedCard, CodeMalformedCard, 400},
	{domain.ErrMalformedRequest, CodeMalformedRequest, 400},
	{domain.ErrInvalidPin, CodeInvalidPin, 400},

	{domain.ErrNotAuthenticated, CodeNotAuthenticated, 403},
	{domain.ErrNotInGame, CodeNotInGame, 403},
	{domain.ErrNotHost, CodeNotHost, 403},
	{domain.ErrNotYourTurn, CodeNotYourTurn, 403},

	{domain.ErrGameNotFound, CodeGameNotFound, 404},
	{domain.ErrWrongPhase, CodeWrongPhase, 409},
	{domain.ErrBiddingAlreadyComplete, CodeBiddingAlreadyComplete, 409},
	{domain.ErrTrickAlreadyComplete, CodeTrickAlreadyComplete, 409},
	{domain.ErrGameAlreadyComplete, CodeGameAlreadyComplete, 409},

	{domain.ErrBidNotBetter, CodeBidNotBetter, 409},
	{domain.ErrBidExceedsTrumps, CodeBidExceedsTrumps, 400},
	{domain.ErrCardNotInHand, CodeCardNotInHand, 400},
	{domain.ErrIllegalFollowSuit, CodeIllegalFollowSuit, 400},
	{domain.ErrAlreadyPassed, CodeAlreadyPassed, 409},

	{domain.ErrMatchFull, CodeMatchFull, 409},
	{domain.ErrDealingImpossible, CodeDealingImpossible, 500},

	{domain.ErrInfrastructureUnavailable, CodeInfrastructureUnavailable, 500},
}

// FromError converts err into a client-safe Response. Unrecognized
// errors map to CodeInternal/500 with a generic message so internal
// detail never leaks to a caller.
func FromError(err error) Response {
	if err == nil {
		return Response{}
	}
	for _, m := range table {
		if errors.Is(err, m.sentinel) {
			return Response{Code: m.code, Status: m.status, Message: err.Error()}
		}
	}
	return Response{Code: CodeInternal, Status: 500, Message: "internal error"}
}
