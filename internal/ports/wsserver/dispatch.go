package wsserver

import (
	"context"
)

// dispatch routes one ClientMessage to the matching app.Service handler,
// publishes any resulting events, and replies on sink with either the
// handler's response or a mapped error.
func (s *Server) dispatch(ctx context.Context, userID string, sink Sink, msg ClientMessage) {
	switch msg.Type {
	case MsgCreateMatch:
		resp, err := s.svc.CreateMatch(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.joinMatchChannel(resp.MatchID, userID)
		s.replyData(sink, msg.ID, MsgCreateMatch, resp)
		s.pushSnapshot(ctx, userID, sink)

	case MsgJoinMatch:
		resp, events, err := s.svc.JoinMatch(ctx, userID, msg.Pin)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.joinMatchChannel(resp.MatchID, userID)
		s.publishAll(ctx, events)
		s.replyData(sink, msg.ID, MsgJoinMatch, resp)
		s.pushSnapshot(ctx, userID, sink)

	case MsgLeaveMatch:
		info, infoErr := s.svc.GetMatchInfo(ctx, userID)
		resp, events, err := s.svc.LeaveMatch(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.publishAll(ctx, events)
		if infoErr == nil {
			if wasLast := s.registry.Unsubscribe(info.MatchID, userID); wasLast {
				s.pumps.stop(info.MatchID)
				_ = s.bus.Unsubscribe(ctx, info.MatchID)
			}
		}
		s.replyData(sink, msg.ID, MsgLeaveMatch, resp)

	case MsgGetMatchInfo:
		resp, err := s.svc.GetMatchInfo(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.replyData(sink, msg.ID, MsgGetMatchInfo, resp)

	case MsgStartGame:
		resp, events, err := s.svc.StartGame(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.publishAll(ctx, events)
		s.replyData(sink, msg.ID, MsgStartGame, resp)

	case MsgGetHand:
		resp, err := s.svc.GetHand(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.replyData(sink, msg.ID, MsgGetHand, resp)

	case MsgBid:
		suit, err := parseSuitName(msg.Suit)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		resp, events, err := s.svc.Bid(ctx, userID, msg.Length, suit)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.publishAll(ctx, events)
		s.replyData(sink, msg.ID, MsgBid, resp)

	case MsgPass:
		resp, events, err := s.svc.Pass(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.publishAll(ctx, events)
		s.replyData(sink, msg.ID, MsgPass, resp)

	case MsgPlayCard:
		resp, events, err := s.svc.PlayCard(ctx, userID, msg.Card)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.publishAll(ctx, events)
		s.replyData(sink, msg.ID, MsgPlayCard, resp)

	case MsgGetTrickState:
		resp, err := s.svc.GetTrickState(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.replyData(sink, msg.ID, MsgGetTrickState, resp)

	case MsgCompleteGame:
		resp, err := s.svc.CompleteGame(ctx, userID)
		if err != nil {
			s.replyError(sink, msg.ID, err)
			return
		}
		s.replyData(sink, msg.ID, MsgCompleteGame, resp)

	default:
		s.reply(sink, ServerMessage{ID: msg.ID, Type: MsgError, Error: &errorBody{
			Code: "unknown_message_type", Status: 400, Message: "unrecognized message type",
		}})
	}
}
