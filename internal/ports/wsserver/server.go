// Package wsserver implements the client transport (C12 Connection
// Registry plus the socket read/write loops that drive app.Service),
// following the teacher's single-sink-per-user model and the
// ClientMessage/ServerMessage envelope shape of
// other_examples/thecarlhall-setback.
package wsserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sjavs/internal/apierr"
	"sjavs/internal/app"
	"sjavs/internal/ports"
)

const (
	writeTimeout  = 10 * time.Second
	pongTimeout   = 60 * time.Second
	pingInterval  = (pongTimeout * 9) / 10
	sinkBufferLen = 32
)

// Server owns the Connection Registry and wires inbound socket frames to
// app.Service, publishing resulting events through ports.EventBus and
// fanning live events back out through the Registry.
type Server struct {
	svc            *app.Service
	bus            ports.EventBus
	registry       *Registry
	logger         *zap.Logger
	upgrader       websocket.Upgrader
	publishTimeout time.Duration

	pumps *pumpSet
}

// NewServer wires a Server. allowedOrigins empty means accept any origin;
// otherwise the request's Origin header must match one entry exactly.
// publishTimeout bounds each EventBus.Publish call (config.Config's
// EventBusPublishTimeout); 0 means no deadline is applied.
func NewServer(svc *app.Service, bus ports.EventBus, logger *zap.Logger, allowedOrigins []string, publishTimeout time.Duration) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:            svc,
		bus:            bus,
		registry:       NewRegistry(),
		logger:         logger,
		pumps:          newPumpSet(),
		publishTimeout: publishTimeout,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// ServeHTTP upgrades the request to a WebSocket connection. The caller is
// trusted to have already authenticated the principal (spec.md §1 treats
// token verification as an external collaborator); the resulting user id
// is passed as the "user_id" query parameter.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "missing user_id", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	sink := make(Sink, sinkBufferLen)
	s.registry.Connect(userID, sink)
	s.reconnectToActiveMatch(r.Context(), userID, sink)

	done := make(chan struct{})
	go s.writePump(conn, sink, done)
	s.readPump(conn, userID, sink, done)

	s.registry.Disconnect(userID, sink)
	s.leaveActiveMatchChannel(userID)
	_ = conn.Close()
}

// leaveActiveMatchChannel drops the registry subscription (and the bus
// subscription, if this was the last local listener) for the match the
// user is currently in, as looked up through GetMatchInfo. Safe to call
// even if the user was never subscribed.
func (s *Server) leaveActiveMatchChannel(userID string) {
	info, err := s.svc.GetMatchInfo(context.Background(), userID)
	if err != nil {
		return
	}
	if wasLast := s.registry.Unsubscribe(info.MatchID, userID); wasLast {
		s.pumps.stop(info.MatchID)
		_ = s.bus.Unsubscribe(context.Background(), info.MatchID)
	}
}

// reconnectToActiveMatch re-subscribes a socket to the channel of
// whatever match the user was already seated in (spec.md §4.11's
// "on user (re)connection to a match") and pushes a fresh snapshot.
func (s *Server) reconnectToActiveMatch(ctx context.Context, userID string, sink Sink) {
	info, err := s.svc.GetMatchInfo(ctx, userID)
	if err != nil {
		return
	}
	s.joinMatchChannel(info.MatchID, userID)
	s.pushSnapshot(ctx, userID, sink)
}

func (s *Server) writePump(conn *websocket.Conn, sink Sink, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-sink:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Server) readPump(conn *websocket.Conn, userID string, sink Sink, done chan struct{}) {
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.reply(sink, ServerMessage{Type: MsgError, Error: &errorBody{
				Code: string(apierr.CodeMalformedRequest), Status: 400, Message: "malformed request envelope",
			}})
			continue
		}

		s.dispatch(context.Background(), userID, sink, msg)
	}
}

func (s *Server) reply(sink Sink, msg ServerMessage) {
	select {
	case sink <- msg:
	default:
		s.logger.Warn("wsserver: outbound sink full, dropping reply", zap.String("type", string(msg.Type)))
	}
}

func (s *Server) replyError(sink Sink, id string, err error) {
	resp := apierr.FromError(err)
	s.reply(sink, ServerMessage{
		ID:   id,
		Type: MsgError,
		Error: &errorBody{
			Code:    string(resp.Code),
			Status:  resp.Status,
			Message: resp.Message,
		},
	})
}

func (s *Server) replyData(sink Sink, id string, reqType MessageType, data any) {
	s.reply(sink, ServerMessage{ID: id, Type: reqType, Data: data})
}

// publishAll publishes every returned event through the bus, using the
// MatchID each app.Service handler already stamped on it. The process's
// own pump subscription (see pump.go) fans each one back out through the
// Registry, so dispatch does not also call Broadcast here.
func (s *Server) publishAll(ctx context.Context, events []ports.Event) {
	now := time.Now().UnixMilli()
	for _, event := range events {
		event.Timestamp = now
		publishCtx := ctx
		if s.publishTimeout > 0 {
			var cancel context.CancelFunc
			publishCtx, cancel = context.WithTimeout(ctx, s.publishTimeout)
			defer cancel()
		}
		if err := s.bus.Publish(publishCtx, event.MatchID, event); err != nil {
			s.logger.Warn("wsserver: publish failed", zap.String("match_id", event.MatchID), zap.String("kind", event.Kind), zap.Error(err))
		}
	}
}

// pushSnapshot builds and sends userID's own snapshot (spec.md §4.11),
// e.g. right after create/join or on (re)connection to an active match.
func (s *Server) pushSnapshot(ctx context.Context, userID string, sink Sink) {
	snapshotTS := time.Now().UnixMilli() + 1
	payload, err := s.svc.BuildSnapshot(ctx, userID, snapshotTS)
	if err != nil {
		s.logger.Warn("wsserver: snapshot build failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	s.reply(sink, ServerMessage{
		Type:      MsgSnapshot,
		MatchID:   payload.MatchID,
		Timestamp: snapshotTS,
		Data:      payload,
	})
}

func (s *Server) joinMatchChannel(matchID, userID string) {
	s.registry.Subscribe(matchID, userID)
	s.pumps.ensure(matchID, s.bus, s.registry, s.logger)
}
