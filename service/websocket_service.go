package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tieubaoca/consent-draft-be/types"
	"go.uber.org/zap"
)

// WebSocketService streams generation snapshots over a websocket for
// clients that prefer a bidirectional connection to SSE.
type WebSocketService struct {
	drafts   *DraftService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketService(drafts *DraftService, logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		drafts: drafts,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
	}
}

// HandleGenerate upgrades the connection, waits for a generate
// request, and pushes every draft snapshot to the client. Closing the
// connection cancels the session's snapshot delivery; in-flight
// backend calls drain in the background.
func (s *WebSocketService) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(512 * 1024) // 512KB max message size
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	requests := make(chan types.GenerateRequest, 1)

	// Read pump: surfaces the generate request, answers pings, and
	// cancels the session when the peer goes away.
	go func() {
		defer cancel()
		for {
			_, p, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Warn("websocket read error", zap.Error(err))
				}
				return
			}
			// Any client traffic (including app-level pings) keeps the
			// connection alive.
			conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			var req types.WebsocketRequest
			if err := json.Unmarshal(p, &req); err != nil {
				s.writeError(conn, "invalid message")
				continue
			}
			switch req.Type {
			case types.TypeWebsocketPing:
				conn.WriteJSON(types.WebSocketResponse{Type: types.TypeWebsocketPong})
			case types.TypeWebsocketGenerate:
				payloadBytes, err := json.Marshal(req.Payload)
				if err != nil {
					s.writeError(conn, "invalid payload")
					continue
				}
				var genReq types.GenerateRequest
				if err := json.Unmarshal(payloadBytes, &genReq); err != nil {
					s.writeError(conn, "invalid payload")
					continue
				}
				select {
				case requests <- genReq:
				default:
					s.writeError(conn, "generation already running")
				}
			default:
				s.writeError(conn, "invalid message type")
			}
		}
	}()

	var genReq types.GenerateRequest
	select {
	case genReq = <-requests:
	case <-ctx.Done():
		return
	}

	for snapshot := range s.drafts.Generate(ctx, genReq.DocumentTitles) {
		msg := types.WebSocketResponse{
			Type:    types.TypeWebsocketSnapshot,
			Payload: snapshot,
		}
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Warn("websocket write error", zap.Error(err))
			cancel()
			// Keep ranging so the session channel drains and closes.
		}
	}
}

func (s *WebSocketService) writeError(conn *websocket.Conn, message string) {
	conn.WriteJSON(types.WebSocketResponse{
		Type:    types.TypeWebsocketError,
		Payload: message,
	})
}
