package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/battle-quiz/internal/match"
	"github.com/DoyleJ11/battle-quiz/internal/monitor"
)

const writeTimeout = 3 * time.Second

// Handler streams every session snapshot to the connected watcher as a JSON
// text message. Watchers only listen; anything they send is discarded.
func Handler(m *monitor.Monitor, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan match.Snapshot, 8)
		clientID := uuid.NewString()

		select {
		case m.Inbox() <- monitor.Join{ClientID: clientID, Outbox: out}:
		case <-m.Done():
			conn.Close(websocket.StatusGoingAway, "session over")
			return
		}
		defer func() {
			select {
			case m.Inbox() <- monitor.Leave{ClientID: clientID}:
			case <-m.Done():
			}
		}()
		log.Debug("watcher connected", zap.String("client_id", clientID))

		// CloseRead drains client frames and cancels ctx once the peer goes away.
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-out:
				if !ok {
					return
				}
				payload, err := json.Marshal(snap)
				if err != nil {
					log.Warn("encode snapshot failed", zap.Error(err))
					continue
				}
				wctx, cancel := context.WithTimeout(ctx, writeTimeout)
				err = conn.Write(wctx, websocket.MessageText, payload)
				cancel()
				if err != nil {
					return
				}
			}
		}
	}
}
