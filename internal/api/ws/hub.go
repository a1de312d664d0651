package ws

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	redisstore "github.com/hanbit-dev/weekplan/internal/store/redis"
)

// Subscriber provides channel-based subscriptions to the live feed.
// *redisstore.PubSub satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections backed by the live feed's pub/sub.
type Hub struct {
	pubsub Subscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub Subscriber) *Hub {
	return &Hub{pubsub: pubsub}
}

// ServeFeed streams every task lifecycle event to the client. The timeline
// view uses this instead of polling the task list.
func (h *Hub) ServeFeed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.FeedChannel)
}

// ServeTask streams one task's lifecycle events to the client.
func (h *Hub) ServeTask(w http.ResponseWriter, r *http.Request) {
	taskIDStr := chi.URLParam(r, "taskID")
	taskID, err := uuid.Parse(taskIDStr)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	h.serve(w, r, redisstore.TaskChannel(taskID))
}

func (h *Hub) serve(w http.ResponseWriter, r *http.Request, channel string) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	// The socket is write-only. CloseRead drains incoming frames and cancels
	// the context as soon as the client closes the connection.
	ctx := conn.CloseRead(r.Context())

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
