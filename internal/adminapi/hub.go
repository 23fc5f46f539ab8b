package adminapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rawblock/claims-engine/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // operator dashboard only, never exposed publicly
	},
}

// FeedEvent is the envelope the live feed speaks: one event per committed
// claim or abstention, sequence-numbered so a dashboard can detect gaps
// after a reconnect.
type FeedEvent struct {
	Seq          uint64  `json:"seq"`
	Kind         string  `json:"kind"` // "claim" or "abstention"
	UserID       string  `json:"userId"`
	Predicate    string  `json:"predicate"`
	Value        string  `json:"value,omitempty"`
	Status       string  `json:"status,omitempty"`
	Confidence   float64 `json:"confidence,omitempty"`
	ReasonCode   string  `json:"reasonCode,omitempty"`
	ModelVersion string  `json:"modelVersion"`
}

// feedReplaySize bounds the window of recent events replayed to a client
// that connects mid-run.
const feedReplaySize = 64

// Hub fans committed claim/abstention events out to connected operator
// dashboards. A small replay ring means a late subscriber still sees the
// most recent events instead of starting blind.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	events  chan FeedEvent
	seq     uint64
	replay  []FeedEvent
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]bool),
		events:  make(chan FeedEvent, 256),
	}
}

// Run drains the event queue, fanning each event out to every connected
// client. Slow or dead clients are dropped rather than allowed to stall
// the writing loop.
func (h *Hub) Run() {
	for ev := range h.events {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		h.mu.Lock()
		for conn := range h.clients {
			_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("claim feed write error: %v", err)
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

// PublishClaim queues one committed claim for the live feed.
func (h *Hub) PublishClaim(c models.Claim) {
	h.publish(FeedEvent{
		Kind:         "claim",
		UserID:       c.SubjectUserID,
		Predicate:    string(c.Predicate),
		Value:        c.ObjectValue,
		Status:       string(c.Status),
		Confidence:   c.Confidence,
		ModelVersion: c.ModelVersion,
	})
}

// PublishAbstention queues one logged abstention for the live feed.
func (h *Hub) PublishAbstention(a models.Abstention) {
	h.publish(FeedEvent{
		Kind:         "abstention",
		UserID:       a.SubjectUserID,
		Predicate:    string(a.Predicate),
		ReasonCode:   string(a.ReasonCode),
		ModelVersion: a.ModelVersion,
	})
}

// publish stamps the event's sequence number, records it in the replay
// window, and enqueues it. The queue never blocks the caller — under
// backpressure the event is dropped from the live feed but stays in the
// replay window.
func (h *Hub) publish(ev FeedEvent) {
	h.mu.Lock()
	h.seq++
	ev.Seq = h.seq
	h.replay = append(h.replay, ev)
	if len(h.replay) > feedReplaySize {
		h.replay = h.replay[len(h.replay)-feedReplaySize:]
	}
	h.mu.Unlock()

	select {
	case h.events <- ev:
	default:
		log.Println("claim feed buffer full, dropping live event")
	}
}

// Subscribe upgrades the connection, replays the recent event window, and
// registers the client for live events.
func (h *Hub) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade claim feed websocket: %v", err)
		return
	}

	h.mu.Lock()
	snapshot := make([]FeedEvent, len(h.replay))
	copy(snapshot, h.replay)
	h.clients[conn] = true
	total := len(h.clients)
	h.mu.Unlock()

	log.Printf("claim feed client connected, total=%d", total)

	for _, ev := range snapshot {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			break
		}
	}

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			log.Println("claim feed client disconnected")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}
