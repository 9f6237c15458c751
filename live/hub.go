package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/Dosada05/intramural-stats/metrics"
)

const (
	TypeGameUpdated      = "GAME_UPDATED"
	TypeGameDeleted      = "GAME_DELETED"
	TypeStatEventCreated = "STAT_EVENT_CREATED"
	TypeStatEventUpdated = "STAT_EVENT_UPDATED"
	TypeStatEventDeleted = "STAT_EVENT_DELETED"
)

// Message is the envelope pushed to every client of a room.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	RoomID  string      `json:"room_id,omitempty"`
}

// RoomForLeague names the room that carries a league's live feed.
func RoomForLeague(leagueID int) string {
	return "league_" + strconv.Itoa(leagueID)
}

// Hub fans published messages out to the clients of a room. Sends to a
// client never block: a client whose buffer is full misses the message.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	logger  *slog.Logger
	metrics *metrics.Recorder
}

func NewHub(logger *slog.Logger, rec *metrics.Recorder) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
		metrics:    rec,
	}
}

// Run owns room membership until ctx is cancelled, then closes every
// client's send channel.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return nil

		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.Room]; !ok {
				h.rooms[client.Room] = make(map[*Client]bool)
			}
			h.rooms[client.Room][client] = true
			total := h.countLocked()
			h.logger.Debug("live client registered",
				slog.String("room", client.Room), slog.Int("room_clients", len(h.rooms[client.Room])))
			h.mu.Unlock()
			h.metrics.SetLiveClients(total)

		case client := <-h.unregister:
			h.mu.Lock()
			if roomClients, ok := h.rooms[client.Room]; ok {
				if _, ok := roomClients[client]; ok {
					client.close()
					delete(roomClients, client)
					if len(roomClients) == 0 {
						delete(h.rooms, client.Room)
					}
				}
			}
			total := h.countLocked()
			h.mu.Unlock()
			h.metrics.SetLiveClients(total)
			h.logger.Debug("live client unregistered", slog.String("room", client.Room))
		}
	}
}

// Register adds a client to its room. It returns false once the hub has
// stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish sends a message to every client in the league's room.
func (h *Hub) Publish(leagueID int, msgType string, payload interface{}) {
	room := RoomForLeague(leagueID)
	h.BroadcastToRoom(room, Message{Type: msgType, Payload: payload, RoomID: room})
}

func (h *Hub) BroadcastToRoom(roomID string, message interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	roomClients, ok := h.rooms[roomID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal live message", slog.String("room", roomID), slog.Any("error", err))
		return
	}

	for client := range roomClients {
		if !client.trySend(messageBytes) {
			h.logger.Warn("live client buffer full, message skipped", slog.String("room", roomID))
		}
	}
	h.metrics.RecordLiveBroadcast()
}

// ClientCount reports how many clients are in a room.
func (h *Hub) ClientCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

func (h *Hub) countLocked() int {
	n := 0
	for _, roomClients := range h.rooms {
		n += len(roomClients)
	}
	return n
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, roomClients := range h.rooms {
		for client := range roomClients {
			client.close()
		}
		delete(h.rooms, room)
	}
	h.metrics.SetLiveClients(0)
}
