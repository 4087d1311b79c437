// Package realtime fans participant snapshots out to everyone watching a
// room. The hub is in-process; the optional Redis bridge extends delivery
// across instances.
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/example/syncmeet/internal/application"
)

// subscriberBuffer is the per-subscriber queue depth. A subscriber that
// falls this far behind is dropped instead of blocking publishers.
const subscriberBuffer = 8

// Snapshot is one complete participant list for a room. Watchers always
// receive whole snapshots, never deltas.
type Snapshot struct {
	RoomCode     string
	Participants []application.Participant
}

// Hub is an in-process subscription registry keyed by room code.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[chan Snapshot]struct{}
	logger *slog.Logger
}

// NewHub constructs an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		rooms:  make(map[string]map[chan Snapshot]struct{}),
		logger: logger,
	}
}

// Subscribe registers a watcher for a room. The returned channel delivers
// participant snapshots until cancel is called; cancel is idempotent.
func (h *Hub) Subscribe(roomCode string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, subscriberBuffer)

	h.mu.Lock()
	subscribers, ok := h.rooms[roomCode]
	if !ok {
		subscribers = make(map[chan Snapshot]struct{})
		h.rooms[roomCode] = subscribers
	}
	subscribers[ch] = struct{}{}
	total := len(subscribers)
	h.mu.Unlock()

	h.logger.Debug("watcher subscribed", "room_code", roomCode, "watchers", total)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if subscribers, ok := h.rooms[roomCode]; ok {
				delete(subscribers, ch)
				if len(subscribers) == 0 {
					delete(h.rooms, roomCode)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Watchers reports how many subscribers a room currently has.
func (h *Hub) Watchers(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// Broadcast delivers a snapshot to every watcher of a room. Delivery is
// best-effort: a watcher whose buffer is full misses this snapshot and will
// catch up on the next one.
func (h *Hub) Broadcast(snapshot Snapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.rooms[snapshot.RoomCode] {
		select {
		case ch <- snapshot:
		default:
			h.logger.Warn("dropping snapshot for slow watcher", "room_code", snapshot.RoomCode)
		}
	}
}

// ParticipantsChanged implements application.ParticipantNotifier.
func (h *Hub) ParticipantsChanged(_ context.Context, roomCode string, participants []application.Participant) {
	h.Broadcast(Snapshot{RoomCode: roomCode, Participants: participants})
}
