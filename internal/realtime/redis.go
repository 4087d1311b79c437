package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/example/syncmeet/internal/application"
)

// participantsChannel is the pub/sub channel carrying change events between
// instances.
const participantsChannel = "syncmeet:participants"

// ParticipantLoader reloads the participant snapshot of a room. The room
// service satisfies this interface.
type ParticipantLoader interface {
	ListParticipants(ctx context.Context, roomCode string) ([]application.Participant, error)
}

// changeEvent is the wire form published on the pub/sub channel. Only the
// room code travels; receivers reload the snapshot from their own store so
// watchers still see complete, consistent state.
type changeEvent struct {
	Origin   string `json:"origin"`
	RoomCode string `json:"room_code"`
}

// Bridge extends hub fan-out across instances through Redis pub/sub. It
// implements application.ParticipantNotifier: local watchers are served
// directly, peers are poked to reload.
type Bridge struct {
	client   *redis.Client
	hub      *Hub
	loader   ParticipantLoader
	logger   *slog.Logger
	instance string
}

// NewBridge connects to Redis and wraps the hub. The connection is verified
// before the bridge is returned.
func NewBridge(ctx context.Context, redisURL string, hub *Hub, loader ParticipantLoader, logger *slog.Logger) (*Bridge, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{
		client:   client,
		hub:      hub,
		loader:   loader,
		logger:   logger,
		instance: uuid.NewString(),
	}, nil
}

// Close releases the Redis connection.
func (b *Bridge) Close() error {
	return b.client.Close()
}

// ParticipantsChanged implements application.ParticipantNotifier. The local
// hub is always served, even when publishing to peers fails.
func (b *Bridge) ParticipantsChanged(ctx context.Context, roomCode string, participants []application.Participant) {
	b.hub.ParticipantsChanged(ctx, roomCode, participants)

	payload, err := json.Marshal(changeEvent{Origin: b.instance, RoomCode: roomCode})
	if err != nil {
		b.logger.Error("failed to encode change event", "error", err)
		return
	}
	if err := b.client.Publish(ctx, participantsChannel, payload).Err(); err != nil {
		b.logger.Error("failed to publish change event", "room_code", roomCode, "error", err)
	}
}

// Run consumes peer change events until the context is cancelled. Events
// published by this instance are skipped; everything else triggers a
// snapshot reload and a local broadcast.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.Subscribe(ctx, participantsChannel)
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var event changeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Error("failed to decode change event", "error", err)
				continue
			}
			if event.Origin == b.instance || event.RoomCode == "" {
				continue
			}

			participants, err := b.loader.ListParticipants(ctx, event.RoomCode)
			if err != nil {
				b.logger.Error("failed to reload snapshot for peer event", "room_code", event.RoomCode, "error", err)
				continue
			}
			b.hub.Broadcast(Snapshot{RoomCode: event.RoomCode, Participants: participants})
		}
	}
}
