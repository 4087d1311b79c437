package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/example/syncmeet/internal/application"
	"github.com/example/syncmeet/internal/realtime"
)

type snapshotSource interface {
	Subscribe(roomCode string) (<-chan realtime.Snapshot, func())
}

type participantLister interface {
	GetRoom(ctx context.Context, code string) (application.Room, error)
	ListParticipants(ctx context.Context, code string) ([]application.Participant, error)
}

// WatchHandler upgrades a room watch request to a WebSocket and streams
// participant snapshots until the client disconnects.
type WatchHandler struct {
	hub       snapshotSource
	service   participantLister
	upgrader  websocket.Upgrader
	responder responder
	logger    *slog.Logger
}

func NewWatchHandler(hub snapshotSource, service participantLister, allowedOrigin string, logger *slog.Logger) *WatchHandler {
	base := defaultLogger(logger)
	return &WatchHandler{
		hub:     hub,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigin),
		},
		responder: newResponder(base),
		logger:    base,
	}
}

// originChecker permits same origin requests, requests without an Origin
// header, and the configured origin. An empty configuration allows all.
func originChecker(allowedOrigin string) func(*http.Request) bool {
	allowed := strings.TrimSpace(allowedOrigin)
	return func(r *http.Request) bool {
		if allowed == "" {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return strings.EqualFold(origin, allowed)
	}
}

func (h *WatchHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "WatchHandler", operation, attrs...)
}

func (h *WatchHandler) Watch(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	code, ok := RoomCodeFromContext(r.Context())
	if !ok || strings.TrimSpace(code) == "" {
		h.log(r.Context(), "Watch", "error_kind", "bad_request").ErrorContext(r.Context(), "missing room code for watch")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomCode)
		return
	}

	logger := h.log(r.Context(), "Watch", "room_code", code)

	// Resolve the room before upgrading so unknown codes still get a JSON 404.
	room, err := h.service.GetRoom(r.Context(), code)
	if err != nil {
		logger.ErrorContext(r.Context(), "watch room lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade writes its own HTTP error response.
		logger.ErrorContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	snapshots, cancel := h.hub.Subscribe(room.Code)
	defer cancel()

	// Initial snapshot so a fresh watcher does not wait for the next change.
	participants, err := h.service.ListParticipants(r.Context(), room.Code)
	if err != nil {
		logger.ErrorContext(r.Context(), "initial snapshot failed", "error", err, "error_kind", application.ErrorKind(err))
		return
	}
	if err := conn.WriteJSON(snapshotMessage(realtime.Snapshot{RoomCode: room.Code, Participants: participants})); err != nil {
		logger.ErrorContext(r.Context(), "failed to write initial snapshot", "error", err)
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.InfoContext(r.Context(), "watch started")
	for {
		select {
		case snapshot, open := <-snapshots:
			if !open {
				logger.InfoContext(r.Context(), "watch subscription closed")
				return
			}
			if err := conn.WriteJSON(snapshotMessage(snapshot)); err != nil {
				logger.InfoContext(r.Context(), "watch ended", "error", err)
				return
			}
		case <-done:
			logger.InfoContext(r.Context(), "watch client disconnected")
			return
		case <-r.Context().Done():
			return
		}
	}
}

type watchMessage struct {
	RoomCode     string           `json:"room_code"`
	Participants []participantDTO `json:"participants"`
}

func snapshotMessage(snapshot realtime.Snapshot) watchMessage {
	return watchMessage{
		RoomCode:     snapshot.RoomCode,
		Participants: toParticipantDTOs(snapshot.Participants),
	}
}
