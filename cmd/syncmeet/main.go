package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/syncmeet/internal/application"
	"github.com/example/syncmeet/internal/config"
	httptransport "github.com/example/syncmeet/internal/http"
	"github.com/example/syncmeet/internal/persistence"
	"github.com/example/syncmeet/internal/persistence/sqlite"
	"github.com/example/syncmeet/internal/realtime"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	codeGenerator := func() string { return randomRoomCode(roomCodeLength) }
	idGenerator := uuid.NewString
	now := time.Now

	roomRepo := newRoomRepositoryAdapter(sqlite.NewRoomRepository(storage))
	participantRepo := newParticipantRepositoryAdapter(sqlite.NewParticipantRepository(storage))

	roomService := application.NewRoomServiceWithLogger(roomRepo, participantRepo, codeGenerator, idGenerator, now, logger)

	hub := realtime.NewHub(logger)
	var notifier application.ParticipantNotifier = hub
	if cfg.RedisURL != "" {
		bridge, err := realtime.NewBridge(ctx, cfg.RedisURL, hub, roomService, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := bridge.Close(); cerr != nil {
				logger.Error("failed to close redis bridge", "error", cerr)
			}
		}()
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("redis bridge stopped", "error", err)
			}
		}()
		notifier = bridge
	}
	roomService.SetNotifier(notifier)

	roomHandler := httptransport.NewRoomHandler(roomService, logger)
	watchHandler := httptransport.NewWatchHandler(hub, roomService, cfg.AllowedOrigin, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:      roomHandler,
		Watch:      watchHandler,
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("syncmeet API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

const roomCodeLength = 6

// roomCodeAlphabet omits 0, O, 1, I and L so codes survive being read aloud
// or copied by hand.
const roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

func randomRoomCode(length int) string {
	if length <= 0 {
		length = roomCodeLength
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		// Timestamp fallback keeps room creation available if the
		// entropy source fails; collisions are caught by the unique key.
		return fmt.Sprintf("%X", time.Now().UnixNano())[:length]
	}
	for i, b := range buf {
		buf[i] = roomCodeAlphabet[int(b)%len(roomCodeAlphabet)]
	}
	return string(buf)
}

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.repo.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	stored, err := a.repo.GetRoom(ctx, room.Code)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, code string) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, code)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

type participantRepositoryAdapter struct {
	repo persistence.ParticipantRepository
}

func newParticipantRepositoryAdapter(repo persistence.ParticipantRepository) *participantRepositoryAdapter {
	return &participantRepositoryAdapter{repo: repo}
}

func (a *participantRepositoryAdapter) CreateParticipant(ctx context.Context, participant application.Participant) (application.Participant, error) {
	if err := a.repo.CreateParticipant(ctx, toPersistenceParticipant(participant)); err != nil {
		return application.Participant{}, err
	}
	stored, err := a.repo.GetParticipant(ctx, participant.RoomCode, participant.ID)
	if err != nil {
		return application.Participant{}, err
	}
	return toApplicationParticipant(stored), nil
}

func (a *participantRepositoryAdapter) GetParticipant(ctx context.Context, roomCode, id string) (application.Participant, error) {
	stored, err := a.repo.GetParticipant(ctx, roomCode, id)
	if err != nil {
		return application.Participant{}, err
	}
	return toApplicationParticipant(stored), nil
}

func (a *participantRepositoryAdapter) ListParticipants(ctx context.Context, roomCode string) ([]application.Participant, error) {
	models, err := a.repo.ListParticipants(ctx, roomCode)
	if err != nil {
		return nil, err
	}
	participants := make([]application.Participant, 0, len(models))
	for _, model := range models {
		participants = append(participants, toApplicationParticipant(model))
	}
	return participants, nil
}

func (a *participantRepositoryAdapter) SetBusySlots(ctx context.Context, roomCode, id string, busySlots []string) error {
	return a.repo.SetBusySlots(ctx, roomCode, id, busySlots)
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		Code:        room.Code,
		Name:        room.Name,
		CreatorName: room.CreatorName,
		StartTime:   room.StartTime,
		EndTime:     room.EndTime,
		Days:        room.Days,
		SlotMinutes: room.SlotMinutes,
		CreatedAt:   room.CreatedAt,
	}
}

func toApplicationRoom(room persistence.Room) application.Room {
	return application.Room{
		Code:        room.Code,
		Name:        room.Name,
		CreatorName: room.CreatorName,
		StartTime:   room.StartTime,
		EndTime:     room.EndTime,
		Days:        room.Days,
		SlotMinutes: room.SlotMinutes,
		CreatedAt:   room.CreatedAt,
	}
}

func toPersistenceParticipant(participant application.Participant) persistence.Participant {
	return persistence.Participant{
		ID:        participant.ID,
		RoomCode:  participant.RoomCode,
		Name:      participant.Name,
		Timezone:  participant.Timezone,
		BusySlots: participant.BusySlots,
		JoinedAt:  participant.JoinedAt,
		UpdatedAt: participant.UpdatedAt,
	}
}

func toApplicationParticipant(participant persistence.Participant) application.Participant {
	return application.Participant{
		ID:        participant.ID,
		RoomCode:  participant.RoomCode,
		Name:      participant.Name,
		Timezone:  participant.Timezone,
		BusySlots: participant.BusySlots,
		JoinedAt:  participant.JoinedAt,
		UpdatedAt: participant.UpdatedAt,
	}
}
