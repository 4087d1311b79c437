package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/syncmeet/internal/grid"
	"github.com/example/syncmeet/internal/persistence"
)

// Durations a room may slice its window into, in minutes.
var allowedSlotMinutes = []int{15, 30, 60}

// roomCodeAttempts bounds code regeneration when a generated code collides.
const roomCodeAttempts = 5

// anonymousName stands in for participants who join without a display name.
const anonymousName = "Anonymous"

// RoomRepository captures the persistence operations needed by the service.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, code string) (Room, error)
}

// ParticipantRepository captures the participant operations needed by the service.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant Participant) (Participant, error)
	GetParticipant(ctx context.Context, roomCode, id string) (Participant, error)
	ListParticipants(ctx context.Context, roomCode string) ([]Participant, error)
	SetBusySlots(ctx context.Context, roomCode, id string, busySlots []string) error
}

// ParticipantNotifier receives the full participant snapshot of a room after
// every membership or busy-slot change. Implementations must not block.
type ParticipantNotifier interface {
	ParticipantsChanged(ctx context.Context, roomCode string, participants []Participant)
}

// RoomService orchestrates validation, persistence, and change notification
// for rooms and their participants.
type RoomService struct {
	rooms         RoomRepository
	participants  ParticipantRepository
	notifier      ParticipantNotifier
	codeGenerator func() string
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewRoomService constructs a room service with the provided dependencies.
func NewRoomService(rooms RoomRepository, participants ParticipantRepository, codeGenerator, idGenerator func() string, now func() time.Time) *RoomService {
	return NewRoomServiceWithLogger(rooms, participants, codeGenerator, idGenerator, now, nil)
}

// NewRoomServiceWithLogger constructs a room service with a specified logger.
func NewRoomServiceWithLogger(rooms RoomRepository, participants ParticipantRepository, codeGenerator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if codeGenerator == nil {
		codeGenerator = func() string { return "" }
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:         rooms,
		participants:  participants,
		codeGenerator: codeGenerator,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// SetNotifier attaches a participant change notifier. Passing nil disables
// notifications.
func (s *RoomService) SetNotifier(notifier ParticipantNotifier) {
	if s == nil {
		return
	}
	s.notifier = notifier
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates the configuration and persists a new room under a
// freshly generated share code.
func (s *RoomService) CreateRoom(ctx context.Context, params CreateRoomParams) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateRoom")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("room_code", room.Code).InfoContext(ctx, "room created")
	}()

	vErr := validateRoomInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	creator := strings.TrimSpace(params.Input.CreatorName)
	if creator == "" {
		creator = anonymousName
	}

	for attempt := 0; attempt < roomCodeAttempts; attempt++ {
		candidate := Room{
			Code:        strings.ToUpper(strings.TrimSpace(s.codeGenerator())),
			Name:        strings.TrimSpace(params.Input.Name),
			CreatorName: creator,
			StartTime:   strings.TrimSpace(params.Input.StartTime),
			EndTime:     strings.TrimSpace(params.Input.EndTime),
			Days:        append([]string(nil), params.Input.Days...),
			SlotMinutes: params.Input.SlotMinutes,
			CreatedAt:   s.now(),
		}

		var persisted Room
		persisted, err = s.rooms.CreateRoom(ctx, candidate)
		if err == nil {
			room = persisted
			return
		}
		if !errors.Is(mapRepoError(err), ErrAlreadyExists) {
			err = mapRepoError(err)
			return
		}
		logger.WarnContext(ctx, "room code collision, regenerating", "room_code", candidate.Code)
	}

	err = fmt.Errorf("could not allocate a unique room code after %d attempts: %w", roomCodeAttempts, ErrAlreadyExists)
	return
}

// GetRoom retrieves a room by share code. Codes compare case-insensitively;
// lookups are normalized to uppercase.
func (s *RoomService) GetRoom(ctx context.Context, code string) (room Room, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.rooms == nil {
		err = fmt.Errorf("room repository not configured")
		return
	}

	normalized := NormalizeRoomCode(code)
	if normalized == "" {
		err = ErrNotFound
		return
	}

	room, err = s.rooms.GetRoom(ctx, normalized)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "GetRoom", "room_code", normalized).
			ErrorContext(ctx, "failed to get room", "error", err, "error_kind", ErrorKind(err))
		return
	}
	return
}

// JoinRoom registers a new participant in an existing room and notifies
// watchers with the refreshed snapshot. A blank display name falls back to
// the anonymous placeholder, mirroring the room UI.
func (s *RoomService) JoinRoom(ctx context.Context, params JoinRoomParams) (participant Participant, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.participants == nil {
		err = fmt.Errorf("participant repository not configured")
		return
	}

	code := NormalizeRoomCode(params.RoomCode)
	logger := s.loggerWith(ctx, "JoinRoom", "room_code", code)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to join room", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("participant_id", participant.ID).InfoContext(ctx, "participant joined")
	}()

	if _, err = s.GetRoom(ctx, code); err != nil {
		return
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		name = anonymousName
	}

	now := s.now()
	candidate := Participant{
		ID:        s.idGenerator(),
		RoomCode:  code,
		Name:      name,
		Timezone:  strings.TrimSpace(params.Timezone),
		BusySlots: []string{},
		JoinedAt:  now,
		UpdatedAt: now,
	}

	participant, err = s.participants.CreateParticipant(ctx, candidate)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	s.notifyParticipantsChanged(ctx, code)
	return
}

// ListParticipants returns the members of a room in join order.
func (s *RoomService) ListParticipants(ctx context.Context, code string) (participants []Participant, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.participants == nil {
		return nil, nil
	}

	normalized := NormalizeRoomCode(code)
	if _, err = s.GetRoom(ctx, normalized); err != nil {
		return
	}

	participants, err = s.participants.ListParticipants(ctx, normalized)
	if err != nil {
		err = mapRepoError(err)
		s.loggerWith(ctx, "ListParticipants", "room_code", normalized).
			ErrorContext(ctx, "failed to list participants", "error", err, "error_kind", ErrorKind(err))
		return
	}
	return
}

// SetBusySlots replaces a participant's busy-slot set wholesale and notifies
// watchers. Identifiers are stored as opaque strings: entries that do not
// match the room's generated slots refer to no cell, deliberately, rather
// than being rejected.
func (s *RoomService) SetBusySlots(ctx context.Context, params SetBusySlotsParams) (participant Participant, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}
	if s.participants == nil {
		err = fmt.Errorf("participant repository not configured")
		return
	}

	code := NormalizeRoomCode(params.RoomCode)
	logger := s.loggerWith(ctx, "SetBusySlots", "room_code", code, "participant_id", params.ParticipantID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to set busy slots", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("busy_count", len(participant.BusySlots)).InfoContext(ctx, "busy slots updated")
	}()

	if err = s.participants.SetBusySlots(ctx, code, params.ParticipantID, params.BusySlots); err != nil {
		err = mapRepoError(err)
		return
	}

	participant, err = s.participants.GetParticipant(ctx, code, params.ParticipantID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	s.notifyParticipantsChanged(ctx, code)
	return
}

// Results loads a room and its participant snapshot and aggregates them into
// the results table for the requested filter. The table is recomputed from
// the complete snapshot on every call.
func (s *RoomService) Results(ctx context.Context, code string, filter grid.Filter) (room Room, table grid.Table, err error) {
	if s == nil {
		err = fmt.Errorf("RoomService is nil")
		return
	}

	room, err = s.GetRoom(ctx, code)
	if err != nil {
		return
	}

	var participants []Participant
	participants, err = s.ListParticipants(ctx, room.Code)
	if err != nil {
		return
	}

	table = grid.BuildTable(room.StartTime, room.EndTime, room.SlotMinutes, room.Days, toGridParticipants(participants), filter)
	return
}

func (s *RoomService) notifyParticipantsChanged(ctx context.Context, code string) {
	if s.notifier == nil {
		return
	}
	participants, err := s.participants.ListParticipants(ctx, code)
	if err != nil {
		s.loggerWith(ctx, "notifyParticipantsChanged", "room_code", code).
			ErrorContext(ctx, "failed to load snapshot for notification", "error", err)
		return
	}
	s.notifier.ParticipantsChanged(ctx, code, participants)
}

// NormalizeRoomCode uppercases and trims a share code for case-insensitive
// comparison.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func toGridParticipants(participants []Participant) []grid.Participant {
	if len(participants) == 0 {
		return nil
	}
	out := make([]grid.Participant, 0, len(participants))
	for _, p := range participants {
		out = append(out, grid.Participant{
			ID:        p.ID,
			Name:      p.Name,
			BusySlots: append([]string(nil), p.BusySlots...),
		})
	}
	return out
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := &ValidationError{}

	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}

	start, startOK := grid.ParseClock(strings.TrimSpace(input.StartTime))
	if !startOK {
		vErr.add("start_time", "start time must be a valid HH:MM label")
	}
	end, endOK := grid.ParseClock(strings.TrimSpace(input.EndTime))
	if !endOK {
		vErr.add("end_time", "end time must be a valid HH:MM label")
	}
	if startOK && endOK && start >= end {
		vErr.add("end_time", "end time must be after start time")
	}

	if len(input.Days) == 0 {
		vErr.add("days", "at least one day is required")
	} else {
		seen := make(map[string]struct{}, len(input.Days))
		for _, day := range input.Days {
			if !isKnownDay(day) {
				vErr.add("days", fmt.Sprintf("unknown day label: %s", day))
				break
			}
			if _, dup := seen[day]; dup {
				vErr.add("days", fmt.Sprintf("duplicate day label: %s", day))
				break
			}
			seen[day] = struct{}{}
		}
	}

	if !isAllowedDuration(input.SlotMinutes) {
		vErr.add("slot_minutes", "slot duration must be one of 15, 30, 60")
	}

	return vErr
}

func isKnownDay(day string) bool {
	for _, known := range grid.Weekdays {
		if day == known {
			return true
		}
	}
	return false
}

func isAllowedDuration(minutes int) bool {
	for _, allowed := range allowedSlotMinutes {
		if minutes == allowed {
			return true
		}
	}
	return false
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	}
	return err
}
