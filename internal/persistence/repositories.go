package persistence

import "context"

// RoomRepository stores room configurations keyed by their share code.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, code string) (Room, error)
}

// ParticipantRepository stores room members and their busy-slot sets.
// SetBusySlots replaces the stored set wholesale; concurrent writes to the
// same participant resolve last-write-wins.
type ParticipantRepository interface {
	CreateParticipant(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, roomCode, id string) (Participant, error)
	ListParticipants(ctx context.Context, roomCode string) ([]Participant, error)
	SetBusySlots(ctx context.Context, roomCode, id string, busySlots []string) error
}
