package application

import "time"

// RoomInput captures caller provided room configuration fields.
type RoomInput struct {
	Name        string
	CreatorName string
	StartTime   string
	EndTime     string
	Days        []string
	SlotMinutes int
}

// Room represents a persisted scheduling room. Rooms are immutable after
// creation; only their participant set changes.
type Room struct {
	Code        string
	Name        string
	CreatorName string
	StartTime   string
	EndTime     string
	Days        []string
	SlotMinutes int
	CreatedAt   time.Time
}

// Participant represents one member of a room together with their busy-slot
// set. BusySlots entries are opaque identifiers; values that do not match a
// generated slot simply never render.
type Participant struct {
	ID        string
	RoomCode  string
	Name      string
	Timezone  string
	BusySlots []string
	JoinedAt  time.Time
	UpdatedAt time.Time
}

// CreateRoomParams wraps the data required to create a room.
type CreateRoomParams struct {
	Input RoomInput
}

// JoinRoomParams wraps the data required to register a participant.
type JoinRoomParams struct {
	RoomCode string
	Name     string
	Timezone string
}

// SetBusySlotsParams wraps a wholesale replacement of one participant's
// busy-slot set.
type SetBusySlotsParams struct {
	RoomCode      string
	ParticipantID string
	BusySlots     []string
}
