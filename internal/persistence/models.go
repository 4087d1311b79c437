package persistence

import "time"

// Room represents an availability-scheduling session stored by code.
// Rooms are immutable once created.
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

// Participant represents one member of a room. BusySlots holds the slot
// identifiers the participant marked as unavailable; the stored values are
// opaque strings owned entirely by that participant.
type Participant struct {
	ID        string
	RoomCode  string
	Name      string
	Timezone  string
	BusySlots []string
	JoinedAt  time.Time
	UpdatedAt time.Time
}
