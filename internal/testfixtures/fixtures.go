package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"
)

var (
	roomCounter        uint64
	participantCounter uint64
)

// RoomFixture is a deterministic room configuration for tests.
type RoomFixture struct {
	Code        string
	Name        string
	CreatorName string
	StartTime   string
	EndTime     string
	Days        []string
	SlotMinutes int
	CreatedAt   time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		Code:        fmt.Sprintf("ROOM%02d", idx),
		Name:        fmt.Sprintf("Room %02d", idx),
		CreatorName: "Fixture",
		StartTime:   "09:00",
		EndTime:     "17:00",
		Days:        []string{"Mo", "Tu", "We", "Th", "Fr"},
		SlotMinutes: 30,
		CreatedAt:   ReferenceTime().Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithWindow overrides the fixture's time window.
func WithWindow(start, end string) RoomOption {
	return func(f *RoomFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithDays overrides the fixture's day list.
func WithDays(days ...string) RoomOption {
	return func(f *RoomFixture) {
		f.Days = days
	}
}

// ParticipantFixture is a deterministic participant record for tests.
type ParticipantFixture struct {
	ID        string
	RoomCode  string
	Name      string
	Timezone  string
	BusySlots []string
	JoinedAt  time.Time
}

// NewParticipantFixture returns a deterministic participant bound to the
// given room code.
func NewParticipantFixture(roomCode string, busySlots ...string) ParticipantFixture {
	idx := atomic.AddUint64(&participantCounter, 1)
	return ParticipantFixture{
		ID:        fmt.Sprintf("participant-%03d", idx),
		RoomCode:  roomCode,
		Name:      fmt.Sprintf("Participant %03d", idx),
		Timezone:  "UTC",
		BusySlots: busySlots,
		JoinedAt:  ReferenceTime().Add(time.Duration(idx) * time.Second),
	}
}
