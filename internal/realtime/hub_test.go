package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/example/syncmeet/internal/application"
)

func snapshotFor(code string, names ...string) Snapshot {
	participants := make([]application.Participant, 0, len(names))
	for i, name := range names {
		participants = append(participants, application.Participant{
			ID:       name,
			RoomCode: code,
			Name:     name,
			JoinedAt: time.Unix(int64(i), 0),
		})
	}
	return Snapshot{RoomCode: code, Participants: participants}
}

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestHubDeliversToRoomWatchers(t *testing.T) {
	hub := NewHub(nil)

	first, cancelFirst := hub.Subscribe("AB12CD")
	defer cancelFirst()
	second, cancelSecond := hub.Subscribe("AB12CD")
	defer cancelSecond()
	other, cancelOther := hub.Subscribe("ZZ99XX")
	defer cancelOther()

	hub.Broadcast(snapshotFor("AB12CD", "Ada", "Ben"))

	for _, ch := range []<-chan Snapshot{first, second} {
		snapshot := receive(t, ch)
		if snapshot.RoomCode != "AB12CD" || len(snapshot.Participants) != 2 {
			t.Fatalf("unexpected snapshot: %+v", snapshot)
		}
	}

	select {
	case snapshot := <-other:
		t.Fatalf("watcher of another room received %+v", snapshot)
	default:
	}
}

func TestHubCancelStopsDelivery(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe("AB12CD")
	if hub.Watchers("AB12CD") != 1 {
		t.Fatalf("Watchers = %d, want 1", hub.Watchers("AB12CD"))
	}

	cancel()
	cancel() // idempotent

	if hub.Watchers("AB12CD") != 0 {
		t.Fatalf("Watchers = %d, want 0 after cancel", hub.Watchers("AB12CD"))
	}
	if _, open := <-ch; open {
		t.Fatal("channel should be closed after cancel")
	}

	// Broadcasting after the last watcher left must not panic.
	hub.Broadcast(snapshotFor("AB12CD", "Ada"))
}

func TestHubDropsSlowWatchers(t *testing.T) {
	hub := NewHub(nil)

	ch, cancel := hub.Subscribe("AB12CD")
	defer cancel()

	// Overfill the buffer; the excess is dropped, not blocked on.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Broadcast(snapshotFor("AB12CD", "Ada"))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow watcher")
	}

	delivered := 0
	for {
		select {
		case <-ch:
			delivered++
			continue
		default:
		}
		break
	}
	if delivered != subscriberBuffer {
		t.Fatalf("delivered %d snapshots, want buffer size %d", delivered, subscriberBuffer)
	}
}

func TestHubImplementsNotifier(t *testing.T) {
	hub := NewHub(nil)
	var notifier application.ParticipantNotifier = hub

	ch, cancel := hub.Subscribe("AB12CD")
	defer cancel()

	notifier.ParticipantsChanged(context.Background(), "AB12CD", snapshotFor("AB12CD", "Ada").Participants)

	snapshot := receive(t, ch)
	if len(snapshot.Participants) != 1 || snapshot.Participants[0].Name != "Ada" {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}
