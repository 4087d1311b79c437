package grid

import (
	"reflect"
	"testing"
)

func participantFixture() []Participant {
	return []Participant{
		{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00", "Mo-09:30"}},
		{ID: "p2", Name: "Ben", BusySlots: []string{"Mo-09:00", "Tu-09:00"}},
		{ID: "p3", Name: "Ada", BusySlots: []string{"Mo-09:00"}},
	}
}

func TestIndexCount(t *testing.T) {
	ix := NewIndex(participantFixture())

	cases := []struct {
		day, timeLabel string
		want           int
	}{
		{"Mo", "09:00", 3},
		{"Mo", "09:30", 1},
		{"Tu", "09:00", 1},
		{"Tu", "09:30", 0},
		{"We", "09:00", 0},
	}
	for _, tc := range cases {
		if got := ix.Count(tc.day, tc.timeLabel); got != tc.want {
			t.Errorf("Count(%s, %s) = %d, want %d", tc.day, tc.timeLabel, got, tc.want)
		}
	}
}

func TestIndexNamesKeepOrderAndDuplicates(t *testing.T) {
	ix := NewIndex(participantFixture())

	got := ix.Names("Mo", "09:00")
	want := []string{"Ada", "Ben", "Ada"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Names(Mo, 09:00) = %v, want %v", got, want)
	}
}

func TestIndexIgnoresRepeatedBusyEntries(t *testing.T) {
	ix := NewIndex([]Participant{
		{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00", "Mo-09:00", "Mo-09:00"}},
	})
	if got := ix.Count("Mo", "09:00"); got != 1 {
		t.Fatalf("repeated entries counted %d times, want 1", got)
	}
}

func TestIndexUnknownIdentifiersMatchNothing(t *testing.T) {
	ix := NewIndex([]Participant{
		{ID: "p1", Name: "Ada", BusySlots: []string{"Monday-9am", "Mo_09:00", "", "Mo-9:00"}},
	})
	times := TimeSlots("09:00", "10:00", 30)
	for _, timeLabel := range times {
		for _, day := range Weekdays {
			if got := ix.Count(day, timeLabel); got != 0 {
				t.Fatalf("malformed identifiers matched %s %s (count %d)", day, timeLabel, got)
			}
		}
	}
}

func TestIndexMonotonicUnderAddedParticipants(t *testing.T) {
	times := TimeSlots("09:00", "11:00", 30)
	days := []string{"Mo", "Tu"}

	participants := participantFixture()
	for cut := 0; cut < len(participants); cut++ {
		before := NewIndex(participants[:cut])
		after := NewIndex(participants[:cut+1])
		for _, timeLabel := range times {
			for _, day := range days {
				if after.Count(day, timeLabel) < before.Count(day, timeLabel) {
					t.Fatalf("adding participant %d lowered count at %s %s", cut, day, timeLabel)
				}
			}
		}
	}
}

func TestEarliestAvailable(t *testing.T) {
	times := TimeSlots("09:00", "10:00", 30)
	days := []string{"Mo", "Tu"}

	t.Run("free day at the first time wins", func(t *testing.T) {
		ix := NewIndex([]Participant{
			{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00"}},
		})
		got, ok := EarliestAvailable(times, days, ix)
		if !ok || got != "09:00" {
			t.Fatalf("EarliestAvailable = %q, %v; want 09:00, true", got, ok)
		}
	})

	t.Run("skips fully busy times", func(t *testing.T) {
		ix := NewIndex([]Participant{
			{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00", "Tu-09:00"}},
		})
		got, ok := EarliestAvailable(times, days, ix)
		if !ok || got != "09:30" {
			t.Fatalf("EarliestAvailable = %q, %v; want 09:30, true", got, ok)
		}
	})

	t.Run("no participants returns the first slot", func(t *testing.T) {
		got, ok := EarliestAvailable(times, days, NewIndex(nil))
		if !ok || got != "09:00" {
			t.Fatalf("EarliestAvailable = %q, %v; want 09:00, true", got, ok)
		}
	})

	t.Run("nothing free across the whole grid", func(t *testing.T) {
		busyEverywhere := make([]string, 0, len(times)*len(days))
		for _, timeLabel := range times {
			for _, day := range days {
				busyEverywhere = append(busyEverywhere, SlotID(day, timeLabel))
			}
		}
		ix := NewIndex([]Participant{{ID: "p1", Name: "Ada", BusySlots: busyEverywhere}})
		if got, ok := EarliestAvailable(times, days, ix); ok {
			t.Fatalf("expected no available slot, got %q", got)
		}
	})

	t.Run("idempotent on an unchanged snapshot", func(t *testing.T) {
		ix := NewIndex(participantFixture())
		first, firstOK := EarliestAvailable(times, days, ix)
		second, secondOK := EarliestAvailable(times, days, ix)
		if first != second || firstOK != secondOK {
			t.Fatalf("recomputation diverged: %q/%v vs %q/%v", first, firstOK, second, secondOK)
		}
	})

	t.Run("every earlier time is busy on every day", func(t *testing.T) {
		ix := NewIndex([]Participant{
			{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00", "Tu-09:00"}},
		})
		earliest, ok := EarliestAvailable(times, days, ix)
		if !ok {
			t.Fatal("expected an available slot")
		}
		for _, timeLabel := range times {
			if timeLabel == earliest {
				break
			}
			for _, day := range days {
				if ix.Count(day, timeLabel) == 0 {
					t.Fatalf("slot %s %s precedes %q yet has no busy participants", day, timeLabel, earliest)
				}
			}
		}
	})
}

func TestApplyFilter(t *testing.T) {
	times := []string{"05:30", "06:00", "11:30", "12:00", "16:30", "17:00", "17:30", "23:30"}

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"everything passes through", FilterEverything, times},
		{"mornings", FilterMornings, []string{"06:00", "11:30"}},
		{"afternoons", FilterAfternoons, []string{"12:00", "16:30"}},
		{"evenings", FilterEvenings, []string{"17:00", "17:30", "23:30"}},
		{"unknown filters pass through", Filter("weekends"), times},
		{"empty filter passes through", Filter(""), times},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ApplyFilter(times, tc.filter, "", false)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ApplyFilter(%q) = %v, want %v", tc.filter, got, tc.want)
			}
		})
	}

	t.Run("evenings boundary scenario", func(t *testing.T) {
		got := ApplyFilter([]string{"16:30", "17:00", "17:30"}, FilterEvenings, "", false)
		want := []string{"17:00", "17:30"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("ApplyFilter(evenings) = %v, want %v", got, want)
		}
	})

	t.Run("earliest yields a single slot", func(t *testing.T) {
		got := ApplyFilter(times, FilterEarliest, "12:00", true)
		if !reflect.DeepEqual(got, []string{"12:00"}) {
			t.Fatalf("ApplyFilter(earliest) = %v, want [12:00]", got)
		}
	})

	t.Run("earliest with nothing available is empty", func(t *testing.T) {
		got := ApplyFilter(times, FilterEarliest, "", false)
		if len(got) != 0 {
			t.Fatalf("ApplyFilter(earliest) = %v, want empty", got)
		}
	})

	t.Run("outputs are subsets of the input", func(t *testing.T) {
		members := make(map[string]struct{}, len(times))
		for _, timeLabel := range times {
			members[timeLabel] = struct{}{}
		}
		for _, filter := range []Filter{FilterEverything, FilterMornings, FilterAfternoons, FilterEvenings, Filter("bogus")} {
			for _, timeLabel := range ApplyFilter(times, filter, "", false) {
				if _, ok := members[timeLabel]; !ok {
					t.Fatalf("filter %q emitted %q, absent from the input", filter, timeLabel)
				}
			}
		}
	})
}

func TestAvailabilityOf(t *testing.T) {
	cases := []struct {
		busy, total int
		want        Availability
	}{
		{0, 0, Available},
		{0, 5, Available},
		{5, 5, Busy},
		{1, 1, Busy},
		{2, 5, Partial},
		{1, 0, Partial},
	}
	for _, tc := range cases {
		if got := AvailabilityOf(tc.busy, tc.total); got != tc.want {
			t.Errorf("AvailabilityOf(%d, %d) = %q, want %q", tc.busy, tc.total, got, tc.want)
		}
	}
}
