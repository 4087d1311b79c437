package grid

import (
	"reflect"
	"testing"
)

func TestBuildTable(t *testing.T) {
	days := []string{"Mo", "Tu"}
	participants := []Participant{
		{ID: "p1", Name: "Ada", BusySlots: []string{"Mo-09:00"}},
	}

	table := BuildTable("09:00", "10:00", 30, days, participants, FilterEverything)

	if !reflect.DeepEqual(table.Days, days) {
		t.Fatalf("Days = %v, want %v", table.Days, days)
	}
	if !reflect.DeepEqual(table.Times, []string{"09:00", "09:30"}) {
		t.Fatalf("Times = %v, want [09:00 09:30]", table.Times)
	}
	if table.Participants != 1 {
		t.Fatalf("Participants = %d, want 1", table.Participants)
	}
	if !table.HasEarliest || table.Earliest != "09:00" {
		t.Fatalf("Earliest = %q/%v, want 09:00/true", table.Earliest, table.HasEarliest)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	if first.Time != "09:00" || len(first.Cells) != 2 {
		t.Fatalf("unexpected first row: %+v", first)
	}
	mo := first.Cells[0]
	if mo.SlotID != "Mo-09:00" || mo.BusyCount != 1 || mo.Availability != Busy {
		t.Fatalf("unexpected Mo 09:00 cell: %+v", mo)
	}
	if !reflect.DeepEqual(mo.BusyNames, []string{"Ada"}) {
		t.Fatalf("BusyNames = %v, want [Ada]", mo.BusyNames)
	}
	tu := first.Cells[1]
	if tu.BusyCount != 0 || tu.Availability != Available || len(tu.BusyNames) != 0 {
		t.Fatalf("unexpected Tu 09:00 cell: %+v", tu)
	}
}

func TestBuildTableNoParticipants(t *testing.T) {
	table := BuildTable("09:00", "10:00", 30, []string{"Mo"}, nil, FilterEverything)

	if table.Participants != 0 {
		t.Fatalf("Participants = %d, want 0", table.Participants)
	}
	if !table.HasEarliest || table.Earliest != "09:00" {
		t.Fatalf("Earliest = %q/%v, want first slot", table.Earliest, table.HasEarliest)
	}
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			if cell.BusyCount != 0 || cell.Availability != Available {
				t.Fatalf("empty room produced non-available cell: %+v", cell)
			}
		}
	}
}

func TestBuildTableWithFilter(t *testing.T) {
	table := BuildTable("16:30", "18:00", 30, []string{"Mo"}, nil, FilterEvenings)
	if !reflect.DeepEqual(table.Times, []string{"17:00", "17:30"}) {
		t.Fatalf("Times = %v, want [17:00 17:30]", table.Times)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected rows to mirror filtered times, got %d", len(table.Rows))
	}
}

func TestBuildTableMalformedWindow(t *testing.T) {
	table := BuildTable("17:00", "09:00", 30, []string{"Mo"}, nil, FilterEverything)
	if len(table.Times) != 0 || len(table.Rows) != 0 {
		t.Fatalf("inverted window should produce an empty table, got %+v", table)
	}
	if table.HasEarliest {
		t.Fatal("empty table cannot have an earliest slot")
	}
}

func TestBuildTableZeroDays(t *testing.T) {
	table := BuildTable("09:00", "10:00", 30, nil, nil, FilterEverything)
	if table.HasEarliest {
		t.Fatal("no days means no earliest slot")
	}
	for _, row := range table.Rows {
		if len(row.Cells) != 0 {
			t.Fatalf("row %q has cells without days", row.Time)
		}
	}
}
