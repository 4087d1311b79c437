package grid

// Cell is one (day, time) entry of an aggregated results table.
type Cell struct {
	SlotID       string
	Day          string
	Time         string
	BusyCount    int
	BusyNames    []string
	Availability Availability
}

// Row groups the cells of a single time label across the room's days.
type Row struct {
	Time  string
	Cells []Cell
}

// Table is the fully aggregated results view for one participant snapshot.
// Times carries the filtered time labels in generation order; Rows mirrors
// it cell by cell.
type Table struct {
	Days         []string
	Times        []string
	Rows         []Row
	Earliest     string
	HasEarliest  bool
	Participants int
}

// BuildTable assembles the results view for a room window, day list, and
// participant snapshot under the requested filter. It is recomputed wholesale
// on every snapshot; nothing is cached between calls.
func BuildTable(startTime, endTime string, slotMinutes int, days []string, participants []Participant, filter Filter) Table {
	timeSlots := TimeSlots(startTime, endTime, slotMinutes)
	ix := NewIndex(participants)
	earliest, hasEarliest := EarliestAvailable(timeSlots, days, ix)
	filtered := ApplyFilter(timeSlots, filter, earliest, hasEarliest)

	table := Table{
		Days:         append([]string(nil), days...),
		Times:        append([]string(nil), filtered...),
		Rows:         make([]Row, 0, len(filtered)),
		Earliest:     earliest,
		HasEarliest:  hasEarliest,
		Participants: ix.Total(),
	}

	for _, timeLabel := range filtered {
		row := Row{Time: timeLabel, Cells: make([]Cell, 0, len(days))}
		for _, day := range days {
			count := ix.Count(day, timeLabel)
			row.Cells = append(row.Cells, Cell{
				SlotID:       SlotID(day, timeLabel),
				Day:          day,
				Time:         timeLabel,
				BusyCount:    count,
				BusyNames:    append([]string(nil), ix.Names(day, timeLabel)...),
				Availability: AvailabilityOf(count, ix.Total()),
			})
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}
