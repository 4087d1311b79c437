package grid

// Participant is the snapshot view of one room member that aggregation
// consumes. BusySlots holds opaque slot identifiers; entries that do not
// match a generated slot refer to no cell and are simply never rendered.
type Participant struct {
	ID        string
	Name      string
	BusySlots []string
}

// Filter names a results view restricting which time rows are displayed.
type Filter string

const (
	FilterEverything Filter = "everything"
	FilterEarliest   Filter = "earliest"
	FilterMornings   Filter = "mornings"
	FilterAfternoons Filter = "afternoons"
	FilterEvenings   Filter = "evenings"
)

// Time-of-day bucket boundaries, in hours.
const (
	morningStart   = 6
	afternoonStart = 12
	eveningStart   = 17
	eveningEnd     = 24
)

// Availability categorizes a cell by how many participants are busy there.
type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Partial   Availability = "partial"
)

// AvailabilityOf maps a busy count to its display category. Zero busy is
// available even when the room has no participants; a fully-booked cell
// requires at least one participant.
func AvailabilityOf(busyCount, totalParticipants int) Availability {
	if busyCount == 0 {
		return Available
	}
	if busyCount == totalParticipants && totalParticipants > 0 {
		return Busy
	}
	return Partial
}

// Index is a busy-slot lookup built once per participant snapshot. Counts
// and names are keyed by slot identifier; names keep participant-list order
// and preserve duplicate display names.
type Index struct {
	counts map[string]int
	names  map[string][]string
	total  int
}

// NewIndex folds a participant snapshot into a slot index. A participant
// listing the same slot identifier more than once is counted once, matching
// set semantics for busy marks.
func NewIndex(participants []Participant) *Index {
	ix := &Index{
		counts: make(map[string]int),
		names:  make(map[string][]string),
		total:  len(participants),
	}
	for _, p := range participants {
		seen := make(map[string]struct{}, len(p.BusySlots))
		for _, slotID := range p.BusySlots {
			if _, dup := seen[slotID]; dup {
				continue
			}
			seen[slotID] = struct{}{}
			ix.counts[slotID]++
			ix.names[slotID] = append(ix.names[slotID], p.Name)
		}
	}
	return ix
}

// Count returns how many participants are busy at the given cell.
func (ix *Index) Count(day, timeLabel string) int {
	if ix == nil {
		return 0
	}
	return ix.counts[SlotID(day, timeLabel)]
}

// Names returns the display names of participants busy at the given cell,
// in participant-list order.
func (ix *Index) Names(day, timeLabel string) []string {
	if ix == nil {
		return nil
	}
	return ix.names[SlotID(day, timeLabel)]
}

// Total returns the number of participants the index was built from.
func (ix *Index) Total() int {
	if ix == nil {
		return 0
	}
	return ix.total
}

// EarliestAvailable scans time labels in generation order and, within each,
// days in the room's configured order, returning the first time label where
// some day has a busy count of zero. With no participants the first slot
// wins trivially. The boolean reports whether any such slot exists.
func EarliestAvailable(timeSlots, days []string, ix *Index) (string, bool) {
	for _, timeLabel := range timeSlots {
		for _, day := range days {
			if ix.Count(day, timeLabel) == 0 {
				return timeLabel, true
			}
		}
	}
	return "", false
}

// ApplyFilter restricts the slot sequence to the requested view. The
// earliest arguments carry a precomputed EarliestAvailable result so the
// scan is not repeated. Unrecognized filters pass the input through
// unchanged, a deliberately permissive default.
func ApplyFilter(timeSlots []string, filter Filter, earliest string, hasEarliest bool) []string {
	switch filter {
	case FilterEarliest:
		if !hasEarliest {
			return []string{}
		}
		return []string{earliest}
	case FilterMornings:
		return filterByHour(timeSlots, morningStart, afternoonStart)
	case FilterAfternoons:
		return filterByHour(timeSlots, afternoonStart, eveningStart)
	case FilterEvenings:
		return filterByHour(timeSlots, eveningStart, eveningEnd)
	default:
		return timeSlots
	}
}

func filterByHour(timeSlots []string, fromHour, toHour int) []string {
	filtered := make([]string, 0, len(timeSlots))
	for _, timeLabel := range timeSlots {
		minutes, ok := ParseClock(timeLabel)
		if !ok {
			continue
		}
		hour := minutes / 60
		if hour >= fromHour && hour < toHour {
			filtered = append(filtered, timeLabel)
		}
	}
	return filtered
}
