package scheduler

import (
	"sort"
	"strings"
	"time"
)

// Weekday indices used by coordinates.
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayLabels = map[string]int{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tues": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thur": Thursday, "thurs": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
}

var dayNames = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// DayIndex resolves a weekday label to its index. Weekend and unknown labels
// report false.
func DayIndex(label string) (int, bool) {
	day, ok := dayLabels[strings.ToLower(strings.TrimSpace(label))]
	return day, ok
}

// DayName returns the short label for a day index.
func DayName(day int) string {
	if day < 0 || day >= len(dayNames) {
		return ""
	}
	return dayNames[day]
}

// TimeslotRecord is a raw persisted timeslot.
type TimeslotRecord struct {
	ID        int64
	DayOfWeek string
	StartTime string
}

// TimeslotIndex is a bijection between raw timeslot ids and coordinates.
type TimeslotIndex struct {
	byID    map[int64]Coordinate
	byCoord map[Coordinate]int64
	coords  []Coordinate
}

// NewTimeslotIndex assigns coordinates to records.
//
// Records must already be sorted by day order and then start time: the k-th
// record of a day becomes slot k. Unsorted input yields wrong slot numbers and
// cannot be detected here. Records for days outside Mon-Fri are skipped and do
// not consume a slot. A repeated id keeps its first coordinate.
func NewTimeslotIndex(records []TimeslotRecord) *TimeslotIndex {
	idx := &TimeslotIndex{
		byID:    make(map[int64]Coordinate, len(records)),
		byCoord: make(map[Coordinate]int64, len(records)),
		coords:  make([]Coordinate, 0, len(records)),
	}
	next := make(map[int]int, len(dayNames))
	for _, rec := range records {
		day, ok := DayIndex(rec.DayOfWeek)
		if !ok {
			continue
		}
		if _, dup := idx.byID[rec.ID]; dup {
			continue
		}
		coord := Coordinate{Day: day, Slot: next[day]}
		next[day]++
		idx.byID[rec.ID] = coord
		idx.byCoord[coord] = rec.ID
		idx.coords = append(idx.coords, coord)
	}
	return idx
}

// Coordinate maps a raw id to its coordinate.
func (x *TimeslotIndex) Coordinate(id int64) (Coordinate, bool) {
	c, ok := x.byID[id]
	return c, ok
}

// ID maps a coordinate back to the raw id.
func (x *TimeslotIndex) ID(c Coordinate) (int64, bool) {
	id, ok := x.byCoord[c]
	return id, ok
}

// Coordinates returns every coordinate in index order.
func (x *TimeslotIndex) Coordinates() []Coordinate {
	out := make([]Coordinate, len(x.coords))
	copy(out, x.coords)
	return out
}

// Len reports the number of indexed timeslots.
func (x *TimeslotIndex) Len() int {
	return len(x.coords)
}

// SortTimeslotRecords orders records by weekday and then start time, which is
// the precondition of NewTimeslotIndex. Unknown days sort last.
func SortTimeslotRecords(records []TimeslotRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		di, oki := DayIndex(records[i].DayOfWeek)
		dj, okj := DayIndex(records[j].DayOfWeek)
		if !oki {
			di = len(dayNames)
		}
		if !okj {
			dj = len(dayNames)
		}
		if di != dj {
			return di < dj
		}
		return clockMinutes(records[i].StartTime) < clockMinutes(records[j].StartTime)
	})
}

func clockMinutes(raw string) int {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", "15:04", "3:04PM", "3:04 PM"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Hour()*60 + t.Minute()
		}
	}
	return 24 * 60
}
