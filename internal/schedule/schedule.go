// Package schedule computes bookable appointment slots from the clinic's
// weekly opening hours and the busy periods already on the calendar. It is
// pure time arithmetic with no I/O so the slot invariants can be tested
// without a calendar backend.
package schedule

import (
	"sort"
	"time"
)

// Stride is the spacing between candidate slot starts.
const Stride = 30 * time.Minute

// Period is a busy interval during which nothing can be booked. Start is
// inclusive, End exclusive, Start < End.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is a bookable interval of exactly the requested service duration.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DayHours is an [Open, Close) window in whole hours of clinic local time.
type DayHours struct {
	Open  int
	Close int
}

// Week maps each weekday to its opening hours. A missing entry means the
// cabinet is closed that day.
type Week map[time.Weekday]DayHours

// DefaultWeek is Monday through Friday, 9:00 to 17:00.
func DefaultWeek() Week {
	return Week{
		time.Monday:    {Open: 9, Close: 17},
		time.Tuesday:   {Open: 9, Close: 17},
		time.Wednesday: {Open: 9, Close: 17},
		time.Thursday:  {Open: 9, Close: 17},
		time.Friday:    {Open: 9, Close: 17},
	}
}

// WeekWithHours returns a Monday-Friday week with the given open/close hours.
func WeekWithHours(open, close int) Week {
	w := Week{}
	for d := time.Monday; d <= time.Friday; d++ {
		w[d] = DayHours{Open: open, Close: close}
	}
	return w
}

// Window returns the open window for the given day in loc, or ok=false when
// the cabinet is closed that weekday. Any time on the target day may be
// passed; only its date is used.
func (w Week) Window(day time.Time, loc *time.Location) (open, close time.Time, ok bool) {
	local := day.In(loc)
	hours, found := w[local.Weekday()]
	if !found {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := local.Date()
	open = time.Date(y, m, d, hours.Open, 0, 0, 0, loc)
	close = time.Date(y, m, d, hours.Close, 0, 0, 0, loc)
	return open, close, true
}

// MergeBusy sorts the given periods by start and collapses every overlap,
// joining a period into the previous one whenever its start is at or before
// the accumulated end and keeping the later end. The result is minimal,
// sorted and non-overlapping. Merging an already-merged set is a no-op.
func MergeBusy(periods []Period) []Period {
	if len(periods) == 0 {
		return nil
	}

	sorted := make([]Period, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Period{sorted[0]}
	for _, p := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !p.Start.After(last.End) {
			if p.End.After(last.End) {
				last.End = p.End
			}
			continue
		}
		merged = append(merged, p)
	}
	return merged
}

// Overlaps reports whether the slot intersects the period under half-open
// interval semantics: touching endpoints do not overlap.
func Overlaps(s Slot, p Period) bool {
	return s.Start.Before(p.End) && s.End.After(p.Start)
}

// GenerateSlots returns every bookable slot of the given duration on the
// given day, stepping candidates at the fixed stride from opening time and
// keeping only those disjoint from all merged busy periods. A closed weekday
// yields no slots. Output is in ascending start order.
func GenerateSlots(day time.Time, duration time.Duration, busy []Period, week Week, loc *time.Location) []Slot {
	open, close, ok := week.Window(day, loc)
	if !ok || duration <= 0 {
		return nil
	}

	merged := MergeBusy(busy)

	var slots []Slot
	for start := open; !start.Add(duration).After(close); start = start.Add(Stride) {
		candidate := Slot{Start: start, End: start.Add(duration)}
		available := true
		for _, p := range merged {
			if Overlaps(candidate, p) {
				available = false
				break
			}
		}
		if available {
			slots = append(slots, candidate)
		}
	}
	return slots
}
