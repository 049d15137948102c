package booking

import (
	"time"

	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
)

// matchTolerance absorbs the rounding the voice layer introduces when it
// relays slot timestamps through the model. Strictly less than: an offset
// of exactly 60 seconds does not match.
const matchTolerance = 60 * time.Second

// Session is the per-conversation memory of the most recent availability
// offer. A new availability check replaces it entirely; it is never shared
// across conversations.
type Session struct {
	Date            time.Time       `json:"date"`
	ServiceType     string          `json:"service_type"`
	DurationMinutes int             `json:"duration_minutes"`
	Slots           []schedule.Slot `json:"slots"`
}

// Match resolves the relayed start/end instants against the offered slots:
// both bounds must independently fall within the tolerance window, and the
// first offered slot that qualifies wins. Returns nil when nothing matches.
func (s *Session) Match(startUnix, endUnix int64) *schedule.Slot {
	if s == nil {
		return nil
	}
	for i := range s.Slots {
		slot := &s.Slots[i]
		if withinTolerance(slot.Start.Unix(), startUnix) && withinTolerance(slot.End.Unix(), endUnix) {
			return slot
		}
	}
	return nil
}

func withinTolerance(a, b int64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < int64(matchTolerance/time.Second)
}
