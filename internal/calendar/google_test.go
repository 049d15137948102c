package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

var paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

func TestPeriodFromEventTimed(t *testing.T) {
	ev := &gcal.Event{
		Start: &gcal.EventDateTime{DateTime: "2024-07-15T10:00:00+02:00"},
		End:   &gcal.EventDateTime{DateTime: "2024-07-15T11:00:00+02:00"},
	}

	p, err := periodFromEvent(ev, paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 7, 15, 10, 0, 0, 0, paris)
	if !p.Start.Equal(want) {
		t.Errorf("start = %v, want %v", p.Start, want)
	}
	if p.End.Sub(p.Start) != time.Hour {
		t.Errorf("duration = %v, want 1h", p.End.Sub(p.Start))
	}
}

func TestPeriodFromEventConvertsToClinicZone(t *testing.T) {
	// 08:00 UTC is 10:00 in Paris during summer.
	ev := &gcal.Event{
		Start: &gcal.EventDateTime{DateTime: "2024-07-15T08:00:00Z"},
		End:   &gcal.EventDateTime{DateTime: "2024-07-15T09:00:00Z"},
	}

	p, err := periodFromEvent(ev, paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Start.Hour() != 10 {
		t.Errorf("start hour in clinic zone = %d, want 10", p.Start.Hour())
	}
}

func TestPeriodFromEventAllDay(t *testing.T) {
	ev := &gcal.Event{
		Start: &gcal.EventDateTime{Date: "2024-07-15"},
		End:   &gcal.EventDateTime{Date: "2024-07-16"},
	}

	p, err := periodFromEvent(ev, paris)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Start.Hour() != 0 || p.Start.Day() != 15 {
		t.Errorf("start = %v, want midnight on the 15th", p.Start)
	}
	// The busy block must cover the entire business day of the 15th.
	businessEnd := time.Date(2024, 7, 15, 17, 0, 0, 0, paris)
	if p.End.Before(businessEnd) {
		t.Errorf("end = %v, does not cover business hours of the 15th", p.End)
	}
}

func TestPeriodFromEventInvalid(t *testing.T) {
	tests := []struct {
		name string
		ev   *gcal.Event
	}{
		{"nil event", nil},
		{"missing times", &gcal.Event{}},
		{
			"garbage datetime",
			&gcal.Event{
				Start: &gcal.EventDateTime{DateTime: "yesterday"},
				End:   &gcal.EventDateTime{DateTime: "tomorrow"},
			},
		},
		{
			"garbage date",
			&gcal.Event{
				Start: &gcal.EventDateTime{Date: "15/07/2024"},
				End:   &gcal.EventDateTime{Date: "16/07/2024"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := periodFromEvent(tt.ev, paris); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBusyFromEventsSkipsBadEvents(t *testing.T) {
	events := []*gcal.Event{
		{
			Start: &gcal.EventDateTime{DateTime: "2024-07-15T10:00:00+02:00"},
			End:   &gcal.EventDateTime{DateTime: "2024-07-15T11:00:00+02:00"},
		},
		{Id: "broken"},
		{
			Start: &gcal.EventDateTime{DateTime: "2024-07-15T14:00:00+02:00"},
			End:   &gcal.EventDateTime{DateTime: "2024-07-15T15:00:00+02:00"},
		},
	}

	periods := busyFromEvents(events, paris, logging.Default())
	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2 (bad event skipped)", len(periods))
	}
}

// CreateEvent must reject an empty or inverted interval before touching the
// remote API, so a zero-value gateway is enough to exercise it.
func TestCreateEventRejectsInvalidInterval(t *testing.T) {
	g := &GoogleGateway{loc: paris, logger: logging.Default()}
	now := time.Now()

	for _, req := range []EventRequest{
		{Start: now, End: now},
		{Start: now.Add(time.Hour), End: now},
	} {
		if _, err := g.CreateEvent(context.Background(), req); !errors.Is(err, ErrInvalidInterval) {
			t.Errorf("CreateEvent(%v, %v) error = %v, want ErrInvalidInterval", req.Start, req.End, err)
		}
	}
}
