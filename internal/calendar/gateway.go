// Package calendar adapts the remote calendar provider behind a small
// gateway interface so the availability engine and booking coordinator
// never depend on a specific calendar protocol.
package calendar

import (
	"context"
	"time"

	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
)

// Appointment is a persisted calendar event created by a successful booking.
type Appointment struct {
	ID          string
	HTMLLink    string
	Start       time.Time
	End         time.Time
	Summary     string
	PatientName string
	Service     string
}

// EventRequest describes the event to create for a confirmed booking.
type EventRequest struct {
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
}

// Gateway lists busy periods and creates events on the clinic calendar.
//
// ListBusy returns the merged busy periods overlapping [from, to). A remote
// read failure is returned as an error after being logged and counted; the
// caller is expected to degrade to an empty busy list rather than surface
// the failure into the booking flow.
//
// CreateEvent fails without side effects when start >= end; a remote write
// failure never yields a partial Appointment.
type Gateway interface {
	ListBusy(ctx context.Context, from, to time.Time) ([]schedule.Period, error)
	CreateEvent(ctx context.Context, req EventRequest) (*Appointment, error)
}
