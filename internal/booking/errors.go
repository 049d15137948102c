package booking

import "errors"

var (
	// ErrDateParse is returned when the requested date matches none of the
	// accepted formats or is not a real calendar date.
	ErrDateParse = errors.New("unrecognized date")

	// ErrIncompleteSession is returned when a booking is attempted before
	// any availability was offered in this conversation.
	ErrIncompleteSession = errors.New("no availability offered yet")

	// ErrSlotNotFound is returned when the requested start/end match none
	// of the offered slots within tolerance.
	ErrSlotNotFound = errors.New("no offered slot matches")

	// ErrGateway is returned when the calendar write fails; the session is
	// kept so the caller can retry the same slot.
	ErrGateway = errors.New("calendar gateway failure")
)
