package booking

import (
	"context"
	"time"

	"github.com/clinique-avenir/voice-receptionist/internal/calendar"
	"github.com/clinique-avenir/voice-receptionist/internal/catalog"
	"github.com/clinique-avenir/voice-receptionist/internal/observability/metrics"
	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

// PatientInfo carries the caller's identity for the calendar event.
type PatientInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Coordinator turns availability questions and booking requests into
// gateway calls, keeping the per-conversation session in between. Every
// method returns a sentence ready to be spoken to the caller; the error
// classifies the failure for logs and metrics and never carries anything
// the caller should hear.
type Coordinator struct {
	gateway  calendar.Gateway
	sessions *SessionStore
	audit    *AppointmentLog
	week     schedule.Week
	loc      *time.Location
	logger   *logging.Logger
	metrics  *metrics.BookingMetrics
}

// CoordinatorConfig configures NewCoordinator. Gateway and Sessions are
// required; Audit is optional.
type CoordinatorConfig struct {
	Gateway  calendar.Gateway
	Sessions *SessionStore
	Audit    *AppointmentLog
	Week     schedule.Week
	Location *time.Location
	Logger   *logging.Logger
	Metrics  *metrics.BookingMetrics
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	if cfg.Gateway == nil {
		panic("booking: gateway cannot be nil")
	}
	if cfg.Sessions == nil {
		panic("booking: session store cannot be nil")
	}
	week := cfg.Week
	if week == nil {
		week = schedule.DefaultWeek()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Coordinator{
		gateway:  cfg.Gateway,
		sessions: cfg.Sessions,
		audit:    cfg.Audit,
		week:     week,
		loc:      loc,
		logger:   logger.Component("booking"),
		metrics:  cfg.Metrics,
	}
}

// CheckAvailability resolves the requested date and service to an ordered
// list of open slots, overwrites the conversation's session with the result
// (even an empty one, so a later booking fails cleanly instead of acting on
// a stale offer) and returns the sentence to speak.
func (c *Coordinator) CheckAvailability(ctx context.Context, conversationID, dateText, serviceType string) (string, error) {
	day, err := ParseDate(dateText, c.loc)
	if err != nil {
		c.metrics.ObserveAvailability("date_parse_error")
		c.logger.Warn("unparseable date in availability check",
			"conversation_id", conversationID,
			"date_text", dateText,
		)
		return badDateMessage(), ErrDateParse
	}

	durationMinutes := catalog.DurationMinutes(serviceType)
	duration := time.Duration(durationMinutes) * time.Minute

	var busy []schedule.Period
	if open, close, ok := c.week.Window(day, c.loc); ok {
		busy, err = c.gateway.ListBusy(ctx, open, close)
		if err != nil {
			// Degrade to an empty busy list: the caller still gets an
			// authoritative answer while the failure stays visible in
			// logs and the calendar failure counter.
			c.logger.Warn("busy lookup failed, treating calendar as free",
				"conversation_id", conversationID,
				"date", day.Format("2006-01-02"),
				"error", err,
			)
			busy = nil
		}
	}

	slots := schedule.GenerateSlots(day, duration, busy, c.week, c.loc)

	session := &Session{
		Date:            day,
		ServiceType:     serviceType,
		DurationMinutes: durationMinutes,
		Slots:           slots,
	}
	if err := c.sessions.Save(ctx, conversationID, session); err != nil {
		c.logger.Error("failed to save booking session",
			"conversation_id", conversationID,
			"error", err,
		)
	}

	if len(slots) == 0 {
		c.metrics.ObserveAvailability("empty")
		return noAvailabilityMessage(dateText), nil
	}

	c.metrics.ObserveAvailability("offered")
	c.logger.Info("availability offered",
		"conversation_id", conversationID,
		"date", day.Format("2006-01-02"),
		"service", serviceType,
		"slot_count", len(slots),
	)
	return formatSlotsMessage(dateText, serviceType, slots, c.loc), nil
}

// Book commits a previously offered slot. The relayed start/end instants
// must match an offered slot within tolerance; the confirmation always
// echoes the matched slot's exact bounds, not the relayed values. On any
// failure the session is kept so the same offer stays bookable for a retry.
func (c *Coordinator) Book(ctx context.Context, conversationID string, startUnix, endUnix int64, patient PatientInfo) (string, error) {
	session, err := c.sessions.Load(ctx, conversationID)
	if err != nil {
		// Transient store failure: tell the caller to retry, not to redo
		// the availability check, which would hit the same outage.
		c.metrics.ObserveBooking("session_error")
		c.logger.Error("failed to load booking session",
			"conversation_id", conversationID,
			"error", err,
		)
		return gatewayFailureMessage(), ErrGateway
	}
	// An unnamed service still produced a real offer (default duration),
	// so only a missing session or an empty slot list blocks booking.
	if session == nil || len(session.Slots) == 0 {
		c.metrics.ObserveBooking("incomplete_session")
		return incompleteSessionMessage(), ErrIncompleteSession
	}

	slot := session.Match(startUnix, endUnix)
	if slot == nil {
		c.metrics.ObserveBooking("slot_not_found")
		c.logger.Warn("booking request matched no offered slot",
			"conversation_id", conversationID,
			"start", startUnix,
			"end", endUnix,
		)
		return slotNotFoundMessage(), ErrSlotNotFound
	}

	appt, err := c.gateway.CreateEvent(ctx, calendar.EventRequest{
		Start:       slot.Start,
		End:         slot.End,
		Summary:     eventSummary(session.ServiceType, patient.Name),
		Description: eventDescription(session.ServiceType, patient),
	})
	if err != nil {
		c.metrics.ObserveBooking("gateway_error")
		c.logger.Error("calendar event creation failed",
			"conversation_id", conversationID,
			"start", slot.Start,
			"error", err,
		)
		return gatewayFailureMessage(), ErrGateway
	}

	c.recordAppointment(ctx, conversationID, session, slot, patient, appt)

	c.metrics.ObserveBooking("confirmed")
	c.logger.Info("appointment booked",
		"conversation_id", conversationID,
		"event_id", appt.ID,
		"service", session.ServiceType,
		"start", slot.Start,
	)
	return confirmationMessage(session.ServiceType, patient.Name, *slot, c.loc), nil
}

// EndConversation discards the conversation's session. There is nothing to
// roll back on the calendar side: events are only created by one-shot,
// already-committed writes.
func (c *Coordinator) EndConversation(ctx context.Context, conversationID string) {
	if err := c.sessions.Delete(ctx, conversationID); err != nil {
		c.logger.Warn("failed to discard session", "conversation_id", conversationID, "error", err)
	}
}

// recordAppointment writes the audit row; best effort, a failure never
// blocks or retracts the spoken confirmation.
func (c *Coordinator) recordAppointment(ctx context.Context, conversationID string, session *Session, slot *schedule.Slot, patient PatientInfo, appt *calendar.Appointment) {
	if c.audit == nil {
		return
	}
	rec := AppointmentRecord{
		EventID:        appt.ID,
		ConversationID: conversationID,
		Service:        session.ServiceType,
		PatientName:    patient.Name,
		PatientPhone:   patient.Phone,
		PatientEmail:   patient.Email,
		StartsAt:       slot.Start,
		EndsAt:         slot.End,
	}
	if err := c.audit.Record(ctx, rec); err != nil {
		c.logger.Error("failed to record appointment audit row",
			"conversation_id", conversationID,
			"event_id", appt.ID,
			"error", err,
		)
	}
}
