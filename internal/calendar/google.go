package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/clinique-avenir/voice-receptionist/internal/observability/metrics"
	"github.com/clinique-avenir/voice-receptionist/internal/schedule"
	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

// ErrInvalidInterval is returned by CreateEvent before any remote call when
// the requested interval is empty or inverted.
var ErrInvalidInterval = errors.New("calendar: event start must be before end")

// GoogleGateway implements Gateway over the Google Calendar API using
// service-account credentials.
type GoogleGateway struct {
	svc        *gcal.Service
	calendarID string
	timezone   string
	loc        *time.Location
	timeout    time.Duration
	logger     *logging.Logger
	metrics    *metrics.BookingMetrics
}

// GoogleGatewayConfig configures NewGoogleGateway.
type GoogleGatewayConfig struct {
	CredentialsFile string
	CalendarID      string
	Timezone        string
	Timeout         time.Duration
	Logger          *logging.Logger
	Metrics         *metrics.BookingMetrics
}

// NewGoogleGateway builds the Calendar API client and verifies the clinic
// timezone is loadable.
func NewGoogleGateway(ctx context.Context, cfg GoogleGatewayConfig) (*GoogleGateway, error) {
	if cfg.CalendarID == "" {
		return nil, errors.New("calendar: calendar ID is required")
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar: invalid clinic timezone %q: %w", cfg.Timezone, err)
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: failed to create calendar client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &GoogleGateway{
		svc:        svc,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		loc:        loc,
		timeout:    timeout,
		logger:     logger.Component("calendar"),
		metrics:    cfg.Metrics,
	}, nil
}

// ListBusy fetches events overlapping [from, to) with recurring events
// expanded to single occurrences, normalizes them to busy periods in the
// clinic timezone and merges overlaps so callers never see raw overlaps.
func (g *GoogleGateway) ListBusy(ctx context.Context, from, to time.Time) ([]schedule.Period, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.svc.Events.List(g.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		TimeZone(g.timezone).
		Context(ctx).
		Do()
	if err != nil {
		g.metrics.ObserveCalendarFailure("list")
		g.logger.Error("failed to list calendar events",
			"calendar_id", g.calendarID,
			"from", from,
			"to", to,
			"error", err,
		)
		return nil, fmt.Errorf("calendar: list events: %w", err)
	}

	periods := busyFromEvents(result.Items, g.loc, g.logger)
	return schedule.MergeBusy(periods), nil
}

// CreateEvent inserts a single event on the clinic calendar.
func (g *GoogleGateway) CreateEvent(ctx context.Context, req EventRequest) (*Appointment, error) {
	if !req.Start.Before(req.End) {
		return nil, ErrInvalidInterval
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	event := &gcal.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &gcal.EventDateTime{
			DateTime: req.Start.In(g.loc).Format("2006-01-02T15:04:05"),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: req.End.In(g.loc).Format("2006-01-02T15:04:05"),
			TimeZone: g.timezone,
		},
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		g.metrics.ObserveCalendarFailure("insert")
		g.logger.Error("failed to create calendar event",
			"calendar_id", g.calendarID,
			"start", req.Start,
			"error", err,
		)
		return nil, fmt.Errorf("calendar: insert event: %w", err)
	}

	g.logger.Info("appointment event created", "event_id", created.Id, "link", created.HtmlLink)
	return &Appointment{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		Start:    req.Start,
		End:      req.End,
		Summary:  req.Summary,
	}, nil
}

// busyFromEvents converts raw calendar events into busy periods in the
// clinic timezone. Timed events are taken as-is; all-day events block from
// the start date's midnight through the end of the end date. Events that
// cannot be parsed are skipped with a warning rather than failing the
// whole listing.
func busyFromEvents(events []*gcal.Event, loc *time.Location, logger *logging.Logger) []schedule.Period {
	var periods []schedule.Period
	for _, ev := range events {
		period, err := periodFromEvent(ev, loc)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping unparseable event", "event_id", ev.Id, "error", err)
			}
			continue
		}
		periods = append(periods, period)
	}
	return periods
}

func periodFromEvent(ev *gcal.Event, loc *time.Location) (schedule.Period, error) {
	if ev == nil || ev.Start == nil || ev.End == nil {
		return schedule.Period{}, errors.New("event has no start or end")
	}

	if ev.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			return schedule.Period{}, fmt.Errorf("bad start time %q: %w", ev.Start.DateTime, err)
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			return schedule.Period{}, fmt.Errorf("bad end time %q: %w", ev.End.DateTime, err)
		}
		return schedule.Period{Start: start.In(loc), End: end.In(loc)}, nil
	}

	// All-day event: Date fields only. The whole span is busy, from the
	// first day's midnight to the last nanosecond of the end date.
	startDay, err := time.ParseInLocation("2006-01-02", ev.Start.Date, loc)
	if err != nil {
		return schedule.Period{}, fmt.Errorf("bad start date %q: %w", ev.Start.Date, err)
	}
	endDay, err := time.ParseInLocation("2006-01-02", ev.End.Date, loc)
	if err != nil {
		return schedule.Period{}, fmt.Errorf("bad end date %q: %w", ev.End.Date, err)
	}
	return schedule.Period{
		Start: startDay,
		End:   endDay.Add(24*time.Hour - time.Nanosecond),
	}, nil
}
