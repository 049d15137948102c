package booking

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AppointmentRecord is the audit row written after a confirmed booking.
// The calendar remains the source of truth; this table exists so the
// cabinet can review bookings without trawling calendar events.
type AppointmentRecord struct {
	ID             uuid.UUID
	EventID        string
	ConversationID string
	Service        string
	PatientName    string
	PatientPhone   string
	PatientEmail   string
	StartsAt       time.Time
	EndsAt         time.Time
	CreatedAt      time.Time
}

// AppointmentLog persists booking audit rows to PostgreSQL.
type AppointmentLog struct {
	db *sql.DB
}

// NewAppointmentLog creates the audit log, or nil when no database is
// configured so callers can skip auditing transparently.
func NewAppointmentLog(db *sql.DB) *AppointmentLog {
	if db == nil {
		return nil
	}
	return &AppointmentLog{db: db}
}

// Record inserts one audit row.
func (l *AppointmentLog) Record(ctx context.Context, rec AppointmentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var email any
	if rec.PatientEmail != "" {
		email = rec.PatientEmail
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, event_id, conversation_id, service,
			patient_name, patient_phone, patient_email,
			starts_at, ends_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.EventID, rec.ConversationID, rec.Service,
		rec.PatientName, rec.PatientPhone, email,
		rec.StartsAt, rec.EndsAt, rec.CreatedAt,
	)
	return err
}

// CountSince reports how many bookings were committed after the given time.
func (l *AppointmentLog) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE created_at >= $1`, since,
	).Scan(&count)
	return count, err
}
