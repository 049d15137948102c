package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewAppointmentLogNilDB(t *testing.T) {
	require.Nil(t, NewAppointmentLog(nil))
}

func TestAppointmentLogRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rec := AppointmentRecord{
		ID:             uuid.New(),
		EventID:        "evt-42",
		ConversationID: "conv-1",
		Service:        "contrôle",
		PatientName:    "Dupont",
		PatientPhone:   "0600000000",
		PatientEmail:   "dupont@example.com",
		StartsAt:       time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC),
		CreatedAt:      time.Date(2024, 7, 14, 18, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(rec.ID, rec.EventID, rec.ConversationID, rec.Service,
			rec.PatientName, rec.PatientPhone, rec.PatientEmail,
			rec.StartsAt, rec.EndsAt, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewAppointmentLog(db).Record(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentLogRecordFillsDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Zero ID and CreatedAt are filled in; empty email becomes NULL.
	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(sqlmock.AnyArg(), "evt-42", "conv-1", "carie",
			"Martin", "0611111111", nil,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := AppointmentRecord{
		EventID:        "evt-42",
		ConversationID: "conv-1",
		Service:        "carie",
		PatientName:    "Martin",
		PatientPhone:   "0611111111",
		StartsAt:       time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2024, 7, 15, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewAppointmentLog(db).Record(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentLogCountSince(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	since := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := NewAppointmentLog(db).CountSince(context.Background(), since)
	require.NoError(t, err)
	require.Equal(t, 7, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
