package batch_import

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/internal/integrations/events"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/reservation"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

const ownerID = int64(1)

var now = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	store       *memory.Store
	uc          *UseCase
	metrics     *metrics.Metrics
	sessionType *domain.SessionType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(time.UTC)

	_, err := store.Availability().ReplacePatterns(ctx, ownerID, []domain.AvailabilityPattern{
		{OwnerID: ownerID, Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "12:00", IsActive: true},
	})
	require.NoError(t, err)

	st, err := store.SessionTypes().Create(ctx, &domain.SessionType{
		OwnerID: ownerID, Key: "class", Name: "Класс", DurationMinutes: 60,
		MaxParticipants: ptr.Ptr(30), LocationType: domain.LocationOnSite, IsActive: true,
	})
	require.NoError(t, err)

	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	guard := reservation.NewGuard(daylock.New(), memory.NewTxManager(store), store.Bookings())
	creator := create_booking.NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), guard,
		events.NopPublisher{}, m, logger.NewNop()).WithTimeProvider(fixedTime{now})

	uc := NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), creator, m, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, uc: uc, metrics: m, sessionType: st}
}

func row(date, start string) Row {
	return Row{
		Date:         date,
		StartTime:    start,
		ContactName:  "Школа 5",
		ContactEmail: "school5@example.com",
		ContactPhone: ptr.Ptr("+7 900 000-00-00"),
	}
}

func TestParse_ConflictInsideBatch(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Parse(context.Background(), &ParseRequest{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		Rows: []Row{
			row("2025-10-14", "09:00"),
			row("2025-10-14", "09:30"),
			row("2025-10-14", "11:00"),
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	assert.Equal(t, RowValid, resp.Results[0].Status)
	assert.Equal(t, RowError, resp.Results[1].Status)
	assert.Equal(t, RowValid, resp.Results[2].Status)
	assert.Equal(t, 2, resp.Valid)
	assert.Equal(t, 1, resp.Error)

	second := resp.Results[1]
	require.Len(t, second.Conflicts, 1)
	assert.Equal(t, domain.ConflictTimeOverlap, second.Conflicts[0].Kind)
	require.NotNil(t, second.Suggestion)
	assert.Equal(t, types.TimeString("10:00"), second.Suggestion.StartTime)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.BatchImportRowsTotal.WithLabelValues(stageParse, string(RowError))))
}

func TestParse_ConflictWithExistingBooking(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UUID: uuid.New(), BookingNumber: "BK-1", OwnerID: ownerID, SessionTypeID: f.sessionType.ID,
		BookingDate: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "12:00",
		Status: domain.StatusConfirmed,
	})
	require.NoError(t, err)

	resp, err := f.uc.Parse(context.Background(), &ParseRequest{
		OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Rows: []Row{row("2025-10-14", "10:00")},
	})
	require.NoError(t, err)

	assert.Equal(t, RowError, resp.Results[0].Status)
	assert.Nil(t, resp.Results[0].Suggestion)
}

func TestParse_RowErrorsAndWarnings(t *testing.T) {
	f := newFixture(t)

	noPhone := row("2025-10-14", "09:00")
	noPhone.ContactPhone = nil

	crowded := row("2025-10-14", "10:00")
	crowded.StudentCount = ptr.Ptr(40)

	badDate := row("14.10.2025", "09:00")
	badTime := row("2025-10-14", "9")
	noEmail := row("2025-10-14", "11:00")
	noEmail.ContactEmail = ""
	policy := row("2025-10-01", "09:00")

	resp, err := f.uc.Parse(context.Background(), &ParseRequest{
		OwnerID: ownerID, SessionTypeID: f.sessionType.ID,
		Rows: []Row{noPhone, crowded, badDate, badTime, noEmail, policy},
	})
	require.NoError(t, err)

	statuses := make([]RowStatus, 0, len(resp.Results))
	for _, r := range resp.Results {
		statuses = append(statuses, r.Status)
	}
	assert.Equal(t, []RowStatus{RowWarning, RowWarning, RowError, RowError, RowError, RowError}, statuses)
	assert.Contains(t, resp.Results[5].Errors[0], "in the past")
}

func TestExecute_PartialSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.uc.Execute(ctx, &ExecuteRequest{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		Rows: []ExecuteRow{
			{Row: row("2025-10-14", "09:00"), Accepted: true},
			{Row: row("2025-10-14", "09:30"), Accepted: true},
			{Row: row("2025-10-14", "11:00"), Accepted: true},
			{Row: row("2025-10-14", "10:00"), Accepted: false},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.Equal(t, domain.SourceCSVImport, resp.Results[0].Booking.Source)

	date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	stored, err := f.store.Bookings().List(ctx, domain.BookingsFilter{OwnerID: ownerID, StartDate: &date, EndDate: &date})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestBatch_RejectsEmailWithDisplayName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	named := row("2025-10-14", "09:00")
	named.ContactEmail = "Jane Doe <jane@example.com>"

	parsed, err := f.uc.Parse(ctx, &ParseRequest{OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Rows: []Row{named}})
	require.NoError(t, err)
	require.Len(t, parsed.Results, 1)
	assert.Equal(t, RowError, parsed.Results[0].Status)
	assert.Contains(t, parsed.Results[0].Errors[0], "invalid contact email")

	executed, err := f.uc.Execute(ctx, &ExecuteRequest{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		Rows:          []ExecuteRow{{Row: named, Accepted: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, executed.Created)
	assert.Equal(t, 1, executed.Failed)

	stored, err := f.store.Bookings().List(ctx, domain.BookingsFilter{OwnerID: ownerID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestExecute_UseSuggestion(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &ExecuteRequest{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		Rows: []ExecuteRow{
			{Row: row("2025-10-14", "09:00"), Accepted: true},
			{Row: row("2025-10-14", "09:30"), Accepted: true, UseSuggestion: true, SuggestedStartTime: "10:00"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Created)
	assert.Equal(t, types.TimeString("10:00"), resp.Results[1].Booking.StartTime)
}

func TestBatch_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Parse(context.Background(), &ParseRequest{OwnerID: ownerID, SessionTypeID: f.sessionType.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Parse(context.Background(), &ParseRequest{OwnerID: ownerID, SessionTypeID: 999, Rows: []Row{row("2025-10-14", "09:00")}})
	assert.ErrorIs(t, err, ErrSessionTypeNotFound)

	rows := make([]ExecuteRow, domain.MaxBatchRows+1)
	_, err = f.uc.Execute(context.Background(), &ExecuteRequest{OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Rows: rows})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
