package bookings

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/reservation"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/metrics"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
)

const ownerID = int64(5)

var now = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fixture struct {
	store     *memory.Store
	svc       *Service
	publisher *recordingPublisher
	metrics   *metrics.Metrics
}

func newFixture(loc *time.Location) *fixture {
	store := memory.NewStore(loc)
	publisher := &recordingPublisher{}
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())
	guard := reservation.NewGuard(daylock.New(), memory.NewTxManager(store), store.Bookings())

	svc := NewService(store.Bookings(), guard, publisher, m, logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, svc: svc, publisher: publisher, metrics: m}
}

func (f *fixture) seed(t *testing.T, status domain.BookingStatus, loc *time.Location) *domain.Booking {
	t.Helper()
	id := uuid.New()
	date := time.Date(2025, 10, 14, 0, 0, 0, 0, loc)
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UUID:            id,
		BookingNumber:   domain.GenerateBookingNumber(date, id),
		OwnerID:         ownerID,
		SessionTypeID:   1,
		SessionTypeName: "Portrait",
		BookingDate:     date,
		StartTime:       "09:30",
		EndTime:         "10:30",
		DurationMinutes: 60,
		Timezone:        loc.String(),
		Status:          status,
		Source:          domain.SourceManual,
		Contact:         domain.Contact{Name: "Анна", Email: "anna@example.com"},
		InternalNotes:   ptr.Ptr("VIP"),
	})
	require.NoError(t, err)
	return b
}

func TestTransitions_Allowed(t *testing.T) {
	f := newFixture(time.UTC)
	ctx := context.Background()
	b := f.seed(t, domain.StatusPending, time.UTC)

	confirmed, err := f.svc.Confirm(ctx, ownerID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)
	require.NotNil(t, confirmed.StatusChangedAt)

	completed, err := f.svc.Complete(ctx, ownerID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	require.Len(t, f.publisher.events, 2)
	assert.Equal(t, domain.EventBookingConfirmed, f.publisher.events[0].Type)
	assert.Equal(t, domain.EventBookingCompleted, f.publisher.events[1].Type)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.StatusTransitionsTotal.WithLabelValues("confirmed", "completed")))
}

func TestCancel_StoresReasonAndFreesDay(t *testing.T) {
	f := newFixture(time.UTC)
	ctx := context.Background()
	b := f.seed(t, domain.StatusConfirmed, time.UTC)

	canceled, err := f.svc.Cancel(ctx, ownerID, b.ID, &models.CancelBookingRequest{Reason: ptr.Ptr("  болезнь ")})
	require.NoError(t, err)
	assert.Equal(t, "болезнь", *canceled.CancellationReason)
	assert.NotNil(t, canceled.CanceledAt)

	active, err := f.store.Bookings().List(ctx, domain.BookingsFilter{OwnerID: ownerID})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestTransitions_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.BookingStatus
		action func(s *Service, id int64) error
	}{
		{"confirm confirmed", domain.StatusConfirmed, func(s *Service, id int64) error {
			_, err := s.Confirm(context.Background(), ownerID, id)
			return err
		}},
		{"no-show pending", domain.StatusPending, func(s *Service, id int64) error {
			_, err := s.MarkNoShow(context.Background(), ownerID, id)
			return err
		}},
		{"complete pending", domain.StatusPending, func(s *Service, id int64) error {
			_, err := s.Complete(context.Background(), ownerID, id)
			return err
		}},
		{"cancel canceled", domain.StatusCanceled, func(s *Service, id int64) error {
			_, err := s.Cancel(context.Background(), ownerID, id, nil)
			return err
		}},
		{"confirm no-show", domain.StatusNoShow, func(s *Service, id int64) error {
			_, err := s.Confirm(context.Background(), ownerID, id)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(time.UTC)
			b := f.seed(t, tt.from, time.UTC)

			err := tt.action(f.svc, b.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.ErrorIs(t, err, domain.ErrInvalidState)

			stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.from, stored.Status)
			assert.Empty(t, f.publisher.events)
		})
	}
}

func TestGetByID_ForeignOwner(t *testing.T) {
	f := newFixture(time.UTC)
	b := f.seed(t, domain.StatusPending, time.UTC)

	_, err := f.svc.GetByID(context.Background(), ownerID+1, b.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.svc.Confirm(context.Background(), ownerID+1, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByUUID_HidesInternalNotes(t *testing.T) {
	f := newFixture(time.UTC)
	b := f.seed(t, domain.StatusPending, time.UTC)

	public, err := f.svc.GetByUUID(context.Background(), b.UUID)
	require.NoError(t, err)
	assert.Nil(t, public.InternalNotes)

	owned, err := f.svc.GetByID(context.Background(), ownerID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "VIP", *owned.InternalNotes)

	_, err = f.svc.GetByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(time.UTC)
	ctx := context.Background()
	f.seed(t, domain.StatusPending, time.UTC)
	f.seed(t, domain.StatusCanceled, time.UTC)

	resp, err := f.svc.List(ctx, &models.ListBookingsRequest{OwnerID: ownerID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = f.svc.List(ctx, &models.ListBookingsRequest{OwnerID: ownerID, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = f.svc.List(ctx, &models.ListBookingsRequest{OwnerID: ownerID, Status: ptr.Ptr("canceled")})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "canceled", resp.Bookings[0].Status)

	_, err = f.svc.List(ctx, &models.ListBookingsRequest{OwnerID: ownerID, Status: ptr.Ptr("archived")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExportICS(t *testing.T) {
	t.Run("utc", func(t *testing.T) {
		f := newFixture(time.UTC)
		b := f.seed(t, domain.StatusConfirmed, time.UTC)

		out, err := f.svc.ExportICS(context.Background(), b.UUID)
		require.NoError(t, err)

		assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
		assert.Contains(t, out, "UID:"+b.UUID.String())
		assert.Contains(t, out, "DTSTART:20251014T093000Z")
		assert.Contains(t, out, "DTEND:20251014T103000Z")
		assert.Contains(t, out, "SUMMARY:Portrait")
		assert.Contains(t, out, "STATUS:CONFIRMED")
	})

	t.Run("local zone", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Moscow")
		require.NoError(t, err)

		f := newFixture(loc)
		b := f.seed(t, domain.StatusPending, loc)

		out, err := f.svc.ExportICS(context.Background(), b.UUID)
		require.NoError(t, err)

		assert.Contains(t, out, "DTSTART;TZID=Europe/Moscow:20251014T093000")
		assert.Contains(t, out, "DTEND;TZID=Europe/Moscow:20251014T103000")
		assert.Contains(t, out, "STATUS:TENTATIVE")
	})

	t.Run("unknown uuid", func(t *testing.T) {
		f := newFixture(time.UTC)
		_, err := f.svc.ExportICS(context.Background(), uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
