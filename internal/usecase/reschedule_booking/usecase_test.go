package reschedule_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/internal/usecase/reservation"
	"github.com/m04kA/SMC-StudioBooking/pkg/daylock"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

const ownerID = int64(1)

var (
	now       = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	tuesday   = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type recordingPublisher struct {
	events []domain.BookingEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.BookingEvent) {
	p.events = append(p.events, event)
}

type noMetrics struct{}

func (noMetrics) ObserveReservation(operation, outcome string) {}

type fixture struct {
	store       *memory.Store
	uc          *UseCase
	publisher   *recordingPublisher
	sessionType *domain.SessionType
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(time.UTC)
	_, err := store.Availability().ReplacePatterns(ctx, ownerID, []domain.AvailabilityPattern{
		{OwnerID: ownerID, Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "12:00", IsActive: true},
		{OwnerID: ownerID, Weekday: int(time.Wednesday), StartTime: "09:00", EndTime: "12:00", IsActive: true},
	})
	require.NoError(t, err)

	st, err := store.SessionTypes().Create(ctx, &domain.SessionType{
		OwnerID:         ownerID,
		Key:             "portrait",
		Name:            "Портрет",
		DurationMinutes: 60,
		LocationType:    domain.LocationStudio,
		IsActive:        true,
	})
	require.NoError(t, err)

	publisher := &recordingPublisher{}
	guard := reservation.NewGuard(daylock.New(), memory.NewTxManager(store), store.Bookings())
	uc := NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), guard, publisher, noMetrics{}, logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, uc: uc, publisher: publisher, sessionType: st}
}

func (f *fixture) book(t *testing.T, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UUID:            uuid.New(),
		BookingNumber:   "BK-" + start,
		OwnerID:         ownerID,
		SessionTypeID:   f.sessionType.ID,
		BookingDate:     date,
		StartTime:       types.TimeString(start),
		EndTime:         types.TimeString(end),
		DurationMinutes: 60,
		Status:          status,
	})
	require.NoError(t, err)
	return b
}

func TestReschedule_SameDayKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	booking := f.book(t, tuesday, "09:00", "10:00", domain.StatusConfirmed)

	// Новый слот пересекается со старым положением самого бронирования
	resp, err := f.uc.Execute(context.Background(), &Request{
		OwnerID: ownerID, BookingID: booking.ID, Date: tuesday, StartTime: "09:30",
	})
	require.NoError(t, err)

	assert.Equal(t, booking.ID, resp.Booking.ID)
	assert.Equal(t, booking.UUID, resp.Booking.UUID)
	assert.Equal(t, types.TimeString("10:30"), resp.Booking.EndTime)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventBookingRescheduled, f.publisher.events[0].Type)
}

func TestReschedule_ToAnotherDate(t *testing.T) {
	f := newFixture(t)
	booking := f.book(t, tuesday, "09:00", "10:00", domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{
		OwnerID: ownerID, BookingID: booking.ID, Date: wednesday, StartTime: "11:00",
	})
	require.NoError(t, err)

	stored, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, domain.SameDay(wednesday, stored.BookingDate))
	assert.Equal(t, types.TimeString("11:00"), stored.StartTime)
	assert.Equal(t, types.TimeString("12:00"), stored.EndTime)
}

func TestReschedule_ConflictLeavesOriginalUntouched(t *testing.T) {
	f := newFixture(t)
	booking := f.book(t, tuesday, "09:00", "10:00", domain.StatusConfirmed)
	other := f.book(t, wednesday, "10:00", "11:00", domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		OwnerID: ownerID, BookingID: booking.ID, Date: wednesday, StartTime: "10:30",
	})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, other.ID, *conflict.Conflicts[0].BookingID)
	assert.NotEmpty(t, conflict.Suggestions)

	stored, err := f.store.Bookings().GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.True(t, domain.SameDay(tuesday, stored.BookingDate))
	assert.Equal(t, types.TimeString("09:00"), stored.StartTime)
	assert.Empty(t, f.publisher.events)
}

// movingRepo переносит бронирование сразу после первого чтения, как параллельный перенос
type movingRepo struct {
	BookingRepository
	move  func()
	moved bool
}

func (r *movingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := r.BookingRepository.GetByID(ctx, id)
	if err == nil && !r.moved {
		r.moved = true
		r.move()
	}
	return b, err
}

func TestReschedule_BookingMovedBeforeLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	booking := f.book(t, tuesday, "09:00", "10:00", domain.StatusConfirmed)

	thursday := tuesday.AddDate(0, 0, 2)
	repo := &movingRepo{
		BookingRepository: f.store.Bookings(),
		move: func() {
			moved := *booking
			moved.BookingDate = thursday
			require.NoError(t, f.store.Bookings().Reschedule(ctx, &moved))
		},
	}
	guard := reservation.NewGuard(daylock.New(), memory.NewTxManager(f.store), f.store.Bookings())
	uc := NewUseCase(repo, f.store.SessionTypes(), f.store.Availability(), guard, f.publisher, noMetrics{}, logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	_, err := uc.Execute(ctx, &Request{OwnerID: ownerID, BookingID: booking.ID, Date: wednesday, StartTime: "10:00"})

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Len(t, conflict.Conflicts, 1)
	assert.Equal(t, domain.ConflictConcurrentUpdate, conflict.Conflicts[0].Kind)
	assert.Equal(t, booking.ID, *conflict.Conflicts[0].BookingID)

	stored, err := f.store.Bookings().GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.True(t, domain.SameDay(thursday, stored.BookingDate))
	assert.Empty(t, f.publisher.events)
}

func TestReschedule_OutsideAvailability(t *testing.T) {
	f := newFixture(t)
	booking := f.book(t, tuesday, "09:00", "10:00", domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{
		OwnerID: ownerID, BookingID: booking.ID, Date: tuesday, StartTime: "11:30",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestReschedule_Rejections(t *testing.T) {
	f := newFixture(t)
	canceled := f.book(t, tuesday, "09:00", "10:00", domain.StatusCanceled)
	active := f.book(t, tuesday, "10:00", "11:00", domain.StatusConfirmed)

	tests := []struct {
		name     string
		req      *Request
		expected error
	}{
		{"terminal status", &Request{OwnerID: ownerID, BookingID: canceled.ID, Date: wednesday, StartTime: "09:00"}, ErrNotReschedulable},
		{"foreign owner", &Request{OwnerID: 2, BookingID: active.ID, Date: wednesday, StartTime: "09:00"}, ErrBookingNotFound},
		{"unknown booking", &Request{OwnerID: ownerID, BookingID: 999, Date: wednesday, StartTime: "09:00"}, ErrBookingNotFound},
		{"invalid time", &Request{OwnerID: ownerID, BookingID: active.ID, Date: wednesday, StartTime: "9am"}, ErrInvalidInput},
		{"past date", &Request{OwnerID: ownerID, BookingID: active.ID, Date: now.AddDate(0, 0, -1), StartTime: "09:00"}, domain.ErrPolicyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
