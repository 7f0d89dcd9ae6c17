package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/booking"
	sessionTypeRepo "github.com/m04kA/SMC-StudioBooking/internal/infra/storage/sessiontype"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

func day(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

func newBooking(owner int64, date time.Time, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		UUID:        uuid.New(),
		OwnerID:     owner,
		BookingDate: date,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      status,
	}
}

func TestBookings_ListFiltersAndOrders(t *testing.T) {
	store := NewStore(time.UTC)
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking(1, day(14), "11:00", "12:00", domain.StatusConfirmed))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(14), "09:00", "10:00", domain.StatusPending))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(14), "13:00", "14:00", domain.StatusCanceled))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(2, day(14), "09:00", "10:00", domain.StatusPending))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking(1, day(15), "09:00", "10:00", domain.StatusPending))
	require.NoError(t, err)

	date := day(14)
	active, err := repo.List(ctx, domain.BookingsFilter{OwnerID: 1, StartDate: &date, EndDate: &date})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, types.TimeString("09:00"), active[0].StartTime)
	assert.Equal(t, types.TimeString("11:00"), active[1].StartTime)

	all, err := repo.List(ctx, domain.BookingsFilter{OwnerID: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	canceled := domain.StatusCanceled
	onlyCanceled, err := repo.List(ctx, domain.BookingsFilter{OwnerID: 1, Status: &canceled})
	require.NoError(t, err)
	assert.Len(t, onlyCanceled, 1)
}

func TestBookings_ReturnedValuesAreCopies(t *testing.T) {
	store := NewStore(time.UTC)
	repo := store.Bookings()
	ctx := context.Background()

	created, err := repo.Create(ctx, newBooking(1, day(14), "09:00", "10:00", domain.StatusPending))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCanceled

	again, err := repo.GetByUUID(ctx, created.UUID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	store := NewStore(time.UTC)
	tx := NewTxManager(store)
	repo := store.Bookings()
	ctx := context.Background()

	boom := errors.New("boom")
	err := tx.DoSerializable(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.LockDay(ctx, 1, day(14)))
		if _, err := repo.Create(ctx, newBooking(1, day(14), "09:00", "10:00", domain.StatusPending)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.List(ctx, domain.BookingsFilter{OwnerID: 1, IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxManager_RollbackKeepsWritesMadeOutsideTransaction(t *testing.T) {
	store := NewStore(time.UTC)
	tx := NewTxManager(store)
	bookings := store.Bookings()
	availability := store.Availability()
	ctx := context.Background()

	existing, err := bookings.Create(ctx, newBooking(1, day(14), "11:00", "12:00", domain.StatusPending))
	require.NoError(t, err)

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	boom := errors.New("rejected")

	go func() {
		done <- tx.DoSerializable(ctx, func(ctx context.Context) error {
			if _, err := bookings.Create(ctx, newBooking(1, day(14), "09:00", "10:00", domain.StatusPending)); err != nil {
				return err
			}
			existing.Status = domain.StatusConfirmed
			if err := bookings.UpdateStatus(ctx, existing); err != nil {
				return err
			}
			close(started)
			<-release
			return boom
		})
	}()

	<-started
	_, err = availability.CreateBlockedDate(ctx, &domain.BlockedDate{OwnerID: 1, StartDate: day(14), EndDate: day(14)})
	require.NoError(t, err)
	close(release)
	require.ErrorIs(t, <-done, boom)

	blocked, err := availability.ListBlockedDates(ctx, 1, day(14), day(14))
	require.NoError(t, err)
	assert.Len(t, blocked, 1)

	list, err := bookings.List(ctx, domain.BookingsFilter{OwnerID: 1, IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.StatusPending, list[0].Status)
}

func TestLockDay_RequiresTransaction(t *testing.T) {
	store := NewStore(time.UTC)
	err := store.Bookings().LockDay(context.Background(), 1, day(14))
	assert.ErrorIs(t, err, bookingRepo.ErrNotInTransaction)
}

func TestSessionTypes_DuplicateKey(t *testing.T) {
	store := NewStore(time.UTC)
	repo := store.SessionTypes()
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.SessionType{OwnerID: 1, Key: "portrait", Name: "Portrait"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.SessionType{OwnerID: 1, Key: "portrait", Name: "Other"})
	assert.ErrorIs(t, err, sessionTypeRepo.ErrDuplicateKey)
	_, err = repo.Create(ctx, &domain.SessionType{OwnerID: 2, Key: "portrait", Name: "Portrait"})
	assert.NoError(t, err)

	_, err = repo.GetByID(ctx, 2, 1)
	assert.ErrorIs(t, err, sessionTypeRepo.ErrSessionTypeNotFound)
}

func TestAvailability_BusyIntervalsReplacedInRange(t *testing.T) {
	store := NewStore(time.UTC)
	repo := store.Availability()
	ctx := context.Background()

	require.NoError(t, repo.ReplaceBusyIntervals(ctx, 1, day(1), day(31), []domain.BusyInterval{
		{Date: day(10), StartTime: "09:00", EndTime: "10:00"},
		{Date: day(20), StartTime: "09:00", EndTime: "10:00"},
	}))
	require.NoError(t, repo.ReplaceBusyIntervals(ctx, 1, day(15), day(25), []domain.BusyInterval{
		{Date: day(21), StartTime: "12:00", EndTime: "13:00"},
	}))

	busy, err := repo.ListBusyIntervals(ctx, 1, day(1), day(31))
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.Equal(t, 10, busy[0].Date.Day())
	assert.Equal(t, 21, busy[1].Date.Day())
}

func TestAvailability_BlockedDatesOverlapRange(t *testing.T) {
	store := NewStore(time.UTC)
	repo := store.Availability()
	ctx := context.Background()

	created, err := repo.CreateBlockedDate(ctx, &domain.BlockedDate{OwnerID: 1, StartDate: day(10), EndDate: day(12)})
	require.NoError(t, err)
	assert.Equal(t, domain.BlockedSourceManual, created.Source)

	found, err := repo.ListBlockedDates(ctx, 1, day(12), day(20))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = repo.ListBlockedDates(ctx, 1, day(13), day(20))
	require.NoError(t, err)
	assert.Empty(t, found)
}
