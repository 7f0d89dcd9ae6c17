package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

const ownerID = int64(1)

// Понедельник 13.10.2025 08:00
var now = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func date(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store       *memory.Store
	uc          *UseCase
	sessionType *domain.SessionType
}

// Шаблон: вторник 09:00-11:00, сессия 30 минут
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(time.UTC)
	_, err := store.Availability().ReplacePatterns(ctx, ownerID, []domain.AvailabilityPattern{
		{OwnerID: ownerID, Weekday: int(time.Tuesday), StartTime: "09:00", EndTime: "11:00", IsActive: true},
	})
	require.NoError(t, err)

	st, err := store.SessionTypes().Create(ctx, &domain.SessionType{
		OwnerID:         ownerID,
		Key:             "mini",
		Name:            "Мини-сессия",
		DurationMinutes: 30,
		LocationType:    domain.LocationStudio,
		IsActive:        true,
		IsPublic:        true,
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), logger.NewNop()).
		WithTimeProvider(fixedTime{now})

	return &fixture{store: store, uc: uc, sessionType: st}
}

func (f *fixture) slots(t *testing.T, d time.Time) []string {
	t.Helper()
	resp, err := f.uc.Execute(context.Background(), &Request{OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Date: d})
	require.NoError(t, err)

	starts := make([]string, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		starts = append(starts, s.StartTime.String()+"-"+s.EndTime.String())
	}
	return starts
}

func (f *fixture) settings(t *testing.T, s domain.AvailabilitySettings) {
	t.Helper()
	s.OwnerID = ownerID
	_, err := f.store.Availability().UpsertSettings(context.Background(), &s)
	require.NoError(t, err)
}

func (f *fixture) book(t *testing.T, d time.Time, start, end string) {
	t.Helper()
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		OwnerID:       ownerID,
		SessionTypeID: f.sessionType.ID,
		BookingDate:   d,
		StartTime:     types.TimeString(start),
		EndTime:       types.TimeString(end),
		Status:        domain.StatusConfirmed,
	})
	require.NoError(t, err)
}

func TestGetAvailableSlots_WeeklyPattern(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, []string{"09:00-09:30", "09:30-10:00", "10:00-10:30", "10:30-11:00"}, f.slots(t, date(14)))
	assert.Empty(t, f.slots(t, date(15)), "wednesday has no pattern")
}

func TestGetAvailableSlots_BookingInTheMiddle(t *testing.T) {
	f := newFixture(t)
	f.settings(t, domain.AvailabilitySettings{BufferMinutes: 15})
	f.book(t, date(14), "09:45", "10:15")

	// 09:30 упирается в паузу перед 09:45, 10:00 пересекается, 10:30 после паузы 10:15+15
	assert.Equal(t, []string{"09:00-09:30", "10:30-11:00"}, f.slots(t, date(14)))
}

func TestGetAvailableSlots_OverrideReplacesPattern(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Availability().CreateOverride(context.Background(), &domain.AvailabilityOverride{
		OwnerID: ownerID, Date: date(14), StartTime: "14:00", EndTime: "15:00",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"14:00-14:30", "14:30-15:00"}, f.slots(t, date(14)))
}

func TestGetAvailableSlots_BlockedDateWins(t *testing.T) {
	f := newFixture(t)
	_, err := f.store.Availability().CreateOverride(context.Background(), &domain.AvailabilityOverride{
		OwnerID: ownerID, Date: date(14), StartTime: "14:00", EndTime: "15:00",
	})
	require.NoError(t, err)
	_, err = f.store.Availability().CreateBlockedDate(context.Background(), &domain.BlockedDate{
		OwnerID: ownerID, StartDate: date(13), EndDate: date(15),
	})
	require.NoError(t, err)

	assert.Empty(t, f.slots(t, date(14)))
}

func TestGetAvailableSlots_ExternalBusyInterval(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Availability().ReplaceBusyIntervals(context.Background(), ownerID, date(14), date(14),
		[]domain.BusyInterval{{OwnerID: ownerID, Date: date(14), StartTime: "09:30", EndTime: "10:30"}}))

	assert.Equal(t, []string{"09:00-09:30", "10:30-11:00"}, f.slots(t, date(14)))
}

func TestGetAvailableSlots_NoticeAndAdvance(t *testing.T) {
	f := newFixture(t)

	f.settings(t, domain.AvailabilitySettings{MinNoticeHours: 26})
	assert.Equal(t, []string{"10:00-10:30", "10:30-11:00"}, f.slots(t, date(14)))

	f.settings(t, domain.AvailabilitySettings{MaxAdvanceDays: 7})
	assert.Len(t, f.slots(t, date(14)), 4)
	assert.Empty(t, f.slots(t, date(21)), "day 8 is beyond the horizon")
}

func TestGetAvailableSlots_DailyCap(t *testing.T) {
	f := newFixture(t)
	f.settings(t, domain.AvailabilitySettings{MaxDaily: 1})
	f.book(t, date(14), "09:00", "09:30")

	assert.Empty(t, f.slots(t, date(14)))
}

func TestGetAvailableSlots_IdempotentRead(t *testing.T) {
	f := newFixture(t)
	f.book(t, date(14), "10:00", "10:30")

	assert.Equal(t, f.slots(t, date(14)), f.slots(t, date(14)))
}

func TestGetAvailableSlots_SessionTypeNotBookable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{OwnerID: ownerID + 1, SessionTypeID: f.sessionType.ID, Date: date(14)})
	assert.ErrorIs(t, err, ErrSessionTypeNotFound)

	private := *f.sessionType
	private.IsPublic = false
	_, err = f.store.SessionTypes().Update(ctx, &private)
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Date: date(14), PublicOnly: true})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Execute(ctx, &Request{OwnerID: ownerID, SessionTypeID: f.sessionType.ID, Date: date(14)})
	assert.NoError(t, err)

	_, err = f.uc.Execute(ctx, &Request{OwnerID: ownerID, SessionTypeID: 0, Date: date(14)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
