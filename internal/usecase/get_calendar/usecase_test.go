package get_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/internal/infra/storage/memory"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

const ownerID = int64(1)

var now = time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)

func date(d int) time.Time {
	return time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	store       *memory.Store
	uc          *UseCase
	sessionType *domain.SessionType
}

// Окна: пн-пт 09:00-13:00, 15.10 заблокирован, 16.10 внешнее событие 10:00-11:00
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(time.UTC)

	var patterns []domain.AvailabilityPattern
	for wd := 1; wd <= 5; wd++ {
		patterns = append(patterns, domain.AvailabilityPattern{OwnerID: ownerID, Weekday: wd, StartTime: "09:00", EndTime: "13:00", IsActive: true})
	}
	_, err := store.Availability().ReplacePatterns(ctx, ownerID, patterns)
	require.NoError(t, err)

	_, err = store.Availability().CreateBlockedDate(ctx, &domain.BlockedDate{
		OwnerID: ownerID, StartDate: date(15), EndDate: date(15), Reason: ptr.Ptr("отпуск"),
	})
	require.NoError(t, err)

	err = store.Availability().ReplaceBusyIntervals(ctx, ownerID, date(1), date(31), []domain.BusyInterval{
		{OwnerID: ownerID, Date: date(16), StartTime: "10:00", EndTime: "11:00", Title: ptr.Ptr("Встреча")},
	})
	require.NoError(t, err)

	st, err := store.SessionTypes().Create(ctx, &domain.SessionType{
		OwnerID: ownerID, Key: "portrait", Name: "Портрет", DurationMinutes: 60,
		LocationType: domain.LocationStudio, IsActive: true,
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.SessionTypes(), store.Availability(), logger.NewNop()).
		WithTimeProvider(fixedTime{now}).
		WithCapacityFloor(8)

	return &fixture{store: store, uc: uc, sessionType: st}
}

func (f *fixture) book(t *testing.T, d time.Time, start, end string, status domain.BookingStatus) {
	t.Helper()
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		UUID: uuid.New(), OwnerID: ownerID, SessionTypeID: f.sessionType.ID,
		BookingDate: d, StartTime: types.TimeString(start), EndTime: types.TimeString(end), Status: status,
	})
	require.NoError(t, err)
}

func TestGetCalendar_Daily(t *testing.T) {
	f := newFixture(t)
	f.book(t, date(16), "09:00", "10:00", domain.StatusConfirmed)
	f.book(t, date(16), "11:00", "12:00", domain.StatusCanceled)
	f.book(t, date(16), "12:00", "13:00", domain.StatusNoShow)

	resp, err := f.uc.Execute(context.Background(), &Request{
		OwnerID: ownerID, View: domain.ViewDaily, StartDate: date(16), SessionTypeID: &f.sessionType.ID,
	})
	require.NoError(t, err)

	require.Len(t, resp.Bookings, 3)
	require.NotNil(t, resp.Bookings[0].Offset)
	assert.Equal(t, domain.TimeOffset{StartMinute: 540, EndMinute: 600}, *resp.Bookings[0].Offset)

	require.Len(t, resp.ExternalEvents, 1)
	assert.Equal(t, domain.TimeOffset{StartMinute: 600, EndMinute: 660}, *resp.ExternalEvents[0].Offset)

	// 4 часа минус час внешнего события = 3 сессии, занята одна (отмена и неявка не считаются)
	require.Len(t, resp.DailyStats, 1)
	assert.Equal(t, 1, resp.DailyStats[0].Count)
	assert.Equal(t, 3, resp.DailyStats[0].Max)
	assert.Equal(t, 33.3, resp.DailyStats[0].Percentage)
	assert.Nil(t, resp.Grid)
}

func TestGetCalendar_WeeklyDefaultsToMondayWeek(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{OwnerID: ownerID, View: domain.ViewWeekly, StartDate: date(16)})
	require.NoError(t, err)

	assert.Equal(t, date(13), resp.StartDate)
	assert.Equal(t, date(19), resp.EndDate)
	require.Len(t, resp.DailyStats, 7)

	// Без типа сессии открытый день получает floor, заблокированный и выходные 0
	assert.Equal(t, 8, resp.DailyStats[0].Max)
	assert.True(t, resp.DailyStats[2].Blocked)
	assert.Equal(t, 0, resp.DailyStats[2].Max)
	assert.Equal(t, 0, resp.DailyStats[5].Max)
	require.Len(t, resp.BlockedDates, 1)
}

func TestGetCalendar_MonthlyGrid(t *testing.T) {
	f := newFixture(t)
	f.book(t, date(14), "09:00", "10:00", domain.StatusPending)
	f.book(t, date(14), "10:00", "11:00", domain.StatusCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{OwnerID: ownerID, View: domain.ViewMonthly, StartDate: date(20)})
	require.NoError(t, err)

	require.Len(t, resp.Grid, 42)
	// Октябрь 2025 начинается в среду: сетка с понедельника 29.09
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), resp.Grid[0].Date)
	assert.False(t, resp.Grid[0].InMonth)
	assert.True(t, resp.Grid[2].InMonth)
	assert.Equal(t, time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC), resp.Grid[41].Date)

	for _, cell := range resp.Grid {
		switch {
		case cell.Date.Equal(date(14)):
			assert.Equal(t, 2, cell.BookingCount)
		case cell.Date.Equal(date(13)):
			assert.True(t, cell.IsToday)
		default:
			assert.False(t, cell.IsToday)
		}
	}

	assert.Nil(t, resp.Bookings[0].Offset)
	assert.Len(t, resp.DailyStats, 42)
}

func TestGetCalendar_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		req      *Request
		expected error
	}{
		{"unknown view", &Request{OwnerID: ownerID, View: "yearly", StartDate: date(1)}, ErrInvalidInput},
		{"inverted range", &Request{OwnerID: ownerID, View: domain.ViewWeekly, StartDate: date(10), EndDate: ptr.Ptr(date(1))}, ErrInvalidInput},
		{"too long", &Request{OwnerID: ownerID, View: domain.ViewWeekly, StartDate: date(1), EndDate: ptr.Ptr(date(1).AddDate(0, 3, 0))}, ErrInvalidInput},
		{"unknown session type", &Request{OwnerID: ownerID, View: domain.ViewDaily, StartDate: date(1), SessionTypeID: ptr.Ptr(int64(999))}, ErrSessionTypeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
