package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/ptr"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

var (
	monday  = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
	// Задолго до тестовых дат, чтобы окно уведомления не мешало
	longBefore = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
)

func pattern(weekday int, start, end types.TimeString) domain.AvailabilityPattern {
	return domain.AvailabilityPattern{Weekday: weekday, StartTime: start, EndTime: end, IsActive: true}
}

func allWeek(start, end types.TimeString) []domain.AvailabilityPattern {
	patterns := make([]domain.AvailabilityPattern, 0, 7)
	for wd := 0; wd < 7; wd++ {
		patterns = append(patterns, pattern(wd, start, end))
	}
	return patterns
}

func session(duration, bufferAfter int) *domain.SessionType {
	return &domain.SessionType{ID: 1, Name: "Portrait", DurationMinutes: duration, BufferAfterMinutes: bufferAfter, IsActive: true}
}

func booking(id int64, date time.Time, start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		BookingNumber: "BK-TEST-" + string(rune('A'+id)),
		BookingDate:   date,
		StartTime:     start,
		EndTime:       end,
		Status:        status,
	}
}

func starts(slots []domain.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.StartTime.String()+"-"+s.EndTime.String())
	}
	return result
}

func TestMerge(t *testing.T) {
	merged := Merge([]Interval{{600, 720}, {540, 660}, {780, 840}, {840, 900}, {1000, 1000}})
	assert.Equal(t, []Interval{{540, 720}, {780, 900}}, merged)
	assert.Nil(t, Merge(nil))
}

func TestSubtract(t *testing.T) {
	windows := []Interval{{540, 720}, {780, 1020}}

	assert.Equal(t, []Interval{{540, 600}, {660, 720}, {780, 1020}}, Subtract(windows, []Interval{{600, 660}}))
	assert.Equal(t, []Interval{{540, 700}, {900, 1020}}, Subtract(windows, []Interval{{700, 900}}))
	assert.Empty(t, Subtract(windows, []Interval{{0, 1440}}))
	assert.Equal(t, []Interval{{540, 720}, {780, 1020}}, Subtract(windows, nil))
}

func TestGenerateSlots_WeekdayScenario(t *testing.T) {
	slots := GenerateSlots(Input{
		Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "11:00")}},
		SessionType: session(30, 0),
		Now:         longBefore,
	})

	assert.Equal(t, []string{"09:00-09:30", "09:30-10:00", "10:00-10:30", "10:30-11:00"}, starts(slots))
}

func TestGenerateSlots_WrongWeekdayIsEmpty(t *testing.T) {
	slots := GenerateSlots(Input{
		Day:         Day{Date: monday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "11:00")}},
		SessionType: session(30, 0),
		Now:         longBefore,
	})

	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestGenerateSlots_BookingInTheMiddle(t *testing.T) {
	t.Run("no buffer", func(t *testing.T) {
		slots := GenerateSlots(Input{
			Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "12:00")}},
			SessionType: session(60, 0),
			Bookings:    []*domain.Booking{booking(1, tuesday, "10:00", "11:00", domain.StatusConfirmed)},
			Now:         longBefore,
		})
		assert.Equal(t, []string{"09:00-10:00", "11:00-12:00"}, starts(slots))
	})

	t.Run("global buffer trims neighbours", func(t *testing.T) {
		slots := GenerateSlots(Input{
			Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "13:00")}},
			SessionType: session(60, 0),
			Settings:    domain.AvailabilitySettings{BufferMinutes: 15},
			Bookings:    []*domain.Booking{booking(1, tuesday, "10:30", "11:30", domain.StatusPending)},
			Now:         longBefore,
		})
		assert.Equal(t, []string{"09:00-10:00", "12:00-13:00"}, starts(slots))
	})

	t.Run("existing booking buffer wins when larger", func(t *testing.T) {
		existing := booking(1, tuesday, "10:00", "11:00", domain.StatusConfirmed)
		existing.BufferAfterMinutes = 30

		slots := GenerateSlots(Input{
			Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "13:00")}},
			SessionType: session(30, 0),
			Settings:    domain.AvailabilitySettings{BufferMinutes: 10},
			Bookings:    []*domain.Booking{existing},
			Now:         longBefore,
		})
		assert.Equal(t, []string{"09:00-09:30", "11:30-12:00", "12:00-12:30", "12:30-13:00"}, starts(slots))
	})

	t.Run("canceled bookings do not block", func(t *testing.T) {
		slots := GenerateSlots(Input{
			Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "11:00")}},
			SessionType: session(60, 0),
			Bookings: []*domain.Booking{
				booking(1, tuesday, "09:00", "10:00", domain.StatusCanceled),
				booking(2, tuesday, "10:00", "11:00", domain.StatusNoShow),
			},
			Now: longBefore,
		})
		assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, starts(slots))
	})
}

func TestGenerateSlots_BlockedDateWins(t *testing.T) {
	slots := GenerateSlots(Input{
		Day: Day{
			Date:     tuesday,
			Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "17:00")},
			Overrides: []domain.AvailabilityOverride{
				{Date: tuesday, StartTime: "18:00", EndTime: "20:00"},
			},
			BlockedDates: []domain.BlockedDate{{StartDate: monday, EndDate: tuesday}},
		},
		SessionType: session(30, 0),
		Now:         longBefore,
	})

	assert.Empty(t, slots)
}

func TestGenerateSlots_OverrideReplacesPattern(t *testing.T) {
	slots := GenerateSlots(Input{
		Day: Day{
			Date:     monday,
			Patterns: []domain.AvailabilityPattern{pattern(1, "09:00", "12:00")},
			Overrides: []domain.AvailabilityOverride{
				{Date: monday, StartTime: "14:00", EndTime: "16:00"},
				{Date: tuesday, StartTime: "08:00", EndTime: "09:00"},
			},
		},
		SessionType: session(60, 0),
		Now:         longBefore,
	})

	assert.Equal(t, []string{"14:00-15:00", "15:00-16:00"}, starts(slots))
}

func TestGenerateSlots_OverlappingPatternsAreMerged(t *testing.T) {
	slots := GenerateSlots(Input{
		Day: Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{
			pattern(2, "09:00", "11:00"),
			pattern(2, "10:00", "12:00"),
		}},
		SessionType: session(60, 0),
		Now:         longBefore,
	})

	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, starts(slots))
}

func TestGenerateSlots_ExternalBusyIntervalsSubtract(t *testing.T) {
	slots := GenerateSlots(Input{
		Day: Day{
			Date:     tuesday,
			Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "12:00")},
			BusyIntervals: []domain.BusyInterval{
				{Date: tuesday, StartTime: "10:00", EndTime: "10:30"},
				{Date: monday, StartTime: "09:00", EndTime: "12:00"},
			},
		},
		SessionType: session(30, 0),
		Now:         longBefore,
	})

	assert.Equal(t, []string{"09:00-09:30", "09:30-10:00", "10:30-11:00", "11:00-11:30", "11:30-12:00"}, starts(slots))
}

func TestGenerateSlots_NoticeBoundary(t *testing.T) {
	now := time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC)
	in := Input{
		Day:         Day{Date: tuesday, Patterns: allWeek("08:00", "18:00")},
		SessionType: session(60, 0),
		Settings:    domain.AvailabilitySettings{MinNoticeHours: 24},
		Now:         now,
	}

	slots := GenerateSlots(in)
	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
	for _, s := range slots {
		assert.False(t, s.StartTime.On(tuesday).Before(now.Add(24*time.Hour)))
	}

	err := CheckReservation(in, "09:00")
	var policyErr *domain.PolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, domain.RuleMinNotice, policyErr.Rule)
}

func TestGenerateSlots_SessionTypeOverridesNotice(t *testing.T) {
	now := time.Date(2025, 10, 14, 10, 0, 0, 0, time.UTC)
	st := session(60, 0)
	st.MinNoticeHours = ptr.Ptr(2)

	slots := GenerateSlots(Input{
		Day:         Day{Date: tuesday, Patterns: allWeek("08:00", "18:00")},
		SessionType: st,
		Settings:    domain.AvailabilitySettings{MinNoticeHours: 24},
		Now:         now,
	})

	require.NotEmpty(t, slots)
	assert.Equal(t, types.TimeString("12:00"), slots[0].StartTime)
}

func TestGenerateSlots_AdvanceBoundary(t *testing.T) {
	today := time.Date(2025, 10, 13, 9, 0, 0, 0, time.UTC)
	base := Input{
		Day:         Day{Patterns: allWeek("10:00", "12:00")},
		SessionType: session(60, 0),
		Settings:    domain.AvailabilitySettings{MaxAdvanceDays: 90},
		Now:         today,
	}

	in := base
	in.Day.Date = domain.DateOnly(today).AddDate(0, 0, 90)
	assert.NotEmpty(t, GenerateSlots(in))

	in.Day.Date = domain.DateOnly(today).AddDate(0, 0, 91)
	assert.Empty(t, GenerateSlots(in))

	err := CheckReservation(in, "10:00")
	var policyErr *domain.PolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, domain.RuleMaxAdvance, policyErr.Rule)
}

func TestGenerateSlots_PastDateIsEmpty(t *testing.T) {
	slots := GenerateSlots(Input{
		Day:         Day{Date: monday, Patterns: allWeek("09:00", "17:00")},
		SessionType: session(60, 0),
		Now:         time.Date(2025, 10, 20, 9, 0, 0, 0, time.UTC),
	})
	assert.Empty(t, slots)
}

func TestGenerateSlots_DailyCap(t *testing.T) {
	in := Input{
		Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "17:00")}},
		SessionType: session(60, 0),
		Settings:    domain.AvailabilitySettings{MaxDaily: 1},
		Bookings:    []*domain.Booking{booking(1, tuesday, "09:00", "10:00", domain.StatusConfirmed)},
		Now:         longBefore,
	}

	assert.Empty(t, GenerateSlots(in))

	err := CheckReservation(in, "13:00")
	var policyErr *domain.PolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, domain.RuleDailyLimit, policyErr.Rule)

	// При переносе собственное бронирование не считается
	in.ExcludeBookingID = 1
	assert.NotEmpty(t, GenerateSlots(in))
}

func TestGenerateSlots_IdempotentRead(t *testing.T) {
	in := Input{
		Day: Day{
			Date:          tuesday,
			Patterns:      []domain.AvailabilityPattern{pattern(2, "09:00", "17:00")},
			BusyIntervals: []domain.BusyInterval{{Date: tuesday, StartTime: "12:00", EndTime: "13:00"}},
		},
		SessionType: session(45, 15),
		Settings:    domain.AvailabilitySettings{BufferMinutes: 10},
		Bookings:    []*domain.Booking{booking(1, tuesday, "10:00", "11:00", domain.StatusConfirmed)},
		Now:         longBefore,
	}

	assert.Equal(t, GenerateSlots(in), GenerateSlots(in))
}

func TestCheckReservation_EveryGeneratedSlotIsReservable(t *testing.T) {
	in := Input{
		Day: Day{
			Date:          tuesday,
			Patterns:      []domain.AvailabilityPattern{pattern(2, "08:00", "12:00"), pattern(2, "13:00", "19:00")},
			BusyIntervals: []domain.BusyInterval{{Date: tuesday, StartTime: "15:10", EndTime: "15:50"}},
		},
		SessionType: session(40, 20),
		Settings:    domain.AvailabilitySettings{BufferMinutes: 10, MaxDaily: 10},
		Bookings: []*domain.Booking{
			booking(1, tuesday, "09:00", "10:00", domain.StatusConfirmed),
			booking(2, tuesday, "17:00", "17:40", domain.StatusPending),
		},
		Now: longBefore,
	}

	slots := GenerateSlots(in)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.NoError(t, CheckReservation(in, s.StartTime), "slot %s", s.StartTime)
	}
}

func TestCheckReservation_Conflicts(t *testing.T) {
	base := Input{
		Day: Day{
			Date:          tuesday,
			Patterns:      []domain.AvailabilityPattern{pattern(2, "09:00", "17:00")},
			BusyIntervals: []domain.BusyInterval{{Date: tuesday, StartTime: "14:00", EndTime: "15:00", Title: ptr.Ptr("Dentist")}},
		},
		SessionType: session(60, 0),
		Settings:    domain.AvailabilitySettings{BufferMinutes: 15},
		Bookings:    []*domain.Booking{booking(1, tuesday, "10:00", "11:00", domain.StatusConfirmed)},
		Now:         longBefore,
	}

	tests := []struct {
		name  string
		in    func() Input
		start types.TimeString
		kind  domain.ConflictKind
	}{
		{name: "time overlap", in: func() Input { return base }, start: "10:30", kind: domain.ConflictTimeOverlap},
		{name: "buffer overlap", in: func() Input { return base }, start: "11:10", kind: domain.ConflictBufferOverlap},
		{name: "external event", in: func() Input { return base }, start: "13:30", kind: domain.ConflictExternalEvent},
		{name: "outside availability", in: func() Input { return base }, start: "16:30", kind: domain.ConflictOutsideAvailability},
		{name: "blocked date", in: func() Input {
			in := base
			in.Day.BlockedDates = []domain.BlockedDate{{StartDate: tuesday, EndDate: tuesday, Reason: ptr.Ptr("Holiday")}}
			return in
		}, start: "12:00", kind: domain.ConflictBlockedDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReservation(tt.in(), tt.start)

			var conflictErr *domain.ConflictError
			require.True(t, errors.As(err, &conflictErr), "got %v", err)
			require.NotEmpty(t, conflictErr.Conflicts)
			assert.Equal(t, tt.kind, conflictErr.Conflicts[0].Kind)
			assert.True(t, errors.Is(err, domain.ErrConflict))
		})
	}
}

func TestCheckReservation_OffGridStartAccepted(t *testing.T) {
	in := Input{
		Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "12:00")}},
		SessionType: session(60, 0),
		Now:         longBefore,
	}

	assert.NoError(t, CheckReservation(in, "09:15"))
}

func TestCheckReservation_ExcludesRescheduledBooking(t *testing.T) {
	in := Input{
		Day:              Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "12:00")}},
		SessionType:      session(60, 0),
		Bookings:         []*domain.Booking{booking(7, tuesday, "09:00", "10:00", domain.StatusConfirmed)},
		Now:              longBefore,
		ExcludeBookingID: 7,
	}

	assert.NoError(t, CheckReservation(in, "09:30"))
}

func TestCheckReservation_InvalidStart(t *testing.T) {
	in := Input{
		Day:         Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "12:00")}},
		SessionType: session(60, 0),
		Now:         longBefore,
	}

	assert.ErrorIs(t, CheckReservation(in, "9am"), domain.ErrValidation)
}

func TestNearest(t *testing.T) {
	slots := []domain.Slot{
		{StartTime: "09:00", EndTime: "10:00"},
		{StartTime: "10:00", EndTime: "11:00"},
		{StartTime: "12:00", EndTime: "13:00"},
		{StartTime: "13:00", EndTime: "14:00"},
		{StartTime: "16:00", EndTime: "17:00"},
	}

	got := Nearest(slots, "11:00", 3)
	assert.Equal(t, []string{"10:00-11:00", "12:00-13:00", "09:00-10:00"}, starts(got))

	assert.Empty(t, Nearest(slots, "11:00", 0))
	assert.Len(t, Nearest(slots, "11:00", 10), 5)
}

func TestDailyCapacity(t *testing.T) {
	day := Day{Date: tuesday, Patterns: []domain.AvailabilityPattern{pattern(2, "09:00", "17:00")}}

	assert.Equal(t, 8, DailyCapacity(day, 60, 0, 5))
	assert.Equal(t, 4, DailyCapacity(day, 60, 4, 5))
	assert.Equal(t, 5, DailyCapacity(day, 0, 0, 5))

	closed := Day{Date: monday, Patterns: day.Patterns}
	assert.Equal(t, 0, DailyCapacity(closed, 60, 0, 5))

	blocked := day
	blocked.BlockedDates = []domain.BlockedDate{{StartDate: tuesday, EndDate: tuesday}}
	assert.Equal(t, 0, DailyCapacity(blocked, 60, 0, 5))
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 50.0, Percentage(4, 8))
	assert.Equal(t, 33.3, Percentage(1, 3))
}

func TestMonthGrid(t *testing.T) {
	grid := MonthGrid(2025, time.October, time.UTC)

	require.Len(t, grid, MonthGridCells)
	assert.Equal(t, time.Date(2025, 9, 29, 0, 0, 0, 0, time.UTC), grid[0])
	assert.Equal(t, time.Monday, grid[0].Weekday())
	assert.Equal(t, time.Date(2025, 11, 9, 0, 0, 0, 0, time.UTC), grid[41])

	// Месяц, начинающийся с понедельника
	grid = MonthGrid(2025, time.September, time.UTC)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), grid[0])
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2025, 10, 19, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(sunday))
	assert.Equal(t, monday, WeekStart(monday))
}

func TestOffset(t *testing.T) {
	off := Offset("09:30", "11:00")
	assert.Equal(t, 570, off.StartMinute)
	assert.Equal(t, 660, off.EndMinute)
	assert.Equal(t, 90, off.Duration())
}
