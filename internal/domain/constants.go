package domain

// Значения настроек по умолчанию
const (
	DefaultBufferMinutes   = 0
	DefaultMaxDaily        = 0 // 0 = без ограничения
	DefaultMinNoticeHours  = 0
	DefaultMaxAdvanceDays  = 0 // 0 = без ограничения
	DefaultTimezone        = "UTC"
	DefaultSuggestionLimit = 3
	DefaultCapacityFloor   = 8
)

// Ограничения бизнес-валидации
const (
	MinSessionDurationMinutes = 5
	MaxSessionDurationMinutes = 720
	MaxBufferMinutes          = 240
	MaxDailyLimit             = 100
	MaxNoticeHours            = 24 * 30
	MaxAdvanceDaysLimit       = 730
	MaxNotesLength            = 2000
	MaxReasonLength           = 500
	MaxBatchRows              = 500
	MaxCalendarRangeDays      = 62
	MaxStatsRangeDays         = 366
)

// Форматы даты и времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses статусы, занимающие время в календаре
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses статусы, не блокирующие слоты
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCanceled,
	StatusNoShow,
}
