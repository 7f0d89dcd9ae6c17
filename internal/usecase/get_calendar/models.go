package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Request модель запроса календаря
type Request struct {
	OwnerID       int64
	View          domain.CalendarViewKind
	StartDate     time.Time  // Для monthly достаточно любой даты месяца
	EndDate       *time.Time // Если не задан: день, неделя или месяц от StartDate
	SessionTypeID *int64     // Тип сессии для расчета вместимости дня
	CapacityFloor int        // Вместимость открытого дня без типа сессии, 0 = из настроек сервиса
}

// Response представление календаря
type Response struct {
	View      domain.CalendarViewKind
	StartDate time.Time
	EndDate   time.Time

	Bookings       []BookingEntry
	DailyStats     []DayStat
	BlockedDates   []domain.BlockedDate
	ExternalEvents []ExternalEvent

	// Только для monthly: 42 ячейки с понедельника
	Grid []domain.GridDay
}

// BookingEntry бронирование с положением внутри дня
// Offset заполняется для daily и weekly
type BookingEntry struct {
	Booking *domain.Booking
	Offset  *domain.TimeOffset
}

// ExternalEvent занятый интервал внешнего календаря
type ExternalEvent struct {
	Interval domain.BusyInterval
	Offset   *domain.TimeOffset
}

// DayStat загрузка конкретной даты
type DayStat struct {
	Date    time.Time
	Blocked bool
	domain.DailyStat
}
