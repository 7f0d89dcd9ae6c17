package get_stats

import "time"

// Request модель запроса статистики за период
type Request struct {
	OwnerID   int64
	StartDate time.Time
	EndDate   time.Time
}

// Response статистика бронирований за период
type Response struct {
	StartDate time.Time
	EndDate   time.Time

	Totals         Totals
	Capacity       Capacity
	Rates          Rates
	BusiestDay     *DayCount // nil, если бронирований нет
	BySessionType  []SessionTypeCount
	DailyBreakdown []DayCount
}

// Totals количество бронирований по статусам
type Totals struct {
	Bookings      int
	Pending       int
	Confirmed     int
	Completed     int
	Canceled      int
	NoShow        int
	StudentsTotal int
}

// Capacity использование вместимости открытых дней
type Capacity struct {
	TotalSlots int
	UsedSlots  int
	Percentage float64
}

// Rates доли от всех бронирований периода, в процентах
type Rates struct {
	NoShowRate     float64
	CancelRate     float64
	CompletionRate float64
}

// SessionTypeCount бронирования одного типа сессии
type SessionTypeCount struct {
	ID    int64
	Key   string
	Name  string
	Count int
}

// DayCount загрузка одной даты
type DayCount struct {
	Date       time.Time
	Count      int
	Percentage float64
}
