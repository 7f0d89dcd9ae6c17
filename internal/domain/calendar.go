package domain

import "time"

// CalendarViewKind вид календаря
type CalendarViewKind string

const (
	ViewDaily   CalendarViewKind = "daily"
	ViewWeekly  CalendarViewKind = "weekly"
	ViewMonthly CalendarViewKind = "monthly"
)

func (v CalendarViewKind) IsValid() bool {
	return v == ViewDaily || v == ViewWeekly || v == ViewMonthly
}

// DailyStat загрузка дня
type DailyStat struct {
	Count      int
	Max        int
	Percentage float64
}

// TimeOffset положение интервала внутри дня в минутах от полуночи
type TimeOffset struct {
	StartMinute int
	EndMinute   int
}

// Duration длительность в минутах
func (o TimeOffset) Duration() int {
	return o.EndMinute - o.StartMinute
}

// GridDay ячейка месячной сетки
type GridDay struct {
	Date         time.Time
	InMonth      bool
	IsToday      bool
	BookingCount int
}
