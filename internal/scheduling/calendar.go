package scheduling

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// MonthGridCells размер месячной сетки: 6 недель по 7 дней
const MonthGridCells = 42

// DailyCapacity максимальное число сессий за день
// Без типа сессии возвращается floor для любого открытого дня
func DailyCapacity(day Day, durationMinutes int, maxDaily int, floor int) int {
	windows := day.Windows()
	if len(windows) == 0 {
		return 0
	}

	capacity := floor
	if durationMinutes > 0 {
		capacity = TotalMinutes(windows) / durationMinutes
	}
	if maxDaily > 0 && capacity > maxDaily {
		capacity = maxDaily
	}
	return capacity
}

// Percentage загрузка в процентах с одним знаком после запятой
func Percentage(count, max int) float64 {
	if max <= 0 {
		return 0
	}
	p := float64(count) / float64(max) * 100
	return float64(int(p*10+0.5)) / 10
}

// Offset положение интервала внутри дня
func Offset(start, end types.TimeString) domain.TimeOffset {
	return domain.TimeOffset{StartMinute: start.Minutes(), EndMinute: end.Minutes()}
}

// WeekStart понедельник недели, в которую входит date
func WeekStart(date time.Time) time.Time {
	d := domain.DateOnly(date)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// MonthGrid 42 даты месячной сетки, начиная с понедельника
// Включает хвост предыдущего и начало следующего месяца
func MonthGrid(year int, month time.Month, loc *time.Location) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := WeekStart(first)

	cells := make([]time.Time, MonthGridCells)
	for i := range cells {
		cells[i] = start.AddDate(0, 0, i)
	}
	return cells
}

// DatesBetween все даты диапазона включительно
func DatesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := domain.DateOnly(start); !d.After(domain.DateOnly(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
