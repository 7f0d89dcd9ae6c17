package scheduling

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Day правила доступности, относящиеся к одной дате
// Списки могут содержать записи других дат, они отфильтровываются
type Day struct {
	Date          time.Time
	Patterns      []domain.AvailabilityPattern
	Overrides     []domain.AvailabilityOverride
	BlockedDates  []domain.BlockedDate
	BusyIntervals []domain.BusyInterval
}

// RawWindows окна доступности до вычитания блокировок
// Если на дату есть override, используются только они, иначе шаблоны дня недели
func (d Day) RawWindows() []Interval {
	var fromOverrides []Interval
	for _, o := range d.Overrides {
		if domain.SameDay(o.Date, d.Date) {
			fromOverrides = append(fromOverrides, NewInterval(o.StartTime, o.EndTime))
		}
	}
	if len(fromOverrides) > 0 {
		return Merge(fromOverrides)
	}

	weekday := int(d.Date.Weekday())
	var fromPatterns []Interval
	for _, p := range d.Patterns {
		if p.IsActive && p.Weekday == weekday {
			fromPatterns = append(fromPatterns, NewInterval(p.StartTime, p.EndTime))
		}
	}
	return Merge(fromPatterns)
}

// Blocked дата закрыта хотя бы одним диапазоном
func (d Day) Blocked() *domain.BlockedDate {
	for i := range d.BlockedDates {
		if d.BlockedDates[i].Covers(d.Date) {
			return &d.BlockedDates[i]
		}
	}
	return nil
}

// Busy внешние занятые интервалы этой даты
func (d Day) Busy() []domain.BusyInterval {
	var busy []domain.BusyInterval
	for _, b := range d.BusyIntervals {
		if domain.SameDay(b.Date, d.Date) {
			busy = append(busy, b)
		}
	}
	return busy
}

// Windows окна доступности за вычетом блокировок и внешних событий
func (d Day) Windows() []Interval {
	if d.Blocked() != nil {
		return nil
	}
	busy := d.Busy()
	cuts := make([]Interval, 0, len(busy))
	for _, b := range busy {
		cuts = append(cuts, NewInterval(b.StartTime, b.EndTime))
	}
	return Subtract(d.RawWindows(), cuts)
}
