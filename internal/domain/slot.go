package domain

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Slot свободный интервал длительностью в одну сессию
type Slot struct {
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// DurationMinutes длительность слота
func (s Slot) DurationMinutes() int {
	return s.EndTime.Minutes() - s.StartTime.Minutes()
}
