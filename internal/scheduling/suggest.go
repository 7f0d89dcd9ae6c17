package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Nearest до limit слотов, ближайших к requested; при равном расстоянии раньше идет более ранний
func Nearest(slots []domain.Slot, requested types.TimeString, limit int) []domain.Slot {
	if limit <= 0 || len(slots) == 0 {
		return []domain.Slot{}
	}

	sorted := make([]domain.Slot, len(slots))
	copy(sorted, slots)

	target := requested.Minutes()
	sort.SliceStable(sorted, func(i, j int) bool {
		di := abs(sorted[i].StartTime.Minutes() - target)
		dj := abs(sorted[j].StartTime.Minutes() - target)
		if di == dj {
			return sorted[i].StartTime.Minutes() < sorted[j].StartTime.Minutes()
		}
		return di < dj
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Suggest ближайшие к requested свободные слоты на ту же дату
func Suggest(in Input, requested types.TimeString, limit int) []domain.Slot {
	return Nearest(GenerateSlots(in), requested, limit)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
