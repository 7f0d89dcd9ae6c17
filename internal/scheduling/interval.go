package scheduling

import (
	"sort"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// Interval полуоткрытый интервал [Start, End) в минутах от начала дня
type Interval struct {
	Start int
	End   int
}

// NewInterval интервал из пары HH:MM
func NewInterval(start, end types.TimeString) Interval {
	return Interval{Start: start.Minutes(), End: end.Minutes()}
}

func (i Interval) Len() int {
	return i.End - i.Start
}

func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Overlaps интервалы пересекаются (касание границ не считается)
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Contains o целиком лежит внутри i
func (i Interval) Contains(o Interval) bool {
	return i.Start <= o.Start && o.End <= i.End
}

// Merge объединяет пересекающиеся и смежные интервалы, результат отсортирован
func Merge(intervals []Interval) []Interval {
	list := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			list = append(list, iv)
		}
	}
	if len(list) == 0 {
		return nil
	}

	sort.Slice(list, func(i, j int) bool {
		if list[i].Start == list[j].Start {
			return list[i].End < list[j].End
		}
		return list[i].Start < list[j].Start
	})

	merged := []Interval{list[0]}
	for _, iv := range list[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Subtract вычитает cuts из windows
func Subtract(windows []Interval, cuts []Interval) []Interval {
	result := Merge(windows)
	for _, cut := range Merge(cuts) {
		next := make([]Interval, 0, len(result)+1)
		for _, w := range result {
			if !w.Overlaps(cut) {
				next = append(next, w)
				continue
			}
			if w.Start < cut.Start {
				next = append(next, Interval{Start: w.Start, End: cut.Start})
			}
			if cut.End < w.End {
				next = append(next, Interval{Start: cut.End, End: w.End})
			}
		}
		result = next
	}
	return result
}

// TotalMinutes суммарная длина интервалов
func TotalMinutes(intervals []Interval) int {
	total := 0
	for _, iv := range intervals {
		total += iv.Len()
	}
	return total
}
