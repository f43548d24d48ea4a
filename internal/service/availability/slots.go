package availability

import (
	"sort"

	"github.com/m04kA/SMC-DoctorScheduling/internal/domain"
	"github.com/m04kA/SMC-DoctorScheduling/pkg/types"
)

// window полуинтервал [start, end) в минутах от полуночи
type window struct {
	start int
	end   int
}

// GenerateDaySlots генерирует начала слотов фиксированной длины на один день недели.
// Если honorRanges включен и врач задал диапазоны, слоты нарезаются внутри
// объединённых диапазонов, иначе по сетке рабочих часов клиники.
// Слот, который не помещается целиком до конца окна, отбрасывается.
func GenerateDaySlots(
	day domain.DaySchedule,
	slotDurationMinutes int,
	hours domain.BusinessHours,
	honorRanges bool,
) []types.TimeString {
	slots := make([]types.TimeString, 0)

	if !day.Available || slotDurationMinutes <= 0 {
		return slots
	}

	windows := []window{{start: hours.Open.Minutes(), end: hours.Close.Minutes()}}
	if honorRanges && len(day.TimeSlots) > 0 {
		windows = mergeRanges(day.TimeSlots)
	}

	for _, w := range windows {
		if w.start < 0 || w.end <= w.start {
			continue
		}
		for m := w.start; m+slotDurationMinutes <= w.end; m += slotDurationMinutes {
			slot, err := types.NewTimeStringFromMinutes(m)
			if err != nil {
				break
			}
			slots = append(slots, slot)
		}
	}

	return slots
}

// mergeRanges сортирует диапазоны и склеивает пересекающиеся и смежные.
// Некорректные диапазоны пропускаются.
func mergeRanges(ranges []domain.TimeRange) []window {
	windows := make([]window, 0, len(ranges))
	for _, r := range ranges {
		start, end := r.Start.Minutes(), r.End.Minutes()
		if start < 0 || end <= start {
			continue
		}
		windows = append(windows, window{start: start, end: end})
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].start < windows[j].start })

	merged := make([]window, 0, len(windows))
	for _, w := range windows {
		last := len(merged) - 1
		if last >= 0 && w.start <= merged[last].end {
			if w.end > merged[last].end {
				merged[last].end = w.end
			}
			continue
		}
		merged = append(merged, w)
	}

	return merged
}
