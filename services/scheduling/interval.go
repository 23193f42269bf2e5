package scheduling

import (
	"sort"
	"time"

	"slotify/models"
)

// Pure interval operations. Every function returns fresh slices and never
// mutates its input; persisted state is only ever changed by the coordinator
// and release paths.

// MergeSlots folds a slot set into maximal non-overlapping intervals, sorted
// by start. An inclusive boundary counts as contiguous: a slot starting
// exactly where the previous one ends is absorbed. Ties keep input order.
func MergeSlots(slots []models.Timeslot) []models.Timeslot {
	if len(slots) == 0 {
		return nil
	}

	sorted := make([]models.Timeslot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]models.Timeslot, 0, len(sorted))
	merged = append(merged, sorted[0])
	for _, s := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !s.Start.After(last.End) {
			if s.End.After(last.End) {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// AdjustForTransit pads slots inward for display: start advanced and end
// retracted by the given minutes. A view only; persisted slots are untouched.
// This is the dual of the outward padding the coordinator applies to a
// booking request, and the two must not be unified.
func AdjustForTransit(slots []models.Timeslot, minutes int) []models.Timeslot {
	if minutes <= 0 || len(slots) == 0 {
		out := make([]models.Timeslot, len(slots))
		copy(out, slots)
		return out
	}

	pad := time.Duration(minutes) * time.Minute
	out := make([]models.Timeslot, 0, len(slots))
	for _, s := range slots {
		s.Start = s.Start.Add(pad)
		s.End = s.End.Add(-pad)
		out = append(out, s)
	}
	return out
}

// SplitAroundOccupied returns the fragments of candidate that survive after
// excluding every occupied interval. Each occupied interval may trim a
// fragment's edge or bisect it into head and tail; booked intervals exclude
// using their transit-padded bounds.
func SplitAroundOccupied(candidate models.Timeslot, occupied []models.Timeslot) []models.Timeslot {
	fragments := []models.Timeslot{candidate}

	for _, occ := range occupied {
		occStart, occEnd := occ.OccupiedBounds()

		var next []models.Timeslot
		for _, f := range fragments {
			if !occStart.Before(f.End) || !occEnd.After(f.Start) {
				next = append(next, f)
				continue
			}
			if occStart.After(f.Start) {
				head := f
				head.End = occStart
				next = append(next, head)
			}
			if occEnd.Before(f.End) {
				tail := f
				tail.Start = occEnd
				next = append(next, tail)
			}
		}
		fragments = next
	}
	return fragments
}

// DurationMinutes returns the whole minutes between start and end, used to
// discard fragments shorter than a service's minimum bookable duration.
func DurationMinutes(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
