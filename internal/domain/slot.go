package domain

import "github.com/vkarpenko/shine-booking/pkg/types"

// SlotGrid computes the ordered candidate start times for one day: every
// granularity step in [open, close), excluding starts whose end
// (start + durationMinutes) lands on or after closing time. A duration that
// does not fit the open window yields an empty grid, not an error.
// Pure and deterministic; recomputed on every call.
func SlotGrid(open, close types.TimeString, granularityMinutes, durationMinutes int) []types.TimeString {
	grid := make([]types.TimeString, 0)
	if granularityMinutes <= 0 || durationMinutes <= 0 {
		return grid
	}
	if open.Validate() != nil || close.Validate() != nil {
		return grid
	}

	current := open
	for current.IsBefore(close) {
		// keep the start only when the whole service finishes strictly
		// before closing; an end exactly at closing time is excluded
		if end, err := current.AddMinutes(durationMinutes); err == nil && end.IsBefore(close) {
			grid = append(grid, current)
		}
		next, err := current.AddMinutes(granularityMinutes)
		if err != nil {
			break
		}
		current = next
	}

	return grid
}

// IsSlotBookable decides whether a candidate slot can be booked against the
// same-day reservation set. Only active reservations (pending/confirmed) block.
//
// Default semantics: true half-open interval overlap. The reference system
// blocked a slot only on exact start-time equality, which under-detects
// conflicts when durations differ; that behavior survives as legacyExactMatch
// for strict parity deployments.
func IsSlotBookable(start types.TimeString, durationMinutes int, existing []*Reservation, legacyExactMatch bool) bool {
	return CountSlotConflicts(start, durationMinutes, existing, legacyExactMatch) == 0
}

// CountSlotConflicts counts active reservations conflicting with the candidate
// slot. Malformed time values in existing records count as no occupancy.
func CountSlotConflicts(start types.TimeString, durationMinutes int, existing []*Reservation, legacyExactMatch bool) int {
	count := 0
	for _, r := range existing {
		if r == nil || !r.IsActive() {
			continue
		}
		if legacyExactMatch {
			if r.StartTime == start {
				count++
			}
			continue
		}
		if r.Overlaps(start, durationMinutes) {
			count++
		}
	}
	return count
}
