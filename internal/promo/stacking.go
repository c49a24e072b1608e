package promo

import (
	"bytes"
	"sort"
)

// ResolveStacking orders the eligible set by ascending priority (ascending
// id on ties, for determinism) and walks it applying exclusivity and
// stop-further-processing semantics:
//
//   - an exclusive promotion only applies when nothing applied before it,
//     and once applied it blocks everything after it;
//   - a stop-further-processing promotion applies normally but discards
//     every lower-priority candidate, eligible or not.
func ResolveStacking(eligible []Eligible) []Eligible {
	sorted := make([]Eligible, len(eligible))
	copy(sorted, eligible)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Promotion, sorted[j].Promotion
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})

	applied := make([]Eligible, 0, len(sorted))
	for _, candidate := range sorted {
		if candidate.Promotion.Exclusive {
			if len(applied) > 0 {
				continue
			}
			applied = append(applied, candidate)
			// Exclusive lock: nothing may join the applied set.
			break
		}
		applied = append(applied, candidate)
		if candidate.Promotion.StopFurtherProcessing {
			break
		}
	}
	return applied
}
