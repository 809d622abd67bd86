package gaps

import (
	"cmp"
	"slices"

	"github.com/matzehuels/spacemark/pkg/geom"
)

// Resolve returns the gaps left in [0, extent] by intervals.
//
// The input is not modified. Zero-width gaps are never emitted, except
// that an empty (or fully filtered) input always yields the single gap
// (0, extent).
func Resolve(intervals []geom.Interval, extent float64) []geom.Interval {
	return Synthesize(FilterContained(Sort(intervals)), extent)
}

// Sort returns a copy of intervals ordered by Start.
// The sort is stable so equal starts keep their input order.
func Sort(intervals []geom.Interval) []geom.Interval {
	sorted := slices.Clone(intervals)
	slices.SortStableFunc(sorted, func(a, b geom.Interval) int {
		return cmp.Compare(a.Start, b.Start)
	})
	return sorted
}

// FilterContained drops every interval strictly contained by another
// interval of the same list. Order is preserved.
func FilterContained(intervals []geom.Interval) []geom.Interval {
	kept := make([]geom.Interval, 0, len(intervals))
	for i, iv := range intervals {
		if !containedByOther(intervals, i, iv) {
			kept = append(kept, iv)
		}
	}
	return kept
}

func containedByOther(intervals []geom.Interval, self int, iv geom.Interval) bool {
	for j, other := range intervals {
		if j != self && other.Contains(iv) {
			return true
		}
	}
	return false
}

// Synthesize emits the gaps around an already sorted and filtered list of
// occupied intervals.
func Synthesize(occupied []geom.Interval, extent float64) []geom.Interval {
	if len(occupied) == 0 {
		return []geom.Interval{{Start: 0, End: extent}}
	}

	result := make([]geom.Interval, 0, len(occupied)+1)
	if first := occupied[0]; first.Start != 0 {
		result = append(result, geom.Interval{Start: 0, End: first.Start})
	}
	for i := 1; i < len(occupied); i++ {
		prev, curr := occupied[i-1], occupied[i]
		if curr.Start != prev.End {
			result = append(result, geom.Interval{Start: prev.End, End: curr.Start})
		}
	}
	if last := occupied[len(occupied)-1]; last.End != extent {
		result = append(result, geom.Interval{Start: last.End, End: extent})
	}
	return result
}
