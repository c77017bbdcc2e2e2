package texpkg

import "sort"

// DiffResult classifies the elements of a desired set against an existing
// set. It is produced by [Diff] and used both for LaTeX-level requirement
// diffs and distribution-level install diffs.
type DiffResult[T ~string] struct {
	ToAdd     []T // in want, not in have
	ToRemove  []T // in have, not in want
	Unchanged []T // in both
}

// Empty reports whether the diff contains no additions or removals.
func (d DiffResult[T]) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Diff computes the set difference between want and have. Inputs may
// contain duplicates and arbitrary ordering; each output slice is
// deduplicated and sorted so diffs are stable across runs.
func Diff[T ~string](want, have []T) DiffResult[T] {
	wantSet := toSet(want)
	haveSet := toSet(have)

	var d DiffResult[T]
	for w := range wantSet {
		if haveSet[w] {
			d.Unchanged = append(d.Unchanged, w)
		} else {
			d.ToAdd = append(d.ToAdd, w)
		}
	}
	for h := range haveSet {
		if !wantSet[h] {
			d.ToRemove = append(d.ToRemove, h)
		}
	}

	sortSlice(d.ToAdd)
	sortSlice(d.ToRemove)
	sortSlice(d.Unchanged)
	return d
}

func toSet[T ~string](items []T) map[T]bool {
	s := make(map[T]bool, len(items))
	for _, it := range items {
		s[it] = true
	}
	return s
}

func sortSlice[T ~string](s []T) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
