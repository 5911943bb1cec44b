package motion

import "github.com/nvr-ai/motion-strip/images"

// Unassigned marks a candidate with no containing parent.
const Unassigned = -1

// MergeGroups assigns every candidate that is enclosed by another candidate
// to a representative, and returns the parent index per candidate.
//
// Pairs (i, j) with i < j are visited in order, skipping candidates that are
// already absorbed. When the bound of the pair equals candidate i, j is
// absorbed into i and the scan goes on. When it equals candidate j, i is
// absorbed into j and the scan for i stops. Identical rectangles therefore
// keep the lower index. Partial overlaps and disjoint pairs are left alone.
//
// The candidates are not modified.
//
// Arguments:
//   - candidates: The raw regions of one cycle, in extractor order.
//
// Returns:
//   - []int: parent[i] is the index that absorbed candidate i, or Unassigned.
//
// @example
// parent := MergeGroups([]images.Rect{images.RectXYWH(0, 0, 20, 20), images.RectXYWH(2, 2, 5, 5)})
// // parent == []int{-1, 0}
func MergeGroups(candidates []images.Rect) []int {
	parent := make([]int, len(candidates))
	for i := range parent {
		parent[i] = Unassigned
	}

	for i := range candidates {
		if parent[i] != Unassigned {
			continue
		}
		a := candidates[i]

		for j := i + 1; j < len(candidates); j++ {
			if parent[j] != Unassigned {
				continue
			}
			b := candidates[j]
			u := a.Bound(b)

			if u == a {
				parent[j] = i
			} else if u == b {
				parent[i] = j
				break
			}
		}
	}

	return parent
}

// Survivors returns the candidates without a parent, in index order.
func Survivors(candidates []images.Rect, parent []int) []images.Rect {
	out := make([]images.Rect, 0, len(candidates))
	for i, p := range parent {
		if p == Unassigned {
			out = append(out, candidates[i])
		}
	}
	return out
}

// Deduplicate collapses a candidate set so that no surviving region is
// enclosed by another. It is MergeGroups followed by Survivors.
func Deduplicate(candidates []images.Rect) []images.Rect {
	if len(candidates) == 0 {
		return nil
	}
	return Survivors(candidates, MergeGroups(candidates))
}
