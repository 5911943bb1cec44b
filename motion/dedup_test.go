package motion

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/nvr-ai/motion-strip/images"
)

func rect(x, y, w, h int) images.Rect {
	return images.RectXYWH(x, y, w, h)
}

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name       string
		candidates []images.Rect
		expected   []images.Rect
	}{
		{
			name:       "empty",
			candidates: nil,
			expected:   nil,
		},
		{
			name:       "single region",
			candidates: []images.Rect{rect(0, 0, 10, 10)},
			expected:   []images.Rect{rect(0, 0, 10, 10)},
		},
		{
			name:       "second inside first",
			candidates: []images.Rect{rect(0, 0, 20, 20), rect(2, 2, 5, 5)},
			expected:   []images.Rect{rect(0, 0, 20, 20)},
		},
		{
			name:       "first inside second",
			candidates: []images.Rect{rect(2, 2, 5, 5), rect(0, 0, 20, 20)},
			expected:   []images.Rect{rect(0, 0, 20, 20)},
		},
		{
			name:       "disjoint",
			candidates: []images.Rect{rect(0, 0, 5, 5), rect(10, 10, 5, 5)},
			expected:   []images.Rect{rect(0, 0, 5, 5), rect(10, 10, 5, 5)},
		},
		{
			name:       "identical duplicates",
			candidates: []images.Rect{rect(0, 0, 10, 10), rect(0, 0, 10, 10)},
			expected:   []images.Rect{rect(0, 0, 10, 10)},
		},
		{
			name:       "partial overlap is not merged",
			candidates: []images.Rect{rect(0, 0, 10, 10), rect(5, 5, 10, 10)},
			expected:   []images.Rect{rect(0, 0, 10, 10), rect(5, 5, 10, 10)},
		},
		{
			name:       "touching edges are not merged",
			candidates: []images.Rect{rect(0, 0, 10, 10), rect(10, 0, 10, 10)},
			expected:   []images.Rect{rect(0, 0, 10, 10), rect(10, 0, 10, 10)},
		},
		{
			name:       "nested chain collapses to the outermost",
			candidates: []images.Rect{rect(4, 4, 2, 2), rect(2, 2, 6, 6), rect(0, 0, 10, 10)},
			expected:   []images.Rect{rect(0, 0, 10, 10)},
		},
		{
			name: "container absorbed after absorbing others",
			candidates: []images.Rect{
				rect(10, 10, 20, 20),
				rect(50, 50, 5, 5),
				rect(12, 12, 3, 3),
				rect(0, 0, 40, 40),
			},
			expected: []images.Rect{rect(50, 50, 5, 5), rect(0, 0, 40, 40)},
		},
		{
			name:       "degenerate point inside a region",
			candidates: []images.Rect{rect(0, 0, 10, 10), rect(4, 4, 0, 0)},
			expected:   []images.Rect{rect(0, 0, 10, 10)},
		},
		{
			name:       "degenerate point outside every region",
			candidates: []images.Rect{rect(0, 0, 10, 10), rect(30, 30, 0, 0)},
			expected:   []images.Rect{rect(0, 0, 10, 10), rect(30, 30, 0, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate(tt.candidates)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Deduplicate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeGroups(t *testing.T) {
	tests := []struct {
		name       string
		candidates []images.Rect
		expected   []int
	}{
		{"empty", nil, []int{}},
		{"child after parent", []images.Rect{rect(0, 0, 20, 20), rect(2, 2, 5, 5)}, []int{-1, 0}},
		{"child before parent", []images.Rect{rect(2, 2, 5, 5), rect(0, 0, 20, 20)}, []int{1, -1}},
		{"lower index wins ties", []images.Rect{rect(0, 0, 10, 10), rect(0, 0, 10, 10), rect(0, 0, 10, 10)}, []int{-1, 0, 0}},
		{
			"absorbed subject stops scanning",
			[]images.Rect{rect(2, 2, 2, 2), rect(0, 0, 10, 10), rect(3, 3, 1, 1)},
			[]int{1, -1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MergeGroups(tt.candidates))
		})
	}
}

func TestMergeGroups_DoesNotMutateCandidates(t *testing.T) {
	candidates := []images.Rect{rect(0, 0, 20, 20), rect(2, 2, 5, 5), rect(30, 30, 4, 4)}
	before := append([]images.Rect(nil), candidates...)

	MergeGroups(candidates)

	assert.Equal(t, before, candidates)
}

func randomCandidates(rng *rand.Rand, n int) []images.Rect {
	out := make([]images.Rect, n)
	for i := range out {
		// A small coordinate space makes nesting and duplicates common.
		out[i] = rect(rng.Intn(30), rng.Intn(30), rng.Intn(20), rng.Intn(20))
	}
	return out
}

func TestDeduplicate_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 500; iter++ {
		candidates := randomCandidates(rng, rng.Intn(25))
		survivors := Deduplicate(candidates)

		// Monotonic reduction.
		assert.LessOrEqual(t, len(survivors), len(candidates))

		// No survivor contains another survivor.
		for a := range survivors {
			for b := range survivors {
				if a == b {
					continue
				}
				if survivors[a].Contains(survivors[b]) {
					t.Fatalf("iteration %d: %s contains %s in %v", iter, survivors[a], survivors[b], survivors)
				}
			}
		}

		// Every absorbed candidate is enclosed by its parent.
		parent := MergeGroups(candidates)
		for i, p := range parent {
			if p != Unassigned {
				assert.True(t, candidates[p].Contains(candidates[i]), "parent %d must contain %d", p, i)
			}
		}

		// Deduplicated input comes back unchanged, order preserved.
		if diff := cmp.Diff(survivors, Deduplicate(survivors)); len(survivors) > 0 && diff != "" {
			t.Fatalf("iteration %d: dedup not idempotent (-first +second):\n%s", iter, diff)
		}
	}
}

func TestDeduplicate_EqualityIffNoContainment(t *testing.T) {
	disjoint := []images.Rect{rect(0, 0, 5, 5), rect(10, 0, 5, 5), rect(0, 10, 5, 5), rect(3, 3, 5, 5)}
	assert.Len(t, Deduplicate(disjoint), len(disjoint))

	nested := append(disjoint, rect(11, 1, 2, 2))
	assert.Len(t, Deduplicate(nested), len(disjoint))
}
