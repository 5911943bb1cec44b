package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectXYWH(t *testing.T) {
	r := RectXYWH(2, 3, 5, 7)

	assert.Equal(t, Rect{2, 3, 7, 10}, r)
	assert.Equal(t, 5, r.Dx())
	assert.Equal(t, 7, r.Dy())
	assert.Equal(t, image.Pt(2, 3), r.TopLeft())
	assert.Equal(t, image.Pt(7, 10), r.BottomRight())
	assert.Equal(t, "{2,3,5,7}", r.String())
}

func TestRectRectangleRoundTrip(t *testing.T) {
	ir := image.Rect(4, 6, 20, 30)
	r := RectFromRectangle(ir)

	assert.Equal(t, Rect{4, 6, 20, 30}, r)
	assert.Equal(t, ir, r.Rectangle())
}

func TestRectBound(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected Rect
	}{
		{"disjoint", RectXYWH(0, 0, 5, 5), RectXYWH(10, 10, 5, 5), Rect{0, 0, 15, 15}},
		{"nested", RectXYWH(0, 0, 20, 20), RectXYWH(2, 2, 5, 5), Rect{0, 0, 20, 20}},
		{"partial overlap", RectXYWH(0, 0, 10, 10), RectXYWH(5, 5, 10, 10), Rect{0, 0, 15, 15}},
		{"degenerate point outside", RectXYWH(0, 0, 10, 10), RectXYWH(30, 30, 0, 0), Rect{0, 0, 30, 30}},
		{"degenerate line inside", RectXYWH(0, 0, 10, 10), RectXYWH(3, 3, 4, 0), Rect{0, 0, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Bound(tt.b))
			assert.Equal(t, tt.expected, tt.b.Bound(tt.a))
		})
	}
}

func TestRectContains(t *testing.T) {
	outer := RectXYWH(0, 0, 20, 20)

	assert.True(t, outer.Contains(RectXYWH(2, 2, 5, 5)))
	assert.True(t, outer.Contains(outer), "identical rectangles contain each other")
	assert.True(t, outer.Contains(RectXYWH(20, 20, 0, 0)), "corner point lies on the bounds")
	assert.False(t, outer.Contains(RectXYWH(15, 15, 10, 10)))
	assert.False(t, outer.Contains(RectXYWH(25, 25, 0, 0)))
	assert.False(t, RectXYWH(2, 2, 5, 5).Contains(outer))
}

func TestRectIn(t *testing.T) {
	assert.True(t, RectXYWH(0, 0, 50, 50).In(50, 50))
	assert.True(t, RectXYWH(10, 10, 0, 0).In(50, 50))
	assert.False(t, RectXYWH(40, 40, 20, 5).In(50, 50))
	assert.False(t, RectXYWH(-1, 0, 5, 5).In(50, 50))
}
