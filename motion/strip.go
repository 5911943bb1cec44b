package motion

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// Slot is the placement of one region inside the composite strip.
type Slot struct {
	// Region is the source-frame rectangle that was copied.
	Region images.Rect
	// Offset is the first strip column the region occupies.
	Offset int
}

// Target returns the rectangle the region occupies inside the strip.
func (s Slot) Target() images.Rect {
	return images.RectXYWH(s.Offset, 0, s.Region.Dx(), s.Region.Dy())
}

// Layout describes how regions were packed into a strip.
type Layout struct {
	Slots  []Slot
	Width  int
	Height int
}

// PlanStrip computes the strip layout for a set of regions without touching
// any pixels: height is the tallest region, width is the sum of widths, and
// every region starts where the previous one ended.
//
// Arguments:
//   - regions: Surviving regions in placement order.
//
// Returns:
//   - Layout: The strip size and one slot per region.
func PlanStrip(regions []images.Rect) Layout {
	layout := Layout{Slots: make([]Slot, 0, len(regions))}
	for _, r := range regions {
		layout.Slots = append(layout.Slots, Slot{Region: r, Offset: layout.Width})
		layout.Width += r.Dx()
		layout.Height = max(layout.Height, r.Dy())
	}
	return layout
}

// Composite copies the pixels of every region of src side by side into a new
// zero-filled strip.
//
// Regions keep their exact size and values, start at row 0, and rows below a
// shorter region stay black. Zero-area regions get a slot but copy nothing.
//
// Arguments:
//   - src: The CV8UC3 source frame the regions index into. It is only read.
//   - regions: Surviving regions in placement order.
//
// Returns:
//   - gocv.Mat: The strip. The caller owns it and must Close it.
//   - Layout: The placement used.
//   - bool: false when there is nothing to show (no regions, or zero width or
//     height); the returned Mat is then empty.
//   - error: ErrInvalidSourceFrame or ErrRegionOutOfBounds.
func Composite(src gocv.Mat, regions []images.Rect) (gocv.Mat, Layout, bool, error) {
	layout := PlanStrip(regions)

	if src.Empty() || src.Type() != gocv.MatTypeCV8UC3 {
		return gocv.NewMat(), layout, false, ErrInvalidSourceFrame
	}
	for _, r := range regions {
		if !r.In(src.Cols(), src.Rows()) {
			return gocv.NewMat(), layout, false, errors.Wrapf(ErrRegionOutOfBounds, "region %s in %dx%d frame", r, src.Cols(), src.Rows())
		}
	}

	if layout.Width == 0 || layout.Height == 0 {
		return gocv.NewMat(), layout, false, nil
	}

	strip := gocv.Zeros(layout.Height, layout.Width, gocv.MatTypeCV8UC3)

	for _, slot := range layout.Slots {
		if slot.Region.Empty() {
			continue
		}
		from := src.Region(slot.Region.Rectangle())
		to := strip.Region(slot.Target().Rectangle())
		from.CopyTo(&to)
		to.Close()
		from.Close()
	}

	return strip, layout, true, nil
}
