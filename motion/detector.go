// Package motion turns a binary change mask into a minimal set of moving
// regions, packs their pixels into a strip and marks them on the frame.
//
// One call to Detector.Process is one frame cycle:
//
//	mask ─► Candidates ─► Deduplicate ─► Composite ─► Annotate
//
// Nothing is carried over from one cycle to the next.
package motion

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// Result is the outcome of one frame cycle.
type Result struct {
	// Candidates are the raw contour rectangles, in extractor order.
	Candidates []images.Rect
	// Regions are the surviving regions, in candidate order.
	Regions []images.Rect
	// Strip is the composite of Regions. Only use it when HasStrip is true.
	Strip    gocv.Mat
	HasStrip bool
	// Layout records where each region went in Strip.
	Layout Layout

	owned bool
}

// Close releases the strip.
func (r *Result) Close() {
	if r.owned {
		r.Strip.Close()
		r.owned = false
	}
	r.HasStrip = false
}

// Detector runs the per-cycle region pipeline. It holds configuration only.
type Detector struct {
	config Config
}

// New creates a Detector. Unset style fields fall back to DefaultConfig.
func New(config Config) *Detector {
	config.Validate()
	return &Detector{config: config}
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Process runs one frame cycle.
//
// The mask and frame must come from the same capture and have the same size.
// Regions are read from frame for the strip before they are drawn onto it.
//
// Arguments:
//   - mask: CV8UC1 0/255 change mask.
//   - frame: CV8UC3 source frame; annotated in place.
//
// Returns:
//   - Result: Candidates, survivors and the strip. Close it when done.
//   - error: ErrInvalidInputDimensions, ErrInvalidMask or ErrInvalidSourceFrame
//     when the inputs are unusable; nothing is drawn in that case.
//
// @example
// res, err := detector.Process(mask, &frame)
// if err != nil {
//     return err
// }
// defer res.Close()
// if res.HasStrip {
//     window.IMShow(res.Strip)
// }
func (d *Detector) Process(mask gocv.Mat, frame *gocv.Mat) (Result, error) {
	if err := validateInputs(mask, *frame); err != nil {
		return Result{}, err
	}

	candidates := Candidates(mask)
	if len(candidates) == 0 {
		return Result{}, nil
	}

	regions := Deduplicate(candidates)

	strip, layout, ok, err := Composite(*frame, regions)
	if err != nil {
		strip.Close()
		return Result{}, errors.Wrap(err, "compositing regions")
	}

	Annotate(frame, regions, d.config)

	return Result{
		Candidates: candidates,
		Regions:    regions,
		Strip:      strip,
		HasStrip:   ok,
		Layout:     layout,
		owned:      true,
	}, nil
}

func validateInputs(mask, frame gocv.Mat) error {
	if mask.Empty() || mask.Channels() != 1 {
		return ErrInvalidMask
	}
	if frame.Empty() || frame.Type() != gocv.MatTypeCV8UC3 {
		return ErrInvalidSourceFrame
	}
	if mask.Rows() != frame.Rows() || mask.Cols() != frame.Cols() {
		return errors.Wrapf(ErrInvalidInputDimensions, "mask %dx%d, frame %dx%d",
			mask.Cols(), mask.Rows(), frame.Cols(), frame.Rows())
	}
	return nil
}
