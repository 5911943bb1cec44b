package motion

import (
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// Annotate draws each region's outline and the configured label at its
// top-left corner onto frame.
//
// It must run after Composite has read frame, so the strip holds clean crops.
func Annotate(frame *gocv.Mat, regions []images.Rect, cfg Config) {
	for _, r := range regions {
		gocv.Rectangle(frame, r.Rectangle(), cfg.Color, cfg.Thickness)
		gocv.PutText(frame, cfg.Label, r.TopLeft(), cfg.Font, cfg.FontScale, cfg.Color, cfg.FontThickness)
	}
}
