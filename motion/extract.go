package motion

import (
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// Candidates extracts one bounding rectangle per contour of a binary mask.
//
// Contours are retrieved with RetrievalCComp, so the boundaries of holes
// inside a blob are reported next to the blob's outer boundary. The order is
// whatever OpenCV traverses; callers may rely on it for tie-breaking within a
// cycle only.
//
// Arguments:
//   - mask: A CV8UC1 image with pixel values 0 or 255.
//
// Returns:
//   - []images.Rect: The candidate regions, nil for an empty mask.
func Candidates(mask gocv.Mat) []images.Rect {
	if mask.Empty() {
		return nil
	}

	contours := gocv.FindContours(mask, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return nil
	}

	rects := make([]images.Rect, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rects = append(rects, images.RectFromRectangle(gocv.BoundingRect(contours.At(i))))
	}
	return rects
}
