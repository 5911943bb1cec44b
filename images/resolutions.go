// Package images - This file contains the capture sizes the frame loop switches between.
package images

import (
	"fmt"
	"image"
)

// CaptureSizeName identifies a capture size.
type CaptureSizeName string

// Capture sizes requested from the video source.
const (
	CaptureSizeVGA  CaptureSizeName = "VGA"
	CaptureSizeHVGA CaptureSizeName = "HVGA"
)

// CaptureSize is a requested frame size for a video source.
type CaptureSize struct {
	Name   CaptureSizeName `json:"name" yaml:"name"`
	Width  int             `json:"width" yaml:"width"`
	Height int             `json:"height" yaml:"height"`
}

// String returns a human-readable summary of the capture size.
func (c CaptureSize) String() string {
	return fmt.Sprintf("%s (%dx%d)", c.Name, c.Width, c.Height)
}

// Pixels returns the number of pixels in one frame.
func (c CaptureSize) Pixels() int {
	return c.Width * c.Height
}

var captureSizes = map[CaptureSizeName]CaptureSize{
	CaptureSizeVGA:  {Name: CaptureSizeVGA, Width: 640, Height: 480},
	CaptureSizeHVGA: {Name: CaptureSizeHVGA, Width: 480, Height: 360},
}

// GetCaptureSize looks up a capture size by name.
//
// Arguments:
//   - name: The capture size name, e.g. CaptureSizeVGA.
//
// Returns:
//   - CaptureSize: The size, zero value if unknown.
//   - bool: Whether the name is known.
func GetCaptureSize(name CaptureSizeName) (CaptureSize, bool) {
	c, ok := captureSizes[name]
	return c, ok
}

// ToggleCaptureSize returns the size the loop switches to from the given one:
// VGA goes to HVGA and anything else goes back to VGA.
func ToggleCaptureSize(current CaptureSizeName) CaptureSize {
	if current == CaptureSizeVGA {
		return captureSizes[CaptureSizeHVGA]
	}
	return captureSizes[CaptureSizeVGA]
}

// Point returns the size as an image.Point for gocv calls.
func (c CaptureSize) Point() image.Point {
	return image.Pt(c.Width, c.Height)
}
