package controller

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// Capture is a FrameSource over a camera device or a video file.
type Capture struct {
	vc *gocv.VideoCapture
}

// OpenCapture opens a camera by device id (int) or a video file by path (string).
//
// Arguments:
//   - device: The device id or file path.
//
// Returns:
//   - *Capture: The opened source.
//   - error: If the device or file cannot be opened.
func OpenCapture(device interface{}) (*Capture, error) {
	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, errors.Wrapf(err, "opening video capture %v", device)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, errors.Errorf("video capture %v is not open", device)
	}
	return &Capture{vc: vc}, nil
}

// Read implements FrameSource.
func (c *Capture) Read(frame *gocv.Mat) bool {
	return c.vc.Read(frame)
}

// SetSize requests a frame size from the device. Video files ignore it.
func (c *Capture) SetSize(size images.CaptureSize) error {
	if !c.vc.IsOpened() {
		return errors.New("video capture is closed")
	}
	c.vc.Set(gocv.VideoCaptureFrameWidth, float64(size.Width))
	c.vc.Set(gocv.VideoCaptureFrameHeight, float64(size.Height))
	return nil
}

// Close releases the device.
func (c *Capture) Close() error {
	return c.vc.Close()
}
