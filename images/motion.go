// Package images - This file contains the change-mask stage of the motion
// pipeline using OpenCV (via gocv).
//
// The FrameDiffSegmenter turns a stream of colour frames into binary masks
// where a set pixel (255) means the scene changed there:
//
// ┌──────────────┐
// │ Input Frame  │
// └──────┬───────┘
// ┌────────────────────────────────────────┐
// │ Grayscale + Gaussian blur (denoise)    │
// └──────┬─────────────────────────────────┘
// ┌────────────────────────────────────────┐
// │ Frame delay queue (compare to N-2)     │
// └──────┬─────────────────────────────────┘
// ┌────────────────────────────┐
// │ Absolute difference        │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Threshold (sensitivity)    │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Box blur + re-threshold    │
// └──────┬─────────────────────┘
// ┌────────────────────────────┐
// │ Change Mask Output         │
// └────────────────────────────┘
//
// Usage:
//
//	seg := images.NewFrameDiffSegmenter(images.DefaultSegmenterConfig())
//	defer seg.Close()
//
//	mask := gocv.NewMat()
//	defer mask.Close()
//	for {
//	    frame := getNextFrame()
//	    if ready, _ := seg.Apply(frame, &mask); ready {
//	        // mask is valid for this frame
//	    }
//	}
//
// Note: You must call Close() when finished to release native resources.
package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// SegmenterConfig parameterizes the change-mask pipeline.
type SegmenterConfig struct {
	// Sensitivity is the intensity difference threshold used by both threshold passes.
	Sensitivity float32 `json:"sensitivity" yaml:"sensitivity"`
	// BlurSize is the box blur kernel used to smooth the first threshold image.
	BlurSize int `json:"blurSize" yaml:"blurSize"`
	// GaussianKernelSize is the temporal noise filter kernel, must be odd.
	GaussianKernelSize int `json:"gaussianKernelSize" yaml:"gaussianKernelSize"`
	// FrameDelay is how many blurred frames are queued; the current frame is
	// compared with the one FrameDelay-1 cycles back.
	FrameDelay int `json:"frameDelay" yaml:"frameDelay"`
}

// DefaultSegmenterConfig returns the default change-mask configuration.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		Sensitivity:        20,
		BlurSize:           10,
		GaussianKernelSize: 21,
		FrameDelay:         3,
	}
}

// Validate normalizes out-of-range values back to defaults.
func (c *SegmenterConfig) Validate() error {
	def := DefaultSegmenterConfig()
	if c.Sensitivity <= 0 || c.Sensitivity >= 255 {
		c.Sensitivity = def.Sensitivity
	}
	if c.BlurSize <= 0 {
		c.BlurSize = def.BlurSize
	}
	if c.GaussianKernelSize <= 0 {
		c.GaussianKernelSize = def.GaussianKernelSize
	}
	if c.GaussianKernelSize%2 == 0 {
		return errors.Errorf("gaussian kernel size must be odd, got %d", c.GaussianKernelSize)
	}
	if c.FrameDelay < 2 {
		c.FrameDelay = def.FrameDelay
	}
	return nil
}

// FrameDiffSegmenter produces a binary change mask per frame by differencing
// the current blurred grey frame against a delayed one.
//
// It is stateful across frames (the delay queue) and keeps its intermediate
// Mats for inspection. Always call Close() when done.
type FrameDiffSegmenter struct {
	config SegmenterConfig
	queue  []gocv.Mat

	Gray      gocv.Mat // Blurred grey version of the latest input.
	Delta     gocv.Mat // Absolute difference against the delayed frame.
	Threshold gocv.Mat // Binary mask after the first threshold.
}

// NewFrameDiffSegmenter constructs a segmenter with initialized OpenCV matrices.
//
// Arguments:
//   - config: Pipeline parameters, see DefaultSegmenterConfig.
//
// Returns:
//   - *FrameDiffSegmenter: The segmenter, ready for Apply.
func NewFrameDiffSegmenter(config SegmenterConfig) *FrameDiffSegmenter {
	return &FrameDiffSegmenter{
		config:    config,
		queue:     make([]gocv.Mat, 0, config.FrameDelay),
		Gray:      gocv.NewMat(),
		Delta:     gocv.NewMat(),
		Threshold: gocv.NewMat(),
	}
}

// Config returns the segmenter configuration.
func (s *FrameDiffSegmenter) Config() SegmenterConfig {
	return s.config
}

// Apply runs the pipeline on a BGR frame and writes the binary mask to mask.
//
// Arguments:
//   - frame: The colour frame of this cycle.
//   - mask: Destination for the CV8UC1 0/255 change mask.
//
// Returns:
//   - bool: false while the delay queue is still filling; mask is untouched.
//   - error: If the frame is empty.
func (s *FrameDiffSegmenter) Apply(frame gocv.Mat, mask *gocv.Mat) (bool, error) {
	if frame.Empty() {
		return false, errors.New("segmenter: empty frame")
	}

	gocv.CvtColor(frame, &s.Gray, gocv.ColorBGRToGray)
	k := s.config.GaussianKernelSize
	gocv.GaussianBlur(s.Gray, &s.Gray, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	s.queue = append(s.queue, s.Gray.Clone())
	if len(s.queue) < s.config.FrameDelay {
		return false, nil
	}

	delayed := s.queue[0]
	s.queue = s.queue[1:]
	defer delayed.Close()

	gocv.AbsDiff(s.Gray, delayed, &s.Delta)
	gocv.Threshold(s.Delta, &s.Threshold, s.config.Sensitivity, 255, gocv.ThresholdBinary)

	// Smooth away isolated noise pixels, then bring the mask back to 0/255.
	b := s.config.BlurSize
	gocv.Blur(s.Threshold, mask, image.Pt(b, b))
	gocv.Threshold(*mask, mask, s.config.Sensitivity, 255, gocv.ThresholdBinary)

	return true, nil
}

// Queued returns the number of frames waiting in the delay queue.
func (s *FrameDiffSegmenter) Queued() int {
	return len(s.queue)
}

// Reset empties the delay queue. Use it when the source changes size or
// after a long pause, so stale frames are not differenced.
func (s *FrameDiffSegmenter) Reset() {
	for _, m := range s.queue {
		m.Close()
	}
	s.queue = s.queue[:0]
}

// Close releases all OpenCV native resources used by the segmenter.
func (s *FrameDiffSegmenter) Close() {
	s.Reset()
	s.Gray.Close()
	s.Delta.Close()
	s.Threshold.Close()
}
