// Package controller drives the frame cycle: it reads frames from a source,
// segments them into a change mask, runs the motion detector and presents the
// results, reacting to keyboard commands in between.
package controller

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
	"github.com/nvr-ai/motion-strip/motion"
	"github.com/nvr-ai/motion-strip/profiler"
)

// Window names.
const (
	WindowStrip          = "cropped"
	WindowFrame          = "capturedFrame"
	WindowDifference     = "Difference Image"
	WindowThreshold      = "Threshold Image"
	WindowFinalThreshold = "Final Threshold Image"
)

// Keyboard commands.
const (
	KeyEscape      = 27
	KeyToggleSize  = 't'
	KeyToggleDebug = 'd'
	KeyPause       = 'p'
)

// FrameSource delivers colour frames. gocv.VideoCapture and util.Sequence
// both satisfy it through thin adapters.
type FrameSource interface {
	// Read decodes the next frame into frame. It returns false once the
	// source is exhausted or broken.
	Read(frame *gocv.Mat) bool
	// SetSize asks the source for a different capture size.
	SetSize(size images.CaptureSize) error
	Close() error
}

// Display shows Mats in named windows and polls the keyboard.
type Display interface {
	Show(name string, img gocv.Mat)
	Hide(name string)
	// WaitKey waits up to delay milliseconds for a key press and returns its
	// code, or -1 when none was pressed.
	WaitKey(delay int) int
	Close() error
}

// StripSink receives every composite strip.
type StripSink interface {
	WriteStrip(strip gocv.Mat) (string, error)
}

// Config controls the frame loop.
type Config struct {
	// CaptureSize is the initial capture size requested from the source.
	CaptureSize images.CaptureSizeName `json:"captureSize" yaml:"captureSize"`
	// Debug shows the intermediate segmentation images.
	Debug bool `json:"debug" yaml:"debug"`
	// KeyDelay is the keyboard poll delay per cycle in milliseconds.
	KeyDelay int `json:"keyDelay" yaml:"keyDelay"`
	// MaxFrames stops the loop after this many frames when > 0.
	MaxFrames int `json:"maxFrames" yaml:"maxFrames"`
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		CaptureSize: images.CaptureSizeVGA,
		KeyDelay:    10,
	}
}

// Validate fills unset values with defaults.
func (c *Config) Validate() error {
	if c.CaptureSize == "" {
		c.CaptureSize = DefaultConfig().CaptureSize
	}
	if _, ok := images.GetCaptureSize(c.CaptureSize); !ok {
		return errors.Errorf("unknown capture size %q", c.CaptureSize)
	}
	if c.KeyDelay <= 0 {
		c.KeyDelay = DefaultConfig().KeyDelay
	}
	if c.MaxFrames < 0 {
		return errors.Errorf("max frames must not be negative, got %d", c.MaxFrames)
	}
	return nil
}

// Loop owns the per-frame state of a running pipeline.
//
// Sink and Profiler are optional.
type Loop struct {
	Source    FrameSource
	Display   Display
	Segmenter *images.FrameDiffSegmenter
	Detector  *motion.Detector
	Sink      StripSink
	Profiler  *profiler.RuntimeProfiler
	Logger    zerolog.Logger
	Config    Config

	size    images.CaptureSize
	debug   bool
	paused  bool
	frames  int
	counter int
	mask    gocv.Mat
	hasMask bool
}

// Run reads and processes frames until the source is exhausted, ESC is
// pressed, MaxFrames is reached or ctx is cancelled.
//
// Arguments:
//   - ctx: Cancels the loop between cycles.
//
// Returns:
//   - error: ctx.Err() on cancellation, or a setup failure.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Config.Validate(); err != nil {
		return err
	}
	l.size, _ = images.GetCaptureSize(l.Config.CaptureSize)
	l.debug = l.Config.Debug
	if err := l.Source.SetSize(l.size); err != nil {
		return errors.Wrapf(err, "setting capture size %s", l.size)
	}

	defer l.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	l.Logger.Info().Str("size", l.size.String()).Bool("debug", l.debug).Msg("frame loop started")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.Config.MaxFrames > 0 && l.frames >= l.Config.MaxFrames {
			l.Logger.Info().Int("frames", l.frames).Msg("frame limit reached")
			return nil
		}

		if !l.Source.Read(&frame) {
			l.Logger.Info().Int("frames", l.frames).Msg("frame source exhausted")
			return nil
		}
		l.frames++
		if frame.Empty() {
			continue
		}

		if err := l.Step(&frame); err != nil {
			l.Logger.Warn().Err(err).Int("frame", l.frames).Msg("frame cycle failed")
		}

		if l.HandleKey(l.Display.WaitKey(l.Config.KeyDelay)) {
			return nil
		}
		for l.paused {
			if err := ctx.Err(); err != nil {
				return err
			}
			if l.HandleKey(l.Display.WaitKey(l.Config.KeyDelay)) {
				return nil
			}
		}
	}
}

// Step runs one frame cycle on frame, which is annotated in place.
//
// Nothing is presented while the segmenter's delay queue is filling.
func (l *Loop) Step(frame *gocv.Mat) error {
	if !l.hasMask {
		l.mask = gocv.NewMat()
		l.hasMask = true
	}
	defer l.Profiler.StartOperation("cycle")()

	stopSegment := l.Profiler.StartOperation("segment")
	ready, err := l.Segmenter.Apply(*frame, &l.mask)
	stopSegment()
	if err != nil {
		return errors.Wrap(err, "segmenting frame")
	}
	if !ready {
		return nil
	}

	if l.debug {
		l.Display.Show(WindowDifference, l.Segmenter.Delta)
		l.Display.Show(WindowThreshold, l.Segmenter.Threshold)
		l.Display.Show(WindowFinalThreshold, l.mask)
	} else {
		l.Display.Hide(WindowDifference)
		l.Display.Hide(WindowThreshold)
		l.Display.Hide(WindowFinalThreshold)
	}

	stopProcess := l.Profiler.StartOperation("process")
	res, err := l.Detector.Process(l.mask, frame)
	stopProcess()
	if err != nil {
		return errors.Wrap(err, "processing frame")
	}
	defer res.Close()

	l.Profiler.RecordMetric("candidates", float64(len(res.Candidates)))
	l.Profiler.RecordMetric("regions", float64(len(res.Regions)))

	if res.HasStrip {
		l.Display.Show(WindowStrip, res.Strip)
		if l.Sink != nil {
			path, err := l.Sink.WriteStrip(res.Strip)
			if err != nil {
				return errors.Wrap(err, "writing strip")
			}
			l.Logger.Debug().Str("path", path).Int("regions", len(res.Regions)).Msg("strip written")
		}
	}

	gocv.PutText(frame, fmt.Sprintf("frame : %d", l.counter), image.Pt(0, 30),
		gocv.FontHersheyPlain, 1, color.RGBA{0, 0, 255, 0}, 2)
	l.counter++
	l.Display.Show(WindowFrame, *frame)

	return nil
}

// HandleKey applies a keyboard command and reports whether the loop should stop.
//
// While paused only the pause key and ESC have an effect.
func (l *Loop) HandleKey(key int) bool {
	if key < 0 {
		return false
	}
	switch key & 0xff {
	case KeyEscape:
		l.Logger.Info().Msg("stop requested")
		return true
	case KeyPause:
		l.paused = !l.paused
		if l.paused {
			l.Logger.Info().Msg("paused, press 'p' again to resume")
		} else {
			l.Logger.Info().Msg("resumed")
		}
	}
	if l.paused {
		return false
	}

	switch key & 0xff {
	case KeyToggleSize:
		l.Segmenter.Reset()
		l.size = images.ToggleCaptureSize(l.size.Name)
		if err := l.Source.SetSize(l.size); err != nil {
			l.Logger.Warn().Err(err).Str("size", l.size.String()).Msg("changing capture size")
		} else {
			l.Logger.Info().Str("size", l.size.String()).Msg("capture size changed")
		}
	case KeyToggleDebug:
		l.debug = !l.debug
		if l.debug {
			l.Logger.Info().Msg("debug mode enabled")
		} else {
			l.Logger.Info().Msg("debug mode disabled")
		}
	}
	return false
}

// Close releases the loop's working Mats. Run calls it on return.
func (l *Loop) Close() {
	if l.hasMask {
		l.mask.Close()
		l.hasMask = false
	}
}

// Size returns the current capture size.
func (l *Loop) Size() images.CaptureSize {
	return l.size
}

// Debug reports whether debug views are shown.
func (l *Loop) Debug() bool {
	return l.debug
}

// Paused reports whether the loop is paused.
func (l *Loop) Paused() bool {
	return l.paused
}

// Frames returns the number of frames read so far.
func (l *Loop) Frames() int {
	return l.frames
}
