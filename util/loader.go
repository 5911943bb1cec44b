// Package util provides a frame source over a directory of still images.
package util

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

// ImageFile represents an image file.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number parsed from the file name.
	Frame int
}

var frameNumber = regexp.MustCompile(`(\d+)\D*$`)

// LoadDirectoryImageFiles reads all image files from a directory, ordered by
// the last number in their file name (frame-0001.png, 0002.jpg, ...).
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each containing the raw bytes of an image file.
// - error: Error if loading fails or a file name carries no frame number.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading frame directory %s", dir)
	}

	var frames []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch ext {
		case ".jpg", ".jpeg", ".png", ".bmp":
		default:
			continue
		}

		m := frameNumber.FindStringSubmatch(file.Name()[:len(file.Name())-len(ext)])
		if m == nil {
			return nil, errors.Errorf("no frame number in %s", file.Name())
		}
		frame, _ := strconv.Atoi(m[1])

		imgPath := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(imgPath)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", imgPath)
		}
		frames = append(frames, ImageFile{Path: imgPath, Data: data, Frame: frame})
	}

	sort.SliceStable(frames, func(i, j int) bool {
		return frames[i].Frame < frames[j].Frame
	})

	return frames, nil
}

// Sequence plays a directory of images as a video source.
type Sequence struct {
	files []ImageFile
	next  int
	size  images.CaptureSize
}

// NewSequence loads every frame of dir.
func NewSequence(dir string) (*Sequence, error) {
	files, err := LoadDirectoryImageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no frames in %s", dir)
	}
	return &Sequence{files: files}, nil
}

// Len returns the number of frames.
func (s *Sequence) Len() int {
	return len(s.files)
}

// Read decodes the next frame into frame. It returns false once all frames
// have been read or a frame cannot be decoded.
func (s *Sequence) Read(frame *gocv.Mat) bool {
	if s.next >= len(s.files) {
		return false
	}
	f := s.files[s.next]
	s.next++

	mat, err := gocv.IMDecode(f.Data, gocv.IMReadColor)
	if err != nil || mat.Empty() {
		mat.Close()
		return false
	}
	defer mat.Close()

	if s.size.Width > 0 && s.size.Height > 0 {
		if fit := FitSize(mat.Cols(), mat.Rows(), s.size); fit.X != mat.Cols() || fit.Y != mat.Rows() {
			gocv.Resize(mat, frame, fit, 0, 0, gocv.InterpolationArea)
			return true
		}
	}
	mat.CopyTo(frame)
	return true
}

// SetSize makes Read scale frames to fit inside size, like a camera switching
// modes. The aspect ratio of the stored frames is kept.
func (s *Sequence) SetSize(size images.CaptureSize) error {
	s.size = size
	return nil
}

// Close implements the frame source interface. Frames are held in memory.
func (s *Sequence) Close() error {
	return nil
}

// FitSize returns the largest width x height with the aspect ratio of
// width x height that fits inside size. Neither side drops below 1.
func FitSize(width, height int, size images.CaptureSize) image.Point {
	if width <= 0 || height <= 0 {
		return image.Pt(width, height)
	}
	scale := math.Min(float64(size.Width)/float64(width), float64(size.Height)/float64(height))
	return image.Pt(
		max(1, int(math.Round(float64(width)*scale))),
		max(1, int(math.Round(float64(height)*scale))),
	)
}
