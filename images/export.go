package images

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ExportConfig controls how composite strips are persisted.
type ExportConfig struct {
	// Dir is the root output directory; each writer creates a session
	// sub-directory inside it.
	Dir string `json:"dir" yaml:"dir"`
	// Format is the encoding of written files.
	Format ImageFormat `json:"format" yaml:"format"`
	// Quality is the lossy encoding quality (1-100) for JPEG and WebP.
	Quality int `json:"quality" yaml:"quality"`
	// ThumbnailWidth, when > 0, scales written files to this width keeping
	// the aspect ratio. The strips handed to the writer are not modified.
	ThumbnailWidth uint `json:"thumbnailWidth" yaml:"thumbnailWidth"`
}

// DefaultExportConfig returns the default export configuration.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Dir:     "img",
		Format:  FormatJPEG,
		Quality: 90,
	}
}

// Validate normalizes the export configuration.
func (c *ExportConfig) Validate() error {
	if c.Dir == "" {
		return errors.New("export directory is required")
	}
	if _, ok := ParseImageFormat(string(c.Format)); !ok {
		return errors.Errorf("unsupported export format %q", c.Format)
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = DefaultExportConfig().Quality
	}
	return nil
}

// StripWriter writes composite strips as numbered image files
// (img00000.jpg, img00001.jpg, ...) into a per-session directory.
type StripWriter struct {
	config  ExportConfig
	session string
	dir     string
	count   int
}

// NewStripWriter creates the session directory and returns a writer for it.
//
// Arguments:
//   - config: Export configuration; validated here.
//
// Returns:
//   - *StripWriter: The writer.
//   - error: If the configuration is invalid or the directory cannot be created.
func NewStripWriter(config ExportConfig) (*StripWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.Format, _ = ParseImageFormat(string(config.Format))

	session := uuid.New().String()
	dir := filepath.Join(config.Dir, session)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating export directory %s", dir)
	}

	return &StripWriter{config: config, session: session, dir: dir}, nil
}

// Session returns the session id of this writer.
func (w *StripWriter) Session() string {
	return w.session
}

// Dir returns the directory the writer puts files in.
func (w *StripWriter) Dir() string {
	return w.dir
}

// Count returns how many strips were written.
func (w *StripWriter) Count() int {
	return w.count
}

// WriteStrip encodes a strip Mat and writes it as the next numbered file.
//
// Arguments:
//   - strip: A CV8UC3 composite strip.
//
// Returns:
//   - string: The written file path.
//   - error: If conversion, encoding or writing fails.
func (w *StripWriter) WriteStrip(strip gocv.Mat) (string, error) {
	if strip.Empty() {
		return "", errors.New("strip is empty")
	}

	img, err := strip.ToImage()
	if err != nil {
		return "", errors.Wrap(err, "converting strip to image")
	}

	path := filepath.Join(w.dir, fmt.Sprintf("img%05d.%s", w.count, w.config.Format.Extension()))
	if err := w.writeFile(path, img); err != nil {
		// Do not leave a truncated file behind.
		_ = os.Remove(path)
		return "", err
	}

	w.count++
	return path, nil
}

func (w *StripWriter) writeFile(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}

	bw := bufio.NewWriter(f)
	if err := Encode(bw, img, w.config); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Encode writes img in the configured format, scaling it first when a
// thumbnail width is set.
func Encode(dst io.Writer, img image.Image, config ExportConfig) error {
	if config.ThumbnailWidth > 0 && uint(img.Bounds().Dx()) > config.ThumbnailWidth {
		img = resize.Resize(config.ThumbnailWidth, 0, img, resize.Lanczos3)
	}

	switch config.Format {
	case FormatJPEG:
		return jpeg.Encode(dst, img, &jpeg.Options{Quality: config.Quality})
	case FormatPNG:
		return png.Encode(dst, img)
	case FormatWebP:
		return webp.Encode(dst, img, &webp.Options{Quality: float32(config.Quality)})
	}
	return errors.Errorf("unsupported export format %q", config.Format)
}
