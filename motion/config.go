package motion

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Config controls how surviving regions are annotated on the source frame.
type Config struct {
	// Label is drawn at the top-left corner of every surviving region.
	Label string `json:"label" yaml:"label"`
	// Color of the outline and label.
	Color color.RGBA `json:"-" yaml:"-"`
	// Thickness is the outline stroke width in pixels.
	Thickness int `json:"thickness" yaml:"thickness"`
	// FontScale and FontThickness control the label text.
	FontScale     float64 `json:"fontScale" yaml:"fontScale"`
	FontThickness int     `json:"fontThickness" yaml:"fontThickness"`
	// Font is the Hershey font face used for the label.
	Font gocv.HersheyFont `json:"-" yaml:"-"`
}

// DefaultConfig returns the default annotation style.
func DefaultConfig() Config {
	return Config{
		Label:         "Object",
		Color:         color.RGBA{0, 0, 255, 0},
		Thickness:     2,
		FontScale:     1,
		FontThickness: 2,
		Font:          gocv.FontHersheyPlain,
	}
}

// Validate fills unset values with defaults. Every style is drawable, so it
// never rejects a configuration.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Thickness <= 0 {
		c.Thickness = def.Thickness
	}
	if c.FontScale <= 0 {
		c.FontScale = def.FontScale
	}
	if c.FontThickness <= 0 {
		c.FontThickness = def.FontThickness
	}
	if c.Color == (color.RGBA{}) {
		c.Color = def.Color
	}
}
