package motion

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/motion-strip/images"
)

func TestConfigValidate_FillsStyle(t *testing.T) {
	cfg := Config{Label: "Car"}
	cfg.Validate()

	def := DefaultConfig()
	assert.Equal(t, "Car", cfg.Label)
	assert.Equal(t, def.Color, cfg.Color)
	assert.Equal(t, def.Thickness, cfg.Thickness)
	assert.Equal(t, def.FontScale, cfg.FontScale)
	assert.Equal(t, def.FontThickness, cfg.FontThickness)
}

func greyFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(90, 90, 90, 0), 120, 160, gocv.MatTypeCV8UC3)
}

// reference draws what Annotate is expected to draw, straight through gocv.
func reference(regions []images.Rect, cfg Config) gocv.Mat {
	ref := greyFrame()
	for _, r := range regions {
		gocv.Rectangle(&ref, r.Rectangle(), cfg.Color, cfg.Thickness)
		gocv.PutText(&ref, cfg.Label, r.TopLeft(), cfg.Font, cfg.FontScale, cfg.Color, cfg.FontThickness)
	}
	return ref
}

func TestAnnotate_MatchesReference(t *testing.T) {
	regions := []images.Rect{rect(30, 40, 50, 30), rect(100, 80, 20, 20)}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"default style", DefaultConfig()},
		{"custom label and colour", Config{
			Label:         "Car",
			Color:         color.RGBA{0, 255, 0, 0},
			Thickness:     1,
			FontScale:     1,
			FontThickness: 1,
			Font:          gocv.FontHersheyPlain,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := greyFrame()
			defer frame.Close()
			ref := reference(regions, tt.cfg)
			defer ref.Close()

			Annotate(&frame, regions, tt.cfg)
			assert.Equal(t, images.ComputeMatChecksum(ref), images.ComputeMatChecksum(frame))
		})
	}
}

func TestAnnotate_LabelSitsAboveTopLeft(t *testing.T) {
	r := rect(30, 40, 50, 30)
	// The text baseline is the region's top-left corner, so the glyphs sit
	// in the rows just above the outline.
	labelArea := images.RectXYWH(r.X1, r.Y1-14, 60, 12)

	clean := greyFrame()
	defer clean.Close()

	object := greyFrame()
	defer object.Close()
	Annotate(&object, []images.Rect{r}, DefaultConfig())

	cfg := DefaultConfig()
	cfg.Label = "Car"
	car := greyFrame()
	defer car.Close()
	Annotate(&car, []images.Rect{r}, cfg)

	require.NotEqual(t, images.ComputeRegionChecksum(clean, labelArea), images.ComputeRegionChecksum(object, labelArea),
		"label must be drawn above the region")
	assert.NotEqual(t, images.ComputeRegionChecksum(object, labelArea), images.ComputeRegionChecksum(car, labelArea),
		"a different label draws different glyphs")

	// The outline itself does not depend on the label.
	inside := images.RectXYWH(r.X1-1, r.Y1+10, 3, 10)
	assert.Equal(t, images.ComputeRegionChecksum(object, inside), images.ComputeRegionChecksum(car, inside))
}

func TestAnnotate_CustomColourReachesFrame(t *testing.T) {
	r := rect(30, 40, 50, 30)
	cfg := DefaultConfig()
	cfg.Color = color.RGBA{0, 255, 0, 0}

	frame := greyFrame()
	defer frame.Close()
	Annotate(&frame, []images.Rect{r}, cfg)

	// Left edge of the outline, well below the label.
	v := frame.GetVecbAt(55, 30)
	assert.Equal(t, []uint8{0, 255, 0}, []uint8{v[0], v[1], v[2]})
}
