package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCaptureSize(t *testing.T) {
	tests := []struct {
		name          CaptureSizeName
		width, height int
	}{
		{CaptureSizeVGA, 640, 480},
		{CaptureSizeHVGA, 480, 360},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			size, ok := GetCaptureSize(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.width, size.Width)
			assert.Equal(t, tt.height, size.Height)
			assert.Equal(t, tt.width*tt.height, size.Pixels())
		})
	}

	_, ok := GetCaptureSize("nope")
	assert.False(t, ok)
}

func TestToggleCaptureSize(t *testing.T) {
	assert.Equal(t, CaptureSizeHVGA, ToggleCaptureSize(CaptureSizeVGA).Name)
	assert.Equal(t, CaptureSizeVGA, ToggleCaptureSize(CaptureSizeHVGA).Name)
	assert.Equal(t, CaptureSizeVGA, ToggleCaptureSize("").Name)
	assert.Equal(t, "VGA (640x480)", ToggleCaptureSize(CaptureSizeHVGA).String())
}
