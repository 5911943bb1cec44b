package motion

import "github.com/pkg/errors"

var (
	// ErrInvalidInputDimensions is returned when the mask and the source
	// frame of a cycle have different sizes.
	ErrInvalidInputDimensions = errors.New("mask and source frame dimensions differ")
	// ErrInvalidMask is returned for an empty or multi-channel mask.
	ErrInvalidMask = errors.New("mask must be a non-empty single-channel image")
	// ErrInvalidSourceFrame is returned for an empty or non-BGR source frame.
	ErrInvalidSourceFrame = errors.New("source frame must be a non-empty 3-channel 8-bit image")
	// ErrRegionOutOfBounds is returned when a region does not fit in the source frame.
	ErrRegionOutOfBounds = errors.New("region lies outside the source frame")
)
