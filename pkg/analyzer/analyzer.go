package analyzer

import (
	"errors"
	"fmt"
	"image"
)

// ErrTooSmall is returned by ValidateSize for images below the output size
var ErrTooSmall = errors.New("image too small")

// ImageInfo contains basic image metadata
type ImageInfo struct {
	Width       int
	Height      int
	AspectRatio float64
	Area        int
}

// GetImageInfo returns basic information about an image
func GetImageInfo(img image.Image) ImageInfo {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	info := ImageInfo{
		Width:  width,
		Height: height,
		Area:   width * height,
	}
	if height > 0 {
		info.AspectRatio = float64(width) / float64(height)
	}
	return info
}

// ValidateSize checks that an image is at least minWidth x minHeight
func ValidateSize(img image.Image, minWidth, minHeight int) error {
	bounds := img.Bounds()
	if bounds.Dx() < minWidth || bounds.Dy() < minHeight {
		return fmt.Errorf("%w: %dx%d (minimum: %dx%d)", ErrTooSmall,
			bounds.Dx(), bounds.Dy(), minWidth, minHeight)
	}
	return nil
}
