package augment

import (
	"errors"
	"fmt"

	"github.com/menta2k/image-augmentor/pkg/cropper"
	"github.com/menta2k/image-augmentor/pkg/hashing"
	"github.com/menta2k/image-augmentor/pkg/processing"
)

// ErrInvalidOptions is wrapped by every error returned from Options.Validate.
var ErrInvalidOptions = errors.New("invalid options")

// Options is the validated, immutable configuration of one run
type Options struct {
	OutputDir string

	// Output image size
	Width  int
	Height int

	// Crops is the number of variants generated per source image.
	Crops    int
	ScaleMin float64
	ScaleMax float64

	// Autocontrast is the probability of applying autocontrast to a variant,
	// with a cutoff drawn from [CutoffMin, CutoffMax] percent.
	Autocontrast float64
	CutoffMin    float64
	CutoffMax    float64

	Format   string
	Quality  int
	Lossless bool
	Filter   string

	DedupeInput   bool
	HashSize      int
	HashAlgorithm string

	Workers   int
	Randomize bool
	DryRun    bool
	// Seed makes a run reproducible; 0 picks a random seed.
	Seed uint64
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		OutputDir:     "./augmentor-output",
		Width:         1024,
		Height:        1024,
		Crops:         1,
		ScaleMin:      0.8,
		ScaleMax:      1.0,
		Autocontrast:  0,
		CutoffMin:     0,
		CutoffMax:     1,
		Format:        processing.FormatJPEG,
		Quality:       100,
		Filter:        "bicubic",
		HashSize:      hashing.DefaultSize,
		HashAlgorithm: hashing.Average,
		Workers:       6,
	}
}

// Validate checks ranges and names
func (o Options) Validate() error {
	switch {
	case o.Width <= 0 || o.Height <= 0:
		return fmt.Errorf("%w: output size %dx%d must be positive", ErrInvalidOptions, o.Width, o.Height)
	case o.Crops < 1:
		return fmt.Errorf("%w: crops must be at least 1", ErrInvalidOptions)
	case o.ScaleMin < 0 || o.ScaleMin > o.ScaleMax || o.ScaleMax > 1:
		return fmt.Errorf("%w: need 0 <= scale-min <= scale-max <= 1", ErrInvalidOptions)
	case o.Autocontrast < 0 || o.Autocontrast > 1:
		return fmt.Errorf("%w: autocontrast probability must be in [0, 1]", ErrInvalidOptions)
	case o.CutoffMin < 0 || o.CutoffMin > o.CutoffMax || o.CutoffMax > 100:
		return fmt.Errorf("%w: need 0 <= cutoff-min <= cutoff-max <= 100", ErrInvalidOptions)
	case o.Quality < 1 || o.Quality > 100:
		return fmt.Errorf("%w: quality must be in [1, 100]", ErrInvalidOptions)
	case o.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidOptions)
	}

	if _, err := processing.ParseFormat(o.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if _, err := processing.ResampleFilter(o.Filter); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if _, err := hashing.NewHasher(o.HashAlgorithm, o.HashSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// cropConfig converts the options into crop generator settings
func (o Options) cropConfig() (cropper.CropConfig, error) {
	format, err := processing.ParseFormat(o.Format)
	if err != nil {
		return cropper.CropConfig{}, err
	}
	filter, err := processing.ResampleFilter(o.Filter)
	if err != nil {
		return cropper.CropConfig{}, err
	}

	return cropper.CropConfig{
		Output:       cropper.AspectRatio{Width: o.Width, Height: o.Height},
		ScaleMin:     o.ScaleMin,
		ScaleMax:     o.ScaleMax,
		Autocontrast: o.Autocontrast,
		CutoffMin:    o.CutoffMin,
		CutoffMax:    o.CutoffMax,
		Filter:       filter,
		Format:       format,
		Randomize:    o.Randomize,
	}, nil
}
