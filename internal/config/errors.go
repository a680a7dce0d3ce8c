package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoInputDir is returned when a run has no input directory.
	ErrNoInputDir = errors.New("no input directory specified: use --input-dir or input.dir")

	// ErrInvalidLimit is returned for a negative selection limit.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative (0 selects all images)")

	// ErrInvalidSize is returned when the output width or height is not positive.
	ErrInvalidSize = errors.New("invalid output size: width and height must be positive")

	// ErrInvalidCrops is returned when fewer than one crop per image is requested.
	ErrInvalidCrops = errors.New("invalid crops: must be at least 1")

	// ErrInvalidScale is returned unless 0 <= scale_min <= scale_max <= 1.
	ErrInvalidScale = errors.New("invalid scale range: need 0 <= scale_min <= scale_max <= 1")

	// ErrInvalidAutocontrast is returned for a probability outside [0, 1].
	ErrInvalidAutocontrast = errors.New("invalid autocontrast probability: must be in [0, 1]")

	// ErrInvalidCutoff is returned unless 0 <= cutoff_min <= cutoff_max <= 100.
	ErrInvalidCutoff = errors.New("invalid cutoff range: need 0 <= cutoff_min <= cutoff_max <= 100")

	// ErrInvalidQuality is returned for an encoder quality outside [1, 100].
	ErrInvalidQuality = errors.New("invalid quality: must be in [1, 100]")

	// ErrInvalidThreads is returned when the worker count is not positive.
	ErrInvalidThreads = errors.New("invalid threads: must be at least 1")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
