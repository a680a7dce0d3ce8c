// Package imageaugmentor grows image datasets by writing randomized crops of
// every source image, resized to a fixed output size.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//
//		"github.com/spf13/afero"
//
//		imageaugmentor "github.com/menta2k/image-augmentor"
//		"github.com/menta2k/image-augmentor/pkg/augment"
//	)
//
//	func main() {
//		opts := augment.DefaultOptions()
//		opts.OutputDir = "augmented"
//		opts.Width, opts.Height = 512, 512
//		opts.Crops = 4
//		opts.DedupeInput = true
//
//		src := imageaugmentor.Source{Dir: "photos", Recursive: true}
//		report, err := imageaugmentor.Run(context.Background(), afero.NewOsFs(), src, opts)
//		if err != nil {
//			log.Fatal(err)
//		}
//		fmt.Printf("wrote %d images\n", report.Stats.ImagesCollected)
//	}
//
// The package consists of these components:
//
//  1. Processing (pkg/processing): decoding, encoding and autocontrast
//  2. Cropper (pkg/cropper): window sizing and random crop generation
//  3. Hashing (pkg/hashing): perceptual fingerprints and the dedup index
//  4. Augment (pkg/augment): the per-image worker and the bounded pool
//
// Each source image is loaded, checked against the output size, optionally
// deduplicated against the sources seen so far and then cropped Crops times.
// Variants whose fingerprint repeats within one source are dropped.
package imageaugmentor

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/spf13/afero"

	"github.com/menta2k/image-augmentor/internal/utils"
	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// Version of the image augmentor library
const Version = "1.0.0"

// Source describes where the input images come from
type Source struct {
	Dir       string
	Recursive bool
	// Limit selects at most this many images at random; 0 selects all.
	Limit int
}

// Discover lists the images of src and applies the random selection.
// A zero seed draws a random selection.
func Discover(fsys afero.Fs, src Source, seed uint64) (augment.Input, error) {
	if src.Limit < 0 {
		return augment.Input{}, fmt.Errorf("limit must be non-negative, got %d", src.Limit)
	}

	files, err := utils.ListImageFiles(fsys, src.Dir, src.Recursive)
	if err != nil {
		return augment.Input{}, err
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return augment.Input{
		Files: utils.SelectRandom(files, src.Limit, rng),
		Found: len(files),
	}, nil
}

// Run discovers the images of src and augments them with opts. Options
// are passed on to the pipeline; the processor defaults to one over fsys.
func Run(ctx context.Context, fsys afero.Fs, src Source, opts augment.Options, options ...augment.Option) (types.Report, error) {
	p, err := augment.New(opts, append([]augment.Option{augment.WithProcessor(processing.NewProcessor(fsys))}, options...)...)
	if err != nil {
		return types.Report{}, err
	}

	in, err := Discover(fsys, src, opts.Seed)
	if err != nil {
		return types.Report{}, err
	}

	if !opts.DryRun {
		if err := utils.EnsureDir(fsys, opts.OutputDir); err != nil {
			return p.Plan(in), fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	return p.Run(ctx, in)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
