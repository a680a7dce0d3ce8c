package augment

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/menta2k/image-augmentor/pkg/analyzer"
	"github.com/menta2k/image-augmentor/pkg/cropper"
	"github.com/menta2k/image-augmentor/pkg/hashing"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// Worker runs the per-image state machine: load, size check, input dedup,
// crop generation, variant dedup and persistence.
//
// A Worker keeps no per-image state, so one value is shared by all pool
// goroutines of a run. The global index and the stats are the only shared
// mutable state and both are concurrency safe.
type Worker struct {
	opts      Options
	crop      cropper.CropConfig
	processor *processing.Processor
	hasher    *hashing.Hasher
	global    *hashing.Index // nil when input dedup is disabled
	stats     *Stats
	logger    *slog.Logger
	seed      uint64
}

// Process handles the source image at position index of the input list.
// The index selects the random stream, so a fixed seed reproduces the same
// crops independent of scheduling order.
func (w *Worker) Process(index int, path string) types.Outcome {
	out := w.process(index, path)
	w.stats.record(out)
	w.log(out)
	return out
}

func (w *Worker) process(index int, path string) types.Outcome {
	out := types.Outcome{File: path}

	img, err := w.processor.LoadImage(path)
	if err != nil {
		return failed(out, fmt.Errorf("loading image failed: %w", err))
	}

	info := analyzer.GetImageInfo(img)
	w.logger.Debug("image loaded", "file", path, "width", info.Width, "height", info.Height)

	if err := analyzer.ValidateSize(img, w.opts.Width, w.opts.Height); err != nil {
		out.Status = types.StatusSkipped
		out.Err = err
		return out
	}

	if w.global != nil {
		fp, err := w.hasher.Hash(img)
		if err != nil {
			return failed(out, err)
		}
		if !w.global.Add(fp) {
			out.Status = types.StatusDuplicate
			return out
		}
	}

	plan, err := cropper.NewPlan(img.Bounds().Dx(), img.Bounds().Dy(), w.crop)
	if err != nil {
		return failed(out, err)
	}

	gen := cropper.NewGenerator(w.crop, rand.New(rand.NewPCG(w.seed, uint64(index))))
	local := hashing.NewIndex()
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var written []string
	for n := 1; n <= w.opts.Crops; n++ {
		v := gen.Generate(img, plan, stem, n)

		fp, err := w.hasher.Hash(v.Image)
		if err != nil {
			return failed(out, errors.Join(err, w.discard(written)))
		}
		if !local.Add(fp) {
			w.logger.Debug("duplicate variant dropped", "file", path, "variant", v.Name)
			continue
		}

		dst := filepath.Join(w.opts.OutputDir, v.Name)
		if err := w.processor.SaveImage(v.Image, dst, w.crop.Format, w.opts.Quality, w.opts.Lossless); err != nil {
			return failed(out, errors.Join(err, w.discard(written)))
		}
		written = append(written, dst)
	}

	out.Status = types.StatusOK
	out.Saved = len(written)
	return out
}

// discard removes the variants already written for a failed image
func (w *Worker) discard(paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := w.processor.Remove(p); err != nil {
			errs = append(errs, fmt.Errorf("cleanup %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func (w *Worker) log(out types.Outcome) {
	switch out.Status {
	case types.StatusOK:
		w.logger.Info("image processed", "file", out.File, "status", out.Status.String(), "saved", out.Saved)
	case types.StatusError:
		w.logger.Error("image failed", "file", out.File, "status", out.Status.String(), "error", out.Err)
	default:
		attrs := []any{"file", out.File, "status", out.Status.String()}
		if out.Err != nil {
			attrs = append(attrs, "reason", out.Err)
		}
		w.logger.Warn("image not augmented", attrs...)
	}
}

func failed(out types.Outcome, err error) types.Outcome {
	out.Status = types.StatusError
	out.Err = err
	out.Saved = 0
	return out
}
