package augment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/menta2k/image-augmentor/pkg/hashing"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/types"
)

// Input is the resolved list of source images for a run
type Input struct {
	// Files are the selected source image paths, in processing order.
	Files []string
	// Found is the number of candidates discovered before selection.
	// Zero means len(Files).
	Found int
}

// Pipeline distributes source images over a bounded pool of workers and
// aggregates their outcomes.
type Pipeline struct {
	opts      Options
	processor *processing.Processor
	hasher    *hashing.Hasher
	logger    *slog.Logger
	onOutcome func(types.Outcome)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for per-image and run-level events.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProcessor sets the codec used to read sources and write variants.
// Tests use it to run against an in-memory filesystem.
func WithProcessor(processor *processing.Processor) Option {
	return func(p *Pipeline) {
		p.processor = processor
	}
}

// WithOutcomeHandler registers a callback invoked once per processed image.
// Calls are serialized, so the callback needs no locking of its own.
func WithOutcomeHandler(fn func(types.Outcome)) Option {
	return func(p *Pipeline) {
		p.onOutcome = fn
	}
}

// New creates a pipeline after validating opts
func New(opts Options, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	hasher, err := hashing.NewHasher(opts.HashAlgorithm, opts.HashSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		opts:   opts,
		hasher: hasher,
	}
	for _, opt := range options {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.processor == nil {
		p.processor = processing.NewProcessor(nil)
	}

	return p, nil
}

// Plan returns the report of a run over in without processing anything
func (p *Pipeline) Plan(in Input) types.Report {
	found := in.Found
	if found == 0 {
		found = len(in.Files)
	}
	return types.Report{
		Found:    found,
		Selected: len(in.Files),
		Expected: len(in.Files) * p.opts.Crops,
		DryRun:   p.opts.DryRun,
	}
}

// Run processes every file in the input. Failures of individual images are
// reported through outcomes and never abort the run; only cancellation of
// ctx does, in which case no further images are started and ctx's error is
// returned with the statistics gathered so far.
func (p *Pipeline) Run(ctx context.Context, in Input) (types.Report, error) {
	report := p.Plan(in)
	if p.opts.DryRun || len(in.Files) == 0 {
		return report, nil
	}

	crop, err := p.opts.cropConfig()
	if err != nil {
		return report, fmt.Errorf("invalid crop configuration: %w", err)
	}

	seed := p.opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	stats := &Stats{}
	worker := &Worker{
		opts:      p.opts,
		crop:      crop,
		processor: p.processor,
		hasher:    p.hasher,
		stats:     stats,
		logger:    p.logger,
		seed:      seed,
	}
	if p.opts.DedupeInput {
		worker.global = hashing.NewIndex()
	}

	p.logger.Info("starting augmentation",
		"selected", len(in.Files),
		"workers", p.opts.Workers,
		"crops", p.opts.Crops,
		"seed", seed,
	)
	start := time.Now()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, file := range in.Files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := worker.Process(i, file)
			if p.onOutcome != nil {
				mu.Lock()
				p.onOutcome(out)
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report.Stats = stats.Snapshot()
	p.logger.Info("augmentation finished",
		"images_collected", report.Stats.ImagesCollected,
		"images_duplicated", report.Stats.ImagesDuplicated,
		"duration", time.Since(start),
	)
	return report, err
}
