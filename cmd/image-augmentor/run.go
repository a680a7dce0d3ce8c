package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	imageaugmentor "github.com/menta2k/image-augmentor"
	"github.com/menta2k/image-augmentor/internal/config"
	"github.com/menta2k/image-augmentor/internal/log"
	"github.com/menta2k/image-augmentor/internal/utils"
	"github.com/menta2k/image-augmentor/pkg/augment"
	"github.com/menta2k/image-augmentor/pkg/processing"
	"github.com/menta2k/image-augmentor/pkg/types"
)

func runAugment(cmd *cobra.Command, fsys afero.Fs) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := applyFlags(cmd.Flags(), cfg); err != nil {
		return err
	}
	if err := cfg.RequireInput(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return err
	}
	logger := log.New(cmd.ErrOrStderr(), verbose)

	return augmentDir(cmd, fsys, cfg, logger, !verbose)
}

// augmentDir prints the configuration and the plan, then runs the pipeline
// and prints the final statistics.
func augmentDir(cmd *cobra.Command, fsys afero.Fs, cfg *config.Config, logger *slog.Logger, progress bool) error {
	w := cmd.OutOrStdout()
	opts := cfg.Options()
	printConfig(w, cfg)

	in, err := imageaugmentor.Discover(fsys, imageaugmentor.Source{
		Dir:       cfg.Input.Dir,
		Recursive: cfg.Input.Recursive,
		Limit:     cfg.Input.Limit,
	}, opts.Seed)
	if err != nil {
		return err
	}

	var bar *pb.ProgressBar
	p, err := augment.New(opts,
		augment.WithLogger(logger),
		augment.WithProcessor(processing.NewProcessor(fsys)),
		augment.WithOutcomeHandler(func(types.Outcome) {
			if bar != nil {
				bar.Increment()
			}
		}),
	)
	if err != nil {
		return err
	}

	printPlan(w, p.Plan(in))
	if opts.DryRun {
		fmt.Fprintln(w, "Dry run: no images written")
		return nil
	}
	if len(in.Files) == 0 {
		return nil
	}

	if err := utils.EnsureDir(fsys, opts.OutputDir); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if progress {
		bar = pb.New(len(in.Files))
		bar.Output = w
		bar.Start()
	}
	report, err := p.Run(cmd.Context(), in)
	if bar != nil {
		bar.Finish()
	}

	printStats(w, report.Stats)
	if err != nil {
		return fmt.Errorf("augmentation interrupted: %w", err)
	}
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	rows := []struct {
		name  string
		value any
	}{
		{"input_dir", cfg.Input.Dir},
		{"recursive", cfg.Input.Recursive},
		{"limit", cfg.Input.Limit},
		{"output_dir", cfg.Output.Dir},
		{"width", cfg.Output.Width},
		{"height", cfg.Output.Height},
		{"format", cfg.Output.Format},
		{"quality", cfg.Output.Quality},
		{"randomize", cfg.Output.Randomize},
		{"crops", cfg.Augment.Crops},
		{"scale_min", cfg.Augment.ScaleMin},
		{"scale_max", cfg.Augment.ScaleMax},
		{"autocontrast", cfg.Augment.Autocontrast},
		{"cutoff_min", cfg.Augment.CutoffMin},
		{"cutoff_max", cfg.Augment.CutoffMax},
		{"filter", cfg.Augment.Filter},
		{"dedupe_input", cfg.Dedup.Input},
		{"hash", fmt.Sprintf("%s/%d", cfg.Dedup.Algorithm, cfg.Dedup.HashSize)},
		{"threads", cfg.Run.Threads},
		{"dry", cfg.Run.Dry},
		{"seed", cfg.Run.Seed},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-16s %v\n", r.name, r.value)
	}
	fmt.Fprintln(w, "---------------------------------------")
}

func printPlan(w io.Writer, r types.Report) {
	fmt.Fprintf(w, "Input images found:            %d\n", r.Found)
	fmt.Fprintf(w, "Input images selected:         %d\n", r.Selected)
	fmt.Fprintf(w, "Expected output images (max):  %d\n", r.Expected)
}

func printStats(w io.Writer, s types.Stats) {
	fmt.Fprintf(w, "Images duplicated:             %d\n", s.ImagesDuplicated)
	fmt.Fprintf(w, "Images skipped:                %d\n", s.ImagesSkipped)
	fmt.Fprintf(w, "Images failed:                 %d\n", s.ImagesFailed)
	fmt.Fprintf(w, "Total collected images:        %d\n", s.ImagesCollected)
}
