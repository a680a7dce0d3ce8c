package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/menta2k/image-augmentor/internal/config"
)

// NewRootCmd creates the root command for image-augmentor. The root command
// itself runs the augmentation.
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image-augmentor",
		Short: "Grow an image dataset with randomized crops",
		Long: `image-augmentor reads every image of an input directory and writes a number
of randomly placed, randomly scaled crops of it, resized to a fixed output
size. Crops optionally get autocontrast with a random cutoff.

Images smaller than the output size are skipped. With --dedupe-input,
sources that are perceptual duplicates of an earlier source are skipped too.

Settings are read from the config file (see 'image-augmentor init') and
overridden by flags.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAugment(cmd, fsys)
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log every image instead of showing a progress bar")
	addRunFlags(cmd.Flags())

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func addRunFlags(f *pflag.FlagSet) {
	def := config.Default()

	f.StringP("config", "c", "", "Configuration file (default "+config.GetConfigPath()+" if present)")

	f.StringP("input-dir", "i", "", "Directory with the source images")
	f.Bool("recursive", false, "Descend into subdirectories of the input directory")
	f.Int("limit", 0, "Randomly select at most this many source images (0 = all)")

	f.StringP("output-dir", "o", def.Output.Dir, "Directory for the generated images")
	f.Int("width", def.Output.Width, "Output image width")
	f.Int("height", def.Output.Height, "Output image height")
	f.String("format", def.Output.Format, "Output format: jpg|png|webp")
	f.Int("jpg-quality", def.Output.Quality, "JPEG/WebP quality (1-100)")
	f.Bool("lossless", def.Output.Lossless, "Lossless WebP output")
	f.Bool("randomize", def.Output.Randomize, "Put the crop number first in file names so outputs interleave")

	f.Int("crops", def.Augment.Crops, "Number of crops per source image")
	f.Float64("scale-min", def.Augment.ScaleMin, "Minimum crop scale relative to the largest window")
	f.Float64("scale-max", def.Augment.ScaleMax, "Maximum crop scale relative to the largest window")
	f.Float64("autocontrast", def.Augment.Autocontrast, "Probability of applying autocontrast to a crop")
	f.Float64("cutoff-min", def.Augment.CutoffMin, "Minimum autocontrast cutoff percent")
	f.Float64("cutoff-max", def.Augment.CutoffMax, "Maximum autocontrast cutoff percent")
	f.String("filter", def.Augment.Filter, "Resample filter: nearest|box|linear|bicubic|mitchell|lanczos")

	f.Bool("dedupe-input", def.Dedup.Input, "Skip source images that are perceptual duplicates")
	f.Int("hash-size", def.Dedup.HashSize, "Average hash size (bits per side)")
	f.String("hash-algo", def.Dedup.Algorithm, "Perceptual hash: average|difference|perception")

	f.IntP("threads", "t", def.Run.Threads, "Number of images processed concurrently")
	f.Bool("dry", def.Run.Dry, "Print the plan without writing images")
	f.Uint64("seed", def.Run.Seed, "Random seed for reproducible runs (0 = random)")
}

// loadConfig reads the --config file, or the default config file when it
// exists, or falls back to the built-in defaults.
func loadConfig(f *pflag.FlagSet) (*config.Config, error) {
	path, err := f.GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return config.LoadFromFile(path)
	}

	cfg, err := config.LoadFromFile(config.GetConfigPath())
	if errors.Is(err, config.ErrConfigNotFound) {
		return config.Default(), nil
	}
	return cfg, err
}

func override[T any](f *pflag.FlagSet, name string, get func(string) (T, error), dst *T) error {
	if !f.Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(f *pflag.FlagSet, cfg *config.Config) error {
	return errors.Join(
		override(f, "input-dir", f.GetString, &cfg.Input.Dir),
		override(f, "recursive", f.GetBool, &cfg.Input.Recursive),
		override(f, "limit", f.GetInt, &cfg.Input.Limit),

		override(f, "output-dir", f.GetString, &cfg.Output.Dir),
		override(f, "width", f.GetInt, &cfg.Output.Width),
		override(f, "height", f.GetInt, &cfg.Output.Height),
		override(f, "format", f.GetString, &cfg.Output.Format),
		override(f, "jpg-quality", f.GetInt, &cfg.Output.Quality),
		override(f, "lossless", f.GetBool, &cfg.Output.Lossless),
		override(f, "randomize", f.GetBool, &cfg.Output.Randomize),

		override(f, "crops", f.GetInt, &cfg.Augment.Crops),
		override(f, "scale-min", f.GetFloat64, &cfg.Augment.ScaleMin),
		override(f, "scale-max", f.GetFloat64, &cfg.Augment.ScaleMax),
		override(f, "autocontrast", f.GetFloat64, &cfg.Augment.Autocontrast),
		override(f, "cutoff-min", f.GetFloat64, &cfg.Augment.CutoffMin),
		override(f, "cutoff-max", f.GetFloat64, &cfg.Augment.CutoffMax),
		override(f, "filter", f.GetString, &cfg.Augment.Filter),

		override(f, "dedupe-input", f.GetBool, &cfg.Dedup.Input),
		override(f, "hash-size", f.GetInt, &cfg.Dedup.HashSize),
		override(f, "hash-algo", f.GetString, &cfg.Dedup.Algorithm),

		override(f, "threads", f.GetInt, &cfg.Run.Threads),
		override(f, "dry", f.GetBool, &cfg.Run.Dry),
		override(f, "seed", f.GetUint64, &cfg.Run.Seed),
	)
}

// Execute runs the root command. An interrupt cancels the run; images
// already in flight finish and the statistics so far are printed.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
