package cropper

import (
	"errors"
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"github.com/disintegration/imaging"

	"github.com/menta2k/image-augmentor/pkg/processing"
)

// ratioEpsilon is the tolerance under which two aspect ratios are equal
const ratioEpsilon = 1e-9

// ErrScaleRange is returned when no scale in [ScaleMin, ScaleMax] yields a
// crop at least as large as the output size.
var ErrScaleRange = errors.New("scale range cannot cover output size")

// AspectRatio represents the target output size
type AspectRatio struct {
	Width  int
	Height int
}

// Ratio returns width / height
func (a AspectRatio) Ratio() float64 {
	return float64(a.Width) / float64(a.Height)
}

// MaxWindow returns the size of the largest rectangle with the given aspect
// ratio that fits inside a width x height image
func MaxWindow(width, height int, ratio float64) (int, int) {
	current := float64(width) / float64(height)
	switch {
	case math.Abs(ratio-current) <= ratioEpsilon:
		return width, height
	case ratio > current:
		// Target is wider than the source: width-constrained.
		return width, int(math.Round(float64(width) / ratio))
	default:
		return int(math.Round(float64(height) * ratio)), height
	}
}

// CropConfig holds configuration for random crop generation
type CropConfig struct {
	Output       AspectRatio
	ScaleMin     float64
	ScaleMax     float64
	Autocontrast float64 // probability in [0,1]
	CutoffMin    float64 // percent
	CutoffMax    float64 // percent
	Filter       imaging.ResampleFilter
	Format       string
	Randomize    bool
}

// Plan is the per-source geometry shared by all variants of one image
type Plan struct {
	SourceWidth  int
	SourceHeight int
	WindowWidth  int
	WindowHeight int
	// MinScale is ScaleMin raised so that a crop never needs upscaling.
	MinScale float64
	MaxScale float64
}

// NewPlan computes the crop window for a source of the given size
func NewPlan(srcWidth, srcHeight int, config CropConfig) (Plan, error) {
	if srcWidth <= 0 || srcHeight <= 0 {
		return Plan{}, fmt.Errorf("invalid image dimensions %dx%d", srcWidth, srcHeight)
	}
	if config.ScaleMin < 0 || config.ScaleMax > 1 {
		return Plan{}, fmt.Errorf("%w: [%.3f, %.3f] is outside [0, 1]", ErrScaleRange, config.ScaleMin, config.ScaleMax)
	}

	ww, wh := MaxWindow(srcWidth, srcHeight, config.Output.Ratio())
	minScale := math.Max(config.ScaleMin, float64(config.Output.Width)/float64(ww))
	minScale = math.Max(minScale, float64(config.Output.Height)/float64(wh))

	if minScale > config.ScaleMax {
		return Plan{}, fmt.Errorf("%w: window %dx%d needs scale >= %.3f, max is %.3f",
			ErrScaleRange, ww, wh, minScale, config.ScaleMax)
	}

	return Plan{
		SourceWidth:  srcWidth,
		SourceHeight: srcHeight,
		WindowWidth:  ww,
		WindowHeight: wh,
		MinScale:     minScale,
		MaxScale:     config.ScaleMax,
	}, nil
}

// Variant is one generated crop of a source image
type Variant struct {
	Image    *image.NRGBA
	Name     string
	Cutoff   *float64 // nil when autocontrast was not applied
	CropRect image.Rectangle
}

// Generator draws random crops. It owns its random source and is not safe
// for concurrent use.
type Generator struct {
	config CropConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator with the given random source
func NewGenerator(config CropConfig, rng *rand.Rand) *Generator {
	return &Generator{config: config, rng: rng}
}

// Generate produces the n-th (1-based) variant of src named after stem
func (g *Generator) Generate(src *image.NRGBA, plan Plan, stem string, n int) Variant {
	img := src
	var cutoff *float64
	if g.rng.Float64() < g.config.Autocontrast {
		c := g.uniform(g.config.CutoffMin, g.config.CutoffMax)
		cutoff = &c
		img = processing.AutoContrast(src, c)
	}

	rect := g.cropRect(plan)
	cropped := imaging.Crop(img, rect.Add(img.Bounds().Min))
	resized := imaging.Resize(cropped, g.config.Output.Width, g.config.Output.Height, g.config.Filter)

	return Variant{
		Image:    resized,
		Name:     VariantName(stem, n, cutoff, g.config.Format, g.config.Randomize),
		Cutoff:   cutoff,
		CropRect: rect,
	}
}

// cropRect draws a scale and a position for one crop, relative to the
// source origin
func (g *Generator) cropRect(plan Plan) image.Rectangle {
	scale := g.uniform(plan.MinScale, plan.MaxScale)
	w := int(math.Round(scale * float64(plan.WindowWidth)))
	h := int(math.Round(scale * float64(plan.WindowHeight)))

	left := g.rng.IntN(plan.SourceWidth - w + 1)
	top := g.rng.IntN(plan.SourceHeight - h + 1)
	return image.Rect(left, top, left+w, top+h)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// VariantName builds the output file name of a variant. With randomize the
// index leads so that directory listings interleave source images.
func VariantName(stem string, n int, cutoff *float64, format string, randomize bool) string {
	ac := "none"
	if cutoff != nil {
		ac = fmt.Sprintf("%.2f", *cutoff)
	}
	if randomize {
		return fmt.Sprintf("%d-%s--ac%s.%s", n, stem, ac, format)
	}
	return fmt.Sprintf("%s-%d--ac%s.%s", stem, n, ac, format)
}
