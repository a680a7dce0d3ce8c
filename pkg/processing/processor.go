package processing

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for output formats the encoder cannot write.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Supported output formats
const (
	FormatJPEG = "jpg"
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ParseFormat normalizes an output format name ("jpeg" and "JPG" become "jpg")
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// Processor handles image decoding and encoding against a filesystem
type Processor struct {
	fs afero.Fs
}

// NewProcessor creates a new image processor. A nil fs uses the OS filesystem.
func NewProcessor(fs afero.Fs) *Processor {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Processor{fs: fs}
}

// Fs returns the filesystem the processor reads from and writes to
func (p *Processor) Fs() afero.Fs {
	return p.fs
}

// LoadImage loads an image file as an opaque RGB buffer with WebP support
func (p *Processor) LoadImage(path string) (*image.NRGBA, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	// Try imaging.Decode (registered decoders, EXIF orientation applied)
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		// Fallback: explicit WebP decode
		if !strings.HasSuffix(strings.ToLower(path), ".webp") {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		if _, serr := f.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
		img, err = webp.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp image: %w", err)
		}
	}

	return ToRGB(img), nil
}

// ToRGB copies img into a new NRGBA buffer with every pixel fully opaque.
// Color values are kept as stored; the alpha channel is dropped.
func ToRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// Encode writes img to w in the given format
func (p *Processor) Encode(w io.Writer, img image.Image, format string, quality int, lossless bool) error {
	switch format {
	case FormatWebP:
		return webp.Encode(w, img, &webp.Options{Lossless: lossless, Quality: float32(quality)})
	case FormatPNG:
		return imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	case FormatJPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveImage saves an image to a file with the specified format and quality.
// A file left behind by a failed encode is removed.
func (p *Processor) SaveImage(img image.Image, path, format string, quality int, lossless bool) error {
	f, err := p.fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := p.Encode(f, img, format, quality, lossless); err != nil {
		f.Close()
		_ = p.fs.Remove(path)
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		_ = p.fs.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Remove deletes a previously written output file
func (p *Processor) Remove(path string) error {
	return p.fs.Remove(path)
}
