package processing

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
)

// createTestImage creates a gradient test image with a partially transparent corner
func createTestImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := uint8(255)
			if x < width/4 && y < height/4 {
				a = 128
			}
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / width), uint8(y * 255 / height), 96, a})
		}
	}
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jpg", FormatJPEG},
		{"JPEG", FormatJPEG},
		{".png", FormatPNG},
		{"webp", FormatWebP},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestToRGB(t *testing.T) {
	src := createTestImage(40, 40)
	rgb := ToRGB(src)

	for i := 3; i < len(rgb.Pix); i += 4 {
		if rgb.Pix[i] != 0xff {
			t.Fatalf("Expected opaque pixel at offset %d, got alpha %d", i, rgb.Pix[i])
		}
	}
	if src.Pix[3] != 128 {
		t.Error("ToRGB must not modify its input")
	}
	if rgb.Pix[0] != src.Pix[0] || rgb.Pix[1] != src.Pix[1] {
		t.Error("ToRGB should keep stored color values")
	}
}

func TestSaveAndLoadPNG(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewProcessor(fs)
	img := ToRGB(createTestImage(64, 48))

	if err := p.SaveImage(img, "/out/a.png", FormatPNG, 90, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	loaded, err := p.LoadImage("/out/a.png")
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if loaded.Bounds().Dx() != 64 || loaded.Bounds().Dy() != 48 {
		t.Errorf("Expected 64x48, got %dx%d", loaded.Bounds().Dx(), loaded.Bounds().Dy())
	}
	if !bytes.Equal(loaded.Pix, img.Pix) {
		t.Error("PNG round trip should be lossless")
	}
}

func TestSaveJPEG(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewProcessor(fs)

	if err := p.SaveImage(createTestImage(32, 32), "/a.jpg", FormatJPEG, 100, false); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	data, err := afero.ReadFile(fs, "/a.jpg")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(data) < 2 || data[0] != 0xff || data[1] != 0xd8 {
		t.Error("Expected JPEG SOI marker")
	}
}

func TestSaveUnsupportedFormatLeavesNoFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewProcessor(fs)

	err := p.SaveImage(createTestImage(8, 8), "/a.gif", "gif", 90, false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "/a.gif"); ok {
		t.Error("Failed save should not leave a file behind")
	}
}

func TestLoadImageErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	p := NewProcessor(fs)

	if _, err := p.LoadImage("/missing.jpg"); err == nil {
		t.Error("Expected error for missing file")
	}

	if err := afero.WriteFile(fs, "/broken.jpg", []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.LoadImage("/broken.jpg"); err == nil {
		t.Error("Expected error for corrupt file")
	}
}

func TestAutoContrastStretchesRange(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			v := uint8(120)
			switch x {
			case 0:
				v = 100
			case 9:
				v = 151
			}
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}

	out := AutoContrast(img, 0)

	if got := out.NRGBAAt(0, 0).R; got != 0 {
		t.Errorf("Expected darkest value mapped to 0, got %d", got)
	}
	if got := out.NRGBAAt(9, 0).R; got != 255 {
		t.Errorf("Expected lightest value mapped to 255, got %d", got)
	}
	if img.NRGBAAt(0, 0).R != 100 {
		t.Error("AutoContrast must not modify its input")
	}
}

func TestAutoContrastCutoff(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 1))
	for x := 0; x < 100; x++ {
		v := uint8(51)
		switch {
		case x == 0:
			v = 0
		case x == 99:
			v = 255
		case x >= 50:
			v = 136
		}
		img.SetNRGBA(x, 0, color.NRGBA{v, v, v, 255})
	}

	// Without cutoff the outliers already span the full range.
	plain := AutoContrast(img, 0)
	if got := plain.NRGBAAt(10, 0).R; got != 51 {
		t.Errorf("Expected identity mapping without cutoff, got %d", got)
	}

	// A 1% cutoff drops one pixel at each end.
	cut := AutoContrast(img, 1)
	if got := cut.NRGBAAt(10, 0).R; got != 0 {
		t.Errorf("Expected 51 mapped to 0 after cutoff, got %d", got)
	}
	if got := cut.NRGBAAt(60, 0).R; got != 255 {
		t.Errorf("Expected 136 mapped to 255 after cutoff, got %d", got)
	}
}

func TestAutoContrastFlatImage(t *testing.T) {
	img := imaging.New(8, 8, color.NRGBA{77, 77, 77, 255})
	out := AutoContrast(img, 5)
	if got := out.NRGBAAt(3, 3).R; got != 77 {
		t.Errorf("Expected flat image unchanged, got %d", got)
	}
}

func TestResampleFilter(t *testing.T) {
	if _, err := ResampleFilter("Bicubic"); err != nil {
		t.Errorf("Expected bicubic filter, got %v", err)
	}
	if _, err := ResampleFilter("sinc"); err == nil {
		t.Error("Expected error for unknown filter")
	}
}
