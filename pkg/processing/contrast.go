package processing

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// AutoContrast maximizes image contrast per color channel. The histogram of
// each channel is computed, cutoff percent of the darkest and lightest pixels
// is discarded, and the remaining range is stretched to 0..255.
// The source image is not modified.
func AutoContrast(img *image.NRGBA, cutoff float64) *image.NRGBA {
	var hist [3][256]float64
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < h; y++ {
		i := y * img.Stride
		for x := 0; x < w; x++ {
			hist[0][img.Pix[i+0]]++
			hist[1][img.Pix[i+1]]++
			hist[2][img.Pix[i+2]]++
			i += 4
		}
	}

	var luts [3][256]uint8
	for c := range hist {
		luts[c] = contrastLUT(&hist[c], float64(w*h), cutoff)
	}

	return imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{R: luts[0][c.R], G: luts[1][c.G], B: luts[2][c.B], A: c.A}
	})
}

func contrastLUT(h *[256]float64, n, cutoff float64) [256]uint8 {
	if cutoff > 0 {
		// Whole-pixel count to trim from each end.
		cut := float64(int64(n * cutoff / 100))
		trimLow(h, cut)
		trimHigh(h, cut)
	}

	lo, hi := 0, 255
	for lo < 256 && h[lo] <= 0 {
		lo++
	}
	for hi >= 0 && h[hi] <= 0 {
		hi--
	}

	var lut [256]uint8
	if hi <= lo {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	scale := 255.0 / float64(hi-lo)
	offset := -float64(lo) * scale
	for i := range lut {
		v := int(float64(i)*scale + offset)
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		lut[i] = uint8(v)
	}
	return lut
}

func trimLow(h *[256]float64, cut float64) {
	for i := 0; i < 256 && cut > 0; i++ {
		if cut > h[i] {
			cut -= h[i]
			h[i] = 0
		} else {
			h[i] -= cut
			cut = 0
		}
	}
}

func trimHigh(h *[256]float64, cut float64) {
	for i := 255; i >= 0 && cut > 0; i-- {
		if cut > h[i] {
			cut -= h[i]
			h[i] = 0
		} else {
			h[i] -= cut
			cut = 0
		}
	}
}
