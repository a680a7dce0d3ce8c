package hashing

import (
	"encoding/hex"
	"fmt"
	"image"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

// DefaultSize is the default edge length of the average-hash grid (225 bits).
const DefaultSize = 15

// Hash algorithms
const (
	Average    = "average"
	Difference = "difference"
	Perception = "perception"
)

// Fingerprint is the perceptual hash of an image. Two fingerprints are equal
// only when every bit matches; the algorithm name is part of the value.
type Fingerprint string

// Hasher computes fingerprints with a fixed algorithm and grid size
type Hasher struct {
	Size      int
	Algorithm string
}

// NewHasher creates a hasher, validating the algorithm name.
// Size only applies to the average algorithm; values < 2 use DefaultSize.
func NewHasher(algorithm string, size int) (*Hasher, error) {
	algorithm = strings.ToLower(algorithm)
	if algorithm == "" {
		algorithm = Average
	}
	switch algorithm {
	case Average, Difference, Perception:
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %q", algorithm)
	}
	if size < 2 {
		size = DefaultSize
	}
	return &Hasher{Size: size, Algorithm: algorithm}, nil
}

// Hash returns the fingerprint of img
func (h *Hasher) Hash(img image.Image) (Fingerprint, error) {
	switch h.Algorithm {
	case Difference:
		return extHash(goimagehash.DifferenceHash(img))
	case Perception:
		return extHash(goimagehash.PerceptionHash(img))
	default:
		return AverageHash(img, h.Size), nil
	}
}

func extHash(hash *goimagehash.ImageHash, err error) (Fingerprint, error) {
	if err != nil {
		return "", fmt.Errorf("failed to hash image: %w", err)
	}
	return Fingerprint(hash.ToString()), nil
}

// AverageHash reduces img to a size x size grayscale grid and sets one bit per
// cell whose intensity is at or above the grid mean. Bits are packed row-major,
// most significant bit first.
func AverageHash(img image.Image, size int) Fingerprint {
	small := imaging.Resize(imaging.Grayscale(img), size, size, imaging.Lanczos)

	n := size * size
	values := make([]float64, 0, n)
	var sum float64
	for y := 0; y < size; y++ {
		row := small.Pix[y*small.Stride:]
		for x := 0; x < size; x++ {
			v := float64(row[x*4])
			values = append(values, v)
			sum += v
		}
	}
	mean := sum / float64(n)

	bits := make([]byte, (n+7)/8)
	for i, v := range values {
		if v >= mean {
			bits[i/8] |= 0x80 >> (i % 8)
		}
	}
	return Fingerprint("a:" + hex.EncodeToString(bits))
}
