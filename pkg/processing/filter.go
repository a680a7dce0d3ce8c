package processing

import (
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
)

var filters = map[string]imaging.ResampleFilter{
	"nearest":  imaging.NearestNeighbor,
	"box":      imaging.Box,
	"linear":   imaging.Linear,
	"bicubic":  imaging.CatmullRom,
	"mitchell": imaging.MitchellNetravali,
	"lanczos":  imaging.Lanczos,
}

// ResampleFilter returns the resampling filter registered under name
func ResampleFilter(name string) (imaging.ResampleFilter, error) {
	if f, ok := filters[strings.ToLower(name)]; ok {
		return f, nil
	}
	return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter: %q", name)
}
