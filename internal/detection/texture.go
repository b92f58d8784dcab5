package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TextureResponse computes the local standard deviation of grey over a square
// window of side 2*radius+1 centred on every interior pixel.
//
// The variance is the population variance (divided by N, not N-1). Pixels
// within radius of an edge are not written and stay 0. The returned Range
// covers the interior only, ready to be passed to Normalize with the same
// radius as margin.
//
// High responses mark sharp local intensity changes such as plate characters;
// flat regions like body panels and sky respond near zero.
func TextureResponse(grey *Grid, radius int) (*Grid, Range, error) {
	if radius < 1 {
		return nil, Range{}, fmt.Errorf("texture radius must be positive, got %d", radius)
	}
	if grey.Width-2*radius <= 0 || grey.Height-2*radius <= 0 {
		return nil, Range{}, fmt.Errorf("%w: %dx%d image is smaller than a %dx%d window",
			ErrEmptyImage, grey.Width, grey.Height, 2*radius+1, 2*radius+1)
	}

	side := 2*radius + 1
	window := make([]float64, side*side)
	out := NewGrid(grey.Width, grey.Height)

	for y := radius; y < grey.Height-radius; y++ {
		for x := radius; x < grey.Width-radius; x++ {
			i := 0
			for wy := y - radius; wy <= y+radius; wy++ {
				i += copy(window[i:], grey.Pix[wy][x-radius:x+radius+1])
			}
			v := stat.PopVariance(window, nil)
			// rounding in the compensated sum can dip just below zero
			if v < 0 {
				v = 0
			}
			out.Pix[y][x] = math.Sqrt(v)
		}
	}
	r, err := out.Range(radius)
	if err != nil {
		return nil, Range{}, err
	}
	return out, r, nil
}
