package detection

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Normalize linearly stretches g in place so that r.Min maps to 0 and r.Max
// maps to 255.
//
// Only the rectangle margin pixels inside every edge is rewritten; the frame
// outside it keeps its current values. Pass margin 0 to stretch the whole
// plane, or the radius of the windowed stage that produced g to leave its
// unwritten border at zero.
//
// Samples equal to r.Max land on exactly 255. Samples outside r are clamped
// to [0, 255].
//
// Returns an error wrapping ErrDegenerateRange when r.Max == r.Min, and one
// wrapping ErrEmptyImage when the margin leaves no interior.
func Normalize(g *Grid, r Range, margin int) error {
	if g.Width-2*margin <= 0 || g.Height-2*margin <= 0 {
		return fmt.Errorf("%w: %dx%d grid has no interior at margin %d",
			ErrEmptyImage, g.Width, g.Height, margin)
	}
	span := r.Max - r.Min
	if span == 0 {
		return fmt.Errorf("%w: all samples equal %.3f", ErrDegenerateRange, r.Min)
	}

	scale := 255 / span
	var top []int
	for y := margin; y < g.Height-margin; y++ {
		seg := g.Pix[y][margin : g.Width-margin]
		floats.AddConst(-r.Min, seg)
		// k < 0 collects every match and never fails
		top, _ = floats.Find(top, func(v float64) bool { return v >= span }, seg, -1)
		floats.Scale(scale, seg)
		for _, i := range top {
			seg[i] = 255
		}
		for i, v := range seg {
			if v < 0 {
				seg[i] = 0
			}
		}
	}
	return nil
}
