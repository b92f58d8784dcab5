package detection

import "fmt"

// windowSamples is the number of pixels in the 3x3 structuring element.
const windowSamples = 9

// Dilate performs one round of binary dilation with a 3x3 square element.
//
// An interior output pixel is 1 if any pixel of the 3x3 window around it
// (centre included) is 1. The one-pixel border is not written and stays 0.
// The input is not modified.
func Dilate(m *Mask) (*Mask, error) {
	return apply3x3(m, "dilate", func(ones int) bool { return ones > 0 })
}

// Erode performs one round of binary erosion with a 3x3 square element.
//
// An interior output pixel is 1 only if all nine pixels of its window are 1.
// The one-pixel border is not written and stays 0. The input is not modified.
func Erode(m *Mask) (*Mask, error) {
	return apply3x3(m, "erode", func(ones int) bool { return ones == windowSamples })
}

// Close applies dilations rounds of Dilate followed by erosions rounds of
// Erode, each round reading the previous round's output.
//
// Repeated 3x3 passes are not equivalent to a single pass with a larger
// element near region boundaries, so the rounds are kept separate.
//
// The optional observe callback receives every intermediate mask, tagged with
// its operation name and 1-based round number.
func Close(m *Mask, dilations, erosions int, observe func(op string, round int, out *Mask)) (*Mask, error) {
	if dilations < 0 || erosions < 0 {
		return nil, fmt.Errorf("negative morphology rounds: dilate=%d erode=%d", dilations, erosions)
	}

	cur := m
	var err error
	for i := 1; i <= dilations; i++ {
		if cur, err = Dilate(cur); err != nil {
			return nil, fmt.Errorf("failed to dilate (round %d): %w", i, err)
		}
		if observe != nil {
			observe("dilate", i, cur)
		}
	}
	for i := 1; i <= erosions; i++ {
		if cur, err = Erode(cur); err != nil {
			return nil, fmt.Errorf("failed to erode (round %d): %w", i, err)
		}
		if observe != nil {
			observe("erode", i, cur)
		}
	}
	return cur, nil
}

// apply3x3 counts foreground pixels in the 3x3 window around each interior
// pixel and sets the output where keep reports true.
func apply3x3(m *Mask, op string, keep func(ones int) bool) (*Mask, error) {
	if m.Width < 3 || m.Height < 3 {
		return nil, fmt.Errorf("%w: cannot %s a %dx%d mask", ErrEmptyImage, op, m.Width, m.Height)
	}

	out := NewMask(m.Width, m.Height)
	for y := 1; y < m.Height-1; y++ {
		above, row, below := m.Pix[y-1], m.Pix[y], m.Pix[y+1]
		for x := 1; x < m.Width-1; x++ {
			ones := 0
			for dx := -1; dx <= 1; dx++ {
				ones += int(above[x+dx]) + int(row[x+dx]) + int(below[x+dx])
			}
			if keep(ones) {
				out.Pix[y][x] = 1
			}
		}
	}
	return out, nil
}
