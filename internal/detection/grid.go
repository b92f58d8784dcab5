package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Channels holds the per-channel 8-bit samples of a decoded RGB image.
//
// R, G and B are row-major: R[y][x] is the red sample at column x of row y.
// All three planes must have Height rows of Width samples each.
type Channels struct {
	Width  int
	Height int
	R      [][]uint8
	G      [][]uint8
	B      [][]uint8
}

// Validate checks that the image is non-empty and that every channel plane
// matches the declared dimensions.
func (c *Channels) Validate() error {
	if c == nil || c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: no pixels", ErrEmptyImage)
	}
	planes := []struct {
		name string
		rows [][]uint8
	}{
		{"red", c.R},
		{"green", c.G},
		{"blue", c.B},
	}
	for _, p := range planes {
		if len(p.rows) != c.Height {
			return fmt.Errorf("%w: %s channel has %d rows, want %d", ErrEmptyImage, p.name, len(p.rows), c.Height)
		}
		for y, row := range p.rows {
			if len(row) != c.Width {
				return fmt.Errorf("%w: %s channel row %d has %d samples, want %d",
					ErrEmptyImage, p.name, y, len(row), c.Width)
			}
		}
	}
	return nil
}

// Range is the observed minimum and maximum of a float plane.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// emptyRange returns a Range that any observed value will tighten.
func emptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (r *Range) observe(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Grid is a row-major plane of float samples, Pix[y][x].
type Grid struct {
	Width  int
	Height int
	Pix    [][]float64
}

// NewGrid allocates a zero-filled width x height grid.
func NewGrid(width, height int) *Grid {
	pix := make([][]float64, height)
	for y := range pix {
		pix[y] = make([]float64, width)
	}
	return &Grid{Width: width, Height: height, Pix: pix}
}

// Range reports the minimum and maximum over the rectangle that lies margin
// pixels inside every edge. A margin of 0 covers the whole grid.
func (g *Grid) Range(margin int) (Range, error) {
	if g.Width-2*margin <= 0 || g.Height-2*margin <= 0 {
		return Range{}, fmt.Errorf("%w: %dx%d grid has no interior at margin %d",
			ErrEmptyImage, g.Width, g.Height, margin)
	}
	r := emptyRange()
	for y := margin; y < g.Height-margin; y++ {
		row := g.Pix[y][margin : g.Width-margin]
		r.observe(floats.Min(row))
		r.observe(floats.Max(row))
	}
	return r, nil
}

// Mask is a row-major binary plane; every sample is 0 or 1.
type Mask struct {
	Width  int
	Height int
	Pix    [][]uint8
}

// NewMask allocates an all-background width x height mask.
func NewMask(width, height int) *Mask {
	pix := make([][]uint8, height)
	for y := range pix {
		pix[y] = make([]uint8, width)
	}
	return &Mask{Width: width, Height: height, Pix: pix}
}

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, row := range m.Pix {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

// LabelMap assigns a connected-component id to every pixel.
// Zero means background; positive ids start at 1 in discovery order.
type LabelMap struct {
	Width  int
	Height int
	IDs    [][]int
}

// NewLabelMap allocates an all-background label map.
func NewLabelMap(width, height int) *LabelMap {
	ids := make([][]int, height)
	for y := range ids {
		ids[y] = make([]int, width)
	}
	return &LabelMap{Width: width, Height: height, IDs: ids}
}

// Bounds is an axis-aligned box with inclusive corners.
//
// Unlike image.Rectangle, MaxX and MaxY name the last covered column and row,
// so a single pixel at (x, y) has MinX == MaxX == x and MinY == MaxY == y.
type Bounds struct {
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`
}

// Width returns the horizontal extent MaxX - MinX.
func (b Bounds) Width() int { return b.MaxX - b.MinX }

// Height returns the vertical extent MaxY - MinY.
func (b Bounds) Height() int { return b.MaxY - b.MinY }

// AspectRatio returns Width/Height. ok is false for a single-row box, whose
// ratio is undefined.
func (b Bounds) AspectRatio() (ratio float64, ok bool) {
	if b.Height() == 0 {
		return 0, false
	}
	return float64(b.Width()) / float64(b.Height()), true
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
