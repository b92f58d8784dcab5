package imaging

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/plate-finder/internal/detection"
)

// RenderOptions controls how a detection is drawn.
type RenderOptions struct {
	// BoxColor is the outline colour as "#RRGGBB" or "#RGB".
	BoxColor string `toml:"box_color" json:"box_color"`

	// LineWidth is the outline thickness in source pixels, drawn inward
	// from the bounding box edge.
	LineWidth int `toml:"line_width" json:"line_width"`

	// Scale is an integer upscale factor applied after drawing. 1 keeps the
	// source size.
	Scale int `toml:"scale" json:"scale"`
}

// DefaultRenderOptions returns a one pixel green outline at source size.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		BoxColor:  "#00FF00",
		LineWidth: 1,
		Scale:     1,
	}
}

// Validate reports the first invalid option.
func (o RenderOptions) Validate() error {
	if _, err := colorful.Hex(o.BoxColor); err != nil {
		return fmt.Errorf("invalid box color %q: %w", o.BoxColor, err)
	}
	if o.LineWidth < 1 {
		return fmt.Errorf("line width must be at least 1, got %d", o.LineWidth)
	}
	if o.Scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", o.Scale)
	}
	return nil
}

// RenderDetection draws the plate outline over the stretched greyscale plane
// and returns the result as an RGB image.
//
// Bounds are inclusive and must lie inside the grid.
func RenderDetection(grey *detection.Grid, b detection.Bounds, opts RenderOptions) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if grey == nil || grey.Width <= 0 || grey.Height <= 0 {
		return nil, fmt.Errorf("nothing to render: %w", detection.ErrEmptyImage)
	}
	if b.MinX < 0 || b.MinY < 0 || b.MaxX >= grey.Width || b.MaxY >= grey.Height || b.MinX > b.MaxX || b.MinY > b.MaxY {
		return nil, fmt.Errorf("bounds %v outside %dx%d image", b, grey.Width, grey.Height)
	}

	// Validate has already parsed the colour once.
	c, _ := colorful.Hex(opts.BoxColor)
	cr, cg, cb := c.RGB255()

	img := image.NewNRGBA(image.Rect(0, 0, grey.Width, grey.Height))
	for y := 0; y < grey.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+grey.Width*4]
		for x := 0; x < grey.Width; x++ {
			v := greyLevel(grey.Pix[y][x])
			row[x*4] = v
			row[x*4+1] = v
			row[x*4+2] = v
			row[x*4+3] = 0xff
		}
	}

	paint := func(x, y int) {
		i := img.PixOffset(x, y)
		img.Pix[i] = cr
		img.Pix[i+1] = cg
		img.Pix[i+2] = cb
	}
	for w := 0; w < opts.LineWidth; w++ {
		x0, y0, x1, y1 := b.MinX+w, b.MinY+w, b.MaxX-w, b.MaxY-w
		if x0 > x1 || y0 > y1 {
			break
		}
		for x := x0; x <= x1; x++ {
			paint(x, y0)
			paint(x, y1)
		}
		for y := y0; y <= y1; y++ {
			paint(x0, y)
			paint(x1, y)
		}
	}

	if opts.Scale > 1 {
		img = imaging.Resize(img, grey.Width*opts.Scale, grey.Height*opts.Scale, imaging.NearestNeighbor)
	}
	return img, nil
}

// greyLevel rounds a normalized sample to a byte, clamping stray values.
func greyLevel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

// SaveRendering writes img as PNG, creating missing parent directories.
func SaveRendering(path string, img image.Image) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save rendering: %w", err)
	}
	return nil
}

// OutputPathFor returns the default annotated image path for input:
// <outDir>/<stem>_output.png.
func OutputPathFor(input, outDir string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+"_output.png")
}
