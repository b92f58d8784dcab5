package detection

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"
)

// Config holds the tunable parameters of the plate pipeline.
type Config struct {
	// Threshold is the cut applied to the normalized texture response
	// (0-255). Pixels at or above it become foreground.
	Threshold float64 `toml:"threshold" json:"threshold"`

	// TextureRadius is the half-width of the standard deviation window.
	// Radius 2 gives a 5x5 window.
	TextureRadius int `toml:"texture_radius" json:"texture_radius"`

	// DilateRounds and ErodeRounds control the morphological close.
	DilateRounds int `toml:"dilate_rounds" json:"dilate_rounds"`
	ErodeRounds  int `toml:"erode_rounds" json:"erode_rounds"`

	// Aspect is the accepted width/height band for a plate candidate.
	Aspect AspectBand `toml:"aspect" json:"aspect"`
}

// DefaultConfig returns the parameters tuned for photographs of cars with a
// single visible plate.
func DefaultConfig() Config {
	return Config{
		Threshold:     140,
		TextureRadius: 2,
		DilateRounds:  3,
		ErodeRounds:   3,
		Aspect:        AspectBand{Min: 1.5, Max: 5.0},
	}
}

// Validate reports the first invalid parameter.
func (c Config) Validate() error {
	switch {
	case !finite(c.Threshold):
		return fmt.Errorf("threshold must be a finite number, got %v", c.Threshold)
	case !finite(c.Aspect.Min) || !finite(c.Aspect.Max):
		return fmt.Errorf("aspect band bounds must be finite numbers, got [%v, %v]", c.Aspect.Min, c.Aspect.Max)
	case c.Threshold < 0 || c.Threshold > 255:
		return fmt.Errorf("threshold %.1f outside 0-255", c.Threshold)
	case c.TextureRadius < 1:
		return fmt.Errorf("texture radius must be at least 1, got %d", c.TextureRadius)
	case c.DilateRounds < 0 || c.ErodeRounds < 0:
		return fmt.Errorf("morphology rounds must not be negative (dilate=%d, erode=%d)", c.DilateRounds, c.ErodeRounds)
	case c.Aspect.Min <= 0 || c.Aspect.Max < c.Aspect.Min:
		return fmt.Errorf("invalid aspect band [%.2f, %.2f]", c.Aspect.Min, c.Aspect.Max)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Result is the outcome of a successful detection.
type Result struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Bounds is the inclusive bounding box of the plate candidate.
	Bounds Bounds `json:"bounds"`

	// Aspect is Bounds' width/height ratio.
	Aspect float64 `json:"aspect"`

	// Label and PixelCount identify the winning component.
	Label      int `json:"label"`
	PixelCount int `json:"pixel_count"`

	// Components is the number of components in the closed mask; Rejected
	// lists those tried and discarded before the winner.
	Components int         `json:"components"`
	Rejected   []Rejection `json:"rejected,omitempty"`

	// Greyscale is the contrast-stretched luminance plane, for rendering.
	Greyscale *Grid `json:"-"`

	// Intermediate planes, kept for inspection.
	Texture *Grid     `json:"-"`
	Closed  *Mask     `json:"-"`
	Labels  *LabelMap `json:"-"`
}

// Detector runs the plate pipeline with a fixed configuration.
//
// A Detector holds no per-run state and may be used from several goroutines.
type Detector struct {
	cfg Config
	log logrus.FieldLogger
}

// NewDetector validates cfg and returns a Detector that logs stage statistics
// at debug level to logger. A nil logger discards output.
func NewDetector(cfg Config, logger logrus.FieldLogger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection config: %w", err)
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Detector{cfg: cfg, log: logger}, nil
}

// debugEnabled reports whether stage statistics will be written. Loggers
// other than logrus' own types always receive them.
func (d *Detector) debugEnabled() bool {
	switch l := d.log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	}
	return true
}

// Config returns the detector's parameters.
func (d *Detector) Config() Config {
	return d.cfg
}

// Detect locates the plate candidate in ch.
//
// The stages run strictly in order, each on the previous stage's output:
//
//  1. Luminance conversion and contrast stretch of the greyscale plane
//  2. Local standard deviation, stretched over its interior
//  3. Threshold to a binary mask
//  4. Morphological close (dilate rounds, then erode rounds)
//  5. 4-connected component labelling
//  6. Largest-first selection by bounding-box aspect ratio
//
// Errors wrap ErrEmptyImage, ErrDegenerateRange or ErrNoCandidate.
func (d *Detector) Detect(ch *Channels) (*Result, error) {
	debug := d.debugEnabled()

	grey, greyRange, err := Luminance(ch)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to greyscale: %w", err)
	}
	if err := Normalize(grey, greyRange, 0); err != nil {
		return nil, fmt.Errorf("failed to stretch greyscale: %w", err)
	}
	d.log.WithFields(logrus.Fields{
		"stage": "greyscale",
		"min":   greyRange.Min,
		"max":   greyRange.Max,
	}).Debug("greyscale stretched")

	texture, texRange, err := TextureResponse(grey, d.cfg.TextureRadius)
	if err != nil {
		return nil, fmt.Errorf("failed to compute texture response: %w", err)
	}
	if err := Normalize(texture, texRange, d.cfg.TextureRadius); err != nil {
		return nil, fmt.Errorf("failed to stretch texture response: %w", err)
	}
	d.log.WithFields(logrus.Fields{
		"stage": "texture",
		"min":   texRange.Min,
		"max":   texRange.Max,
	}).Debug("texture response stretched")

	binary := Binarize(texture, d.cfg.Threshold)
	var observe func(op string, round int, out *Mask)
	if debug {
		d.log.WithFields(logrus.Fields{
			"stage":      "binarize",
			"threshold":  d.cfg.Threshold,
			"foreground": binary.Count(),
		}).Debug("texture thresholded")

		observe = func(op string, round int, out *Mask) {
			d.log.WithFields(logrus.Fields{
				"stage":      op,
				"round":      round,
				"foreground": out.Count(),
			}).Debug("morphology round complete")
		}
	}

	closed, err := Close(binary, d.cfg.DilateRounds, d.cfg.ErodeRounds, observe)
	if err != nil {
		return nil, fmt.Errorf("failed to close mask: %w", err)
	}

	labels, table := LabelComponents(closed)
	d.log.WithFields(logrus.Fields{
		"stage":      "label",
		"components": len(table),
		"foreground": table.Total(),
	}).Debug("components labelled")

	sel, err := SelectCandidate(labels, table, d.cfg.Aspect)
	if err != nil {
		return nil, err
	}
	d.log.WithFields(logrus.Fields{
		"stage":    "select",
		"label":    sel.Label,
		"pixels":   sel.Count,
		"aspect":   sel.Aspect,
		"rejected": len(sel.Rejected),
		"bounds":   sel.Bounds.String(),
	}).Debug("plate candidate selected")

	return &Result{
		Width:      ch.Width,
		Height:     ch.Height,
		Bounds:     sel.Bounds,
		Aspect:     sel.Aspect,
		Label:      sel.Label,
		PixelCount: sel.Count,
		Components: len(table),
		Rejected:   sel.Rejected,
		Greyscale:  grey,
		Texture:    texture,
		Closed:     closed,
		Labels:     labels,
	}, nil
}
