package detection

import (
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// plateScene draws a mid-grey 200x120 frame with an 80x20 block of 2-pixel
// black and white vertical stripes at columns 60-139, rows 50-69.
func plateScene() *Channels {
	return newChannels(200, 120, func(x, y int) (uint8, uint8, uint8) {
		if x >= 60 && x < 140 && y >= 50 && y < 70 {
			if (x/2)%2 == 0 {
				return 0, 0, 0
			}
			return 255, 255, 255
		}
		return 128, 128, 128
	})
}

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	d, err := NewDetector(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	return d
}

func within(got, want, tol int) bool {
	d := got - want
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Threshold != 140 {
		t.Errorf("Threshold: got %v, want 140", cfg.Threshold)
	}
	if cfg.TextureRadius != 2 {
		t.Errorf("TextureRadius: got %d, want 2", cfg.TextureRadius)
	}
	if cfg.DilateRounds != 3 || cfg.ErodeRounds != 3 {
		t.Errorf("rounds: got dilate=%d erode=%d, want 3 and 3", cfg.DilateRounds, cfg.ErodeRounds)
	}
	if cfg.Aspect != (AspectBand{Min: 1.5, Max: 5.0}) {
		t.Errorf("Aspect: got %+v, want [1.5, 5.0]", cfg.Aspect)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Threshold = -1 }},
		{"threshold above 255", func(c *Config) { c.Threshold = 256 }},
		{"zero radius", func(c *Config) { c.TextureRadius = 0 }},
		{"negative dilate", func(c *Config) { c.DilateRounds = -1 }},
		{"negative erode", func(c *Config) { c.ErodeRounds = -2 }},
		{"zero aspect min", func(c *Config) { c.Aspect.Min = 0 }},
		{"inverted band", func(c *Config) { c.Aspect = AspectBand{Min: 4, Max: 2} }},
		{"NaN threshold", func(c *Config) { c.Threshold = math.NaN() }},
		{"infinite threshold", func(c *Config) { c.Threshold = math.Inf(1) }},
		{"NaN aspect min", func(c *Config) { c.Aspect.Min = math.NaN() }},
		{"NaN aspect max", func(c *Config) { c.Aspect.Max = math.NaN() }},
		{"infinite aspect max", func(c *Config) { c.Aspect.Max = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should fail")
			}
			if _, err := NewDetector(cfg, nil); err == nil {
				t.Error("NewDetector should reject an invalid config")
			}
		})
	}
}

func TestDetect_StripedPlate(t *testing.T) {
	d := newTestDetector(t)
	ch := plateScene()

	res, err := d.Detect(ch)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	b := res.Bounds
	if !within(b.MinX, 60, 3) || !within(b.MaxX, 139, 3) || !within(b.MinY, 49, 3) || !within(b.MaxY, 70, 3) {
		t.Errorf("bounds: got %v, want about (60,49)-(139,70)", b)
	}
	if !d.Config().Aspect.Contains(res.Aspect) {
		t.Errorf("aspect %v outside accepted band", res.Aspect)
	}
	if res.Components != 1 {
		t.Errorf("components: got %d, want 1", res.Components)
	}
	if res.PixelCount <= 0 {
		t.Errorf("pixel count: got %d, want > 0", res.PixelCount)
	}

	assertShape(t, "result", res.Width, res.Height, 200, 120)
	assertShape(t, "greyscale", res.Greyscale.Width, res.Greyscale.Height, 200, 120)
	assertShape(t, "texture", res.Texture.Width, res.Texture.Height, 200, 120)
	assertShape(t, "closed", res.Closed.Width, res.Closed.Height, 200, 120)
	assertShape(t, "labels", res.Labels.Width, res.Labels.Height, 200, 120)
	assertBinary(t, res.Closed)

	// The greyscale plane is stretched to the full range.
	r, err := res.Greyscale.Range(0)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if r.Min != 0 || r.Max < 254.999 {
		t.Errorf("greyscale range: got [%v, %v], want [0, 255]", r.Min, r.Max)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	d := newTestDetector(t)

	first, err := d.Detect(plateScene())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := d.Detect(plateScene())
		if err != nil {
			t.Fatalf("Detect run %d failed: %v", i, err)
		}
		if again.Bounds != first.Bounds || again.Label != first.Label || again.PixelCount != first.PixelCount {
			t.Errorf("run %d: got %+v, want %+v", i, again.Bounds, first.Bounds)
		}
	}
}

func TestDetect_Failures(t *testing.T) {
	tests := []struct {
		name string
		ch   *Channels
		want error
	}{
		{
			"empty image",
			&Channels{},
			ErrEmptyImage,
		},
		{
			"uniform image",
			newChannels(40, 30, func(x, y int) (uint8, uint8, uint8) { return 90, 90, 90 }),
			ErrDegenerateRange,
		},
		{
			"smaller than texture window",
			newChannels(4, 4, func(x, y int) (uint8, uint8, uint8) { return uint8(x * 60), uint8(y * 60), 0 }),
			ErrEmptyImage,
		},
		{
			"single interior pixel",
			newChannels(5, 5, func(x, y int) (uint8, uint8, uint8) { return uint8(x * 50), uint8(y * 50), 0 }),
			ErrDegenerateRange,
		},
		{
			// The only texture is a tall vertical strip along the boundary.
			"vertical edge only",
			newChannels(100, 60, func(x, y int) (uint8, uint8, uint8) {
				if x < 50 {
					return 0, 0, 0
				}
				return 255, 255, 255
			}),
			ErrNoCandidate,
		},
	}

	d := newTestDetector(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Detect(tt.ch)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if res != nil {
				t.Errorf("result should be nil on failure, got %+v", res)
			}
		})
	}
}

func TestDetect_LogsEveryStage(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	d, err := NewDetector(DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	if _, err := d.Detect(plateScene()); err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	seen := make(map[string]int)
	for _, e := range hook.AllEntries() {
		if stage, ok := e.Data["stage"].(string); ok {
			seen[stage]++
		}
	}

	want := map[string]int{
		"greyscale": 1,
		"texture":   1,
		"binarize":  1,
		"dilate":    3,
		"erode":     3,
		"label":     1,
		"select":    1,
	}
	for stage, n := range want {
		if seen[stage] != n {
			t.Errorf("stage %q logged %d times, want %d", stage, seen[stage], n)
		}
	}
}

func TestDetect_QuietAboveDebug(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)

	d, err := NewDetector(DefaultConfig(), logger)
	if err != nil {
		t.Fatalf("NewDetector failed: %v", err)
	}
	res, err := d.Detect(plateScene())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if res.Components != 1 {
		t.Errorf("components: got %d, want 1", res.Components)
	}
	if n := len(hook.AllEntries()); n != 0 {
		t.Errorf("entries at info level: got %d, want 0", n)
	}
}

func TestDetector_DebugEnabled(t *testing.T) {
	info, _ := test.NewNullLogger()
	info.SetLevel(logrus.InfoLevel)
	debug, _ := test.NewNullLogger()
	debug.SetLevel(logrus.DebugLevel)

	tests := []struct {
		name   string
		logger logrus.FieldLogger
		want   bool
	}{
		{"info logger", info, false},
		{"debug logger", debug, true},
		{"info entry", info.WithField("image", "car.png"), false},
		{"debug entry", debug.WithField("image", "car.png"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDetector(DefaultConfig(), tt.logger)
			if err != nil {
				t.Fatalf("NewDetector failed: %v", err)
			}
			if got := d.debugEnabled(); got != tt.want {
				t.Errorf("debugEnabled: got %v, want %v", got, tt.want)
			}
		})
	}
}
