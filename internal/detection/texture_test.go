package detection

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestTextureResponse_UniformImage(t *testing.T) {
	grey := NewGrid(50, 50)
	for y := range grey.Pix {
		for x := range grey.Pix[y] {
			grey.Pix[y][x] = 100
		}
	}

	tex, r, err := TextureResponse(grey, 2)
	if err != nil {
		t.Fatalf("TextureResponse failed: %v", err)
	}
	assertShape(t, "texture", tex.Width, tex.Height, 50, 50)

	for y := range tex.Pix {
		for x := range tex.Pix[y] {
			if tex.Pix[y][x] != 0 {
				t.Fatalf("texture[%d][%d]: got %v, want exactly 0", y, x, tex.Pix[y][x])
			}
		}
	}
	if r.Min != 0 || r.Max != 0 {
		t.Errorf("range: got [%v, %v], want [0, 0]", r.Min, r.Max)
	}

	// A flat response cannot be stretched.
	if err := Normalize(tex, r, 2); !errors.Is(err, ErrDegenerateRange) {
		t.Errorf("Normalize of flat texture: got %v, want ErrDegenerateRange", err)
	}
}

func TestTextureResponse_PopulationDeviation(t *testing.T) {
	// 0..24 in a single 5x5 window: population variance (n^2-1)/12 = 52.
	grey := NewGrid(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			grey.Pix[y][x] = float64(y*5 + x)
		}
	}

	tex, r, err := TextureResponse(grey, 2)
	if err != nil {
		t.Fatalf("TextureResponse failed: %v", err)
	}

	want := math.Sqrt(52)
	if got := tex.Pix[2][2]; math.Abs(got-want) > 1e-9 {
		t.Errorf("centre deviation: got %v, want %v", got, want)
	}
	if r.Min != tex.Pix[2][2] || r.Max != tex.Pix[2][2] {
		t.Errorf("range should cover only the single interior pixel, got [%v, %v]", r.Min, r.Max)
	}
}

func TestTextureResponse_BorderStaysZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	grey := NewGrid(12, 9)
	for y := range grey.Pix {
		for x := range grey.Pix[y] {
			grey.Pix[y][x] = rng.Float64() * 255
		}
	}

	tex, r, err := TextureResponse(grey, 2)
	if err != nil {
		t.Fatalf("TextureResponse failed: %v", err)
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			border := x < 2 || y < 2 || x >= tex.Width-2 || y >= tex.Height-2
			if border && tex.Pix[y][x] != 0 {
				t.Errorf("border pixel (%d,%d): got %v, want 0", x, y, tex.Pix[y][x])
			}
		}
	}

	interior, err := tex.Range(2)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if r != interior {
		t.Errorf("tracked range %+v differs from interior range %+v", r, interior)
	}
}

func TestTextureResponse_EdgeIsStrongest(t *testing.T) {
	// Left half black, right half white: the response peaks on the boundary.
	grey := NewGrid(20, 10)
	for y := range grey.Pix {
		for x := 10; x < 20; x++ {
			grey.Pix[y][x] = 255
		}
	}

	tex, _, err := TextureResponse(grey, 2)
	if err != nil {
		t.Fatalf("TextureResponse failed: %v", err)
	}

	if tex.Pix[5][4] != 0 || tex.Pix[5][15] != 0 {
		t.Errorf("flat regions should have zero response, got %v and %v", tex.Pix[5][4], tex.Pix[5][15])
	}
	if tex.Pix[5][9] <= tex.Pix[5][7] {
		t.Errorf("response at boundary (%v) should exceed response near it (%v)", tex.Pix[5][9], tex.Pix[5][7])
	}
}

func TestTextureResponse_TooSmall(t *testing.T) {
	_, _, err := TextureResponse(NewGrid(4, 10), 2)
	if !errors.Is(err, ErrEmptyImage) {
		t.Errorf("got %v, want ErrEmptyImage", err)
	}
}

func TestTextureResponse_InvalidRadius(t *testing.T) {
	if _, _, err := TextureResponse(NewGrid(10, 10), 0); err == nil {
		t.Error("TextureResponse should reject radius 0")
	}
}
