package detection

import (
	"image"
	"math/rand"
	"testing"
)

func TestLabelComponents_DilatedPixel(t *testing.T) {
	m := maskWithRects(9, 9, image.Rect(4, 4, 5, 5))
	dilated, err := Dilate(m)
	if err != nil {
		t.Fatalf("Dilate failed: %v", err)
	}

	labels, table := LabelComponents(dilated)
	assertShape(t, "labels", labels.Width, labels.Height, 9, 9)

	if len(table) != 1 {
		t.Fatalf("components: got %d, want 1", len(table))
	}
	if table[0].Label != 1 || table[0].Count != 9 {
		t.Errorf("component: got %+v, want {Label:1 Count:9}", table[0])
	}

	b := componentBounds(labels, len(table))[1]
	want := Bounds{MinX: 3, MinY: 3, MaxX: 5, MaxY: 5}
	if b != want {
		t.Errorf("bounds: got %v, want %v", b, want)
	}
}

func TestLabelComponents_DiagonalsAreSeparate(t *testing.T) {
	m := maskWithRects(4, 4, image.Rect(1, 1, 2, 2), image.Rect(2, 2, 3, 3))

	labels, table := LabelComponents(m)

	if len(table) != 2 {
		t.Fatalf("components: got %d, want 2 (diagonal pixels must not merge)", len(table))
	}
	if labels.IDs[1][1] == labels.IDs[2][2] {
		t.Error("diagonal neighbours received the same label")
	}
}

func TestLabelComponents_RasterOrder(t *testing.T) {
	// Block B starts on an earlier row than block A, so it is found first.
	blockA := image.Rect(0, 5, 2, 7)
	blockB := image.Rect(5, 1, 7, 3)
	m := maskWithRects(8, 8, blockA, blockB)

	labels, table := LabelComponents(m)

	if len(table) != 2 {
		t.Fatalf("components: got %d, want 2", len(table))
	}
	if labels.IDs[1][5] != 1 {
		t.Errorf("block B label: got %d, want 1", labels.IDs[1][5])
	}
	if labels.IDs[5][0] != 2 {
		t.Errorf("block A label: got %d, want 2", labels.IDs[5][0])
	}
	for i, c := range table {
		if c.Label != i+1 {
			t.Errorf("table[%d].Label: got %d, want %d", i, c.Label, i+1)
		}
	}
}

func TestLabelComponents_ConcaveShape(t *testing.T) {
	// A U shape is one component even though a raster scan meets both arms
	// before the base connecting them.
	m := maskWithRects(10, 10,
		image.Rect(1, 1, 3, 8), // left arm
		image.Rect(7, 1, 9, 8), // right arm
		image.Rect(1, 7, 9, 9), // base
	)

	_, table := LabelComponents(m)

	if len(table) != 1 {
		t.Fatalf("components: got %d, want 1", len(table))
	}
	if table[0].Count != m.Count() {
		t.Errorf("count: got %d, want %d", table[0].Count, m.Count())
	}
}

func TestLabelComponents_Completeness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := NewMask(64, 48)
	for y := range m.Pix {
		for x := range m.Pix[y] {
			if rng.Intn(100) < 45 {
				m.Pix[y][x] = 1
			}
		}
	}

	labels, table := LabelComponents(m)

	if got, want := table.Total(), m.Count(); got != want {
		t.Errorf("sum of component counts: got %d, want %d", got, want)
	}

	perLabel := make(map[int]int)
	for y := range m.Pix {
		for x := range m.Pix[y] {
			id := labels.IDs[y][x]
			switch {
			case m.Pix[y][x] != 0 && id <= 0:
				t.Fatalf("foreground pixel (%d,%d) left unlabelled", x, y)
			case m.Pix[y][x] == 0 && id != 0:
				t.Fatalf("background pixel (%d,%d) labelled %d", x, y, id)
			}
			if id > 0 {
				perLabel[id]++
			}
		}
	}

	if len(perLabel) != len(table) {
		t.Errorf("distinct labels: got %d, want %d", len(perLabel), len(table))
	}
	for _, c := range table {
		if perLabel[c.Label] != c.Count {
			t.Errorf("label %d: table count %d, pixels %d", c.Label, c.Count, perLabel[c.Label])
		}
	}
}

func TestLabelComponents_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMask(30, 30)
	for y := range m.Pix {
		for x := range m.Pix[y] {
			m.Pix[y][x] = uint8(rng.Intn(2))
		}
	}

	first, tableA := LabelComponents(m)
	second, tableB := LabelComponents(m)

	if len(tableA) != len(tableB) {
		t.Fatalf("component counts differ: %d vs %d", len(tableA), len(tableB))
	}
	for y := range first.IDs {
		for x := range first.IDs[y] {
			if first.IDs[y][x] != second.IDs[y][x] {
				t.Fatalf("label at (%d,%d) differs between runs", x, y)
			}
		}
	}
}

func TestLabelComponents_LargeRegion(t *testing.T) {
	m := NewMask(500, 500)
	for y := range m.Pix {
		for x := range m.Pix[y] {
			m.Pix[y][x] = 1
		}
	}

	_, table := LabelComponents(m)

	if len(table) != 1 || table[0].Count != 250000 {
		t.Errorf("got %+v, want a single component of 250000 pixels", table)
	}
}

func TestLabelComponents_EmptyMask(t *testing.T) {
	labels, table := LabelComponents(NewMask(5, 5))
	if len(table) != 0 {
		t.Errorf("components: got %d, want 0", len(table))
	}
	for y := range labels.IDs {
		for x := range labels.IDs[y] {
			if labels.IDs[y][x] != 0 {
				t.Fatalf("label at (%d,%d): got %d, want 0", x, y, labels.IDs[y][x])
			}
		}
	}
}
