package detection

import (
	"fmt"
	"sort"
)

// AspectBand is the inclusive range of width/height ratios accepted as
// plate-shaped.
type AspectBand struct {
	Min float64 `json:"min" toml:"min"`
	Max float64 `json:"max" toml:"max"`
}

// Contains reports whether ratio lies within the band, ends included.
func (b AspectBand) Contains(ratio float64) bool {
	return ratio >= b.Min && ratio <= b.Max
}

// Rejection describes a component that failed the aspect test.
type Rejection struct {
	Label  int     `json:"label"`
	Count  int     `json:"count"`
	Bounds Bounds  `json:"bounds"`
	Aspect float64 `json:"aspect"` // 0 for a single-row component
}

// Selection is the component chosen by SelectCandidate.
type Selection struct {
	Label    int         `json:"label"`
	Count    int         `json:"count"`
	Bounds   Bounds      `json:"bounds"`
	Aspect   float64     `json:"aspect"`
	Rejected []Rejection `json:"rejected,omitempty"`
}

// SelectCandidate picks the largest component whose bounding box has an
// aspect ratio inside band.
//
// Components are tried in order of decreasing pixel count, ties going to the
// lower label. Each one that fails the aspect test is discarded and the next
// largest is tried. A component one row tall has no finite ratio and is
// always rejected.
//
// The ranking is seeded with a sentinel entry (label 0, count 0) that sorts
// after every real component; reaching it means the table is exhausted, and
// an error wrapping ErrNoCandidate is returned.
func SelectCandidate(labels *LabelMap, table ComponentTable, band AspectBand) (*Selection, error) {
	ranked := make([]Component, 0, len(table)+1)
	ranked = append(ranked, Component{Label: 0, Count: 0})
	ranked = append(ranked, table...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Label < ranked[j].Label
	})

	boxes := componentBounds(labels, len(table))
	rejected := make([]Rejection, 0)

	for _, c := range ranked {
		if c.Label == 0 {
			break
		}
		box := boxes[c.Label]
		ratio, ok := box.AspectRatio()
		if ok && band.Contains(ratio) {
			return &Selection{
				Label:    c.Label,
				Count:    c.Count,
				Bounds:   box,
				Aspect:   ratio,
				Rejected: rejected,
			}, nil
		}
		rejected = append(rejected, Rejection{Label: c.Label, Count: c.Count, Bounds: box, Aspect: ratio})
	}

	return nil, fmt.Errorf("%w: all %d components outside aspect band [%.2f, %.2f]",
		ErrNoCandidate, len(table), band.Min, band.Max)
}

// componentBounds computes the box of labels 1..n in a single scan. Index 0
// is unused.
func componentBounds(labels *LabelMap, n int) []Bounds {
	boxes := make([]Bounds, n+1)
	for i := range boxes {
		boxes[i] = Bounds{MinX: labels.Width, MinY: labels.Height, MaxX: -1, MaxY: -1}
	}
	for y, row := range labels.IDs {
		for x, id := range row {
			if id > 0 && id <= n {
				boxes[id] = grow(boxes[id], x, y)
			}
		}
	}
	return boxes
}

func grow(b Bounds, x, y int) Bounds {
	if x < b.MinX {
		b.MinX = x
	}
	if x > b.MaxX {
		b.MaxX = x
	}
	if y < b.MinY {
		b.MinY = y
	}
	if y > b.MaxY {
		b.MaxY = y
	}
	return b
}
