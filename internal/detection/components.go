package detection

import "image"

// Component records the size of one connected component.
type Component struct {
	Label int `json:"label"`
	Count int `json:"count"`
}

// ComponentTable lists every component found by LabelComponents in label
// order, so table[i].Label == i+1.
type ComponentTable []Component

// Total returns the number of labelled pixels across all components.
func (t ComponentTable) Total() int {
	n := 0
	for _, c := range t {
		n += c.Count
	}
	return n
}

// neighbours4 are the up, down, left and right offsets. Diagonal pixels are
// not connected.
var neighbours4 = [4]image.Point{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

// LabelComponents finds the 4-connected components of the foreground of m.
//
// Pixels are scanned in raster order; each unvisited foreground pixel seeds a
// flood fill that labels its whole component with the next id, starting at 1.
// Background pixels keep label 0.
func LabelComponents(m *Mask) (*LabelMap, ComponentTable) {
	labels := NewLabelMap(m.Width, m.Height)
	visited := make([][]bool, m.Height)
	for y := range visited {
		visited[y] = make([]bool, m.Width)
	}

	table := make(ComponentTable, 0)
	next := 1
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Pix[y][x] == 0 || visited[y][x] {
				continue
			}
			count := floodFill(m, visited, labels, x, y, next)
			table = append(table, Component{Label: next, Count: count})
			next++
		}
	}
	return labels, table
}

// floodFill labels the component containing (startX, startY) and returns its
// pixel count.
//
// Uses an explicit stack rather than recursion so large regions cannot
// exhaust the goroutine stack. Pixels are marked visited when pushed, so each
// one is labelled exactly once.
func floodFill(m *Mask, visited [][]bool, labels *LabelMap, startX, startY, label int) int {
	stack := []image.Point{{X: startX, Y: startY}}
	visited[startY][startX] = true
	count := 0

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		labels.IDs[p.Y][p.X] = label
		count++

		for _, d := range neighbours4 {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
				continue
			}
			if m.Pix[ny][nx] == 0 || visited[ny][nx] {
				continue
			}
			visited[ny][nx] = true
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}
	return count
}
