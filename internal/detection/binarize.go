package detection

// Binarize cuts g at threshold: samples >= threshold become 1, all others 0.
func Binarize(g *Grid, threshold float64) *Mask {
	m := NewMask(g.Width, g.Height)
	for y, row := range g.Pix {
		out := m.Pix[y]
		for x, v := range row {
			if v >= threshold {
				out[x] = 1
			}
		}
	}
	return m
}
