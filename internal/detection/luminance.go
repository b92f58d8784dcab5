package detection

// ITU-R BT.601 luma weights, applied to gamma-encoded samples as-is.
const (
	lumaRed   = 0.299
	lumaGreen = 0.587
	lumaBlue  = 0.114
)

// Luminance converts RGB channel planes to a greyscale plane.
//
// Each output sample is 0.299*R + 0.587*G + 0.114*B. The observed minimum and
// maximum over the whole image are returned alongside the plane so the caller
// can contrast-stretch it without another pass.
//
// Returns an error wrapping ErrEmptyImage if the channels are empty or
// inconsistent.
func Luminance(ch *Channels) (*Grid, Range, error) {
	if err := ch.Validate(); err != nil {
		return nil, Range{}, err
	}

	grey := NewGrid(ch.Width, ch.Height)
	r := emptyRange()
	for y := 0; y < ch.Height; y++ {
		rowR, rowG, rowB := ch.R[y], ch.G[y], ch.B[y]
		out := grey.Pix[y]
		for x := 0; x < ch.Width; x++ {
			v := lumaRed*float64(rowR[x]) + lumaGreen*float64(rowG[x]) + lumaBlue*float64(rowB[x])
			out[x] = v
			r.observe(v)
		}
	}
	return grey, r, nil
}
