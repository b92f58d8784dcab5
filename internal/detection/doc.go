// Package detection locates a license-plate-shaped region in a photograph
// using classical image processing.
//
// No learned model is involved. The package relies on two assumptions about
// the scene: plate characters produce more local intensity variance than the
// car body or background around them, and the plate appears as a single
// axis-aligned rectangle wider than it is tall.
//
// # Pipeline
//
// Detector.Detect runs seven stages, each consuming the previous stage's
// output and producing a fresh plane of the same width and height:
//
//  1. Luminance: RGB -> greyscale with BT.601 weights (0.299, 0.587, 0.114)
//  2. Normalize: linear stretch of the greyscale plane to 0-255
//  3. TextureResponse: population standard deviation over a 5x5 window,
//     stretched again to 0-255 over the interior
//  4. Binarize: response >= 140 becomes foreground
//  5. Close: three 3x3 dilations then three 3x3 erosions
//  6. LabelComponents: 4-connected flood fill with an explicit stack
//  7. SelectCandidate: largest component first, accepted when its bounding
//     box has width/height in [1.5, 5.0]
//
// Every stage is also exported so callers can run or test it on its own.
//
// # Borders
//
// Windowed stages never write the pixels within their radius of an edge: a
// 2-pixel frame for the texture response and a 1-pixel frame for each
// morphology round. Those pixels stay 0 and are treated as background.
//
// # Coordinate System
//
// Planes are row-major, indexed Pix[y][x] with the origin at the top-left.
// Bounds are inclusive on both corners, matching the pixel scan that
// produces them; convert with MaxX+1, MaxY+1 before building an
// image.Rectangle.
//
// # Errors
//
// Failures are reported as errors wrapping one of three sentinels:
//
//   - ErrEmptyImage: no pixels, inconsistent channels, or an image too small
//     for a windowed stage to have an interior
//   - ErrDegenerateRange: a plane to be stretched is perfectly flat
//   - ErrNoCandidate: every component failed the aspect-ratio test
//
// None of them is transient; retrying the same input gives the same result.
package detection
