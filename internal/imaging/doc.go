// Package imaging connects image files to the plate detector.
//
// It decodes files into the colour planes the detector consumes, draws the
// detected plate outline onto the stretched greyscale plane, and extracts
// the plate region from the source image.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the
// top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - detection.Bounds are inclusive on all four edges
//   - Crop regions take (x1,y1) inclusive and (x2,y2) exclusive
//
// # Formats
//
// Load decodes PNG, JPEG, GIF, BMP, TIFF and WebP, applying the EXIF
// orientation tag when present. Renderings are always written as PNG.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The remaining functions
// are stateless and do not modify their inputs.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates or bounds outside the image
//   - Invalid render options (unparseable colour, zero line width or scale)
//   - File I/O errors during loading or saving
//   - Encoding errors during image output
//
// Empty images wrap detection.ErrEmptyImage.
package imaging
