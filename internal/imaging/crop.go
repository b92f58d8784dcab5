package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/plate-finder/internal/detection"
)

// CropResult contains the cropped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts a rectangular region from an image. (x1,y1) is inclusive and
// (x2,y2) exclusive.
func Crop(img image.Image, x1, y1, x2, y2 int, scale float64) (*CropResult, error) {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// plateRect converts inclusive bounds relative to the image origin into the
// half-open rectangle they cover.
func plateRect(img image.Image, b detection.Bounds) image.Rectangle {
	origin := img.Bounds().Min
	// Built as a literal so inverted bounds stay inverted and fail validation.
	return image.Rectangle{
		Min: image.Pt(origin.X+b.MinX, origin.Y+b.MinY),
		Max: image.Pt(origin.X+b.MaxX+1, origin.Y+b.MaxY+1),
	}
}

// CropPlate extracts the detected plate region from the source image as
// base64 PNG. Bounds are inclusive and relative to the image origin.
func CropPlate(img image.Image, b detection.Bounds, scale float64) (*CropResult, error) {
	r := plateRect(img, b)
	return Crop(img, r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, scale)
}

// ExtractPlate returns the detected plate region of the source image.
func ExtractPlate(img image.Image, b detection.Bounds) (*image.NRGBA, error) {
	r := plateRect(img, b)
	if r.Empty() || !r.In(img.Bounds()) {
		return nil, fmt.Errorf("plate %v outside image bounds %v", b, img.Bounds())
	}
	return imaging.Crop(img, r), nil
}
