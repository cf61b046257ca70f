package processor

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/avatar-fix/internal/entity"
)

// CropRegion is the centered square taken from the source.
type CropRegion struct {
	OffsetX int
	OffsetY int
	Size    int
}

// CenterSquare picks the largest centered square. Odd margins are floored.
func CenterSquare(width, height int) CropRegion {
	size := min(width, height)
	return CropRegion{
		OffsetX: (width - size) / 2,
		OffsetY: (height - size) / 2,
		Size:    size,
	}
}

// Rect places the region on an image whose bounds start at origin.
func (r CropRegion) Rect(origin image.Point) image.Rectangle {
	topLeft := origin.Add(image.Pt(r.OffsetX, r.OffsetY))
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(image.Pt(r.Size, r.Size))}
}

type Transformer struct {
	size   int
	filter imaging.ResampleFilter
}

func NewTransformer(size int) *Transformer {
	return &Transformer{size: size, filter: imaging.Lanczos}
}

// Transform crops the centered square out of img and scales it to the canvas size.
// The scaled crop itself is the canvas: colour stays unpremultiplied, so
// translucent pixels survive the PNG round trip unchanged.
func (t *Transformer) Transform(ctx context.Context, img image.Image) (*image.NRGBA, CropRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, CropRegion{}, err
	}

	bounds := img.Bounds()
	if bounds.Empty() || t.size <= 0 {
		return nil, CropRegion{}, entity.ErrCanvasUnavailable
	}

	region := CenterSquare(bounds.Dx(), bounds.Dy())
	cropped := imaging.Crop(img, region.Rect(bounds.Min))
	// Resize returns a clone when the crop already has the target size.
	canvas := imaging.Resize(cropped, t.size, t.size, t.filter)
	return canvas, region, nil
}
