package processor

import (
	"context"
	"fmt"
	"image"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"golang.org/x/image/draw"
)

type Compositor struct {
	overlay OverlaySource
}

func NewCompositor(overlay OverlaySource) *Compositor {
	return &Compositor{overlay: overlay}
}

// Composite draws the overlay over the whole canvas, keeping its alpha.
// On error the canvas is left untouched and the error wraps entity.ErrOverlayLoad.
func (c *Compositor) Composite(ctx context.Context, canvas *image.NRGBA) error {
	if c.overlay == nil {
		return fmt.Errorf("%w: no overlay source", entity.ErrOverlayLoad)
	}

	overlay, err := c.overlay.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrOverlayLoad, err)
	}

	src := overlay.Bounds()
	if src.Empty() {
		return fmt.Errorf("%w: empty overlay", entity.ErrOverlayLoad)
	}

	dst := canvas.Bounds()
	if src.Size() == dst.Size() {
		draw.Draw(canvas, dst, overlay, src.Min, draw.Over)
		return nil
	}
	draw.CatmullRom.Scale(canvas, dst, overlay, src, draw.Over, nil)
	return nil
}
