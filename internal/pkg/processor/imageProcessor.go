package processor

import (
	"context"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/sirupsen/logrus"
)

// Result is what one invocation produces before it is published.
type Result struct {
	Original       entity.Rendition
	Rendered       entity.Rendition
	Region         CropRegion
	OverlayApplied bool
	SourceWidth    int
	SourceHeight   int
}

type ImageProcessor interface {
	Process(ctx context.Context, file entity.SourceFile, observe StageObserver) (*Result, error)
}

type imageProcessor struct {
	transformer *Transformer
	compositor  *Compositor
	encoder     *Encoder
}

func NewImageProcessor(size int, overlay OverlaySource) ImageProcessor {
	return &imageProcessor{
		transformer: NewTransformer(size),
		compositor:  NewCompositor(overlay),
		encoder:     NewEncoder(),
	}
}

// Process runs load, transform, composite and encode in order.
// A missing overlay is not an error: the canvas is encoded as is.
func (p *imageProcessor) Process(ctx context.Context, file entity.SourceFile, observe StageObserver) (*Result, error) {
	if !IsImage(file.ContentType) {
		return nil, entity.ErrInvalidInputType
	}

	log := logrus.WithFields(logrus.Fields{
		"file":         file.Name,
		"content_type": file.ContentType,
		"bytes":        len(file.Data),
	})

	observe.notify(StageLoading)
	img, format, err := Decode(ctx, file.Data)
	if err != nil {
		return nil, err
	}

	observe.notify(StageTransforming)
	canvas, region, err := p.transformer.Transform(ctx, img)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	log.WithFields(logrus.Fields{
		"format":   format,
		"width":    bounds.Dx(),
		"height":   bounds.Dy(),
		"offset_x": region.OffsetX,
		"offset_y": region.OffsetY,
		"size":     region.Size,
	}).Debug("Source cropped")

	observe.notify(StageCompositing)
	overlayErr := p.compositor.Composite(ctx, canvas)
	if overlayErr != nil {
		log.WithError(overlayErr).Warn("Overlay skipped")
		observe.notify(StageOverlayFailed)
	} else {
		observe.notify(StageOverlaid)
	}

	// a cancelled context is not an overlay failure
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rendered, err := p.encoder.Encode(ctx, canvas)
	if err != nil {
		return nil, err
	}

	return &Result{
		Original:       Original(file),
		Rendered:       rendered,
		Region:         region,
		OverlayApplied: overlayErr == nil,
		SourceWidth:    bounds.Dx(),
		SourceHeight:   bounds.Dy(),
	}, nil
}
