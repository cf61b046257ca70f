package processor

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/ds124wfegd/avatar-fix/internal/pkg/storage"
	"golang.org/x/sync/singleflight"
)

// OverlaySource yields the decorative overlay. Implementations must not mutate the returned image.
type OverlaySource interface {
	Load(ctx context.Context) (image.Image, error)
}

type fileOverlay struct {
	assets storage.AssetStorage
	path   string
}

// NewFileOverlay reads the overlay from the asset store on every call.
func NewFileOverlay(assets storage.AssetStorage, path string) OverlaySource {
	return &fileOverlay{assets: assets, path: path}
}

func (o *fileOverlay) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := o.assets.Get(o.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode overlay %s: %w", o.path, err)
	}
	return img, nil
}

type cachedOverlay struct {
	source OverlaySource
	group  singleflight.Group

	mu  sync.RWMutex
	img image.Image
}

// NewCachedOverlay keeps the first successfully decoded overlay. Failures are retried on the next call.
func NewCachedOverlay(source OverlaySource) OverlaySource {
	return &cachedOverlay{source: source}
}

func (c *cachedOverlay) Load(ctx context.Context) (image.Image, error) {
	c.mu.RLock()
	img := c.img
	c.mu.RUnlock()
	if img != nil {
		return img, nil
	}

	// shared by every waiter, so one cancelled request must not fail the others
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do("overlay", func() (interface{}, error) {
		img, err := c.source.Load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.img = img
		c.mu.Unlock()
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}
