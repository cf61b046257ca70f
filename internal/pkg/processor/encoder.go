package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/ds124wfegd/avatar-fix/internal/entity"
)

const ResultMIME = "image/png"

type Encoder struct {
	png png.Encoder
}

func NewEncoder() *Encoder {
	return &Encoder{png: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// Encode serializes the finished canvas as PNG.
func (e *Encoder) Encode(ctx context.Context, canvas image.Image) (entity.Rendition, error) {
	if err := ctx.Err(); err != nil {
		return entity.Rendition{}, err
	}

	var buf bytes.Buffer
	if err := e.png.Encode(&buf, canvas); err != nil {
		return entity.Rendition{}, fmt.Errorf("%w: %v", entity.ErrEncode, err)
	}
	return entity.Rendition{MIME: ResultMIME, Data: buf.Bytes()}, nil
}

// Original re-exposes the uploaded bytes as they are.
func Original(file entity.SourceFile) entity.Rendition {
	return entity.Rendition{MIME: file.ContentType, Data: file.Data}
}
