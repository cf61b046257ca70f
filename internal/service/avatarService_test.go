package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/avatar-fix/internal/database"
	"github.com/ds124wfegd/avatar-fix/internal/entity"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/processor"
	"github.com/ds124wfegd/avatar-fix/internal/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProducer struct {
	mu     sync.Mutex
	events []entity.PublishedEvent
}

func (p *recordingProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, message.(entity.PublishedEvent))
	return nil
}

func (p *recordingProducer) Close() error { return nil }

func (p *recordingProducer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService(t *testing.T, withOverlay bool) (AvatarService, *recordingProducer) {
	t.Helper()
	dir := t.TempDir()
	if withOverlay {
		overlay := image.NewNRGBA(image.Rect(0, 0, 300, 300))
		draw.Draw(overlay, image.Rect(0, 0, 300, 10), image.NewUniform(color.NRGBA{G: 255, A: 255}), image.Point{}, draw.Src)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "overlay.png"), pngBytes(t, overlay), 0o644))
	}

	producer := &recordingProducer{}
	proc := processor.NewImageProcessor(300, processor.NewFileOverlay(storage.NewAssetStorage(dir), "overlay.png"))
	return NewAvatarService(database.NewMemorySessionRepository(time.Hour), producer, proc), producer
}

// TestSelectPublishes тестирует полный успешный запуск
func TestSelectPublishes(t *testing.T) {
	svc, producer := newTestService(t, true)
	file := entity.SourceFile{Name: "photo.png", ContentType: "image/png", Data: pngBytes(t, solid(640, 480))}

	state, err := svc.Select(context.Background(), "s1", file)
	require.NoError(t, err)

	assert.False(t, state.Processing)
	assert.Equal(t, int64(1), state.Generation)
	require.NotNil(t, state.Published)
	assert.True(t, state.Published.OverlayApplied)
	assert.Equal(t, file.Data, state.Published.Original.Data)
	assert.Equal(t, "image/png", state.Published.Result.MIME)
	assert.Equal(t, 640, state.Published.SourceWidth)

	out, err := png.Decode(bytes.NewReader(state.Published.Result.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 300, 300), out.Bounds())

	require.Equal(t, 1, producer.count())
	assert.Equal(t, "s1", producer.events[0].SessionID)
	assert.Equal(t, len(state.Published.Result.Data), producer.events[0].ResultBytes)

	rendition, err := svc.Download(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, state.Published.Result, rendition)
}

func TestSelectWithoutOverlay(t *testing.T) {
	svc, _ := newTestService(t, false)
	file := entity.SourceFile{Name: "photo.png", ContentType: "image/png", Data: pngBytes(t, solid(300, 300))}

	state, err := svc.Select(context.Background(), "s1", file)
	require.NoError(t, err)
	require.NotNil(t, state.Published)
	assert.False(t, state.Published.OverlayApplied)
	assert.False(t, state.Processing)
}

// TestSelectSilentFailures тестирует, что ошибки не меняют опубликованный результат
func TestSelectSilentFailures(t *testing.T) {
	tests := []struct {
		name           string
		file           entity.SourceFile
		wantGeneration int64
	}{
		{
			name:           "text file is ignored",
			file:           entity.SourceFile{Name: "notes.txt", ContentType: "text/plain", Data: []byte("hi")},
			wantGeneration: 1,
		},
		{
			name:           "corrupt image",
			file:           entity.SourceFile{Name: "bad.jpg", ContentType: "image/jpeg", Data: []byte("garbage")},
			wantGeneration: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, producer := newTestService(t, true)
			ctx := context.Background()

			first, err := svc.Select(ctx, "s1", entity.SourceFile{Name: "a.png", ContentType: "image/png", Data: pngBytes(t, solid(50, 80))})
			require.NoError(t, err)
			require.NotNil(t, first.Published)

			state, err := svc.Select(ctx, "s1", tt.file)
			require.NoError(t, err)
			assert.False(t, state.Processing)
			assert.Equal(t, tt.wantGeneration, state.Generation)
			assert.Equal(t, first.Published, state.Published)
			assert.Equal(t, 1, producer.count())
		})
	}
}

func TestSelectNonImageOnFreshSession(t *testing.T) {
	svc, _ := newTestService(t, true)

	state, err := svc.Select(context.Background(), "s1", entity.SourceFile{Name: "x.txt", ContentType: "text/plain"})
	require.NoError(t, err)
	assert.False(t, state.Processing)
	assert.Zero(t, state.Generation)
	assert.Nil(t, state.Published)

	_, err = svc.Download(context.Background(), "s1")
	assert.ErrorIs(t, err, entity.ErrNothingToExport)
}

// blockingProcessor задерживает первый запуск, пока тест не отпустит его
type blockingProcessor struct {
	entered chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (p *blockingProcessor) Process(ctx context.Context, file entity.SourceFile, observe processor.StageObserver) (*processor.Result, error) {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()

	if first {
		close(p.entered)
		<-p.release
	}
	return &processor.Result{
		Original: entity.Rendition{MIME: file.ContentType, Data: file.Data},
		Rendered: entity.Rendition{MIME: processor.ResultMIME, Data: []byte(file.Name)},
	}, nil
}

// TestSelectStaleInvocationDropped тестирует защиту от перезаписи устаревшим запуском
func TestSelectStaleInvocationDropped(t *testing.T) {
	proc := &blockingProcessor{entered: make(chan struct{}), release: make(chan struct{})}
	producer := &recordingProducer{}
	svc := NewAvatarService(database.NewMemorySessionRepository(0), producer, proc)
	ctx := context.Background()

	done := make(chan *entity.SessionState, 1)
	go func() {
		state, err := svc.Select(ctx, "s1", entity.SourceFile{Name: "old", ContentType: "image/png"})
		assert.NoError(t, err)
		done <- state
	}()
	<-proc.entered

	during, err := svc.State(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, during.Processing)

	newer, err := svc.Select(ctx, "s1", entity.SourceFile{Name: "new", ContentType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), newer.Published.Result.Data)

	close(proc.release)
	stale := <-done

	assert.Equal(t, []byte("new"), stale.Published.Result.Data)
	assert.Equal(t, int64(2), stale.Published.Generation)
	assert.False(t, stale.Processing)
	assert.Equal(t, 1, producer.count())
}

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 90, G: 60, B: 200, A: 255}), image.Point{}, draw.Src)
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
