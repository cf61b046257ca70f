package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenditionDataURL(t *testing.T) {
	r := Rendition{MIME: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
	assert.Equal(t, "data:image/png;base64,iVBORw==", r.DataURL())
	assert.Empty(t, Rendition{MIME: "image/png"}.DataURL())
}

func TestNewStateResponse(t *testing.T) {
	empty := NewStateResponse(&SessionState{SessionID: "s", Processing: true, Generation: 3})
	assert.Equal(t, StateResponse{SessionID: "s", Processing: true, Generation: 3}, empty)

	full := NewStateResponse(&SessionState{
		SessionID:  "s",
		Generation: 4,
		Published: &Published{
			Original:       Rendition{MIME: "image/jpeg", Data: []byte("a")},
			Result:         Rendition{MIME: "image/png", Data: []byte("b")},
			OverlayApplied: true,
		},
	})
	assert.Equal(t, "data:image/jpeg;base64,YQ==", full.Original)
	assert.Equal(t, "data:image/png;base64,Yg==", full.Result)
	assert.True(t, full.OverlayApplied)
	assert.False(t, full.Processing)
}
