package entity

import (
	"encoding/base64"
	"time"
)

// SourceFile is the user-selected file as it arrived, before decoding.
type SourceFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Rendition is an encoded image ready to be shown or downloaded.
type Rendition struct {
	MIME string `json:"mime"`
	Data []byte `json:"data"`
}

// DataURL embeds the rendition into a data URL.
func (r Rendition) DataURL() string {
	if len(r.Data) == 0 {
		return ""
	}
	return "data:" + r.MIME + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

type Published struct {
	Original       Rendition `json:"original"`
	Result         Rendition `json:"result"`
	Generation     int64     `json:"generation"`
	OverlayApplied bool      `json:"overlay_applied"`
	SourceWidth    int       `json:"source_width"`
	SourceHeight   int       `json:"source_height"`
	PublishedAt    time.Time `json:"published_at"`
}

// SessionState is everything one screen shows. Generation counts started invocations.
type SessionState struct {
	SessionID  string     `json:"session_id"`
	Generation int64      `json:"generation"`
	Processing bool       `json:"processing"`
	Published  *Published `json:"published,omitempty"`
}

type StateResponse struct {
	SessionID      string `json:"session_id"`
	Generation     int64  `json:"generation"`
	Processing     bool   `json:"processing"`
	Original       string `json:"original,omitempty"`
	Result         string `json:"result,omitempty"`
	OverlayApplied bool   `json:"overlay_applied"`
}

// PublishedEvent is sent to the event bus after a result replaces the previous one.
type PublishedEvent struct {
	SessionID      string    `json:"session_id"`
	Generation     int64     `json:"generation"`
	OverlayApplied bool      `json:"overlay_applied"`
	SourceWidth    int       `json:"source_width"`
	SourceHeight   int       `json:"source_height"`
	ResultBytes    int       `json:"result_bytes"`
	PublishedAt    time.Time `json:"published_at"`
}

func NewStateResponse(state *SessionState) StateResponse {
	resp := StateResponse{
		SessionID:  state.SessionID,
		Generation: state.Generation,
		Processing: state.Processing,
	}
	if p := state.Published; p != nil {
		resp.Original = p.Original.DataURL()
		resp.Result = p.Result.DataURL()
		resp.OverlayApplied = p.OverlayApplied
	}
	return resp
}
