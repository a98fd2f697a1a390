package domain

import (
	"strings"
	"time"
)

// MediaKind distinguishes requested/selected media types
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
	MediaKindAny   MediaKind = "any"
)

// MediaReference is a handle to one on-device or library media item.
// A reference whose URI no longer resolves is stale, not broken:
// callers must recover or drop it, never keep it silently.
type MediaReference struct {
	URI        string    `json:"uri"`
	MimeType   string    `json:"mime_type"`
	Width      int       `json:"width,omitempty"`
	Height     int       `json:"height,omitempty"`
	DurationMS int64     `json:"duration_ms,omitempty"`
	SizeBytes  int64     `json:"size_bytes,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
}

// Kind derives the media kind from the MIME type
func (m MediaReference) Kind() MediaKind {
	switch {
	case strings.HasPrefix(m.MimeType, "image/"):
		return MediaKindImage
	case strings.HasPrefix(m.MimeType, "video/"):
		return MediaKindVideo
	default:
		return MediaKindAny
	}
}

// Matches reports whether the reference satisfies a requested kind
func (m MediaReference) Matches(kind MediaKind) bool {
	return kind == MediaKindAny || m.Kind() == kind
}

// IsZero reports whether the reference is empty
func (m MediaReference) IsZero() bool {
	return m.URI == ""
}
