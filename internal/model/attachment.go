package model

// Attachment types written by the service. Capture callers may supply
// entries with any type value; only these three are produced internally.
const (
	AttachmentImage    = "image"
	AttachmentVideo    = "video"
	AttachmentLocation = "location"
)

// Attachment is one entry in a memo's append-only attachment list.
//
// Entries are open-shaped: capture accepts arbitrary client-supplied JSON
// objects and preserves them verbatim, while the media and location
// endpoints append the two well-known shapes:
//
//	{"type": "image"|"video", "path": ..., "mime": ..., "created_at": <unix seconds>}
//	{"type": "location", "lat": ..., "lng": ...}
//
// A map keeps unknown keys intact across decode/encode round trips.
type Attachment map[string]any

// NewMediaAttachment builds the entry appended for a stored media file.
func NewMediaAttachment(kind, path, mime string, createdAt int64) Attachment {
	return Attachment{
		"type":       kind,
		"path":       path,
		"mime":       mime,
		"created_at": createdAt,
	}
}

// NewLocationAttachment builds the entry appended for a geotag.
func NewLocationAttachment(lat, lng float64) Attachment {
	return Attachment{
		"type": AttachmentLocation,
		"lat":  lat,
		"lng":  lng,
	}
}

// Type returns the entry's "type" value, or "" when absent or not a string.
func (a Attachment) Type() string {
	t, _ := a["type"].(string)
	return t
}

// Path returns the entry's storage path, or "" when absent.
func (a Attachment) Path() string {
	p, _ := a["path"].(string)
	return p
}

// IsMedia reports whether the entry references a stored image or video.
func (a Attachment) IsMedia() bool {
	t := a.Type()
	return t == AttachmentImage || t == AttachmentVideo
}

// Clone returns a copy whose top-level keys can be added or removed
// without touching the original.
func (a Attachment) Clone() Attachment {
	c := make(Attachment, len(a))
	for k, v := range a {
		c[k] = v
	}
	return c
}
