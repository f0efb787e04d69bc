package domain

import "strings"

// Attachment is a file attached to a message, readable on local storage.
type Attachment struct {
	// ID is the unique identifier for the attachment.
	ID string `json:"id"`

	// MessageID links the attachment to the message that carried it.
	MessageID string `json:"messageId,omitempty"`

	// Path is the local file path.
	Path string `json:"path"`

	// MIMEType is the declared content type, if the sender supplied one.
	MIMEType *string `json:"mimeType,omitempty"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// ContentType returns the declared MIME type, lower-cased and stripped of
// parameters, or "" when none was declared.
func (a Attachment) ContentType() string {
	if a.MIMEType == nil {
		return ""
	}
	return NormaliseMIMEType(*a.MIMEType)
}

// NormaliseMIMEType lower-cases a MIME type and drops any parameters
// ("image/PNG; charset=x" becomes "image/png").
func NormaliseMIMEType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// AttachmentMetadata describes an attachment's media properties.
// Every field is optional since applicability depends on the handler.
type AttachmentMetadata struct {
	Width           *int     `json:"width,omitempty"`
	Height          *int     `json:"height,omitempty"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
	ThumbnailPath   *string  `json:"thumbnailPath,omitempty"`
}

// IsEmpty reports whether no field is set.
func (m AttachmentMetadata) IsEmpty() bool {
	return m.Width == nil && m.Height == nil && m.DurationSeconds == nil && m.ThumbnailPath == nil
}

// Size is a pixel bound for thumbnail generation.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}
