package models

// StagedBinary is the raw upload picked by the operator, held in memory until it is uploaded.
type StagedBinary struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LocalPreview is the memory-only handle of a staged image. It must be released exactly once.
type LocalPreview struct {
	ID        string
	URL       string
	Binary    StagedBinary
	Thumbnail []byte
}

// Image is an entry of a variant's ordered image list. Slice order is display order.
// A persisted image has URL and PermanentID; a staged image has Preview set instead.
type Image struct {
	URL         string        `json:"url,omitempty"`
	PermanentID string        `json:"permanent_id,omitempty"`
	Preview     *LocalPreview `json:"-"`
}

// IsStaged reports whether the image still waits for upload.
func (i Image) IsStaged() bool {
	return i.Preview != nil
}

// ImageRef is a persisted image as sent to the catalog API.
type ImageRef struct {
	URL         string `json:"url"`
	PermanentID string `json:"permanent_id"`
}
