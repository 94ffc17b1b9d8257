package domain

import "slices"

// Metadata limits.
const (
	MaxNotesLen = 2000
	MaxTags     = 20
	MaxTagLen   = 50
)

// ResumeMetadata is the notes/tags annotation attached 1:1 to a resume
// version. Notes of nil mean "no notes"; an explicitly-empty string is a
// valid stored value distinct from nil. Tags are ordered, trimmed,
// non-empty strings with no duplicates.
type ResumeMetadata struct {
	Entity
	ResumeID string   `json:"resume_id"`
	Notes    *string  `json:"notes"`
	Tags     []string `json:"tags"`
}

// HasTag reports whether tag is present (exact match).
func (m *ResumeMetadata) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// TagSearchResult joins a matching metadata record with its parent resume
// and position summaries.
type TagSearchResult struct {
	Metadata *ResumeMetadata `json:"metadata"`
	Resume   *ResumeVersion  `json:"resume"`
	Position *TargetPosition `json:"target_position"`
}
