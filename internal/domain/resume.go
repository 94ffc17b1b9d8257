package domain

// ResumeKind discriminates online-authored resumes from file uploads.
type ResumeKind string

const (
	// ResumeKindOnline is a resume authored in the app as rich-text content.
	ResumeKindOnline ResumeKind = "online"
	// ResumeKindFile is an uploaded resume file.
	ResumeKindFile ResumeKind = "file"
)

// Resume size and length limits.
const (
	MaxResumeTitleLen = 200
	MaxResumeFileSize = 10 << 20 // 10 MiB
)

// ResumeVersion is one authored or uploaded resume under a target
// position. Exactly one ResumeMetadata record exists per resume, created
// in the same atomic unit. Fields not applicable to the resume's kind are
// always nil.
type ResumeVersion struct {
	Entity
	PositionID string     `json:"position_id"`
	Kind       ResumeKind `json:"kind"`
	Title      string     `json:"title"`

	// Online-kind fields.
	Content *string `json:"content,omitempty"` // may be "", never nil for online resumes

	// File-kind fields.
	FilePath *string `json:"file_path,omitempty"`
	FileName *string `json:"file_name,omitempty"`
	FileSize *int64  `json:"file_size,omitempty"`

	// Metadata is attached on reads; every resume has exactly one.
	Metadata *ResumeMetadata `json:"metadata,omitempty"`
	// Position is attached on detail reads.
	Position *TargetPosition `json:"position,omitempty"`
}

// IsOnline reports whether this is an online-authored resume.
func (r *ResumeVersion) IsOnline() bool { return r.Kind == ResumeKindOnline }

// IsFile reports whether this is an uploaded file resume.
func (r *ResumeVersion) IsFile() bool { return r.Kind == ResumeKindFile }
