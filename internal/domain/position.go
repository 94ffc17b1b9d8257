package domain

// MaxPositionNameLen is the maximum length of a target position name.
const MaxPositionNameLen = 100

// TargetPosition is a user-defined job-role bucket under which resume
// versions are grouped. Names are unique per owner (case-sensitive, after
// trimming). A position can only be deleted once no resume references it.
type TargetPosition struct {
	Entity
	OwnerUserID string  `json:"owner_user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"` // nil when not set; "" normalizes to nil

	// ResumeCount is the number of resume versions under this position.
	// Populated on detail reads; not a stored column.
	ResumeCount int `json:"resume_count"`
}
