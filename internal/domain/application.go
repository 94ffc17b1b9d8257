package domain

// ApplicationStatus is the closed set of application-attempt states.
// There is no enforced transition graph — any status may be set from any
// other; the only constraint is membership in this set.
type ApplicationStatus string

const (
	StatusApplied          ApplicationStatus = "applied"
	StatusInterviewInvited ApplicationStatus = "interview_invited"
	StatusRejected         ApplicationStatus = "rejected"
	StatusOffered          ApplicationStatus = "offered"
)

// AllStatuses lists every valid application status.
var AllStatuses = []ApplicationStatus{
	StatusApplied,
	StatusInterviewInvited,
	StatusRejected,
	StatusOffered,
}

// IsValid reports whether s is a member of the closed status set.
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case StatusApplied, StatusInterviewInvited, StatusRejected, StatusOffered:
		return true
	}
	return false
}

// Application field limits.
const (
	MaxCompanyNameLen   = 200
	MaxPositionTitleLen = 200
)

// ApplicationRecord is a logged attempt to apply to a company using a
// specific resume version. ApplyDate is a calendar date (YYYY-MM-DD) and
// must not be in the future relative to the server clock.
type ApplicationRecord struct {
	Entity
	ResumeID      string            `json:"resume_id"`
	CompanyName   string            `json:"company_name"`
	PositionTitle *string           `json:"position_title"`
	ApplyDate     string            `json:"apply_date"` // YYYY-MM-DD
	Status        ApplicationStatus `json:"status"`
	Notes         *string           `json:"notes"`
}

// StatusCounts holds per-status application counts. All four statuses are
// always present in the serialized form, zero-valued when absent.
type StatusCounts struct {
	Applied          int `json:"applied"`
	InterviewInvited int `json:"interview_invited"`
	Rejected         int `json:"rejected"`
	Offered          int `json:"offered"`
}

// ApplicationStats is the per-user aggregate over all application records.
// The zero shape (all counts zero, nil dates) is returned for users with
// no records.
type ApplicationStats struct {
	Total           int          `json:"total"`
	ByStatus        StatusCounts `json:"by_status"`
	LatestApplyDate *string      `json:"latest_apply_date"`
	FirstApplyDate  *string      `json:"first_apply_date"`
}
