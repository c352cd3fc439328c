package models

import "time"

// JobRequest is an applicant's commission to the agency to find them work.
type JobRequest struct {
	ID          int64
	ApplicantID int64

	Category PositionCategory
	Status   JobRequestStatus

	PrivacyConsent     bool
	PrivacyConsentDate *time.Time
	PrivacyConsentText string

	PreferredLocation string
	PreferredStart    *time.Time
	Notes             string

	// Match outcome once the agency places the applicant.
	MatchedCompany string
	MatchedTitle   string
	InterviewDate  *time.Time
	InterviewLink  string
	ContractDate   *time.Time

	AssignedAdminID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
