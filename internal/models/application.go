package models

import "time"

// Application records that an applicant applied to a posting.
type Application struct {
	ID           int64
	ApplicantID  int64
	JobPostingID int64

	Status  ApplicationStatus
	Message string

	CompanyNotes string
	AgencyNotes  string

	AppliedAt time.Time
	UpdatedAt time.Time
}
