package models

import "time"

// CompanyRequest is a company's commission to the agency to find workers.
type CompanyRequest struct {
	ID        int64
	CompanyID int64

	Type   CompanyRequestType
	Status CompanyRequestStatus

	Title       string
	Description string

	PositionsNeeded int
	PositionsFilled int

	StartDate *time.Time
	EndDate   *time.Time
	Deadline  *time.Time

	AdditionalRequirements map[string]interface{}
	SalaryRange            string

	JobPostingID   *int64
	ApplicationIDs []int64

	CandidatesProposed int
	CandidatesHired    int

	AssignedAdminID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
