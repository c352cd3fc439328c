package models

import "time"

// Interview is the scheduling artifact bound to one application. The first
// proposed slot is mandatory, the second optional; a confirmed date always
// equals one of the two proposals.
type Interview struct {
	ID            int64
	ApplicationID int64

	ProposedDate1 time.Time
	ProposedDate2 *time.Time
	ConfirmedDate *time.Time

	Location    string
	MeetingLink string

	CompanyNotes   string
	ApplicantNotes string

	Status       InterviewStatus
	ReminderSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
