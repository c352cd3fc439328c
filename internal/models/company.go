package models

import "time"

// Company is the employer identity. Companies start inactive and are
// activated by an administrator.
type Company struct {
	ID            int64
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Street        string
	PostalCode    string
	City          string
	Country       string
	Industry      string
	SizeBand      string

	// Rejection-mail override; subject and body support the {salutation}
	// and {company_name} placeholders.
	RejectionEmailEnabled bool
	RejectionSubject      string
	RejectionBody         string

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
