package models

import "time"

// JobTranslation is one language block of the translations JSON column.
type JobTranslation struct {
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`
	Tasks        string `json:"tasks,omitempty"`
	Requirements string `json:"requirements,omitempty"`
	Benefits     string `json:"benefits,omitempty"`
}

// JobPosting is a vacancy belonging to one company.
type JobPosting struct {
	ID        int64
	CompanyID int64

	Title          string
	Category       PositionCategory
	EmploymentType string
	Description    string
	Tasks          string
	Requirements   string
	Benefits       string
	Translations   map[string]JobTranslation

	Location      string
	Street        string
	PostalCode    string
	City          string
	Country       string
	Accommodation bool

	StartDate *time.Time
	EndDate   *time.Time

	SalaryMin    *float64
	SalaryMax    *float64
	SalaryPeriod SalaryPeriod

	GermanRequired  LanguageRequirement
	EnglishRequired LanguageRequirement
	OtherLangReqs   []OtherLanguageRequirement

	Deadline   *time.Time
	IsActive   bool
	IsArchived bool
	ArchivedAt *time.Time

	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OtherLanguageRequirement pairs a language with its required tier.
type OtherLanguageRequirement struct {
	Language string              `json:"language"`
	Tier     LanguageRequirement `json:"tier"`
}

// CompanyName is denormalized onto the posting for notification payloads;
// repositories populate it via join.
type JobWithCompany struct {
	JobPosting
	CompanyName string
}
