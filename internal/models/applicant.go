package models

import "time"

// WorkExperience is one entry of the structured employment history
// (work_experiences JSON column).
type WorkExperience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description,omitempty"`
}

// OtherLanguage is one entry of the other_languages JSON column.
type OtherLanguage struct {
	Language string        `json:"language"`
	Level    LanguageLevel `json:"level"`
}

// Applicant is the job-seeker identity.
type Applicant struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Nationality string
	Gender      Gender
	Street      string
	PostalCode  string
	City        string
	Country     string

	// Qualification block
	GermanLevel     LanguageLevel
	EnglishLevel    LanguageLevel
	OtherLanguages  []OtherLanguage
	WorkExperiences []WorkExperience
	ExperienceYears int

	// Deprecated: PositionType is the legacy singular field; new code reads
	// PositionTypes and falls back to it (see CategorySet).
	PositionType  PositionCategory
	PositionTypes []PositionCategory

	// Category-conditional fields
	University     string
	UniversityCity string
	StudyField     string
	Semester       int
	BreakStart     *time.Time // semester break window (students)
	BreakEnd       *time.Time
	DesiredTrade   string // apprentices
	SchoolDegree   string
	Profession     string // skilled workers
	Degree         string
	GraduationYear int
	AvailableFrom  *time.Time // seasonal
	AvailableUntil *time.Time
	PreferredArea  string

	JobNotifications bool

	// Institutional verification block
	AnabinStatus      AnabinStatus
	AnabinScore       *int
	AnabinInstitution string
	AnabinInstID      string
	AnabinAccredited  bool
	AnabinCheckedBy   *int64 // admin user id, SET NULL on admin deletion
	AnabinCheckedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategorySet returns the declared position categories, consulting the list
// first and falling back to the legacy singular field.
func (a *Applicant) CategorySet() []PositionCategory {
	if len(a.PositionTypes) > 0 {
		return a.PositionTypes
	}
	if a.PositionType != "" {
		return []PositionCategory{a.PositionType}
	}
	return nil
}

// HasCategory reports whether the applicant declared the given category.
func (a *Applicant) HasCategory(c PositionCategory) bool {
	for _, have := range a.CategorySet() {
		if have == c {
			return true
		}
	}
	return false
}

// FullName joins first and last name for mail payloads.
func (a *Applicant) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
