// Package models holds the portal's domain entities and their closed enumerations.
//
// All enumerations are stored as lowercase strings. Legacy uppercase values
// from the old schema are rewritten by a one-shot migration (see store); the
// Parse functions reject anything outside the declared sets.
package models

import (
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
)

// Role is the actor class the HTTP layer authenticates.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleCompany   Role = "company"
	RoleAdmin     Role = "administrator"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleApplicant, RoleCompany, RoleAdmin:
		return Role(s), nil
	}
	return "", apperrors.NewValidationError("role", "unknown role: "+s)
}

// PositionCategory is the job category an applicant targets. The stored
// values keep the German names of the legacy schema.
type PositionCategory string

const (
	CategoryStudentVacationJob PositionCategory = "studentenferienjob"
	CategorySeasonalJob        PositionCategory = "saisonjob"
	CategoryWorkingHoliday     PositionCategory = "working_holiday"
	CategorySkilledWorker      PositionCategory = "fachkraft"
	CategoryApprenticeship     PositionCategory = "ausbildung"
)

var AllCategories = []PositionCategory{
	CategoryStudentVacationJob,
	CategorySeasonalJob,
	CategoryWorkingHoliday,
	CategorySkilledWorker,
	CategoryApprenticeship,
}

func ParsePositionCategory(s string) (PositionCategory, error) {
	for _, c := range AllCategories {
		if PositionCategory(s) == c {
			return c, nil
		}
	}
	return "", apperrors.NewValidationError("position_category", "unknown category: "+s)
}

// LanguageLevel is the CEFR-style ordinal scale for applicant proficiency.
type LanguageLevel string

const (
	LevelNone   LanguageLevel = "none"
	LevelA1     LanguageLevel = "a1"
	LevelA2     LanguageLevel = "a2"
	LevelB1     LanguageLevel = "b1"
	LevelB2     LanguageLevel = "b2"
	LevelC1     LanguageLevel = "c1"
	LevelC2     LanguageLevel = "c2"
	LevelNative LanguageLevel = "native"
)

// languageOrdinals maps proficiency to the 8-step ordinal used by the matcher.
var languageOrdinals = map[LanguageLevel]int{
	LevelNone: 0, LevelA1: 1, LevelA2: 2, LevelB1: 3,
	LevelB2: 4, LevelC1: 5, LevelC2: 6, LevelNative: 7,
}

// Ordinal returns the matcher ordinal; unknown levels count as none.
func (l LanguageLevel) Ordinal() int {
	return languageOrdinals[l]
}

func ParseLanguageLevel(s string) (LanguageLevel, error) {
	if _, ok := languageOrdinals[LanguageLevel(s)]; ok {
		return LanguageLevel(s), nil
	}
	return "", apperrors.NewValidationError("language_level", "unknown level: "+s)
}

// LanguageRequirement is the four-tier scale job postings use.
type LanguageRequirement string

const (
	LangNotRequired LanguageRequirement = "not_required"
	LangBasic       LanguageRequirement = "basic"
	LangGood        LanguageRequirement = "good"
	LangFluent      LanguageRequirement = "fluent"
)

var requirementOrdinals = map[LanguageRequirement]int{
	LangNotRequired: 0, LangBasic: 2, LangGood: 3, LangFluent: 5,
}

// Ordinal maps the requirement tier onto the same scale as LanguageLevel.
func (r LanguageRequirement) Ordinal() int {
	return requirementOrdinals[r]
}

func ParseLanguageRequirement(s string) (LanguageRequirement, error) {
	if _, ok := requirementOrdinals[LanguageRequirement(s)]; ok {
		return LanguageRequirement(s), nil
	}
	return "", apperrors.NewValidationError("language_requirement", "unknown tier: "+s)
}

// SalaryPeriod is the cadence of a posting's compensation range.
type SalaryPeriod string

const (
	SalaryHourly  SalaryPeriod = "hourly"
	SalaryMonthly SalaryPeriod = "monthly"
	SalaryYearly  SalaryPeriod = "yearly"
)

func ParseSalaryPeriod(s string) (SalaryPeriod, error) {
	switch SalaryPeriod(s) {
	case SalaryHourly, SalaryMonthly, SalaryYearly:
		return SalaryPeriod(s), nil
	}
	return "", apperrors.NewValidationError("salary_period", "unknown period: "+s)
}

// Gender feeds the mail salutation; anything else falls back to a neutral greeting.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderDiverse Gender = "diverse"
)

// DocumentType is the closed upload taxonomy.
type DocumentType string

const (
	DocPassport              DocumentType = "passport"
	DocCV                    DocumentType = "cv"
	DocPhoto                 DocumentType = "photo"
	DocEnrollmentCertificate DocumentType = "enrollment_certificate"
	DocEnrollmentTranslation DocumentType = "enrollment_translation"
	DocAgencyDeclaration     DocumentType = "agency_declaration"
	DocLanguageCertificate   DocumentType = "language_certificate"
	DocDiploma               DocumentType = "diploma"
	DocSchoolCertificate     DocumentType = "school_certificate"
	DocWorkReference         DocumentType = "work_reference"
	DocVisa                  DocumentType = "visa"
	DocOther                 DocumentType = "other"
)

var allDocumentTypes = map[DocumentType]bool{
	DocPassport: true, DocCV: true, DocPhoto: true,
	DocEnrollmentCertificate: true, DocEnrollmentTranslation: true,
	DocAgencyDeclaration: true, DocLanguageCertificate: true,
	DocDiploma: true, DocSchoolCertificate: true,
	DocWorkReference: true, DocVisa: true, DocOther: true,
}

func ParseDocumentType(s string) (DocumentType, error) {
	if allDocumentTypes[DocumentType(s)] {
		return DocumentType(s), nil
	}
	return "", apperrors.NewValidationError("document_type", "unknown type: "+s)
}

// AnabinStatus is the outcome of the credential verifier on an applicant.
type AnabinStatus string

const (
	AnabinNotChecked AnabinStatus = "not_checked"
	AnabinVerified   AnabinStatus = "verified"
	AnabinNotFound   AnabinStatus = "not_found"
	AnabinUncertain  AnabinStatus = "uncertain"
	AnabinError      AnabinStatus = "error"
)

func ParseAnabinStatus(s string) (AnabinStatus, error) {
	switch AnabinStatus(s) {
	case AnabinNotChecked, AnabinVerified, AnabinNotFound, AnabinUncertain, AnabinError:
		return AnabinStatus(s), nil
	}
	return "", apperrors.NewValidationError("anabin_status", "unknown status: "+s)
}

// CompanyRequestType classifies what a company commissions the agency for.
type CompanyRequestType string

const (
	RequestRecruiting  CompanyRequestType = "recruiting"
	RequestSupport     CompanyRequestType = "support"
	RequestDocuments   CompanyRequestType = "documents"
	RequestFullService CompanyRequestType = "full_service"
)

func ParseCompanyRequestType(s string) (CompanyRequestType, error) {
	switch CompanyRequestType(s) {
	case RequestRecruiting, RequestSupport, RequestDocuments, RequestFullService:
		return CompanyRequestType(s), nil
	}
	return "", apperrors.NewValidationError("request_type", "unknown type: "+s)
}
