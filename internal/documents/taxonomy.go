// Package documents manages applicant file uploads: the per-category
// requirement taxonomy, upload validation, download authorization and the
// completeness check the workflow consults before review.
package documents

import (
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Requirements lists which document types a category demands and which it
// merely suggests.
type Requirements struct {
	Required []models.DocumentType
	Optional []models.DocumentType
}

// taxonomy is keyed by position category. Categories absent here require
// nothing beyond a passport.
var taxonomy = map[models.PositionCategory]Requirements{
	models.CategoryStudentVacationJob: {
		Required: []models.DocumentType{
			models.DocPassport,
			models.DocEnrollmentCertificate,
			models.DocAgencyDeclaration,
		},
		Optional: []models.DocumentType{
			models.DocCV,
			models.DocEnrollmentTranslation,
			models.DocPhoto,
		},
	},
	models.CategoryApprenticeship: {
		Required: []models.DocumentType{
			models.DocPassport,
			models.DocLanguageCertificate,
			models.DocCV,
		},
		Optional: []models.DocumentType{
			models.DocSchoolCertificate,
			models.DocPhoto,
		},
	},
	models.CategorySkilledWorker: {
		Required: []models.DocumentType{
			models.DocPassport,
			models.DocCV,
			models.DocDiploma,
		},
		Optional: []models.DocumentType{
			models.DocLanguageCertificate,
			models.DocWorkReference,
			models.DocPhoto,
		},
	},
	models.CategorySeasonalJob: {
		Required: []models.DocumentType{
			models.DocPassport,
		},
		Optional: []models.DocumentType{
			models.DocCV,
			models.DocWorkReference,
			models.DocPhoto,
		},
	},
	models.CategoryWorkingHoliday: {
		Required: []models.DocumentType{
			models.DocPassport,
			models.DocCV,
		},
		Optional: []models.DocumentType{
			models.DocVisa,
			models.DocLanguageCertificate,
			models.DocWorkReference,
			models.DocPhoto,
		},
	},
}

// RequirementsFor returns the taxonomy entry for a category. Unknown
// categories fall back to passport-only.
func RequirementsFor(category models.PositionCategory) Requirements {
	if req, ok := taxonomy[category]; ok {
		return req
	}
	return Requirements{Required: []models.DocumentType{models.DocPassport}}
}

// CombinedRequired merges the required sets of several categories, deduplicated
// in first-seen order. An applicant registered for more than one category must
// satisfy the union.
func CombinedRequired(categories []models.PositionCategory) []models.DocumentType {
	seen := make(map[models.DocumentType]bool)
	var out []models.DocumentType
	for _, cat := range categories {
		for _, t := range RequirementsFor(cat).Required {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}
