// internal/matching/scorer_test.go
package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

func datePtr(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestScore_StrongStudentMatch(t *testing.T) {
	applicant := &models.Applicant{
		PositionTypes: []models.PositionCategory{models.CategoryStudentVacationJob},
		GermanLevel:   models.LevelB2,
		EnglishLevel:  models.LevelB1,
		WorkExperiences: []models.WorkExperience{
			{Company: "Hotel Adler", Position: "Kellner"},
			{Company: "Gasthof Linde", Position: "Service Restaurant"},
		},
		BreakStart: datePtr(2026, 7, 1),
		BreakEnd:   datePtr(2026, 9, 30),
	}
	job := &models.JobPosting{
		Title:           "Restaurant Service",
		Category:        models.CategoryStudentVacationJob,
		GermanRequired:  models.LangGood,
		EnglishRequired: models.LangNotRequired,
		StartDate:       datePtr(2026, 8, 1),
	}

	result := Score(applicant, job)

	assert.Equal(t, 30, result.Breakdown.Category)
	assert.Equal(t, 25, result.Breakdown.German)
	assert.Equal(t, 15, result.Breakdown.English)
	// two relevant entries (10) plus breadth bonus for two entries (2)
	assert.Equal(t, 12, result.Breakdown.Experience)
	assert.Equal(t, 10, result.Breakdown.Availability)
	assert.Equal(t, 92, result.Total)
	assert.Equal(t, RecommendationVeryGood, result.Recommendation)
	assert.NotEmpty(t, result.Details)
}

func TestScore_WeakLanguageFit(t *testing.T) {
	applicant := &models.Applicant{
		PositionTypes: []models.PositionCategory{models.CategorySeasonalJob},
		GermanLevel:   models.LevelA2,
		EnglishLevel:  models.LevelNone,
	}
	job := &models.JobPosting{
		Title:           "Erntehelfer",
		Category:        models.CategorySeasonalJob,
		GermanRequired:  models.LangFluent,
		EnglishRequired: models.LangBasic,
	}

	result := Score(applicant, job)

	assert.Equal(t, 30, result.Breakdown.Category)
	// a2 (2) against fluent (5): 25 - 3*5*1.5 = 2.5, truncated to 2
	assert.Equal(t, 2, result.Breakdown.German)
	assert.Equal(t, 0, result.Breakdown.English)
	assert.Equal(t, 0, result.Breakdown.Experience)
	assert.Equal(t, 5, result.Breakdown.Availability)
	assert.Equal(t, 37, result.Total)
	assert.Equal(t, RecommendationLow, result.Recommendation)
}

func TestScore_CategoryNotDeclared(t *testing.T) {
	applicant := &models.Applicant{
		PositionTypes: []models.PositionCategory{models.CategorySkilledWorker},
		GermanLevel:   models.LevelC1,
		EnglishLevel:  models.LevelC1,
	}
	job := &models.JobPosting{
		Title:    "Zimmermädchen",
		Category: models.CategoryStudentVacationJob,
	}

	result := Score(applicant, job)
	assert.Equal(t, 0, result.Breakdown.Category)
}

func TestScore_LegacySingularPositionType(t *testing.T) {
	applicant := &models.Applicant{
		PositionType: models.CategoryApprenticeship,
		GermanLevel:  models.LevelB1,
	}
	job := &models.JobPosting{
		Title:    "Ausbildung Koch",
		Category: models.CategoryApprenticeship,
	}

	result := Score(applicant, job)
	assert.Equal(t, 30, result.Breakdown.Category)
}

func TestLanguageScore(t *testing.T) {
	tests := []struct {
		name      string
		applicant int
		required  int
		maxPts    int
		expected  int
	}{
		{"not required", 0, 0, 15, 15},
		{"meets requirement exactly", 3, 3, 25, 25},
		{"exceeds requirement", 4, 3, 25, 25},
		{"a2 against fluent truncates to 2", 2, 5, 25, 2},
		{"two-step gap against fluent", 3, 5, 25, 10},
		{"gap clamps at zero", 0, 2, 15, 0},
		{"a1 against good", 1, 3, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, languageScore(tt.applicant, tt.required, tt.maxPts))
		})
	}
}

func TestExperienceScore(t *testing.T) {
	t.Run("aggregate years fallback", func(t *testing.T) {
		a := &models.Applicant{ExperienceYears: 2}
		assert.Equal(t, 4, experienceScore(a, "Lagerhelfer"))
	})

	t.Run("aggregate years caps with bonus", func(t *testing.T) {
		a := &models.Applicant{ExperienceYears: 10}
		// 8 capped base plus min(10-3, 5) breadth bonus
		assert.Equal(t, 13, experienceScore(a, "Lagerhelfer"))
	})

	t.Run("relevant entries dominate", func(t *testing.T) {
		a := &models.Applicant{
			WorkExperiences: []models.WorkExperience{
				{Position: "Lager Helfer"},
				{Position: "Kommissionierung"},
				{Position: "Versand Mitarbeiter"},
				{Position: "Logistik Helfer"},
			},
		}
		// four relevant entries cap at 15, four entries give bonus 4
		assert.Equal(t, 19, experienceScore(a, "Lager Mitarbeiter"))
	})

	t.Run("never exceeds criterion maximum", func(t *testing.T) {
		a := &models.Applicant{
			WorkExperiences: []models.WorkExperience{
				{Position: "Koch"}, {Position: "Küchenhilfe"}, {Position: "Kitchen Aid"},
				{Position: "Koch Gastro"}, {Position: "Culinary Chef"}, {Position: "Kochen"},
			},
		}
		assert.Equal(t, 20, experienceScore(a, "Koch"))
	})

	t.Run("no experience at all", func(t *testing.T) {
		assert.Equal(t, 0, experienceScore(&models.Applicant{}, "Koch"))
	})
}

func TestAvailabilityScore(t *testing.T) {
	tests := []struct {
		name      string
		applicant *models.Applicant
		job       *models.JobPosting
		expected  int
	}{
		{
			name: "student start inside break window",
			applicant: &models.Applicant{
				BreakStart: datePtr(2026, 7, 1),
				BreakEnd:   datePtr(2026, 9, 30),
			},
			job: &models.JobPosting{
				Category:  models.CategoryStudentVacationJob,
				StartDate: datePtr(2026, 8, 15),
			},
			expected: 10,
		},
		{
			name: "student start outside break window",
			applicant: &models.Applicant{
				BreakStart: datePtr(2026, 7, 1),
				BreakEnd:   datePtr(2026, 9, 30),
			},
			job: &models.JobPosting{
				Category:  models.CategoryStudentVacationJob,
				StartDate: datePtr(2026, 10, 15),
			},
			expected: 8,
		},
		{
			name:      "student without break dates",
			applicant: &models.Applicant{},
			job:       &models.JobPosting{Category: models.CategoryStudentVacationJob},
			expected:  5,
		},
		{
			name: "seasonal available before start",
			applicant: &models.Applicant{
				AvailableFrom: datePtr(2026, 5, 1),
			},
			job: &models.JobPosting{
				Category:  models.CategorySeasonalJob,
				StartDate: datePtr(2026, 6, 1),
			},
			expected: 10,
		},
		{
			name: "seasonal available after start",
			applicant: &models.Applicant{
				AvailableFrom: datePtr(2026, 7, 1),
			},
			job: &models.JobPosting{
				Category:  models.CategorySeasonalJob,
				StartDate: datePtr(2026, 6, 1),
			},
			expected: 7,
		},
		{
			name:      "other categories get neutral score",
			applicant: &models.Applicant{},
			job:       &models.JobPosting{Category: models.CategorySkilledWorker},
			expected:  5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, availabilityScore(tt.applicant, tt.job))
		})
	}
}

func TestRecommendationTiers(t *testing.T) {
	tests := []struct {
		total    int
		expected string
	}{
		{100, RecommendationVeryGood},
		{80, RecommendationVeryGood},
		{79, RecommendationGood},
		{60, RecommendationGood},
		{59, RecommendationPartial},
		{40, RecommendationPartial},
		{39, RecommendationLow},
		{0, RecommendationLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, recommendation(tt.total), "total %d", tt.total)
	}
}

func TestRank_StableOrdering(t *testing.T) {
	entries := []Ranked{
		{ID: 7, Result: Result{Total: 60}},
		{ID: 3, Result: Result{Total: 85}},
		{ID: 5, Result: Result{Total: 60}},
		{ID: 1, Result: Result{Total: 42}},
	}

	Rank(entries)

	ids := []int64{entries[0].ID, entries[1].ID, entries[2].ID, entries[3].ID}
	// ties break by ascending id
	assert.Equal(t, []int64{3, 5, 7, 1}, ids)
}

func TestRelevantTo(t *testing.T) {
	tests := []struct {
		name       string
		experience string
		title      string
		expected   bool
	}{
		{"direct token overlap", "Lagerhelfer Logistik", "Logistik Mitarbeiter", true},
		{"synonym group match", "Kellner im Gasthaus", "Restaurant Service", true},
		{"cross-language synonym", "Housekeeping Supervisor", "Zimmerreinigung", true},
		{"no overlap", "Softwareentwickler", "Erntehelfer", false},
		{"legal forms ignored", "Koch bei Adler GmbH", "GmbH Verwaltung", false},
		{"short tokens dropped", "IT AG", "Koch", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relevantTo(tt.experience, tt.title))
		})
	}
}
