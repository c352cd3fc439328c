// Package matching scores applicant/job pairs. Score is a pure function of
// its inputs: no I/O, no randomness, integer breakdown, total in [0,100].
package matching

import (
	"fmt"
	"sort"

	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Criterion weights.
const (
	maxCategory     = 30
	maxGerman       = 25
	maxEnglish      = 15
	maxExperience   = 20
	maxAvailability = 10
)

// Recommendation tiers.
const (
	RecommendationVeryGood = "very good"
	RecommendationGood     = "good"
	RecommendationPartial  = "partial"
	RecommendationLow      = "low"
)

// Breakdown carries the per-criterion integer scores.
type Breakdown struct {
	Category     int `json:"category"`
	German       int `json:"german"`
	English      int `json:"english"`
	Experience   int `json:"experience"`
	Availability int `json:"availability"`
}

// Result is the scoring outcome for one applicant/job pair.
type Result struct {
	Total          int       `json:"total"`
	Breakdown      Breakdown `json:"breakdown"`
	Details        []string  `json:"details"`
	Recommendation string    `json:"recommendation"`
}

// Score evaluates the five-criterion rubric and clamps the sum at 100.
func Score(applicant *models.Applicant, job *models.JobPosting) Result {
	var (
		b       Breakdown
		details []string
	)

	if applicant.HasCategory(job.Category) {
		b.Category = maxCategory
		details = append(details, fmt.Sprintf("category %s matches", job.Category))
	} else {
		details = append(details, fmt.Sprintf("category %s not declared", job.Category))
	}

	b.German = languageScore(applicant.GermanLevel.Ordinal(), job.GermanRequired.Ordinal(), maxGerman)
	details = append(details, fmt.Sprintf("german %s vs required %s: %d/%d",
		applicant.GermanLevel, job.GermanRequired, b.German, maxGerman))

	b.English = languageScore(applicant.EnglishLevel.Ordinal(), job.EnglishRequired.Ordinal(), maxEnglish)
	details = append(details, fmt.Sprintf("english %s vs required %s: %d/%d",
		applicant.EnglishLevel, job.EnglishRequired, b.English, maxEnglish))

	b.Experience = experienceScore(applicant, job.Title)
	details = append(details, fmt.Sprintf("experience: %d/%d", b.Experience, maxExperience))

	b.Availability = availabilityScore(applicant, job)
	details = append(details, fmt.Sprintf("availability: %d/%d", b.Availability, maxAvailability))

	total := b.Category + b.German + b.English + b.Experience + b.Availability
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	return Result{
		Total:          total,
		Breakdown:      b,
		Details:        details,
		Recommendation: recommendation(total),
	}
}

// languageScore implements the ordinal gap formula. A fluent requirement (5)
// against an a2 applicant (2) yields max(0, 25 - 3*(25/5)*1.5) = 2.
func languageScore(applicant, required, maxPts int) int {
	if required == 0 || applicant >= required {
		return maxPts
	}
	gap := required - applicant
	raw := float64(maxPts) - float64(gap)*(float64(maxPts)/float64(required))*1.5
	if raw < 0 {
		return 0
	}
	return int(raw)
}

// experienceScore awards up to 15 for relevance-tagged entries plus up to 5
// bonus for breadth; applicants with only aggregate years get the fallback.
func experienceScore(applicant *models.Applicant, jobTitle string) int {
	relevant := 0
	for _, exp := range applicant.WorkExperiences {
		if relevantTo(exp.Position, jobTitle) {
			relevant++
		}
	}

	score := 0
	if relevant > 0 {
		score = relevant * 5
		if score > 15 {
			score = 15
		}
	} else if applicant.ExperienceYears > 0 {
		score = applicant.ExperienceYears * 2
		if score > 8 {
			score = 8
		}
	}

	if n := len(applicant.WorkExperiences); n > 0 {
		bonus := n
		if bonus > 5 {
			bonus = 5
		}
		score += bonus
	} else if applicant.ExperienceYears > 3 {
		bonus := applicant.ExperienceYears - 3
		if bonus > 5 {
			bonus = 5
		}
		score += bonus
	}

	if score > maxExperience {
		score = maxExperience
	}
	return score
}

func availabilityScore(applicant *models.Applicant, job *models.JobPosting) int {
	switch job.Category {
	case models.CategoryStudentVacationJob:
		if job.StartDate != nil && applicant.BreakStart != nil && applicant.BreakEnd != nil {
			start := *job.StartDate
			if !start.Before(*applicant.BreakStart) && !start.After(*applicant.BreakEnd) {
				return 10
			}
		}
		if applicant.BreakStart != nil || applicant.BreakEnd != nil {
			return 8
		}
		return 5
	case models.CategorySeasonalJob:
		if job.StartDate != nil && applicant.AvailableFrom != nil &&
			!applicant.AvailableFrom.After(*job.StartDate) {
			return 10
		}
		if applicant.AvailableFrom != nil || applicant.AvailableUntil != nil {
			return 7
		}
		return 5
	default:
		return 5
	}
}

func recommendation(total int) string {
	switch {
	case total >= 80:
		return RecommendationVeryGood
	case total >= 60:
		return RecommendationGood
	case total >= 40:
		return RecommendationPartial
	default:
		return RecommendationLow
	}
}

// Ranked pairs an applicant id with its score for stable ordering.
type Ranked struct {
	ID     int64
	Result Result
}

// Rank sorts descending by total; ties break by entity id ascending so the
// ordering is stable across invocations.
func Rank(entries []Ranked) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Result.Total != entries[j].Result.Total {
			return entries[i].Result.Total > entries[j].Result.Total
		}
		return entries[i].ID < entries[j].ID
	})
}
