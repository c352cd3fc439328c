// internal/anabin/search.go
package anabin

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/httpclient"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Match is one scored row of the registry result table.
type Match struct {
	Name          string `json:"name"`
	City          string `json:"city"`
	Country       string `json:"country"`
	InstitutionID string `json:"institution_id"`
	Accredited    bool   `json:"accredited"`
	Score         int    `json:"score"`
}

// Searcher queries the registry over plain HTTP and scores the result rows.
type Searcher struct {
	http    *httpclient.Client
	baseURL string
	logger  logger.Logger
}

func NewSearcher(client *httpclient.Client, baseURL string, log logger.Logger) *Searcher {
	return &Searcher{http: client, baseURL: baseURL, logger: log}
}

// Search queries the registry and returns rows sorted by descending score.
// country and city are optional refinements.
func (s *Searcher) Search(ctx context.Context, name, country, city string) ([]Match, error) {
	query := url.Values{}
	query.Set("q", name)
	if canonical, ok := CanonicalCountry(country); ok {
		query.Set("country", canonical)
	}

	req, err := http.NewRequest(http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError("anabin", err)
	}
	resp, err := s.http.DoWithContext(ctx, req)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError("anabin", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamUnavailableError("anabin",
			apperrors.NewValidationError("status", resp.Status))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamUnavailableError("anabin", err)
	}

	matches := scoreRows(parseRows(doc), name, city)
	s.logger.Debug("registry search finished", map[string]interface{}{
		"query":   name,
		"country": country,
		"rows":    len(matches),
	})
	return matches, nil
}

// parseRows extracts the institution rows from the result table.
func parseRows(doc *goquery.Document) []Match {
	var rows []Match
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() < 3 {
			return
		}
		row := Match{
			Name:    strings.TrimSpace(cells.Eq(0).Text()),
			City:    strings.TrimSpace(cells.Eq(1).Text()),
			Country: strings.TrimSpace(cells.Eq(2).Text()),
		}
		if id, ok := tr.Attr("data-id"); ok {
			row.InstitutionID = id
		}
		if cells.Length() > 3 {
			status := strings.ToLower(strings.TrimSpace(cells.Eq(3).Text()))
			row.Accredited = strings.Contains(status, "h+")
		}
		if row.Name != "" {
			rows = append(rows, row)
		}
	})
	return rows
}

// scoreRows ranks rows against the query. The row score is the maximum of the
// four standard fuzzy ratios on normalized names; a city agreement above 80
// adds ten points, capped at 100.
func scoreRows(rows []Match, name, city string) []Match {
	normName := Normalize(name)
	normCity := Normalize(city)

	for i := range rows {
		rowName := Normalize(rows[i].Name)
		score := fuzzy.Ratio(normName, rowName)
		if v := fuzzy.PartialRatio(normName, rowName); v > score {
			score = v
		}
		if v := fuzzy.TokenSortRatio(normName, rowName); v > score {
			score = v
		}
		if v := fuzzy.TokenSetRatio(normName, rowName); v > score {
			score = v
		}
		if normCity != "" && fuzzy.Ratio(normCity, Normalize(rows[i].City)) > 80 {
			score += 10
		}
		if score > 100 {
			score = 100
		}
		rows[i].Score = score
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Score > rows[j].Score
	})
	return rows
}

// Classify maps the top score onto the verification status.
func Classify(score int) models.AnabinStatus {
	switch {
	case score >= 90:
		return models.AnabinVerified
	case score >= 70:
		return models.AnabinUncertain
	default:
		return models.AnabinNotFound
	}
}
