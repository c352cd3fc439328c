// internal/anabin/search_test.go
package anabin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/httpclient"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const resultTable = `<html><body><table><tbody>
<tr data-id="inst-1"><td>Universität Belgrad</td><td>Belgrad</td><td>Serbien</td><td>H+</td></tr>
<tr data-id="inst-2"><td>Medizinische Hochschule Hannover</td><td>Hannover</td><td>Deutschland</td><td>H-</td></tr>
</tbody></table></body></html>`

func registryServer(t *testing.T, body string, status int) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func newSearcher(baseURL string) *Searcher {
	return NewSearcher(httpclient.NewClient(5*time.Second), baseURL, logger.NewNop())
}

func TestSearch(t *testing.T) {
	srv, captured := registryServer(t, resultTable, http.StatusOK)
	s := newSearcher(srv.URL)

	matches, err := s.Search(context.Background(), "Universität Belgrad", "serbia", "Belgrad")
	require.NoError(t, err)
	require.Len(t, matches, 2)

	top := matches[0]
	assert.Equal(t, "Universität Belgrad", top.Name)
	assert.Equal(t, "inst-1", top.InstitutionID)
	assert.Equal(t, 100, top.Score)
	assert.True(t, top.Accredited)

	assert.Less(t, matches[1].Score, top.Score)
	assert.False(t, matches[1].Accredited)

	assert.Equal(t, "Serbien", captured.URL.Query().Get("country"))
}

func TestSearch_UnknownCountrySkipsFilter(t *testing.T) {
	srv, captured := registryServer(t, resultTable, http.StatusOK)
	s := newSearcher(srv.URL)

	_, err := s.Search(context.Background(), "Universität Belgrad", "Atlantis", "")
	require.NoError(t, err)
	assert.Empty(t, captured.URL.Query().Get("country"))
}

func TestSearch_EmptyTable(t *testing.T) {
	srv, _ := registryServer(t, "<html><body><table><tbody></tbody></table></body></html>", http.StatusOK)
	s := newSearcher(srv.URL)

	matches, err := s.Search(context.Background(), "Universität Belgrad", "", "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearch_UpstreamFailure(t *testing.T) {
	srv, _ := registryServer(t, "maintenance", http.StatusServiceUnavailable)
	s := newSearcher(srv.URL)

	_, err := s.Search(context.Background(), "Universität Belgrad", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUpstreamUnavailable, apperrors.CodeOf(err))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		score int
		want  models.AnabinStatus
	}{
		{100, models.AnabinVerified},
		{90, models.AnabinVerified},
		{89, models.AnabinUncertain},
		{70, models.AnabinUncertain},
		{69, models.AnabinNotFound},
		{0, models.AnabinNotFound},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.score), "score %d", tt.score)
	}
}

func TestBestRow(t *testing.T) {
	rows := []string{
		"Hochschule Bremen Bremen Deutschland",
		"Universität Bremen Bremen Deutschland",
		"Universität Hamburg Hamburg Deutschland",
	}

	assert.Equal(t, 1, bestRow(rows, []string{"universität", "bremen"}))

	// ties keep the earlier row
	assert.Equal(t, 0, bestRow(rows, []string{"deutschland"}))
	assert.Equal(t, 0, bestRow(rows, nil))
}
