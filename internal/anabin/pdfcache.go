// internal/anabin/pdfcache.go
package anabin

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/jung-kurt/gofpdf"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
)

const maxKeyNameLen = 80

// Result is the outcome of a PDF fetch.
type Result struct {
	Success bool   `json:"success"`
	PDF     []byte `json:"-"`
	Message string `json:"message"`
}

// PDFCache snapshots the registry's institution detail modal into an A4 PDF
// and keeps the rendered files under a fixed directory.
type PDFCache struct {
	dir             string
	institutionsURL string
	selectors       config.AnabinConfig
	browserTimeout  time.Duration
	logger          logger.Logger
}

func NewPDFCache(cfg config.AnabinConfig, log logger.Logger) (*PDFCache, error) {
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, apperrors.NewStorageError("init pdf cache", err)
	}
	timeout := time.Duration(cfg.BrowserTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PDFCache{
		dir:             cfg.CacheDir,
		institutionsURL: cfg.InstitutionsURL,
		selectors:       cfg,
		browserTimeout:  timeout,
		logger:          log,
	}, nil
}

// CacheKey derives the file name: the sanitized university name truncated to
// 80 chars plus an 8-hex MD5 suffix, so near-identical names never collide.
func CacheKey(name string) string {
	sum := md5.Sum([]byte(name))
	suffix := hex.EncodeToString(sum[:])[:8]

	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := b.String()
	if len(sanitized) > maxKeyNameLen {
		sanitized = sanitized[:maxKeyNameLen]
	}
	return sanitized + "_" + suffix + ".pdf"
}

// Fetch returns the cached PDF or drives the browser to produce one. With
// force set the cache is bypassed and overwritten.
func (c *PDFCache) Fetch(ctx context.Context, name, country string, force bool) Result {
	path := filepath.Join(c.dir, CacheKey(name))

	if !force {
		if data, err := os.ReadFile(path); err == nil {
			return Result{Success: true, PDF: data, Message: "cache hit"}
		}
	}

	png, err := c.capture(ctx, name, country)
	if err != nil {
		c.logger.Error("registry snapshot failed", map[string]interface{}{
			"university": name,
			"error":      err.Error(),
		})
		return Result{Message: err.Error()}
	}

	pdf, err := wrapPNG(png)
	if err != nil {
		return Result{Message: err.Error()}
	}

	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		c.logger.Warn("pdf cache write failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	return Result{Success: true, PDF: pdf, Message: "rendered"}
}

// capture drives the headless browser end-to-end: country filter, token
// search, best-row selection, modal screenshot.
func (c *PDFCache) capture(ctx context.Context, name, country string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.browserTimeout)
	defer cancel()

	browserCtx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	sel := c.selectors.Selectors
	searchTerm := strings.Join(SearchTokens(name), " ")
	if searchTerm == "" {
		searchTerm = name
	}

	tasks := chromedp.Tasks{
		chromedp.Navigate(c.institutionsURL),
		chromedp.WaitVisible(sel.CountryInput, chromedp.ByQuery),
	}
	if canonical, ok := CanonicalCountry(country); ok {
		tasks = append(tasks,
			chromedp.SendKeys(sel.CountryInput, canonical, chromedp.ByQuery),
			chromedp.Sleep(500*time.Millisecond),
		)
	}

	// ResultsTable selects the result rows themselves.
	var rowTexts []string
	tasks = append(tasks,
		chromedp.SendKeys(sel.SearchInput, searchTerm, chromedp.ByQuery),
		chromedp.WaitVisible(sel.ResultsTable, chromedp.ByQuery),
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).slice(0, 10).map(r => r.innerText)`,
			sel.ResultsTable), &rowTexts),
	)
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("registry page automation: %w", err)
	}
	if len(rowTexts) == 0 {
		return nil, fmt.Errorf("registry returned no rows for %q", searchTerm)
	}

	best := bestRow(rowTexts, SearchTokens(name))

	var shot []byte
	err := chromedp.Run(browserCtx, chromedp.Tasks{
		chromedp.Evaluate(fmt.Sprintf(
			`document.querySelectorAll(%q)[%d].click()`, sel.ResultsTable, best), nil),
		chromedp.WaitVisible(sel.Modal, chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(
			`document.querySelectorAll(%q).forEach(t => { if (t.getAttribute("aria-expanded") !== "true") t.click(); })`,
			sel.AccordionTab), nil),
		chromedp.Sleep(500 * time.Millisecond),
		chromedp.Screenshot(sel.Modal, &shot, chromedp.NodeVisible, chromedp.ByQuery),
	})
	if err != nil {
		return nil, fmt.Errorf("modal screenshot: %w", err)
	}
	return shot, nil
}

// bestRow picks the row whose text contains the most name tokens; ties keep
// the earlier row.
func bestRow(rows []string, tokens []string) int {
	best, bestHits := 0, -1
	for i, row := range rows {
		lower := strings.ToLower(row)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	return best
}

// wrapPNG places the screenshot on an A4 page with 10mm margins, scaled to
// the printable width.
func wrapPNG(png []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	info := pdf.RegisterImageOptionsReader("snapshot", opts, bytes.NewReader(png))
	if pdf.Err() {
		return nil, fmt.Errorf("embed screenshot: %v", pdf.Error())
	}

	width := 190.0 // 210mm minus margins
	height := width * info.Height() / info.Width()
	pdf.ImageOptions("snapshot", 10, 10, width, height, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
