// cmd/tools/verify-university/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/TimLS94/IJP-Portal-sub000/internal/anabin"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/database"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/httpclient"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/store"
)

func main() {
	searchCmd := flag.NewFlagSet("search", flag.ExitOnError)
	verifyCmd := flag.NewFlagSet("verify", flag.ExitOnError)
	pdfCmd := flag.NewFlagSet("pdf", flag.ExitOnError)

	// Search command flags
	name := searchCmd.String("name", "", "University name to search for")
	country := searchCmd.String("country", "", "Country of the institution")
	city := searchCmd.String("city", "", "City of the institution (optional, improves scoring)")

	// Verify command flags
	applicantID := verifyCmd.Int64("applicant", 0, "Applicant ID to verify and record")
	adminID := verifyCmd.Int64("admin", 0, "Admin ID recorded as the checker")

	// PDF command flags
	pdfApplicantID := pdfCmd.Int64("applicant", 0, "Applicant ID whose university to snapshot")
	force := pdfCmd.Bool("force", false, "Bypass the PDF cache")
	out := pdfCmd.String("out", "", "Write the PDF to this path instead of the cache only")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	searcher := anabin.NewSearcher(
		httpclient.NewClient(time.Duration(cfg.Anabin.RequestTimeout)*time.Millisecond),
		cfg.Anabin.BaseURL, log)

	switch os.Args[1] {
	case "search":
		searchCmd.Parse(os.Args[2:])
		if *name == "" {
			fmt.Println("Error: name is required for search.")
			searchCmd.Usage()
			os.Exit(1)
		}
		matches, err := searcher.Search(ctx, *name, *country, *city)
		if err != nil {
			fmt.Printf("Error searching registry: %v\n", err)
			os.Exit(1)
		}
		if len(matches) == 0 {
			fmt.Println("No matches found.")
			return
		}
		for _, m := range matches {
			fmt.Printf("%3d  %s, %s (%s)  accredited=%v\n", m.Score, m.Name, m.City, m.Country, m.Accredited)
		}
		fmt.Printf("Classification of top match: %s\n", anabin.Classify(matches[0].Score))

	case "verify":
		verifyCmd.Parse(os.Args[2:])
		if *applicantID == 0 {
			fmt.Println("Error: applicant is required for verify.")
			verifyCmd.Usage()
			os.Exit(1)
		}
		verifier, closeFn, err := buildVerifier(ctx, cfg, searcher, log)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeFn()
		outcome, err := verifier.AutoVerify(ctx, *applicantID, *adminID)
		if err != nil {
			fmt.Printf("Error verifying applicant: %v\n", err)
			os.Exit(1)
		}
		data, _ := json.MarshalIndent(outcome, "", "  ")
		fmt.Println(string(data))

	case "pdf":
		pdfCmd.Parse(os.Args[2:])
		if *pdfApplicantID == 0 {
			fmt.Println("Error: applicant is required for pdf.")
			pdfCmd.Usage()
			os.Exit(1)
		}
		verifier, closeFn, err := buildVerifier(ctx, cfg, searcher, log)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeFn()
		result, err := verifier.FetchPDF(ctx, *pdfApplicantID, *force)
		if err != nil {
			fmt.Printf("Error fetching PDF: %v\n", err)
			os.Exit(1)
		}
		if !result.Success {
			fmt.Printf("Snapshot failed: %s\n", result.Message)
			os.Exit(1)
		}
		if *out != "" {
			if err := os.WriteFile(*out, result.PDF, 0o644); err != nil {
				fmt.Printf("Error writing PDF: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Wrote %d bytes to %s\n", len(result.PDF), *out)
		} else {
			fmt.Printf("Snapshot ready (%d bytes, %s)\n", len(result.PDF), result.Message)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

// buildVerifier wires the database-backed verifier used by verify and pdf.
func buildVerifier(ctx context.Context, cfg *config.Config, searcher *anabin.Searcher, log logger.Logger) (*anabin.Verifier, func(), error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	cache, err := anabin.NewPDFCache(cfg.Anabin, log)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}

	st := store.New(pg.DB, log)
	return anabin.NewVerifier(searcher, cache, st, log), func() { pg.Close() }, nil
}

func help() {
	fmt.Print(`
Usage: verify-university <command> [flags]

Commands:
  search  Query the recognition registry without touching the database
  verify  Run automatic verification for an applicant and record the outcome
  pdf     Render (or fetch from cache) the registry snapshot PDF for an applicant
  help    Show this help message

Examples:
  verify-university search -name "Universidad de Buenos Aires" -country Argentina -city "Buenos Aires"
  verify-university verify -applicant 42 -admin 1
  verify-university pdf -applicant 42 -force -out /tmp/uba.pdf

Use 'verify-university <command> -h' for more information about a command.
` + "\n")
}
