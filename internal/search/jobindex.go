// Package search maintains the public job index in Elasticsearch. Postings
// are upserted on activation and removed on archival; the index is a read
// model, never the source of truth.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/database"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/slug"
)

// jobDocument is the indexed shape of a posting.
type jobDocument struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Category     string     `json:"category"`
	CompanyName  string     `json:"company_name"`
	Location     string     `json:"location"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	Description  string     `json:"description"`
	GermanLevel  string     `json:"german_required"`
	EnglishLevel string     `json:"english_required"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	URL          string     `json:"url"`
	IndexedAt    time.Time  `json:"indexed_at"`
}

// JobIndex writes postings into one Elasticsearch index.
type JobIndex struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewJobIndex(es *database.ElasticsearchClient, index string, log logger.Logger) *JobIndex {
	if index == "" {
		index = "job_postings"
	}
	return &JobIndex{es: es, index: index, logger: log}
}

// Upsert indexes an active posting under its numeric id.
func (j *JobIndex) Upsert(ctx context.Context, job *models.JobWithCompany) error {
	doc := jobDocument{
		ID:           job.ID,
		Title:        job.Title,
		Category:     string(job.Category),
		CompanyName:  job.CompanyName,
		Location:     job.Location,
		City:         job.City,
		Country:      job.Country,
		Description:  job.Description,
		GermanLevel:  string(job.GermanRequired),
		EnglishLevel: string(job.EnglishRequired),
		StartDate:    job.StartDate,
		Deadline:     job.Deadline,
		URL:          slug.JobURL(job.Slug, job.ID),
		IndexedAt:    time.Now().UTC(),
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal job document: %w", err)
	}

	res, err := j.es.Client.Index(
		j.index,
		bytes.NewReader(body),
		j.es.Client.Index.WithContext(ctx),
		j.es.Client.Index.WithDocumentID(strconv.FormatInt(job.ID, 10)),
		j.es.Client.Index.WithRefresh("false"),
	)
	if err != nil {
		return fmt.Errorf("index job %d: %w", job.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index job %d: %s", job.ID, res.Status())
	}

	j.logger.Debug("job indexed", map[string]interface{}{"job_id": job.ID})
	return nil
}

// Delete removes a posting from the index. A 404 is not an error: archival
// may race the initial indexing.
func (j *JobIndex) Delete(ctx context.Context, jobID int64) error {
	res, err := j.es.Client.Delete(
		j.index,
		strconv.FormatInt(jobID, 10),
		j.es.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete job %d from index: %w", jobID, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete job %d from index: %s", jobID, res.Status())
	}
	return nil
}
