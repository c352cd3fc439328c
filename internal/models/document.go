package models

import "time"

// Document is an uploaded file belonging to an applicant. StorageKey is the
// opaque handle the storage backend returned; callers never parse it.
type Document struct {
	ID          int64
	ApplicantID int64

	Type             DocumentType
	StorageKey       string
	OriginalFilename string
	Size             int64
	MimeType         string

	Verified   bool
	UploadedAt time.Time
}
