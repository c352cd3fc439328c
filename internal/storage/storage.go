// Package storage is the byte pipe for applicant documents. Two backends are
// interchangeable: an S3 bucket and the local filesystem. Handles are opaque
// strings stored verbatim on the Document row.
package storage

import (
	"context"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
)

// Backend stores and retrieves document bytes.
type Backend interface {
	// Upload persists the bytes and returns the opaque handle.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Download returns the bytes for a handle, or a NOT_FOUND error.
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New selects the backend per configuration. The S3 backend is only chosen
// after a successful head-bucket probe; on probe failure the local backend is
// used and a warning logged.
func New(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (Backend, error) {
	if cfg.Backend == "s3" {
		s3b, err := NewS3Backend(ctx, cfg.AWS.Region, cfg.AWS.Bucket)
		if err == nil {
			if probeErr := s3b.Probe(ctx); probeErr == nil {
				log.Info("using s3 document storage", map[string]interface{}{
					"bucket": cfg.AWS.Bucket,
				})
				return s3b, nil
			} else {
				err = probeErr
			}
		}
		log.Warn("s3 bucket probe failed, falling back to local storage", map[string]interface{}{
			"bucket": cfg.AWS.Bucket,
			"error":  err.Error(),
			"root":   cfg.LocalRoot,
		})
	}

	local, err := NewLocalBackend(cfg.LocalRoot)
	if err != nil {
		return nil, err
	}
	log.Info("using local document storage", map[string]interface{}{"root": cfg.LocalRoot})
	return local, nil
}
