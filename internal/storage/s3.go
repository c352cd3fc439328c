// internal/storage/s3.go
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	portalaws "github.com/TimLS94/IJP-Portal-sub000/internal/common/aws"
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
)

// S3Backend stores documents in one bucket; the handle is the object key.
type S3Backend struct {
	client *portalaws.S3Client
	bucket string
}

func NewS3Backend(ctx context.Context, region, bucket string) (*S3Backend, error) {
	client, err := portalaws.NewS3Client(ctx, region)
	if err != nil {
		return nil, apperrors.NewStorageError("init", err)
	}
	return &S3Backend{client: client, bucket: bucket}, nil
}

// Probe verifies bucket access with a single head-bucket call.
func (b *S3Backend) Probe(ctx context.Context) error {
	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &b.bucket})
	return err
}

func (b *S3Backend) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &b.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", apperrors.NewStorageError("upload", err)
	}
	return key, nil
}

func (b *S3Backend) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, apperrors.NewNotFoundError("document blob", key)
		}
		return nil, apperrors.NewStorageError("download", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.NewStorageError("download", err)
	}
	return data, nil
}

func (b *S3Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		return apperrors.NewStorageError("delete", err)
	}
	return nil
}

func (b *S3Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &b.bucket,
		Key:    &key,
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, apperrors.NewStorageError("exists", err)
	}
	return true, nil
}
