package transfer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker/v2"
)

// ObjectStoreConfig holds the S3-compatible endpoint settings.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// ObjectStore uploads de-identified records to an S3-compatible bucket.
// This is the production counterpart of the Simulator: same Transport
// surface, real bytes. A circuit breaker stops hammering the endpoint once
// it fails consistently.
type ObjectStore struct {
	client  *minio.Client
	bucket  string
	breaker *gobreaker.CircuitBreaker[any]
	log     *slog.Logger
}

// NewObjectStore connects to the endpoint and ensures the bucket exists.
func NewObjectStore(ctx context.Context, cfg ObjectStoreConfig, log *slog.Logger) (*ObjectStore, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create object store client: %w", err)
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("could not check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("could not create bucket %s: %w", cfg.Bucket, err)
		}
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name: "object-store-upload",
	})

	return &ObjectStore{
		client:  cli,
		bucket:  cfg.Bucket,
		breaker: breaker,
		log:     log,
	}, nil
}

// Send uploads the record at localPath under key.
func (o *ObjectStore) Send(ctx context.Context, key, localPath string) error {
	_, err := o.breaker.Execute(func() (any, error) {
		_, err := o.client.FPutObject(ctx, o.bucket, key, localPath, minio.PutObjectOptions{
			ContentType: "application/dicom",
		})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("could not upload %s: %w", key, err)
	}

	o.log.Info("uploaded record", "file", key, "bucket", o.bucket)
	return nil
}
