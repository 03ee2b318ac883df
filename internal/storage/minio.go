package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/smallbiznis/quotely/internal/config"
	"github.com/smallbiznis/quotely/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultURLExpiry = time.Hour

// MinIOStore archives exports in an S3 compatible bucket.
type MinIOStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewMinIOStore builds a client against cfg. The bucket is checked on start.
func NewMinIOStore(cfg config.StorageConfig, log *zap.Logger) (*MinIOStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("storage: endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("storage: bucket is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: tracing.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: create minio client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = defaultURLExpiry
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &MinIOStore{
		client: client,
		bucket: bucket,
		expiry: expiry,
		log:    log.Named("storage.minio"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("storage: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("storage: create bucket: %w", err)
	}
	s.log.Info("bucket created", zap.String("bucket", s.bucket))
	return nil
}

func (s *MinIOStore) Enabled() bool { return true }

// Put uploads body under key and returns a presigned download URL.
func (s *MinIOStore) Put(ctx context.Context, key, contentType string, body []byte) (*Object, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return nil, errors.New("storage: object key is required")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: upload %s: %w", key, err)
	}

	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return nil, fmt.Errorf("storage: presign %s: %w", key, err)
	}

	s.log.Debug("object stored", zap.String("key", key), zap.Int64("size", info.Size))
	return &Object{
		Key:       key,
		Size:      info.Size,
		URL:       url.String(),
		ExpiresAt: s.now().Add(s.expiry),
	}, nil
}

var Module = fx.Module("storage",
	fx.Provide(NewStore),
)

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
}

// NewStore returns the MinIO store when storage is enabled, NoopStore otherwise.
func NewStore(p Params) (Store, error) {
	if !p.Config.Storage.Enabled {
		return NoopStore{}, nil
	}
	store, err := NewMinIOStore(p.Config.Storage, p.Log)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: store.EnsureBucket,
	})
	return store, nil
}
