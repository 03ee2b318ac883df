package storage

import (
	"context"
	"errors"
	"time"
)

// Object describes an archived export.
type Object struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Store archives rendered exports.
type Store interface {
	// Enabled reports whether Put persists anything.
	Enabled() bool
	Put(ctx context.Context, key, contentType string, body []byte) (*Object, error)
}

var ErrStorageDisabled = errors.New("storage_disabled")

// NoopStore is used when object storage is not configured.
type NoopStore struct{}

func (NoopStore) Enabled() bool { return false }

func (NoopStore) Put(ctx context.Context, key, contentType string, body []byte) (*Object, error) {
	return nil, ErrStorageDisabled
}
