// Package cache provides a small string cache used for settings reads and
// dashboard report snapshots. Redis backs it in production; Noop keeps the
// service working when Redis is absent.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (*Noop) Set(context.Context, string, string, time.Duration) error { return nil }

func (*Noop) Delete(context.Context, string) error { return nil }
