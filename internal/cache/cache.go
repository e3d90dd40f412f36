// Package cache provides the optional caching capability used for derived
// read models such as house summaries.
//
// The cache is never a source of truth. Callers treat ErrMiss and
// ErrUnavailable alike: fall back to the store. A deployment without Redis
// injects Unavailable rather than a nil client.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss is returned by Get when the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrUnavailable is returned when the backing service cannot be reached
	// or no backend is configured.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Cache stores opaque values by key with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// HouseSummaryKey is the key under which a house's summary is cached.
func HouseSummaryKey(houseID string) string {
	return "summary:" + houseID
}

// Unavailable is the cache used when none is configured. Every call
// returns ErrUnavailable.
type Unavailable struct{}

var _ Cache = Unavailable{}

func (Unavailable) Get(context.Context, string) ([]byte, error) { return nil, ErrUnavailable }

func (Unavailable) Set(context.Context, string, []byte, time.Duration) error { return ErrUnavailable }

func (Unavailable) Delete(context.Context, ...string) error { return ErrUnavailable }
