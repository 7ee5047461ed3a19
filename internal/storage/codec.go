package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/logger"
	"storefront/internal/metrics"

	"go.uber.org/zap"
)

// ErrStorage wraps every persistence write failure.
var ErrStorage = errors.New("storage failure")

// Load decodes the JSON value stored under key into a T. It never fails:
// a missing, unreadable or malformed value yields def.
func Load[T any](ctx context.Context, kv KV, key string, def T) T {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			metrics.StorageFailuresTotal.WithLabelValues("read").Inc()
			logger.Get().Warn("storage read failed, using empty default",
				zap.String("key", key), zap.Error(err))
		}
		return def
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.StorageFailuresTotal.WithLabelValues("decode").Inc()
		logger.Get().Warn("malformed persisted value, using empty default",
			zap.String("key", key), zap.Error(err))
		return def
	}
	return out
}

// Save encodes value as JSON and stores it under key.
func Save[T any](ctx context.Context, kv KV, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrStorage, key, err)
	}
	return nil
}

// Remove deletes key.
func Remove(ctx context.Context, kv KV, key string) error {
	if err := kv.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %v", ErrStorage, key, err)
	}
	return nil
}

// Swallow logs a failed write and drops it. Persistence is best effort.
func Swallow(op string, err error) {
	if err == nil {
		return
	}
	metrics.StorageFailuresTotal.WithLabelValues(op).Inc()
	logger.Get().Warn("persistence write failed", zap.String("op", op), zap.Error(err))
}
