// Package storage is the persistence adapter: a key-value byte store with
// pluggable backends and a fail-soft JSON codec on top of it.
package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KV.Get when nothing is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// KV is an origin-scoped key-value byte store. There are no transactional
// guarantees across keys; the last writer of a key wins.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Prefixed scopes every key of kv under namespace, e.g. "webfoo_cart".
func Prefixed(kv KV, namespace string) KV {
	if namespace == "" {
		return kv
	}
	return &prefixedKV{kv: kv, prefix: namespace + "_"}
}

type prefixedKV struct {
	kv     KV
	prefix string
}

func (p *prefixedKV) Get(ctx context.Context, key string) ([]byte, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *prefixedKV) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p *prefixedKV) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}
