package service

import (
	"context"
	"time"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	"github.com/allisson/securestore/internal/metrics"
)

// keyManagerWithMetrics records the latency and outcome of master key lookups.
type keyManagerWithMetrics struct {
	next    KeyManager
	metrics metrics.BusinessMetrics
}

// NewKeyManagerWithMetrics wraps a KeyManager with metrics recording under the "crypto" domain.
func NewKeyManagerWithMetrics(keyManager KeyManager, m metrics.BusinessMetrics) KeyManager {
	return &keyManagerWithMetrics{next: keyManager, metrics: m}
}

func (k *keyManagerWithMetrics) EnsureKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	start := time.Now()
	handle, err := k.next.EnsureKey(ctx)
	metrics.Observe(ctx, k.metrics, "crypto", "key_ensure", start, err)
	return handle, err
}

func (k *keyManagerWithMetrics) GetKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	start := time.Now()
	handle, err := k.next.GetKey(ctx)
	metrics.Observe(ctx, k.metrics, "crypto", "key_get", start, err)
	return handle, err
}
