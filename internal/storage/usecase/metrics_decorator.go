package usecase

import (
	"context"
	"time"

	"github.com/allisson/securestore/internal/metrics"
)

// storageUseCaseWithMetrics decorates StorageUseCase with metrics instrumentation.
// Keys and values are never used as metric labels.
type storageUseCaseWithMetrics struct {
	next    StorageUseCase
	metrics metrics.BusinessMetrics
}

// NewStorageUseCaseWithMetrics wraps a StorageUseCase with metrics recording.
func NewStorageUseCaseWithMetrics(useCase StorageUseCase, m metrics.BusinessMetrics) StorageUseCase {
	return &storageUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *storageUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	metrics.Observe(ctx, s.metrics, "storage", operation, start, err)
}

// Set records metrics for value writes.
func (s *storageUseCaseWithMetrics) Set(ctx context.Context, key string, value *string) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.record(ctx, "storage_set", start, err)
	return err
}

// Get records metrics for value reads. A miss counts as a success.
func (s *storageUseCaseWithMetrics) Get(ctx context.Context, key string) (*string, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	s.record(ctx, "storage_get", start, err)
	return value, err
}

// Remove records metrics for key removals.
func (s *storageUseCaseWithMetrics) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Remove(ctx, key)
	s.record(ctx, "storage_remove", start, err)
	return err
}

// Clear records metrics for namespace wipes.
func (s *storageUseCaseWithMetrics) Clear(ctx context.Context) error {
	start := time.Now()
	err := s.next.Clear(ctx)
	s.record(ctx, "storage_clear", start, err)
	return err
}

// Keys records metrics for key enumeration.
func (s *storageUseCaseWithMetrics) Keys(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := s.next.Keys(ctx)
	s.record(ctx, "storage_keys", start, err)
	return keys, err
}
