// Package app provides the dependency injection container assembling the secure store.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/securestore/internal/config"
	"github.com/allisson/securestore/internal/metrics"
)

// lazy holds a component built on first access. The build error is kept, so later
// accesses fail the same way without retrying. The mutex is held during the build, so
// built never observes a half-built component.
type lazy[T any] struct {
	mu    sync.Mutex
	done  bool
	value T
	err   error
}

func (l *lazy[T]) get(build func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.done {
		l.value, l.err = build()
		l.done = true
	}
	return l.value, l.err
}

// built returns the component when it was built successfully.
func (l *lazy[T]) built() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.done && l.err == nil
}

// Container holds the application components and builds them lazily.
type Container struct {
	config    *config.Config
	logOutput io.Writer

	logger     lazy[*slog.Logger]
	metrics    lazy[*metrics.Provider]
	business   lazy[metrics.BusinessMetrics]
	storage    storageComponents
	crypto     cryptoComponents
	servers    serverComponents
	shutdownMu sync.Mutex
	released   map[any]struct{}
}

// NewContainer creates a container for cfg. Logs are written to stderr so command output
// on stdout stays machine readable.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:    cfg,
		logOutput: os.Stderr,
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger configured with the LOG_LEVEL setting.
func (c *Container) Logger() *slog.Logger {
	logger, _ := c.logger.get(func() (*slog.Logger, error) {
		return c.initLogger(), nil
	})
	return logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metrics.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns operation metrics, or a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.business.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}

		bm, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
		return bm, nil
	})
}

// Shutdown releases every component built so far: the metrics provider, the KMS keeper,
// the bucket and the database pool. Components released by an earlier call are skipped.
// Servers are stopped by their owner before this call.
func (c *Container) Shutdown(ctx context.Context) error {
	c.shutdownMu.Lock()
	defer c.shutdownMu.Unlock()

	var errs []error
	release := func(component any, name string, closeFn func() error) {
		if _, done := c.released[component]; done {
			return
		}
		if c.released == nil {
			c.released = make(map[any]struct{})
		}
		c.released[component] = struct{}{}
		if err := closeFn(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if provider, ok := c.metrics.built(); ok && provider != nil {
		release(provider, "metrics provider shutdown", func() error { return provider.Shutdown(ctx) })
	}
	if keeper, ok := c.crypto.keeper.built(); ok {
		release(keeper, "kms keeper close", keeper.Close)
	}
	if bucket, ok := c.storage.bucket.built(); ok {
		release(bucket, "bucket close", bucket.Close)
	}
	if db, ok := c.storage.db.built(); ok {
		release(db, "database close", db.Close)
	}
	return errors.Join(errs...)
}

func (c *Container) initLogger() *slog.Logger {
	var level slog.Level
	switch c.config.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(c.logOutput, &slog.HandlerOptions{Level: level}))
}
