package app

import (
	"context"

	"github.com/allisson/securestore/internal/http"
)

type serverComponents struct {
	http    lazy[*http.Server]
	metrics lazy[*http.MetricsServer]
}

// HTTPServer returns the API server with its router configured. ctx bounds the
// background work of the router middleware.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.servers.http.get(func() (*http.Server, error) {
		handler, err := c.StorageHandler(ctx)
		if err != nil {
			return nil, err
		}

		storageCheck, err := c.StorageReadinessCheck(ctx)
		if err != nil {
			return nil, err
		}

		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}

		server := http.NewServer(
			map[string]http.ReadinessCheck{"storage": storageCheck},
			c.config.ServerHost,
			c.config.ServerPort,
			c.Logger(),
		)
		if err := server.SetupRouter(ctx, c.config, handler, provider); err != nil {
			return nil, err
		}
		return server, nil
	})
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.servers.metrics.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil || provider == nil {
			return nil, err
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}
