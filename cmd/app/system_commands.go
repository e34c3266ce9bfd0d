package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securestore/cmd/app/commands"
	"github.com/allisson/securestore/internal/app"
	"github.com/allisson/securestore/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, config.Load(), version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create the storage tables of the postgres and mysql drivers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(ctx, cfg, container.Logger())
			},
		},
		{
			Name:  "create-master-key",
			Usage: "Generate the namespace master key in KMS custody if it does not exist yet",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container, err := loadContainer()
				if err != nil {
					return err
				}
				defer func() { _ = container.Shutdown(ctx) }()

				keyManager, err := container.KeyManager(ctx)
				if err != nil {
					return err
				}

				return commands.RunCreateMasterKey(
					ctx,
					keyManager,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("format"),
				)
			},
		},
	}
}

// loadContainer loads and validates the configuration and creates the container.
func loadContainer() (*app.Container, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return app.NewContainer(cfg), nil
}
