package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/securestore/cmd/app/commands"
	"github.com/allisson/securestore/internal/app"
	storageUseCase "github.com/allisson/securestore/internal/storage/usecase"
)

// withStorage runs fn with the storage facade of a freshly built container.
func withStorage(
	ctx context.Context,
	fn func(container *app.Container, useCase storageUseCase.StorageUseCase) error,
) error {
	container, err := loadContainer()
	if err != nil {
		return err
	}
	defer func() { _ = container.Shutdown(ctx) }()

	useCase, err := container.StorageUseCase(ctx)
	if err != nil {
		return err
	}
	return fn(container, useCase)
}

func getStorageCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "set",
			Usage: "Encrypt and store a value under a key",
			Flags: []cli.Flag{
				keyFlag(),
				&cli.StringFlag{
					Name:    "value",
					Aliases: []string{"v"},
					Usage:   "Value to store (prefer --stdin to keep it out of shell history)",
				},
				&cli.BoolFlag{
					Name:  "stdin",
					Usage: "Read the value from standard input",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				var value *string
				if cmd.IsSet("value") {
					v := cmd.String("value")
					value = &v
				}
				return withStorage(ctx, func(container *app.Container, useCase storageUseCase.StorageUseCase) error {
					return commands.RunSet(
						ctx,
						useCase,
						container.Logger(),
						commands.DefaultIO(),
						cmd.String("key"),
						value,
						cmd.Bool("stdin"),
					)
				})
			},
		},
		{
			Name:  "get",
			Usage: "Decrypt and print the value stored under a key",
			Flags: []cli.Flag{keyFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStorage(ctx, func(_ *app.Container, useCase storageUseCase.StorageUseCase) error {
					return commands.RunGet(ctx, useCase, commands.DefaultIO(), cmd.String("key"), cmd.String("format"))
				})
			},
		},
		{
			Name:  "remove",
			Usage: "Delete the value stored under a key",
			Flags: []cli.Flag{keyFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStorage(ctx, func(container *app.Container, useCase storageUseCase.StorageUseCase) error {
					return commands.RunRemove(ctx, useCase, container.Logger(), cmd.String("key"))
				})
			},
		},
		{
			Name:  "clear",
			Usage: "Delete every value of the namespace",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "yes",
					Usage: "Confirm the deletion",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStorage(ctx, func(container *app.Container, useCase storageUseCase.StorageUseCase) error {
					return commands.RunClear(ctx, useCase, container.Logger(), cmd.Bool("yes"))
				})
			},
		},
		{
			Name:  "keys",
			Usage: "List the stored keys",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withStorage(ctx, func(_ *app.Container, useCase storageUseCase.StorageUseCase) error {
					return commands.RunKeys(ctx, useCase, commands.DefaultIO(), cmd.String("format"))
				})
			},
		},
	}
}
