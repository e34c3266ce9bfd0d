package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	storageDomain "github.com/allisson/securestore/internal/storage/domain"
	storageUseCase "github.com/allisson/securestore/internal/storage/usecase"
)

// ErrValueNotFound is returned by RunGet in text mode when no value is stored under the key.
var ErrValueNotFound = errors.New("no value stored under the given key")

// RunSet stores value under key. With fromStdin the value is read from io.Reader instead,
// keeping it out of shell history; one trailing newline is dropped. A nil value without
// fromStdin fails with ErrValueRequired: the CLI never removes a key through set.
func RunSet(
	ctx context.Context,
	useCase storageUseCase.StorageUseCase,
	logger *slog.Logger,
	io IOTuple,
	key string,
	value *string,
	fromStdin bool,
) error {
	if fromStdin {
		data, err := readAll(io.Reader)
		if err != nil {
			return err
		}
		value = &data
	}
	if value == nil {
		return storageDomain.ErrValueRequired
	}

	if err := useCase.Set(ctx, key, value); err != nil {
		return fmt.Errorf("failed to set value: %w", err)
	}

	logger.Info("value stored", slog.String("key", key))
	return nil
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read value from stdin: %w", err)
	}
	value := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(value, "\r"), nil
}

type getOutput struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

// RunGet prints the value stored under key. In JSON mode an absent value is printed as null;
// in text mode it yields ErrValueNotFound.
func RunGet(
	ctx context.Context,
	useCase storageUseCase.StorageUseCase,
	io IOTuple,
	key, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	value, err := useCase.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to get value: %w", err)
	}

	if format == FormatJSON {
		return writeJSON(io.Writer, getOutput{Key: key, Value: value})
	}

	if value == nil {
		return ErrValueNotFound
	}
	_, err = fmt.Fprintln(io.Writer, *value)
	return err
}

// RunRemove deletes the value stored under key. Removing an absent key succeeds.
func RunRemove(
	ctx context.Context,
	useCase storageUseCase.StorageUseCase,
	logger *slog.Logger,
	key string,
) error {
	if err := useCase.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to remove value: %w", err)
	}

	logger.Info("value removed", slog.String("key", key))
	return nil
}

// RunClear deletes every value of the namespace. It refuses to run unless confirmed.
func RunClear(
	ctx context.Context,
	useCase storageUseCase.StorageUseCase,
	logger *slog.Logger,
	confirmed bool,
) error {
	if !confirmed {
		return errors.New("refusing to clear the store without --yes")
	}

	if err := useCase.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}

	logger.Info("store cleared")
	return nil
}

type keysOutput struct {
	Keys []string `json:"keys"`
}

// RunKeys prints the stored keys, one per line in text mode.
func RunKeys(
	ctx context.Context,
	useCase storageUseCase.StorageUseCase,
	io IOTuple,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	keys, err := useCase.Keys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if format == FormatJSON {
		return writeJSON(io.Writer, keysOutput{Keys: keys})
	}

	for _, key := range keys {
		if _, err := fmt.Fprintln(io.Writer, key); err != nil {
			return err
		}
	}
	return nil
}
