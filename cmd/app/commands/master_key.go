package commands

import (
	"context"
	"fmt"
	"log/slog"

	cryptoService "github.com/allisson/securestore/internal/crypto/service"
)

type masterKeyOutput struct {
	Alias     string `json:"alias"`
	Algorithm string `json:"algorithm"`
}

// RunCreateMasterKey makes sure the master key of the namespace exists, generating it in
// custody when absent. Running it again is harmless: the existing key is reported.
// Key material is never printed.
func RunCreateMasterKey(
	ctx context.Context,
	keyManager cryptoService.KeyManager,
	logger *slog.Logger,
	io IOTuple,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	handle, err := keyManager.EnsureKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure master key: %w", err)
	}

	output := masterKeyOutput{
		Alias:     handle.Alias(),
		Algorithm: string(handle.Params().Algorithm),
	}
	logger.Info("master key ready",
		slog.String("alias", output.Alias),
		slog.String("algorithm", output.Algorithm))

	if format == FormatJSON {
		return writeJSON(io.Writer, output)
	}

	_, err = fmt.Fprintf(io.Writer, "Master key %q is ready (algorithm: %s)\n", output.Alias, output.Algorithm)
	return err
}
