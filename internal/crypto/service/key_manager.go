package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// KeyManagerService implements the KeyManager interface.
//
// It looks the master key up under a constant alias and generates it with the
// configured parameters when the custody service has none. The key is never
// rotated, exported or backed up: if custody later loses it, every record sealed
// with it becomes permanently undecryptable.
type KeyManagerService struct {
	custody KeyCustody
	alias   string
	params  cryptoDomain.KeyParams
	logger  *slog.Logger
}

// NewKeyManager creates a new KeyManagerService.
//
// Parameters:
//   - custody: The external key-custody service
//   - alias: Constant identifier of the master key (e.g. SECURE_STORAGE_MASTER_KEY)
//   - params: Parameters bound to the key when it is generated
//   - logger: Structured logger; key material is never logged
func NewKeyManager(
	custody KeyCustody,
	alias string,
	params cryptoDomain.KeyParams,
	logger *slog.Logger,
) *KeyManagerService {
	return &KeyManagerService{
		custody: custody,
		alias:   alias,
		params:  params,
		logger:  logger,
	}
}

// EnsureKey returns the master key, generating it when absent.
//
// When two processes race to generate the key, the loser gets
// ErrMasterKeyAlreadyExists from custody and reads the winner's key instead,
// keeping exactly one master key per namespace.
func (km *KeyManagerService) EnsureKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	exists, err := km.custody.HasKey(ctx, km.alias)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	if exists {
		return km.GetKey(ctx)
	}

	handle, err := km.custody.GenerateKey(ctx, km.alias, km.params)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrMasterKeyAlreadyExists) {
			km.logger.Debug("master key generated concurrently, loading it",
				slog.String("alias", km.alias))
			return km.GetKey(ctx)
		}
		if errors.Is(err, cryptoDomain.ErrKeyUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnavailable, err)
	}

	km.logger.Info("master key generated",
		slog.String("alias", km.alias),
		slog.String("algorithm", string(km.params.Algorithm)))

	return handle, nil
}

// GetKey returns the master key or ErrKeyUnavailable when custody cannot produce it
// or it was created for a different algorithm.
func (km *KeyManagerService) GetKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	handle, err := km.custody.GetKey(ctx, km.alias)
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrKeyUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyUnavailable, err)
	}

	if bound := handle.Params().Algorithm; bound != km.params.Algorithm {
		return nil, fmt.Errorf(
			"%w: key %s is bound to %s, configured algorithm is %s",
			cryptoDomain.ErrKeyUnavailable,
			km.alias,
			bound,
			km.params.Algorithm,
		)
	}

	return handle, nil
}
