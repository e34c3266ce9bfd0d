package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	apperrors "github.com/allisson/securestore/internal/errors"
)

// KeeperKeyCustody implements KeyCustody with a KMS keeper and a wrapped-key repository.
//
// Generated keys are wrapped by the keeper before they are persisted, so the backing
// medium only ever holds KMS ciphertext. This is a software substitute for a hardware
// keystore: the raw key is materialized in process memory while a record is sealed or
// opened, and zeroed right after.
type KeeperKeyCustody struct {
	keeper cryptoDomain.KMSKeeper
	repo   MasterKeyRepository
}

// NewKeeperKeyCustody creates a custody service wrapping keys with keeper.
func NewKeeperKeyCustody(keeper cryptoDomain.KMSKeeper, repo MasterKeyRepository) *KeeperKeyCustody {
	return &KeeperKeyCustody{
		keeper: keeper,
		repo:   repo,
	}
}

// HasKey reports whether a wrapped key exists under alias.
func (k *KeeperKeyCustody) HasKey(ctx context.Context, alias string) (bool, error) {
	_, err := k.repo.Get(ctx, alias)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GenerateKey creates a random 32-byte key, wraps it with the keeper and persists it.
// The plaintext key is zeroed before returning.
func (k *KeeperKeyCustody) GenerateKey(
	ctx context.Context,
	alias string,
	params cryptoDomain.KeyParams,
) (cryptoDomain.KeyHandle, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rawKey := make([]byte, cryptoDomain.KeySize)
	defer cryptoDomain.Zero(rawKey)
	if _, err := rand.Read(rawKey); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}

	wrapped, err := k.keeper.Encrypt(ctx, rawKey)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to wrap master key: %v", cryptoDomain.ErrKeyUnavailable, err)
	}

	masterKey := &cryptoDomain.MasterKey{
		ID:         uuid.Must(uuid.NewV7()),
		Alias:      alias,
		Algorithm:  params.Algorithm,
		Purposes:   params.Purposes,
		WrappedKey: wrapped,
		CreatedAt:  time.Now().UTC(),
	}

	if err := k.repo.Create(ctx, masterKey); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, cryptoDomain.ErrMasterKeyAlreadyExists
		}
		return nil, err
	}

	return &keeperKeyHandle{keeper: k.keeper, masterKey: masterKey}, nil
}

// GetKey loads the wrapped key stored under alias.
func (k *KeeperKeyCustody) GetKey(ctx context.Context, alias string) (cryptoDomain.KeyHandle, error) {
	masterKey, err := k.repo.Get(ctx, alias)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, cryptoDomain.ErrMasterKeyNotFound
		}
		return nil, err
	}

	return &keeperKeyHandle{keeper: k.keeper, masterKey: masterKey}, nil
}

// keeperKeyHandle unwraps the master key through the keeper on every Use.
type keeperKeyHandle struct {
	keeper    cryptoDomain.KMSKeeper
	masterKey *cryptoDomain.MasterKey
}

func (h *keeperKeyHandle) Alias() string {
	return h.masterKey.Alias
}

func (h *keeperKeyHandle) Params() cryptoDomain.KeyParams {
	return h.masterKey.Params()
}

// Use unwraps the key, passes it to fn and zeroes it when fn returns.
func (h *keeperKeyHandle) Use(ctx context.Context, fn func(key []byte) error) error {
	rawKey, err := h.keeper.Decrypt(ctx, h.masterKey.WrappedKey)
	if err != nil {
		return fmt.Errorf("%w: failed to unwrap master key: %v", cryptoDomain.ErrKeyUnavailable, err)
	}
	defer cryptoDomain.Zero(rawKey)

	if len(rawKey) != cryptoDomain.KeySize {
		return fmt.Errorf("%w: unwrapped key has %d bytes", cryptoDomain.ErrKeyUnavailable, len(rawKey))
	}

	return fn(rawKey)
}
