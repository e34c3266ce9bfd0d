package usecase

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	cryptoService "github.com/allisson/securestore/internal/crypto/service"
	apperrors "github.com/allisson/securestore/internal/errors"
	storageDomain "github.com/allisson/securestore/internal/storage/domain"
)

// storageUseCase implements StorageUseCase.
//
// The storage key is bound to each record as associated data, so a record copied under
// another key fails authentication instead of decrypting to a foreign value.
type storageUseCase struct {
	recordRepo RecordRepository
	keyManager cryptoService.KeyManager
	cipher     cryptoService.Cipher
	logger     *slog.Logger
}

// NewStorageUseCase creates the secure store facade for one namespace.
func NewStorageUseCase(
	recordRepo RecordRepository,
	keyManager cryptoService.KeyManager,
	cipher cryptoService.Cipher,
	logger *slog.Logger,
) StorageUseCase {
	return &storageUseCase{
		recordRepo: recordRepo,
		keyManager: keyManager,
		cipher:     cipher,
		logger:     logger,
	}
}

// Set encrypts value under a fresh nonce and persists the encoded record.
// The master key is generated on the first write of a namespace.
func (s *storageUseCase) Set(ctx context.Context, key string, value *string) error {
	if value == nil {
		return s.Remove(ctx, key)
	}
	if err := storageDomain.ValidateKey(key); err != nil {
		return err
	}

	handle, err := s.keyManager.EnsureKey(ctx)
	if err != nil {
		return err
	}

	plaintext := []byte(*value)
	defer cryptoDomain.Zero(plaintext)

	sealed, err := s.cipher.Encrypt(ctx, handle, plaintext, []byte(key))
	if err != nil {
		return err
	}

	return s.recordRepo.Put(ctx, key, storageDomain.NewRecord(sealed).String())
}

// Get reads, parses and decrypts the record stored under key.
func (s *storageUseCase) Get(ctx context.Context, key string) (*string, error) {
	if err := storageDomain.ValidateKey(key); err != nil {
		return nil, err
	}

	encoded, err := s.recordRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	record, err := storageDomain.DecodeRecord(encoded)
	if err != nil {
		s.logger.Warn("stored record is malformed",
			slog.String("key", key),
			slog.Any("error", err))
		return nil, err
	}

	handle, err := s.keyManager.GetKey(ctx)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(ctx, handle, record.Sealed(), []byte(key))
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrAuthenticationFailed) {
			s.logger.Warn("stored record failed authentication",
				slog.String("key", key))
		}
		return nil, err
	}
	defer cryptoDomain.Zero(plaintext)

	value := string(plaintext)
	return &value, nil
}

// Remove deletes the record stored under key.
func (s *storageUseCase) Remove(ctx context.Context, key string) error {
	if err := storageDomain.ValidateKey(key); err != nil {
		return err
	}
	return s.recordRepo.Delete(ctx, key)
}

// Clear deletes every record of the namespace.
func (s *storageUseCase) Clear(ctx context.Context) error {
	return s.recordRepo.Clear(ctx)
}

// Keys lists the stored keys. Callers must not depend on any particular order.
func (s *storageUseCase) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.recordRepo.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(keys)
	if sorted == nil {
		sorted = []string{}
	}
	slices.Sort(sorted)
	return sorted, nil
}
