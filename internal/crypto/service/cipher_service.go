package service

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// CipherService implements the Cipher interface on top of an AEADManager.
//
// Key material only exists inside KeyHandle.Use for the duration of one Seal or
// Open call; the handle zeroes it afterwards.
type CipherService struct {
	aeadManager AEADManager
}

// NewCipherService creates a new CipherService using the provided AEADManager.
func NewCipherService(aeadManager AEADManager) *CipherService {
	return &CipherService{aeadManager: aeadManager}
}

// Encrypt seals plaintext with the master key behind handle.
// The nonce is generated internally; callers can neither supply nor reuse one.
func (c *CipherService) Encrypt(
	ctx context.Context,
	handle cryptoDomain.KeyHandle,
	plaintext, aad []byte,
) (cryptoDomain.Sealed, error) {
	params := handle.Params()
	if !params.Purposes.Has(cryptoDomain.PurposeEncrypt) {
		return cryptoDomain.Sealed{}, fmt.Errorf(
			"%w: key %s cannot encrypt",
			cryptoDomain.ErrKeyUnavailable,
			handle.Alias(),
		)
	}

	var sealed cryptoDomain.Sealed
	err := handle.Use(ctx, func(key []byte) error {
		aead, err := c.aeadManager.CreateCipher(key, params.Algorithm)
		if err != nil {
			return err
		}
		sealed, err = aead.Seal(plaintext, aad)
		return err
	})
	if err != nil {
		return cryptoDomain.Sealed{}, err
	}

	return sealed, nil
}

// Decrypt opens sealed with the master key behind handle.
// Returns ErrAuthenticationFailed when the tag does not verify.
func (c *CipherService) Decrypt(
	ctx context.Context,
	handle cryptoDomain.KeyHandle,
	sealed cryptoDomain.Sealed,
	aad []byte,
) ([]byte, error) {
	params := handle.Params()
	if !params.Purposes.Has(cryptoDomain.PurposeDecrypt) {
		return nil, fmt.Errorf(
			"%w: key %s cannot decrypt",
			cryptoDomain.ErrKeyUnavailable,
			handle.Alias(),
		)
	}

	var plaintext []byte
	err := handle.Use(ctx, func(key []byte) error {
		aead, err := c.aeadManager.CreateCipher(key, params.Algorithm)
		if err != nil {
			return err
		}
		plaintext, err = aead.Open(sealed, aad)
		return err
	})
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}
