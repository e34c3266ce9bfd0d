package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// cipherConstructors maps every configurable algorithm to the cipher sealing records with it.
var cipherConstructors = map[cryptoDomain.Algorithm]func(key []byte) (AEAD, error){
	cryptoDomain.AESGCM: func(key []byte) (AEAD, error) {
		return NewAESGCM(key)
	},
	cryptoDomain.ChaCha20: func(key []byte) (AEAD, error) {
		return NewChaCha20Poly1305(key)
	},
}

// AEADManagerService builds the record cipher for the configured algorithm from the
// unwrapped master key.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher returns ErrInvalidKeySize for key material that is not KeySize bytes and
// ErrUnsupportedAlgorithm, naming alg, for an algorithm without a cipher.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	newCipher, ok := cipherConstructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", cryptoDomain.ErrUnsupportedAlgorithm, alg)
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", cryptoDomain.ErrInvalidKeySize, len(key), cryptoDomain.KeySize)
	}
	return newCipher(key)
}
