package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	"github.com/allisson/securestore/internal/crypto/service/mocks"
)

func newStaticHandle(t *testing.T, alg cryptoDomain.Algorithm) *mocks.StaticKeyHandle {
	t.Helper()
	return &mocks.StaticKeyHandle{
		KeyAlias:  cryptoDomain.DefaultMasterKeyAlias,
		KeyParams: cryptoDomain.NewKeyParams(alg),
		Key:       newTestKey(t),
	}
}

func TestCipherService_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	cipher := NewCipherService(NewAEADManager())

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			handle := newStaticHandle(t, alg)

			sealed, err := cipher.Encrypt(ctx, handle, []byte("abc123"), []byte("token"))
			require.NoError(t, err)
			assert.Len(t, sealed.Ciphertext, 6)

			plaintext, err := cipher.Decrypt(ctx, handle, sealed, []byte("token"))
			require.NoError(t, err)
			assert.Equal(t, []byte("abc123"), plaintext)

			_, err = cipher.Decrypt(ctx, handle, sealed, []byte("other"))
			assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
		})
	}
}

func TestCipherService_Purposes(t *testing.T) {
	ctx := context.Background()
	cipher := NewCipherService(NewAEADManager())

	t.Run("encrypt-only key cannot decrypt", func(t *testing.T) {
		handle := newStaticHandle(t, cryptoDomain.AESGCM)
		handle.KeyParams.Purposes = cryptoDomain.PurposeEncrypt

		sealed, err := cipher.Encrypt(ctx, handle, []byte("abc123"), nil)
		require.NoError(t, err)

		_, err = cipher.Decrypt(ctx, handle, sealed, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})

	t.Run("decrypt-only key cannot encrypt", func(t *testing.T) {
		handle := newStaticHandle(t, cryptoDomain.AESGCM)
		handle.KeyParams.Purposes = cryptoDomain.PurposeDecrypt

		_, err := cipher.Encrypt(ctx, handle, []byte("abc123"), nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})
}

func TestCipherService_HandleErrors(t *testing.T) {
	ctx := context.Background()
	cipher := NewCipherService(NewAEADManager())

	t.Run("use failure is returned", func(t *testing.T) {
		handle := newStaticHandle(t, cryptoDomain.AESGCM)
		handle.Err = cryptoDomain.ErrKeyUnavailable

		_, err := cipher.Encrypt(ctx, handle, []byte("abc123"), nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)

		_, err = cipher.Decrypt(ctx, handle, cryptoDomain.Sealed{}, nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyUnavailable)
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		handle := newStaticHandle(t, cryptoDomain.Algorithm("rot13"))

		_, err := cipher.Encrypt(ctx, handle, []byte("abc123"), nil)
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("wrong key fails authentication", func(t *testing.T) {
		handle := newStaticHandle(t, cryptoDomain.AESGCM)
		sealed, err := cipher.Encrypt(ctx, handle, []byte("abc123"), nil)
		require.NoError(t, err)

		replaced := newStaticHandle(t, cryptoDomain.AESGCM)
		_, err = cipher.Decrypt(ctx, replaced, sealed, nil)
		assert.True(t, errors.Is(err, cryptoDomain.ErrAuthenticationFailed))
	})
}
