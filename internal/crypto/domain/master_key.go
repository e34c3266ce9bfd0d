package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultMasterKeyAlias is the constant identifier the master key is stored under.
const DefaultMasterKeyAlias = "SECURE_STORAGE_MASTER_KEY"

// KeyParams are the parameters bound to a master key when it is generated.
// A key created for one algorithm can never be used with another.
type KeyParams struct {
	Algorithm Algorithm
	Purposes  Purpose
}

// NewKeyParams returns parameters for an encrypt/decrypt key using alg.
func NewKeyParams(alg Algorithm) KeyParams {
	return KeyParams{
		Algorithm: alg,
		Purposes:  PurposeEncrypt | PurposeDecrypt,
	}
}

// Validate checks that the algorithm is supported and at least one purpose is set.
func (p KeyParams) Validate() error {
	if _, err := ParseAlgorithm(string(p.Algorithm)); err != nil {
		return err
	}
	if p.Purposes == 0 {
		return ErrKeyUnavailable
	}
	return nil
}

// MasterKey is the persisted form of a master key.
//
// The raw key material is never stored: WrappedKey holds the key encrypted by the
// KMS keeper configured for the custody service, so reading the backing medium alone
// is not enough to recover it.
//
// Fields:
//   - ID: Unique identifier of this key generation (UUIDv7)
//   - Namespace: Storage namespace the key belongs to
//   - Alias: Constant identifier the key is looked up by
//   - Algorithm, Purposes: Parameters bound at creation
//   - WrappedKey: KMS ciphertext of the 32-byte key
//   - CreatedAt: UTC creation time
type MasterKey struct {
	ID         uuid.UUID
	Namespace  string
	Alias      string
	Algorithm  Algorithm
	Purposes   Purpose
	WrappedKey []byte
	CreatedAt  time.Time
}

// Params returns the key parameters recorded with the master key.
func (m *MasterKey) Params() KeyParams {
	return KeyParams{Algorithm: m.Algorithm, Purposes: m.Purposes}
}

// KeyHandle references a master key held by a custody service.
//
// Raw key bytes are only reachable inside Use; implementations must zero the buffer
// before Use returns, whatever fn returns.
type KeyHandle interface {
	Alias() string
	Params() KeyParams
	Use(ctx context.Context, fn func(key []byte) error) error
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap master keys.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
