package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	apperrors "github.com/allisson/securestore/internal/errors"
)

// masterKeyPrefix is the object prefix holding master keys inside a namespace bucket.
const masterKeyPrefix = "keys/"

// blobMasterKey is the JSON document persisted for a master key.
type blobMasterKey struct {
	ID         uuid.UUID              `json:"id"`
	Namespace  string                 `json:"namespace"`
	Alias      string                 `json:"alias"`
	Algorithm  cryptoDomain.Algorithm `json:"algorithm"`
	Purposes   cryptoDomain.Purpose   `json:"purposes"`
	WrappedKey []byte                 `json:"wrapped_key"`
	CreatedAt  time.Time              `json:"created_at"`
}

// BlobMasterKeyRepository persists wrapped master keys as JSON objects in a gocloud.dev
// bucket. The bucket is expected to be already scoped to the namespace (see
// blob.PrefixedBucket).
//
// Create uses a conditional write so that two processes generating the key at the same
// time cannot overwrite each other.
type BlobMasterKeyRepository struct {
	bucket    *blob.Bucket
	namespace string
}

// NewBlobMasterKeyRepository creates a repository over a namespace-scoped bucket.
func NewBlobMasterKeyRepository(bucket *blob.Bucket, namespace string) *BlobMasterKeyRepository {
	return &BlobMasterKeyRepository{bucket: bucket, namespace: namespace}
}

// Create writes the wrapped key unless an object already exists under the alias.
func (b *BlobMasterKeyRepository) Create(ctx context.Context, masterKey *cryptoDomain.MasterKey) error {
	masterKey.Namespace = b.namespace

	data, err := json.Marshal(blobMasterKey{
		ID:         masterKey.ID,
		Namespace:  masterKey.Namespace,
		Alias:      masterKey.Alias,
		Algorithm:  masterKey.Algorithm,
		Purposes:   masterKey.Purposes,
		WrappedKey: masterKey.WrappedKey,
		CreatedAt:  masterKey.CreatedAt,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal master key")
	}

	err = b.bucket.WriteAll(ctx, masterKeyPrefix+masterKey.Alias, data, &blob.WriterOptions{
		ContentType: "application/json",
		IfNotExist:  true,
	})
	if err != nil {
		if gcerrors.Code(err) == gcerrors.FailedPrecondition {
			return apperrors.Wrap(apperrors.ErrConflict, "master key already exists")
		}
		return apperrors.Wrap(err, "failed to create master key")
	}
	return nil
}

// Get reads the wrapped master key stored under alias.
func (b *BlobMasterKeyRepository) Get(ctx context.Context, alias string) (*cryptoDomain.MasterKey, error) {
	data, err := b.bucket.ReadAll(ctx, masterKeyPrefix+alias)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "master key not found")
		}
		return nil, apperrors.Wrap(err, "failed to get master key")
	}

	var stored blobMasterKey
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal master key")
	}

	return &cryptoDomain.MasterKey{
		ID:         stored.ID,
		Namespace:  stored.Namespace,
		Alias:      stored.Alias,
		Algorithm:  stored.Algorithm,
		Purposes:   stored.Purposes,
		WrappedKey: stored.WrappedKey,
		CreatedAt:  stored.CreatedAt,
	}, nil
}
