// Package repository implements persistence for KMS-wrapped master keys.
//
// One master key exists per namespace. Each repository is bound to a namespace at
// construction and never sees the keys of another one.
//
// # Backends
//
//   - PostgreSQL: native UUID type and BYTEA for the wrapped key
//   - MySQL: BINARY(16) for UUIDs and BLOB for the wrapped key
//   - Blob: one JSON object per alias under the "keys/" prefix of a gocloud.dev bucket
//
// Create fails with an error wrapping errors.ErrConflict when the alias is taken, which
// lets the key manager resolve a generation race by reading the winner's key.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	apperrors "github.com/allisson/securestore/internal/errors"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgreSQLMasterKeyRepository implements master key persistence for PostgreSQL.
//
// Database schema requirements:
//   - id: UUID PRIMARY KEY
//   - namespace, alias: VARCHAR, UNIQUE together
//   - algorithm: VARCHAR (e.g., "aes-gcm", "chacha20-poly1305")
//   - purposes: INTEGER bit set
//   - wrapped_key: BYTEA (KMS ciphertext)
//   - created_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLMasterKeyRepository struct {
	db        *sql.DB
	namespace string
}

// NewPostgreSQLMasterKeyRepository creates a repository bound to namespace.
func NewPostgreSQLMasterKeyRepository(db *sql.DB, namespace string) *PostgreSQLMasterKeyRepository {
	return &PostgreSQLMasterKeyRepository{db: db, namespace: namespace}
}

// Create inserts a new wrapped master key. The namespace field is overwritten with the
// repository namespace.
func (p *PostgreSQLMasterKeyRepository) Create(ctx context.Context, masterKey *cryptoDomain.MasterKey) error {
	masterKey.Namespace = p.namespace

	query := `INSERT INTO secure_storage_master_keys
			  (id, namespace, alias, algorithm, purposes, wrapped_key, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		masterKey.ID,
		masterKey.Namespace,
		masterKey.Alias,
		masterKey.Algorithm,
		masterKey.Purposes,
		masterKey.WrappedKey,
		masterKey.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return apperrors.Wrap(apperrors.ErrConflict, "master key already exists")
		}
		return apperrors.Wrap(err, "failed to create master key")
	}
	return nil
}

// Get loads the wrapped master key stored under alias.
func (p *PostgreSQLMasterKeyRepository) Get(ctx context.Context, alias string) (*cryptoDomain.MasterKey, error) {
	query := `SELECT id, namespace, alias, algorithm, purposes, wrapped_key, created_at
			  FROM secure_storage_master_keys
			  WHERE namespace = $1 AND alias = $2`

	var masterKey cryptoDomain.MasterKey
	err := p.db.QueryRowContext(ctx, query, p.namespace, alias).Scan(
		&masterKey.ID,
		&masterKey.Namespace,
		&masterKey.Alias,
		&masterKey.Algorithm,
		&masterKey.Purposes,
		&masterKey.WrappedKey,
		&masterKey.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "master key not found")
		}
		return nil, apperrors.Wrap(err, "failed to get master key")
	}

	return &masterKey, nil
}
