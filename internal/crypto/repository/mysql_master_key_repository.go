package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	apperrors "github.com/allisson/securestore/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for duplicate keys.
const mysqlDuplicateEntry = 1062

// MySQLMasterKeyRepository implements master key persistence for MySQL.
//
// UUIDs are stored as BINARY(16) and the wrapped key as BLOB. The pair
// (namespace, alias) carries a UNIQUE index.
type MySQLMasterKeyRepository struct {
	db        *sql.DB
	namespace string
}

// NewMySQLMasterKeyRepository creates a repository bound to namespace.
func NewMySQLMasterKeyRepository(db *sql.DB, namespace string) *MySQLMasterKeyRepository {
	return &MySQLMasterKeyRepository{db: db, namespace: namespace}
}

// Create inserts a new wrapped master key.
func (m *MySQLMasterKeyRepository) Create(ctx context.Context, masterKey *cryptoDomain.MasterKey) error {
	masterKey.Namespace = m.namespace

	id, err := masterKey.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal master key id")
	}

	query := `INSERT INTO secure_storage_master_keys
			  (id, namespace, alias, algorithm, purposes, wrapped_key, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = m.db.ExecContext(
		ctx,
		query,
		id,
		masterKey.Namespace,
		masterKey.Alias,
		masterKey.Algorithm,
		masterKey.Purposes,
		masterKey.WrappedKey,
		masterKey.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return apperrors.Wrap(apperrors.ErrConflict, "master key already exists")
		}
		return apperrors.Wrap(err, "failed to create master key")
	}
	return nil
}

// Get loads the wrapped master key stored under alias.
func (m *MySQLMasterKeyRepository) Get(ctx context.Context, alias string) (*cryptoDomain.MasterKey, error) {
	query := `SELECT id, namespace, alias, algorithm, purposes, wrapped_key, created_at
			  FROM secure_storage_master_keys
			  WHERE namespace = ? AND alias = ?`

	var masterKey cryptoDomain.MasterKey
	var id []byte
	err := m.db.QueryRowContext(ctx, query, m.namespace, alias).Scan(
		&id,
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

	if err := masterKey.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal master key id")
	}

	return &masterKey, nil
}
