// Package repository implements the persistence store for encrypted records.
//
// A store maps storage keys to encoded records (base64 nonce ‖ ciphertext ‖ tag) inside
// one namespace. Values reaching this layer are already encrypted; repositories never
// see plaintext.
//
// Every write is synchronous: it returns only once the database committed the statement
// or the blob object was fully written. Infrastructure failures are reported wrapped in
// domain.ErrStorageUnavailable; an absent key on Get is reported as errors.ErrNotFound.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/allisson/securestore/internal/errors"
	storageDomain "github.com/allisson/securestore/internal/storage/domain"
)

// PostgreSQLRecordRepository implements record persistence for PostgreSQL.
//
// Database schema requirements:
//   - namespace, storage_key: VARCHAR, PRIMARY KEY together
//   - record: TEXT (base64 encoded record)
//   - updated_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLRecordRepository struct {
	db        *sql.DB
	namespace string
}

// NewPostgreSQLRecordRepository creates a repository bound to namespace.
func NewPostgreSQLRecordRepository(db *sql.DB, namespace string) *PostgreSQLRecordRepository {
	return &PostgreSQLRecordRepository{db: db, namespace: namespace}
}

// Put creates or fully replaces the record stored under key.
func (p *PostgreSQLRecordRepository) Put(ctx context.Context, key, record string) error {
	query := `INSERT INTO secure_storage_records (namespace, storage_key, record, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (namespace, storage_key)
			  DO UPDATE SET record = EXCLUDED.record, updated_at = EXCLUDED.updated_at`

	_, err := p.db.ExecContext(ctx, query, p.namespace, key, record, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: failed to put record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the record stored under key.
func (p *PostgreSQLRecordRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT record FROM secure_storage_records WHERE namespace = $1 AND storage_key = $2`

	var record string
	err := p.db.QueryRowContext(ctx, query, p.namespace, key).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.Wrap(apperrors.ErrNotFound, "record not found")
		}
		return "", fmt.Errorf("%w: failed to get record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return record, nil
}

// Delete removes the record stored under key. Deleting an absent key is not an error.
func (p *PostgreSQLRecordRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM secure_storage_records WHERE namespace = $1 AND storage_key = $2`

	if _, err := p.db.ExecContext(ctx, query, p.namespace, key); err != nil {
		return fmt.Errorf("%w: failed to delete record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear removes every record of the namespace in a single statement.
func (p *PostgreSQLRecordRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM secure_storage_records WHERE namespace = $1`

	if _, err := p.db.ExecContext(ctx, query, p.namespace); err != nil {
		return fmt.Errorf("%w: failed to clear records: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// ListKeys returns the storage keys of the namespace, ordered by key.
func (p *PostgreSQLRecordRepository) ListKeys(ctx context.Context) ([]string, error) {
	query := `SELECT storage_key FROM secure_storage_records WHERE namespace = $1 ORDER BY storage_key`

	rows, err := p.db.QueryContext(ctx, query, p.namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %v", storageDomain.ErrStorageUnavailable, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanKeys(rows)
}

// scanKeys collects the single-column rows of a key listing.
func scanKeys(rows *sql.Rows) ([]string, error) {
	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("%w: failed to scan key: %v", storageDomain.ErrStorageUnavailable, err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %v", storageDomain.ErrStorageUnavailable, err)
	}

	return keys, nil
}
