package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	apperrors "github.com/allisson/securestore/internal/errors"
)

const testNamespace = "SECURE_STORAGE_PREFS"

func newTestMasterKey() *cryptoDomain.MasterKey {
	return &cryptoDomain.MasterKey{
		ID:         uuid.Must(uuid.NewV7()),
		Alias:      cryptoDomain.DefaultMasterKeyAlias,
		Algorithm:  cryptoDomain.AESGCM,
		Purposes:   cryptoDomain.PurposeEncrypt | cryptoDomain.PurposeDecrypt,
		WrappedKey: []byte("wrapped-key-bytes"),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
}

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

var (
	insertMasterKeyQuery = regexp.QuoteMeta(`INSERT INTO secure_storage_master_keys`)
	selectMasterKeyQuery = regexp.QuoteMeta(`SELECT id, namespace, alias, algorithm, purposes, wrapped_key, created_at`)
)

func TestPostgreSQLMasterKeyRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLMasterKeyRepository(db, testNamespace)
		masterKey := newTestMasterKey()

		mock.ExpectExec(insertMasterKeyQuery).
			WithArgs(
				sqlmock.AnyArg(),
				testNamespace,
				masterKey.Alias,
				string(masterKey.Algorithm),
				int64(masterKey.Purposes),
				masterKey.WrappedKey,
				masterKey.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, masterKey))
		assert.Equal(t, testNamespace, masterKey.Namespace)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLMasterKeyRepository(db, testNamespace)

		mock.ExpectExec(insertMasterKeyQuery).
			WillReturnError(&pq.Error{Code: pgUniqueViolation})

		err := repo.Create(ctx, newTestMasterKey())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLMasterKeyRepository(db, testNamespace)
		dbErr := errors.New("connection refused")

		mock.ExpectExec(insertMasterKeyQuery).WillReturnError(dbErr)

		err := repo.Create(ctx, newTestMasterKey())
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestPostgreSQLMasterKeyRepository_Get(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "namespace", "alias", "algorithm", "purposes", "wrapped_key", "created_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLMasterKeyRepository(db, testNamespace)
		expected := newTestMasterKey()

		mock.ExpectQuery(selectMasterKeyQuery).
			WithArgs(testNamespace, expected.Alias).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				expected.ID.String(),
				testNamespace,
				expected.Alias,
				string(expected.Algorithm),
				int64(expected.Purposes),
				expected.WrappedKey,
				expected.CreatedAt,
			))

		masterKey, err := repo.Get(ctx, expected.Alias)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, masterKey.ID)
		assert.Equal(t, testNamespace, masterKey.Namespace)
		assert.Equal(t, expected.Algorithm, masterKey.Algorithm)
		assert.Equal(t, expected.Purposes, masterKey.Purposes)
		assert.Equal(t, expected.WrappedKey, masterKey.WrappedKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLMasterKeyRepository(db, testNamespace)

		mock.ExpectQuery(selectMasterKeyQuery).
			WithArgs(testNamespace, "missing").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMySQLMasterKeyRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLMasterKeyRepository(db, testNamespace)
		masterKey := newTestMasterKey()
		id, err := masterKey.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectExec(insertMasterKeyQuery).
			WithArgs(
				id,
				testNamespace,
				masterKey.Alias,
				string(masterKey.Algorithm),
				int64(masterKey.Purposes),
				masterKey.WrappedKey,
				masterKey.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(ctx, masterKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLMasterKeyRepository(db, testNamespace)

		mock.ExpectExec(insertMasterKeyQuery).
			WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

		err := repo.Create(ctx, newTestMasterKey())
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMySQLMasterKeyRepository_Get(t *testing.T) {
	ctx := context.Background()
	columns := []string{"id", "namespace", "alias", "algorithm", "purposes", "wrapped_key", "created_at"}

	t.Run("Success", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLMasterKeyRepository(db, testNamespace)
		expected := newTestMasterKey()
		id, err := expected.ID.MarshalBinary()
		require.NoError(t, err)

		mock.ExpectQuery(selectMasterKeyQuery).
			WithArgs(testNamespace, expected.Alias).
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				id,
				testNamespace,
				expected.Alias,
				string(expected.Algorithm),
				int64(expected.Purposes),
				expected.WrappedKey,
				expected.CreatedAt,
			))

		masterKey, err := repo.Get(ctx, expected.Alias)
		require.NoError(t, err)
		assert.Equal(t, expected.ID, masterKey.ID)
		assert.Equal(t, expected.Algorithm, masterKey.Algorithm)
		assert.Equal(t, expected.WrappedKey, masterKey.WrappedKey)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewMySQLMasterKeyRepository(db, testNamespace)

		mock.ExpectQuery(selectMasterKeyQuery).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestBlobMasterKeyRepository(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	openView := func(prefix string) *blob.Bucket {
		bucket, err := fileblob.OpenBucket(dir, nil)
		require.NoError(t, err)
		if prefix != "" {
			// PrefixedBucket closes its argument
			bucket = blob.PrefixedBucket(bucket, prefix)
		}
		t.Cleanup(func() {
			_ = bucket.Close()
		})
		return bucket
	}

	raw := openView("")
	repo := NewBlobMasterKeyRepository(openView(testNamespace+"/"), testNamespace)

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.Get(ctx, cryptoDomain.DefaultMasterKeyAlias)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	masterKey := newTestMasterKey()

	t.Run("CreateAndGet", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, masterKey))

		stored, err := repo.Get(ctx, masterKey.Alias)
		require.NoError(t, err)
		assert.Equal(t, masterKey.ID, stored.ID)
		assert.Equal(t, testNamespace, stored.Namespace)
		assert.Equal(t, masterKey.Algorithm, stored.Algorithm)
		assert.Equal(t, masterKey.Purposes, stored.Purposes)
		assert.Equal(t, masterKey.WrappedKey, stored.WrappedKey)
		assert.True(t, masterKey.CreatedAt.Equal(stored.CreatedAt))

		exists, err := raw.Exists(ctx, testNamespace+"/keys/"+masterKey.Alias)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Conflict", func(t *testing.T) {
		err := repo.Create(ctx, newTestMasterKey())
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		stored, err := repo.Get(ctx, masterKey.Alias)
		require.NoError(t, err)
		assert.Equal(t, masterKey.ID, stored.ID)
	})

	t.Run("NamespaceIsolation", func(t *testing.T) {
		other := NewBlobMasterKeyRepository(openView("OTHER/"), "OTHER")
		_, err := other.Get(ctx, masterKey.Alias)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
