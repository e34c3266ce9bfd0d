package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	apperrors "github.com/allisson/securestore/internal/errors"
)

// openDirBucket opens a view of dir, scoped to prefix when it is not empty.
// PrefixedBucket closes its argument, so every view gets its own bucket.
func openDirBucket(t *testing.T, dir, prefix string) *blob.Bucket {
	t.Helper()
	bucket, err := fileblob.OpenBucket(dir, nil)
	require.NoError(t, err)
	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}
	t.Cleanup(func() {
		_ = bucket.Close()
	})
	return bucket
}

func newBlobRepository(t *testing.T) (*BlobRecordRepository, string) {
	t.Helper()
	dir := t.TempDir()
	return NewBlobRecordRepository(openDirBucket(t, dir, testNamespace+"/")), dir
}

func TestBlobRecordRepository_PutGet(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBlobRepository(t)

	_, err := repo.Get(ctx, "token")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, repo.Put(ctx, "token", "first"))
	require.NoError(t, repo.Put(ctx, "token", "second"))

	record, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "second", record)
}

func TestBlobRecordRepository_ArbitraryKeys(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBlobRepository(t)

	keys := []string{"", "a/b/../c", "with space", "ünïcødé", "records/nested"}
	for i, key := range keys {
		require.NoError(t, repo.Put(ctx, key, string(rune('A'+i))))
	}

	for i, key := range keys {
		record, err := repo.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, string(rune('A'+i)), record)
	}

	listed, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, keys, listed)
}

func TestBlobRecordRepository_EmptyKey(t *testing.T) {
	ctx := context.Background()
	repo, dir := newBlobRepository(t)
	raw := openDirBucket(t, dir, "")

	require.NoError(t, repo.Put(ctx, "", "empty"))

	record, err := repo.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "empty", record)

	exists, err := raw.Exists(ctx, testNamespace+"/"+recordObjectName(""))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "records/k", recordObjectName(""))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, keys)

	require.NoError(t, repo.Delete(ctx, ""))
	_, err = repo.Get(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBlobRecordRepository_SkipsForeignObjects(t *testing.T) {
	ctx := context.Background()
	repo, dir := newBlobRepository(t)
	raw := openDirBucket(t, dir, testNamespace+"/")

	require.NoError(t, repo.Put(ctx, "token", "value"))
	require.NoError(t, raw.WriteAll(ctx, "records/not-a-record", []byte("x"), nil))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"token"}, keys)
}

func TestBlobRecordRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := newBlobRepository(t)

	require.NoError(t, repo.Put(ctx, "token", "value"))
	require.NoError(t, repo.Delete(ctx, "token"))
	require.NoError(t, repo.Delete(ctx, "token"))
	require.NoError(t, repo.Delete(ctx, "never-set"))

	_, err := repo.Get(ctx, "token")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBlobRecordRepository_ClearOnlyOwnNamespace(t *testing.T) {
	ctx := context.Background()
	repo, dir := newBlobRepository(t)
	other := NewBlobRecordRepository(openDirBucket(t, dir, "OTHER/"))
	raw := openDirBucket(t, dir, "")

	require.NoError(t, repo.Put(ctx, "a", "1"))
	require.NoError(t, repo.Put(ctx, "b", "2"))
	require.NoError(t, other.Put(ctx, "a", "3"))

	// Unrelated objects next to the records survive
	require.NoError(t, raw.WriteAll(ctx, testNamespace+"/keys/master", []byte("wrapped"), nil))

	require.NoError(t, repo.Clear(ctx))

	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	otherKeys, err := other.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, otherKeys)

	exists, err := raw.Exists(ctx, testNamespace+"/keys/master")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestOpenBucket(t *testing.T) {
	ctx := context.Background()

	bucket, err := OpenBucket(ctx, "mem://", testNamespace)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, bucket.Close())
	}()

	repo := NewBlobRecordRepository(bucket)
	require.NoError(t, repo.Put(ctx, "token", "value"))

	_, err = OpenBucket(ctx, "unknown://bucket", testNamespace)
	assert.Error(t, err)
}
