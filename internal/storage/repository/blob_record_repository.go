package repository

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	// Bucket drivers selectable through BLOB_BUCKET_URL.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	apperrors "github.com/allisson/securestore/internal/errors"
	storageDomain "github.com/allisson/securestore/internal/storage/domain"
)

const (
	// recordPrefix is the object prefix holding records inside a namespace bucket.
	recordPrefix = "records/"

	// recordMarker precedes the encoded key so the empty key still names an object.
	recordMarker = "k"
)

// BlobRecordRepository persists records as objects of a gocloud.dev bucket
// (file://, mem://, s3://). The bucket must already be scoped to the namespace.
//
// Storage keys are arbitrary strings, so object names use a marker followed by their
// unpadded URL-safe base64 form. Each Put is a single object write, which keeps
// last-write-wins per key. Clear deletes objects one by one and is not atomic across keys.
type BlobRecordRepository struct {
	bucket *blob.Bucket
}

// OpenBucket opens the bucket at url and scopes it to namespace.
func OpenBucket(ctx context.Context, url, namespace string) (*blob.Bucket, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	return blob.PrefixedBucket(bucket, namespace+"/"), nil
}

// NewBlobRecordRepository creates a repository over a namespace-scoped bucket.
func NewBlobRecordRepository(bucket *blob.Bucket) *BlobRecordRepository {
	return &BlobRecordRepository{bucket: bucket}
}

func recordObjectName(key string) string {
	return recordPrefix + recordMarker + base64.RawURLEncoding.EncodeToString([]byte(key))
}

// recordKey reverses recordObjectName. ok is false for objects not written by this repository.
func recordKey(name string) (string, bool) {
	encoded, found := strings.CutPrefix(name, recordPrefix+recordMarker)
	if !found {
		return "", false
	}
	key, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	return string(key), true
}

// Put writes the record, replacing any previous object for key.
func (b *BlobRecordRepository) Put(ctx context.Context, key, record string) error {
	err := b.bucket.WriteAll(ctx, recordObjectName(key), []byte(record), &blob.WriterOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("%w: failed to put record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get reads the record stored under key.
func (b *BlobRecordRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := b.bucket.ReadAll(ctx, recordObjectName(key))
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return "", apperrors.Wrap(apperrors.ErrNotFound, "record not found")
		}
		return "", fmt.Errorf("%w: failed to get record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return string(data), nil
}

// Delete removes the object for key. A missing object is not an error.
func (b *BlobRecordRepository) Delete(ctx context.Context, key string) error {
	err := b.bucket.Delete(ctx, recordObjectName(key))
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return fmt.Errorf("%w: failed to delete record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear deletes every record object of the namespace.
func (b *BlobRecordRepository) Clear(ctx context.Context) error {
	names, err := b.listObjects(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		err := b.bucket.Delete(ctx, name)
		if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return fmt.Errorf("%w: failed to clear records: %v", storageDomain.ErrStorageUnavailable, err)
		}
	}
	return nil
}

// ListKeys returns the storage keys of the namespace, in object listing order.
func (b *BlobRecordRepository) ListKeys(ctx context.Context) ([]string, error) {
	names, err := b.listObjects(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		if key, ok := recordKey(name); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *BlobRecordRepository) listObjects(ctx context.Context) ([]string, error) {
	iter := b.bucket.List(&blob.ListOptions{Prefix: recordPrefix})

	var names []string
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list records: %v", storageDomain.ErrStorageUnavailable, err)
		}
		if obj.IsDir {
			continue
		}
		names = append(names, obj.Key)
	}
	return names, nil
}
