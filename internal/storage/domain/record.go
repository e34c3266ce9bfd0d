// Package domain defines the encrypted record format and the errors of the secure store.
package domain

import (
	"encoding/base64"
	"fmt"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// DefaultNamespace is the namespace records are stored under when none is configured.
const DefaultNamespace = "SECURE_STORAGE_PREFS"

// MinRecordSize is the length of an encoded record holding an empty value.
const MinRecordSize = cryptoDomain.NonceSize + cryptoDomain.TagSize

// Record is one encrypted value: a random nonce, the ciphertext (same length as the
// plaintext) and the authentication tag. It is self-describing given the fixed nonce
// and tag sizes, so no metadata is stored next to it.
type Record struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}

// NewRecord builds a Record from the output of an AEAD seal.
func NewRecord(sealed cryptoDomain.Sealed) Record {
	return Record{
		Nonce:      sealed.Nonce,
		Ciphertext: sealed.Ciphertext,
		Tag:        sealed.Tag,
	}
}

// Sealed returns the record in the form accepted by the cipher.
func (r Record) Sealed() cryptoDomain.Sealed {
	return cryptoDomain.Sealed{
		Nonce:      r.Nonce,
		Ciphertext: r.Ciphertext,
		Tag:        r.Tag,
	}
}

// Bytes returns nonce ‖ ciphertext ‖ tag.
func (r Record) Bytes() []byte {
	out := make([]byte, 0, len(r.Nonce)+len(r.Ciphertext)+len(r.Tag))
	out = append(out, r.Nonce...)
	out = append(out, r.Ciphertext...)
	return append(out, r.Tag...)
}

// String returns the standard base64 encoding of Bytes, the form persisted by the store.
func (r Record) String() string {
	return base64.StdEncoding.EncodeToString(r.Bytes())
}

// ParseRecord splits raw into nonce, ciphertext and tag. The returned slices alias raw.
func ParseRecord(raw []byte) (Record, error) {
	if len(raw) < MinRecordSize {
		return Record{}, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedRecord, len(raw), MinRecordSize)
	}

	tagStart := len(raw) - cryptoDomain.TagSize
	return Record{
		Nonce:      raw[:cryptoDomain.NonceSize],
		Ciphertext: raw[cryptoDomain.NonceSize:tagStart],
		Tag:        raw[tagStart:],
	}, nil
}

// DecodeRecord decodes the base64 text form produced by Record.String.
func DecodeRecord(text string) (Record, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return ParseRecord(raw)
}
