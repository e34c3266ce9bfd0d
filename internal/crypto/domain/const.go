package domain

// Algorithm represents the cryptographic algorithm used for encryption.
//
// All supported algorithms provide Authenticated Encryption with Associated Data (AEAD),
// ensuring both confidentiality and authenticity of stored values. Both are stream-like
// modes: the ciphertext has the same length as the plaintext and the authentication tag
// is carried separately.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 represents the ChaCha20-Poly1305 authenticated encryption algorithm.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Constant-time software implementation
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every master key.
	KeySize = 32

	// NonceSize is the size in bytes of the nonce generated for every encryption.
	NonceSize = 12

	// TagSize is the size in bytes of the authentication tag.
	TagSize = 16
)

// Purpose is a capability flag bound to a master key at creation time.
type Purpose uint8

const (
	// PurposeEncrypt allows the key to seal new records.
	PurposeEncrypt Purpose = 1 << iota
	// PurposeDecrypt allows the key to open existing records.
	PurposeDecrypt
)

// Has reports whether all the capabilities in other are present in p.
func (p Purpose) Has(other Purpose) bool {
	return p&other == other
}

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
