package domain

// Sealed is the output of one authenticated encryption.
//
// Ciphertext has exactly the length of the plaintext; Tag authenticates the
// ciphertext, the nonce, the key and any associated data.
type Sealed struct {
	Nonce      []byte
	Ciphertext []byte
	Tag        []byte
}
