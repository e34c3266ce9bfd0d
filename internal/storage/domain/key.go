package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxKeyLength is the longest storage key, in characters.
const MaxKeyLength = 512

// ValidateKey checks that key can be stored by every driver. The empty string is accepted.
func ValidateKey(key string) error {
	if !utf8.ValidString(key) {
		return fmt.Errorf("%w: must be valid UTF-8", ErrInvalidKey)
	}
	if strings.ContainsRune(key, 0) {
		return fmt.Errorf("%w: must not contain NUL characters", ErrInvalidKey)
	}
	if n := utf8.RuneCountInString(key); n > MaxKeyLength {
		return fmt.Errorf("%w: %d characters, at most %d allowed", ErrInvalidKey, n, MaxKeyLength)
	}
	return nil
}
