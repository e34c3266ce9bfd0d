// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/securestore/internal/errors"
	storageDomain "github.com/allisson/securestore/internal/storage/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Present validates that an optional field was supplied, reporting message otherwise.
// Unlike Required it accepts a pointer to an empty string.
func Present(message string) validation.Rule {
	return validation.NotNil.ErrorObject(validation.NewError("validation_present", message))
}

// StorageKey validates a storage key with the same limits as storageDomain.ValidateKey.
// The empty string is a valid key. A nil pointer is left to Present.
var StorageKey = validation.By(func(value interface{}) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}

	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_storage_key_type", "must be a string")
	}
	if !utf8.ValidString(s) {
		return validation.NewError("validation_storage_key_utf8", "must be valid UTF-8")
	}
	if strings.ContainsRune(s, 0) {
		return validation.NewError("validation_storage_key_nul", "must not contain NUL characters")
	}
	if utf8.RuneCountInString(s) > storageDomain.MaxKeyLength {
		return validation.NewError(
			"validation_storage_key_length",
			fmt.Sprintf("must be at most %d characters", storageDomain.MaxKeyLength),
		)
	}
	return nil
})
