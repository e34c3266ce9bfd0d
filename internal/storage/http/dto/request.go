// Package dto provides data transfer objects for the storage HTTP bridge.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/securestore/internal/validation"
)

const (
	keyRequiredMessage   = "Key string must be provided"
	valueRequiredMessage = "Value string must be provided"
)

// KeyRequest carries the key of a get or remove call.
// Fields are pointers so a missing field can be told apart from an empty string.
type KeyRequest struct {
	Key *string `json:"key"`
}

// Validate checks that the key was provided.
func (r *KeyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key,
			customValidation.Present(keyRequiredMessage),
			customValidation.StorageKey,
		),
	)
}

// SetRequest carries the key and value of a set call.
type SetRequest struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// Validate checks that both the key and the value were provided. An empty value is valid.
func (r *SetRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key,
			customValidation.Present(keyRequiredMessage),
			customValidation.StorageKey,
		),
		validation.Field(&r.Value,
			customValidation.Present(valueRequiredMessage),
		),
	)
}
