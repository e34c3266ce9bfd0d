package dto

// GetResponse is the result of a get call. Value is null when the key is absent.
type GetResponse struct {
	Value *string `json:"value"`
}

// KeysResponse is the result of a keys call.
type KeysResponse struct {
	Keys []string `json:"keys"`
}

// MapKeysToResponse builds a KeysResponse, never encoding a null list.
func MapKeysToResponse(keys []string) KeysResponse {
	if keys == nil {
		keys = []string{}
	}
	return KeysResponse{Keys: keys}
}
