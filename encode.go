package anonid

import (
	"encoding/base64"
	"encoding/json"

	"github.com/goliatone/go-errors"
)

// The anonymous id is stored in the authentication properties as
// base64url over a JSON-serialized string, matching the wire format
// session checkers already understand.

func encodeAnonymousID(id string) (string, error) {
	if id == "" {
		return "", nil
	}

	raw, err := json.Marshal(id)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to encode anonymous id")
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeAnonymousID reverses encodeAnonymousID. Any malformed input is
// an error; callers treat that as corruption and self-heal.
func decodeAnonymousID(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryBadInput, "anonymous id is not valid base64url")
	}

	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", errors.Wrap(err, errors.CategoryBadInput, "anonymous id payload is not a JSON string")
	}

	if id == "" {
		return "", errors.New("anonymous id decoded to an empty string", errors.CategoryBadInput)
	}

	return id, nil
}
