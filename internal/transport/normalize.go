package transport

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// DecodeList accepts either a bare JSON array or an object carrying the
// array under key, and always returns a non-nil slice.
func DecodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	out := []T{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, errors.Wrapf(err, "decoding %s list", key)
		}
		return out, nil
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, errors.Wrapf(err, "decoding %s envelope", key)
		}
		inner, ok := envelope[key]
		if !ok {
			return out, nil
		}
		return DecodeList[T](inner, key)
	default:
		return nil, errors.Errorf("unexpected %s payload", key)
	}
}

// DecodeOne accepts either {key: {...}} or the bare object.
func DecodeOne[T any](raw json.RawMessage, key string) (T, error) {
	var out T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return out, errors.Errorf("unexpected %s payload", key)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return out, errors.Wrapf(err, "decoding %s envelope", key)
	}
	if inner, ok := envelope[key]; ok && len(bytes.TrimSpace(inner)) > 0 && bytes.TrimSpace(inner)[0] == '{' {
		raw = inner
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.Wrapf(err, "decoding %s", key)
	}
	return out, nil
}
