package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrResultNotObject is returned when an RPC result is neither an object nor null.
var ErrResultNotObject = errors.New("rpc result is not an object")

// RawResult is the untyped RPC result object. Numbers are kept as json.Number.
type RawResult map[string]any

// GetOr returns the value stored under key, or fallback when the key is missing.
// A present JSON null is returned as nil.
func (r RawResult) GetOr(key string, fallback any) any {
	if r == nil {
		return fallback
	}
	value, ok := r[key]
	if !ok {
		return fallback
	}
	return value
}

// GetString returns the value under key when it is a string.
func (r RawResult) GetString(key string) (string, bool) {
	value, ok := r.GetOr(key, nil).(string)
	return value, ok
}

// ParseRawResult decodes a result payload. A null payload yields an empty result.
func ParseRawResult(data []byte) (RawResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return RawResult{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrResultNotObject, value)
	}
	return RawResult(obj), nil
}

// ParseResponse extracts the result object from a full JSON-RPC response body.
func ParseResponse(data []byte) (RawResult, error) {
	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return ParseRawResult(envelope.Result)
}
