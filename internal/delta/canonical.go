// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Canonical returns an order-stable JSON encoding of v: object keys are
// sorted (encoding/json sorts map keys) and every string that parses as an
// RFC 3339 timestamp is rewritten to UTC. Two structurally identical values
// always produce identical bytes, regardless of field order or timezone
// representation in the source payload.
func Canonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical marshal: %w", err)
	}

	var decoded any
	if err = json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("canonical decode: %w", err)
	}

	out, err := json.Marshal(normalize(decoded))
	if err != nil {
		return nil, fmt.Errorf("canonical encode: %w", err)
	}

	return out, nil
}

// normalize walks a decoded JSON value and rewrites timestamp strings to one
// textual form (RFC 3339, UTC). Maps and slices are normalized recursively.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	case string:
		if t, err := time.Parse(time.RFC3339Nano, val); err == nil {
			return t.UTC().Format(time.RFC3339Nano)
		}
		return val
	default:
		return val
	}
}

// Equal reports whether a and b have identical canonical encodings.
// Values that cannot be encoded are never equal.
func Equal(a, b any) bool {
	ca, err := Canonical(a)
	if err != nil {
		return false
	}
	cb, err := Canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// Clone returns a deep copy of v made through a JSON round trip. Callers
// hold no shared references with the original.
func Clone[T any](v T) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, fmt.Errorf("clone marshal: %w", err)
	}
	if err = json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("clone unmarshal: %w", err)
	}
	return out, nil
}
