// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 bdamokos

package provider

import "encoding/json"

// Optional is a presence-tagged replacement value for a nullable scalar in a
// wire delta. It distinguishes three states a plain pointer cannot: absent
// (field untouched), present with a value, and present as null (field
// cleared). Unset values serialize as omitted via the omitzero tag option;
// set values serialize as the value or JSON null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// replace returns a set Optional carrying v, which may be nil to encode a
// cleared field.
func replace[T any](v *T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// IsZero reports whether the value is unset, letting encoding/json omit it
// under the omitzero tag option.
func (o Optional[T]) IsZero() bool { return !o.Set }

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	o.Value = nil
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}
