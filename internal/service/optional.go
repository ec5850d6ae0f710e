package service

import (
	"bytes"
	"encoding/json"
)

// Optional tells "field absent" apart from "field present". An explicit JSON
// null sets Set and leaves Null true.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null returns a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// validationValue exposes the carried value to the validator. Absent and null
// values report nil so omitempty rules skip them.
func (o Optional[T]) validationValue() any {
	if !o.Set || o.Null {
		return nil
	}
	return o.Value
}
