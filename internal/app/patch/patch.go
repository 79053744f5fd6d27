// Package patch applies tri-state partial updates.
//
// A nullable.Nullable field that is unspecified leaves the target alone,
// an explicit null clears it and a value overwrites it (last write wins).
package patch

import (
	"slices"

	"github.com/oapi-codegen/nullable"
)

// Apply merges n into dst. Null resets dst to its zero value.
func Apply[T any](dst *T, n nullable.Nullable[T]) {
	if !n.IsSpecified() {
		return
	}
	if n.IsNull() {
		var zero T
		*dst = zero
		return
	}
	v, err := n.Get()
	if err != nil {
		return
	}
	*dst = v
}

// ApplyPtr merges n into an optional field. Null clears it to nil.
func ApplyPtr[T any](dst **T, n nullable.Nullable[T]) {
	if !n.IsSpecified() {
		return
	}
	if n.IsNull() {
		*dst = nil
		return
	}
	v, err := n.Get()
	if err != nil {
		return
	}
	*dst = &v
}

// ApplySlice is Apply for list fields; the stored list never aliases the
// caller's backing array.
func ApplySlice[E any](dst *[]E, n nullable.Nullable[[]E]) {
	if !n.IsSpecified() {
		return
	}
	if n.IsNull() {
		*dst = nil
		return
	}
	v, err := n.Get()
	if err != nil {
		return
	}
	*dst = slices.Clone(v)
}

// Value is shorthand for a specified, non-null field.
func Value[T any](v T) nullable.Nullable[T] { return nullable.NewNullableWithValue(v) }

// Null is shorthand for an explicit null.
func Null[T any]() nullable.Nullable[T] { return nullable.NewNullNullable[T]() }
