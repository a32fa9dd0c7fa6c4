// Package typeutil holds the small type-assertion helpers used wherever
// an erased `any` needs to be restored to a concrete type, e.g. env's
// service registry lookups. Adapted from shared/helper/helpers.go's
// GetTypedValueOf/MustGetTypedValue.
package typeutil

import "fmt"

// AssertType asserts raw to type T, returning an error instead of
// panicking on mismatch.
func AssertType[T any](raw any) (T, error) {
	var zero T
	val, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("typeutil: expected %T, got %T", zero, raw)
	}
	return val, nil
}

// MustAssertType is the panic-on-mismatch variant of AssertType, for use
// where the caller has already established the type must match.
func MustAssertType[T any](raw any) T {
	val, err := AssertType[T](raw)
	if err != nil {
		panic(err)
	}
	return val
}
