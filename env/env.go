// Package env implements the read-only service registry threaded through
// an effect run. It plays the role effects/binding.go's BindingPayload
// and bindingHandler play for the handler-based teacher, but as an
// immutable value instead of a goroutine-backed handler: §4.5/§5 require
// the environment to be read-only during a run, with ProvideService
// returning a new runtime rather than mutating the old one in place.
package env

import (
	"fmt"

	"github.com/on-the-ground/gofx/internal/typeutil"
)

// Tag is a typed key identifying a service of type T in a Registry.
// Two tags are equal (and therefore collide) iff their Name is equal;
// callers are expected to use package-qualified, unique names.
type Tag[T any] struct {
	Name string
}

// NewTag builds a service tag. name should be unique within the
// application, analogous to the EffectEnum string constants the teacher
// defines per effect kind.
func NewTag[T any](name string) Tag[T] {
	return Tag[T]{Name: name}
}

// Has marks that an effect or runtime requires a service bound under
// Tag[T] to be present in its environment. It has no runtime
// representation; it exists for documentation and future static checks.
type Has[T any] struct{}

// Registry is an immutable, keyed map from service tag name to service
// value. The empty Registry is ready to use.
type Registry struct {
	services map[string]any
}

// Empty returns a Registry with no bound services.
func Empty() Registry {
	return Registry{}
}

// With returns a new Registry with tag bound to service. The receiver is
// left unmodified, mirroring Runtime.ProvideService's copy-on-write
// contract in §4.5.
func With[T any](r Registry, tag Tag[T], service T) Registry {
	next := make(map[string]any, len(r.services)+1)
	for k, v := range r.services {
		next[k] = v
	}
	next[tag.Name] = service
	return Registry{services: next}
}

// ErrServiceNotFound is returned by Get when no service is bound under
// the given tag.
var ErrServiceNotFound = fmt.Errorf("env: no service bound for tag")

// Get looks up the service bound under tag.
func Get[T any](r Registry, tag Tag[T]) (T, error) {
	raw, ok := r.services[tag.Name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrServiceNotFound, tag.Name)
	}
	val, err := typeutil.AssertType[T](raw)
	if err != nil {
		return val, fmt.Errorf("env: service bound for tag %s has unexpected type: %w", tag.Name, err)
	}
	return val, nil
}

// MustGet is the panic-on-failure variant of Get, for use when the
// caller has already established (e.g. via a type constraint) that the
// service must be present.
func MustGet[T any](r Registry, tag Tag[T]) T {
	val, err := Get(r, tag)
	if err != nil {
		panic(err)
	}
	return val
}
