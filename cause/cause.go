// Package cause implements the failure algebra for the effect runtime.
//
// A Cause is an inductive record of why a fiber failed. It preserves both
// the sequential ordering of failures (a finalizer failing after the
// primary computation) and the parallel ordering (two children of an All
// failing concurrently), instead of collapsing to a single error the way
// a plain Go error chain would.
package cause

import "fmt"

// tag is a sealed discriminator for the Cause variants. Only the
// constructors in this package may produce one, mirroring the sealed
// payload pattern used elsewhere in this codebase.
type tag int

const (
	tagEmpty tag = iota
	tagFail
	tagDie
	tagInterrupt
	tagThen
	tagBoth
)

// Cause[E] is the tagged union described in §3: Empty, Fail, Die,
// Interrupt, Then and Both. The zero value is Empty.
type Cause[E any] struct {
	tag     tag
	fail    E
	defect  any
	fiberID any // holds the FiberID for Interrupt; any to avoid a second type param
	left    *Cause[E]
	right   *Cause[E]
}

// Empty returns the identity cause.
func Empty[E any]() Cause[E] { return Cause[E]{tag: tagEmpty} }

// Fail builds a typed-failure leaf.
func Fail[E any](err E) Cause[E] { return Cause[E]{tag: tagFail, fail: err} }

// Die builds an untyped-defect leaf. defect is opaque to the algebra; it
// is typically a recovered panic value or a wrapped error.
func Die[E any](defect any) Cause[E] { return Cause[E]{tag: tagDie, defect: defect} }

// Interrupt builds a leaf recording the fiber id of an interruption; the
// interpreter records the id of the interrupted fiber itself. fiberID is
// typically a fiberid.ID; it is held as any so this package stays a leaf
// in the dependency graph.
func Interrupt[E any](fiberID any) Cause[E] {
	return Cause[E]{tag: tagInterrupt, fiberID: fiberID}
}

// Sequential composes two causes where right happened after left (e.g. a
// finalizer failing after the primary effect). Empty is absorbed.
func Sequential[E any](left, right Cause[E]) Cause[E] {
	if left.IsEmpty() {
		return right
	}
	if right.IsEmpty() {
		return left
	}
	l, r := left, right
	return Cause[E]{tag: tagThen, left: &l, right: &r}
}

// Parallel composes two causes that occurred concurrently (e.g. two
// children of an All both failing). Empty is absorbed. Both preserves
// the argument order at the representation level even though consumers
// may treat it as commutative.
func Parallel[E any](left, right Cause[E]) Cause[E] {
	if left.IsEmpty() {
		return right
	}
	if right.IsEmpty() {
		return left
	}
	l, r := left, right
	return Cause[E]{tag: tagBoth, left: &l, right: &r}
}

// IsEmpty reports whether c carries no failure information.
func (c Cause[E]) IsEmpty() bool { return c.tag == tagEmpty }

// IsFailure reports whether c contains at least one typed Fail leaf.
func (c Cause[E]) IsFailure() bool { return len(c.Failures()) > 0 }

// IsDie reports whether c contains at least one Die leaf.
func (c Cause[E]) IsDie() bool { return len(c.Defects()) > 0 }

// IsInterrupted reports whether c contains at least one Interrupt leaf.
func (c Cause[E]) IsInterrupted() bool { return len(c.Interruptors()) > 0 }

// Failures returns the left-to-right preorder traversal of all typed
// Fail leaves.
func (c Cause[E]) Failures() []E {
	var out []E
	c.walk(func(leaf Cause[E]) {
		if leaf.tag == tagFail {
			out = append(out, leaf.fail)
		}
	})
	return out
}

// Defects returns the left-to-right preorder traversal of all Die
// leaves.
func (c Cause[E]) Defects() []any {
	var out []any
	c.walk(func(leaf Cause[E]) {
		if leaf.tag == tagDie {
			out = append(out, leaf.defect)
		}
	})
	return out
}

// Interruptors returns the left-to-right preorder traversal of all
// Interrupt leaves' fiber identities.
func (c Cause[E]) Interruptors() []any {
	var out []any
	c.walk(func(leaf Cause[E]) {
		if leaf.tag == tagInterrupt {
			out = append(out, leaf.fiberID)
		}
	})
	return out
}

// walk visits every leaf (Fail, Die, Interrupt) in preorder. Empty,
// Then and Both are structural and are not themselves visited.
func (c Cause[E]) walk(visit func(Cause[E])) {
	switch c.tag {
	case tagEmpty:
		return
	case tagThen, tagBoth:
		c.left.walk(visit)
		c.right.walk(visit)
	default:
		visit(c)
	}
}

// Map applies f to every Fail leaf, producing a Cause[E2] with the same
// shape. Die and Interrupt leaves retain their identity (defect value /
// fiber id) and composite nodes retain their shape.
func Map[E, E2 any](c Cause[E], f func(E) E2) Cause[E2] {
	switch c.tag {
	case tagEmpty:
		return Empty[E2]()
	case tagFail:
		return Fail[E2](f(c.fail))
	case tagDie:
		return Cause[E2]{tag: tagDie, defect: c.defect}
	case tagInterrupt:
		return Cause[E2]{tag: tagInterrupt, fiberID: c.fiberID}
	case tagThen:
		l := Map(*c.left, f)
		r := Map(*c.right, f)
		return Cause[E2]{tag: tagThen, left: &l, right: &r}
	case tagBoth:
		l := Map(*c.left, f)
		r := Map(*c.right, f)
		return Cause[E2]{tag: tagBoth, left: &l, right: &r}
	default:
		panic(fmt.Sprintf("cause: unreachable tag %v", c.tag))
	}
}

// Squashed is the result of collapsing a Cause to a single observation:
// exactly one of Err, Defect or Interruptor is set, unless the cause was
// Empty, in which case Ok is true.
type Squashed struct {
	Ok          bool
	Err         any
	Defect      any
	Interruptor any
}

// Squash returns the first failure, else the first defect, else the
// first interruptor, in that priority order, else reports Ok.
func Squash[E any](c Cause[E]) Squashed {
	if fs := c.Failures(); len(fs) > 0 {
		return Squashed{Err: fs[0]}
	}
	if ds := c.Defects(); len(ds) > 0 {
		return Squashed{Defect: ds[0]}
	}
	if is := c.Interruptors(); len(is) > 0 {
		return Squashed{Interruptor: is[0]}
	}
	return Squashed{Ok: true}
}

// PrettyPrint renders c using the grammar from §6:
//
//	Empty | Fail(<str>) | Die(<str>) | Interrupt(Fiber#<n>) | Then(<c>, <c>) | Both(<c>, <c>)
func (c Cause[E]) PrettyPrint() string {
	switch c.tag {
	case tagEmpty:
		return "Empty"
	case tagFail:
		return fmt.Sprintf("Fail(%v)", c.fail)
	case tagDie:
		return fmt.Sprintf("Die(%v)", c.defect)
	case tagInterrupt:
		return fmt.Sprintf("Interrupt(Fiber#%v)", c.fiberID)
	case tagThen:
		return fmt.Sprintf("Then(%s, %s)", c.left.PrettyPrint(), c.right.PrettyPrint())
	case tagBoth:
		return fmt.Sprintf("Both(%s, %s)", c.left.PrettyPrint(), c.right.PrettyPrint())
	default:
		panic(fmt.Sprintf("cause: unreachable tag %v", c.tag))
	}
}
