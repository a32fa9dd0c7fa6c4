// Package effectnode is the type-erased representation shared by the
// effect and interp packages. Go generics cannot express a
// heterogeneous tree of Effect[R, E, A] nodes whose children differ in
// A (no variance), so the tree itself is erased to `any` at this layer
// and the public Effect[R, E, A] wrapper in package effect restores type
// discipline only at the smart-constructor boundary -- Design Note (b)
// in spec.md §9's "CPS-encoded existential for FlatMap/FoldM".
package effectnode

import (
	"time"

	"github.com/on-the-ground/gofx/cause"
)

// Kind discriminates the primitive effect nodes from §3.
type Kind int

const (
	KindSucceed Kind = iota
	KindFail
	KindSync
	KindAsync
	KindFlatMap
	KindFoldM
	KindFoldCauseM
	KindRace
	KindRaceUncancelled
	KindAll
	KindEnsuring
	KindSleep
	KindFork
	KindJoin
	KindAwait
	KindInterruptFiber
	KindSetInterruptible
	KindCheckInterrupt
	KindStatus
)

// Register is the callback signature for Async: it is invoked once with
// resolve/reject continuations; the fiber resumes when one fires.
type Register func(env any, resolve func(any), reject func(any))

// Node is one immutable primitive effect node. A Node tree is uniquely
// owned by its parent (per §3's ownership rule); only the fields
// relevant to Kind are populated.
type Node struct {
	Kind Kind

	// KindSucceed
	Value any

	// KindFail
	Err any

	// KindSync: f(env) -> (value, defect). A non-nil defect becomes
	// Cause::Die, never Cause::Fail -- Sync never produces typed
	// failures on its own (Fail does that).
	SyncFn func(env any) (any, error)

	// KindAsync
	Register Register

	// KindFlatMap / KindFoldM: the child to run first.
	Child *Node

	// KindFlatMap: continuation from the child's success value to the
	// next node.
	FlatMapK func(any) *Node

	// KindFoldM: onErr receives the first typed Fail value (not the
	// whole Cause); onOk receives the success value. Both produce the
	// next node to run.
	FoldOnErr func(any) *Node
	FoldOnOk  func(any) *Node

	// KindFoldCauseM: the opt-in full-Cause extension point from §9.
	// Unlike KindFoldM, onCause fires on every kind of failure -- typed
	// Fail, Die, or Interrupt alike -- and is handed the whole erased
	// Cause tree instead of a single leaf.
	FoldCauseOnErr func(cause.Cause[any]) *Node

	// KindAll / KindRace / KindRaceUncancelled
	Children []*Node

	// KindEnsuring
	Finalizer *Node

	// KindSleep
	Duration time.Duration

	// KindFork
	ForkBody *Node

	// KindJoin / KindAwait / KindInterruptFiber / KindStatus: the
	// target fiber handle, erased to any (concretely *fiber.Context).
	Fiber any

	// KindSetInterruptible
	SetInterruptibleChild *Node
	Flag                  bool
}

// Succeed builds a KindSucceed node.
func Succeed(value any) *Node { return &Node{Kind: KindSucceed, Value: value} }

// Fail builds a KindFail node.
func Fail(err any) *Node { return &Node{Kind: KindFail, Err: err} }

// Sync builds a KindSync node.
func Sync(f func(env any) (any, error)) *Node { return &Node{Kind: KindSync, SyncFn: f} }

// Async builds a KindAsync node.
func Async(register Register) *Node { return &Node{Kind: KindAsync, Register: register} }

// FlatMap builds a KindFlatMap node.
func FlatMap(child *Node, k func(any) *Node) *Node {
	return &Node{Kind: KindFlatMap, Child: child, FlatMapK: k}
}

// FoldM builds a KindFoldM node.
func FoldM(child *Node, onErr, onOk func(any) *Node) *Node {
	return &Node{Kind: KindFoldM, Child: child, FoldOnErr: onErr, FoldOnOk: onOk}
}

// FoldCauseM builds a KindFoldCauseM node.
func FoldCauseM(child *Node, onCause func(cause.Cause[any]) *Node, onOk func(any) *Node) *Node {
	return &Node{Kind: KindFoldCauseM, Child: child, FoldCauseOnErr: onCause, FoldOnOk: onOk}
}

// Race builds a KindRace node: the interpreter interrupts and awaits
// every loser before returning, the raceFirst semantics of §4.3/S4.
func Race(children []*Node) *Node { return &Node{Kind: KindRace, Children: children} }

// RaceUncancelled builds a KindRaceUncancelled node: the interpreter
// returns as soon as one child settles and leaves the rest running
// uninterrupted, the plain race semantics §4.3/S4 distinguishes from
// raceFirst.
func RaceUncancelled(children []*Node) *Node {
	return &Node{Kind: KindRaceUncancelled, Children: children}
}

// All builds a KindAll node.
func All(children []*Node) *Node { return &Node{Kind: KindAll, Children: children} }

// Ensuring builds a KindEnsuring node.
func Ensuring(child, finalizer *Node) *Node {
	return &Node{Kind: KindEnsuring, Child: child, Finalizer: finalizer}
}

// Sleep builds a KindSleep node.
func Sleep(d time.Duration) *Node { return &Node{Kind: KindSleep, Duration: d} }

// Fork builds a KindFork node.
func Fork(body *Node) *Node { return &Node{Kind: KindFork, ForkBody: body} }

// Join builds a KindJoin node.
func Join(fiberHandle any) *Node { return &Node{Kind: KindJoin, Fiber: fiberHandle} }

// Await builds a KindAwait node.
func Await(fiberHandle any) *Node { return &Node{Kind: KindAwait, Fiber: fiberHandle} }

// InterruptFiber builds a KindInterruptFiber node.
func InterruptFiber(fiberHandle any) *Node {
	return &Node{Kind: KindInterruptFiber, Fiber: fiberHandle}
}

// SetInterruptible builds a KindSetInterruptible node.
func SetInterruptible(child *Node, flag bool) *Node {
	return &Node{Kind: KindSetInterruptible, SetInterruptibleChild: child, Flag: flag}
}

// CheckInterrupt builds a KindCheckInterrupt node.
func CheckInterrupt() *Node { return &Node{Kind: KindCheckInterrupt} }

// Status builds a KindStatus node.
func Status(fiberHandle any) *Node { return &Node{Kind: KindStatus, Fiber: fiberHandle} }

// Result is the type-erased outcome of running a Node: either a success
// value or a failure Cause over erased typed-error values.
type Result struct {
	Ok    bool
	Value any
	Cause cause.Cause[any]
}

// OkResult builds a successful Result.
func OkResult(value any) Result { return Result{Ok: true, Value: value} }

// Failed builds a failed Result.
func Failed(c cause.Cause[any]) Result { return Result{Ok: false, Cause: c} }
