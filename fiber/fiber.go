// Package fiber implements FiberContext: the mutable per-fiber state
// described in §3/§4.2. Because this port schedules fibers across
// goroutines rather than a single OS thread (see DESIGN.md for the
// rationale), Context's mutable fields are guarded by a mutex instead of
// being touched only by one interpreter thread — exactly the fallback
// §9's design notes call for: "If a port targets multi-threaded
// schedulers, replace the observer list with an appropriate concurrent
// structure and add a membership check inside done to guarantee
// at-most-once notification under races."
package fiber

import (
	"sync"

	"github.com/on-the-ground/gofx/cause"
	"github.com/on-the-ground/gofx/fiberid"
)

// Status is the three-state fiber lifecycle from §3: Running, Suspended
// and Done are the only states; Done is terminal.
type Status int

const (
	StatusRunning Status = iota
	StatusSuspended
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusSuspended:
		return "Suspended"
	case StatusDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Exit is the type-erased FiberExit<E, A>: either a success value or a
// failure cause. The effect and runtime packages restore the concrete
// E/A types at their public boundary.
type Exit struct {
	Ok    bool
	Value any
	Cause cause.Cause[any]
}

// Success builds a successful Exit.
func Success(value any) Exit { return Exit{Ok: true, Value: value} }

// Failure builds a failed Exit.
func Failure(c cause.Cause[any]) Exit { return Exit{Ok: false, Cause: c} }

// Context is the per-fiber mutable record from §3/§4.2.
type Context struct {
	id fiberid.ID

	mu            sync.Mutex
	status        Status
	observers     []func(Exit)
	exit          Exit
	interrupted   bool
	interruptible bool

	interruptOnce sync.Once
	interruptCh   chan struct{}
}

// New creates a fresh, Running fiber context with the given initial
// interruptibility.
func New(interruptible bool) *Context {
	return &Context{
		id:            fiberid.Next(),
		status:        StatusRunning,
		interruptible: interruptible,
		interruptCh:   make(chan struct{}),
	}
}

// InterruptSignal returns a channel that closes the moment Interrupt is
// first called, letting a blocked suspension wake up immediately instead
// of polling. Whether the wake should actually cut the suspension short
// still depends on Interruptible() at the time the suspension began (see
// interp.waitFor): interruptibility can only be toggled by the fiber's
// own goroutine between suspensions, so it is stable for the lifetime of
// any single suspension.
func (c *Context) InterruptSignal() <-chan struct{} {
	return c.interruptCh
}

// ID returns the fiber's process-unique identity.
func (c *Context) ID() fiberid.ID { return c.id }

// Status returns a snapshot of the fiber's current lifecycle state.
func (c *Context) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Exit returns the stored exit and whether the fiber has reached Done.
func (c *Context) Exit() (Exit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exit, c.status == StatusDone
}

// SetRunning/SetSuspended record the Running <-> Suspended transitions a
// fiber makes around a suspension point. They are no-ops once Done.
func (c *Context) SetRunning() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusDone {
		c.status = StatusRunning
	}
}

func (c *Context) SetSuspended() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != StatusDone {
		c.status = StatusSuspended
	}
}

// AddObserver registers cb to be invoked exactly once with the fiber's
// final Exit. If the fiber is already Done, cb fires synchronously and
// the returned unsubscribe is a no-op. Otherwise the returned
// unsubscribe idempotently removes cb from the pending list.
func (c *Context) AddObserver(cb func(Exit)) (unsubscribe func()) {
	c.mu.Lock()
	if c.status == StatusDone {
		exit := c.exit
		c.mu.Unlock()
		cb(exit)
		return func() {}
	}

	idx := len(c.observers)
	c.observers = append(c.observers, cb)
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if idx < len(c.observers) {
				c.observers[idx] = nil
			}
		})
	}
}

// Done transitions the fiber to Done(exit). Only the first call wins;
// later calls are no-ops. All registered observers are invoked exactly
// once, in registration order.
func (c *Context) Done(exit Exit) {
	c.mu.Lock()
	if c.status == StatusDone {
		c.mu.Unlock()
		return
	}
	c.status = StatusDone
	c.exit = exit
	observers := c.observers
	c.observers = nil
	c.mu.Unlock()

	for _, obs := range observers {
		if obs != nil {
			obs(exit)
		}
	}
}

// Interrupt requests cancellation of this fiber. It is idempotent and
// latches: once set, Interrupted() stays true. The caller is
// responsible for checking Interrupted()/Interruptible() at a
// cooperative safe point and transitioning to Done accordingly (see the
// CheckInterrupt primitive and waitFor in internal/interp); Context itself does not decide when to stop
// running code, only records the request.
func (c *Context) Interrupt() {
	c.mu.Lock()
	c.interrupted = true
	c.mu.Unlock()
	c.interruptOnce.Do(func() { close(c.interruptCh) })
}

// Interrupted reports whether an interrupt has been requested.
func (c *Context) Interrupted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interrupted
}

// Interruptible reports the current interruptibility flag.
func (c *Context) Interruptible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interruptible
}

// SetInterruptible overrides the interruptibility flag and returns the
// prior value, so callers (SetInterruptible(child, flag) primitive) can
// restore it on every exit path.
func (c *Context) SetInterruptible(flag bool) (prior bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prior = c.interruptible
	c.interruptible = flag
	return prior
}

// ShouldInterruptNow reports whether the fiber is both interrupted and
// currently interruptible -- the condition CheckInterrupt tests.
func (c *Context) ShouldInterruptNow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interrupted && c.interruptible
}
