// Package fiberid allocates process-unique fiber identities.
package fiberid

import (
	"fmt"
	"sync/atomic"
	"time"
)

var counter atomic.Uint64

// ID identifies a fiber within this process. Num is a monotonic counter;
// StartTime is informational only.
type ID struct {
	Num       uint64
	StartTime time.Time
}

// Next allocates the next process-unique ID.
func Next() ID {
	return ID{
		Num:       counter.Add(1),
		StartTime: time.Now(),
	}
}

// String renders the id as it appears in Cause pretty-printing
// (Interrupt(Fiber#<n>)).
func (id ID) String() string {
	return fmt.Sprintf("%d", id.Num)
}
