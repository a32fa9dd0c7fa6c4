package interp

import (
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// timerWheel shards Sleep bookkeeping across a fixed pool of counters
// keyed by xxhash, the same way effects/internal/handlers/helpers.go's
// getIndexByHash shards resumable-effect payloads across worker
// channels. The actual wait is a plain time.AfterFunc per call (so one
// long sleep on a shard never blocks another), but active-timer counts
// are tracked per shard for DumpFibers-style observability and to mirror
// the partitioned-queue shape the rest of the corpus uses for scaling
// concurrent work across a bounded pool.
type timerWheel struct {
	shards []*timerShard
}

type timerShard struct {
	mu     sync.Mutex
	active int
}

func newTimerWheel(numShards int) *timerWheel {
	if numShards <= 0 {
		numShards = 1
	}
	shards := make([]*timerShard, numShards)
	for i := range shards {
		shards[i] = &timerShard{}
	}
	return &timerWheel{shards: shards}
}

func (w *timerWheel) shardFor(key string) *timerShard {
	idx := xxhash.Sum64String(key) % uint64(len(w.shards))
	return w.shards[idx]
}

// After returns a channel that receives once no earlier than d after the
// call, satisfying the "timeouts are strictly >= requested duration"
// guarantee from §5.
func (w *timerWheel) After(key string, d time.Duration) <-chan time.Time {
	shard := w.shardFor(key)
	shard.mu.Lock()
	shard.active++
	shard.mu.Unlock()

	ch := make(chan time.Time, 1)
	time.AfterFunc(d, func() {
		shard.mu.Lock()
		shard.active--
		shard.mu.Unlock()
		ch <- time.Now()
	})
	return ch
}

// ActiveCounts returns the number of outstanding timers per shard, for
// diagnostics.
func (w *timerWheel) ActiveCounts() []int {
	out := make([]int, len(w.shards))
	for i, s := range w.shards {
		s.mu.Lock()
		out[i] = s.active
		s.mu.Unlock()
	}
	return out
}
