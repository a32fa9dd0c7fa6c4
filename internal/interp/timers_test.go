package interp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerWheelShardsByKey(t *testing.T) {
	w := newTimerWheel(4)
	assert.Equal(t, []int{0, 0, 0, 0}, w.ActiveCounts())

	w.After("a", time.Hour)
	w.After("b", time.Hour)

	total := 0
	for _, c := range w.ActiveCounts() {
		total += c
	}
	assert.Equal(t, 2, total)
}

func TestTimerWheelActiveCountDropsAfterFiring(t *testing.T) {
	w := newTimerWheel(2)
	ch := w.After("key", 5*time.Millisecond)
	<-ch

	assert.Eventually(t, func() bool {
		total := 0
		for _, c := range w.ActiveCounts() {
			total += c
		}
		return total == 0
	}, 100*time.Millisecond, 5*time.Millisecond)
}

func TestSchedulerActiveTimerShardsReflectsSleep(t *testing.T) {
	s := New(4, nil)
	before := sum(s.ActiveTimerShards())

	timerCh := s.timers.After(newFiber().ID().String(), 20*time.Millisecond)

	during := sum(s.ActiveTimerShards())
	assert.Equal(t, before+1, during)

	<-timerCh
	assert.Eventually(t, func() bool { return sum(s.ActiveTimerShards()) == before }, 100*time.Millisecond, 5*time.Millisecond)
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
