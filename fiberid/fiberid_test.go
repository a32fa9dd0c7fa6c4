package fiberid_test

import (
	"testing"

	"github.com/on-the-ground/gofx/fiberid"
	"github.com/stretchr/testify/assert"
)

func TestNextIsMonotonicAndUnique(t *testing.T) {
	seen := make(map[uint64]bool)
	prev := uint64(0)
	for i := 0; i < 100; i++ {
		id := fiberid.Next()
		assert.Greater(t, id.Num, prev)
		assert.False(t, seen[id.Num])
		seen[id.Num] = true
		prev = id.Num
	}
}

func TestStringFormat(t *testing.T) {
	id := fiberid.Next()
	assert.Regexp(t, `^\d+$`, id.String())
}
