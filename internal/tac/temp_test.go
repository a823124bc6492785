package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorMintsSequentialNames(t *testing.T) {
	a := NewAllocator()
	assert.Equal(t, "t0", a.Fresh())
	assert.Equal(t, "t1", a.Fresh())
	assert.Equal(t, "t2", a.Fresh())
	assert.Equal(t, 3, a.Minted())
}

func TestAllocatorRecyclesLIFO(t *testing.T) {
	a := NewAllocator()
	t0 := a.Fresh()
	t1 := a.Fresh()
	a.Release(t1)
	again := a.Fresh()
	assert.Equal(t, t1, again, "releasing the most recently minted temp should hand it back first")
	assert.Equal(t, 2, a.Minted(), "recycling must not mint a new name")
	a.Release(again)
	a.Release(t0)
}

func TestAllocatorPeakTracksErshovNumber(t *testing.T) {
	a := NewAllocator()
	// (t0 + t1) + (t2 + t3): two live at a time, never all four at once.
	l := a.Fresh()
	r := a.Fresh()
	a.Release(l)
	a.Release(r)
	l2 := a.Fresh()
	r2 := a.Fresh()
	a.Release(l2)
	a.Release(r2)
	assert.Equal(t, 2, a.Peak())
	assert.Equal(t, 4, a.Minted())
}

func TestAllocatorStatsMirrorsPeakAndMinted(t *testing.T) {
	a := NewAllocator()
	x := a.Fresh()
	a.Fresh()
	a.Release(x)

	stats := a.Stats()
	assert.Equal(t, AllocatorStats{Minted: 2, PeakLive: 2}, stats)
}
