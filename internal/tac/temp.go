package tac

import "fmt"

// Allocator hands out temporary names `t0, t1, …` for one function body at
// a time (§4.4 "Temporary allocator"). It is never process-global — a
// fresh Allocator is created per function (and one more for top-level
// script code) so two identical compilations mint identical names.
type Allocator struct {
	minted   int
	free     []string // LIFO free list; released names are reissued before new ones are minted
	live     int
	peakLive int
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator { return &Allocator{} }

// Fresh returns a temporary name, preferring the most recently released
// one (LIFO) over minting a new one. This is what makes the allocator
// achieve the Ershov-optimal peak: a sub-expression's temporary is
// recycled the instant its value is consumed, so a sibling sub-expression
// reuses it instead of growing the live set.
func (a *Allocator) Fresh() string {
	var name string
	if n := len(a.free); n > 0 {
		name = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		name = fmt.Sprintf("t%d", a.minted)
		a.minted++
	}
	a.live++
	if a.live > a.peakLive {
		a.peakLive = a.live
	}
	return name
}

// Release returns name to the free list. Callers must release a
// temporary exactly once, as soon as its value has been consumed by the
// instruction that produced it.
func (a *Allocator) Release(name string) {
	a.free = append(a.free, name)
	a.live--
}

// Peak returns the highest number of simultaneously live temporaries
// this allocator has handed out — the Ershov number of whatever
// expression(s) it served.
func (a *Allocator) Peak() int { return a.peakLive }

// Minted returns the number of distinct temporary names this allocator
// has ever created (never decreases, unlike the live count).
func (a *Allocator) Minted() int { return a.minted }

// AllocatorStats is a snapshot of one allocator's usage, surfaced for
// diagnostic/optimization-analysis purposes rather than as part of the
// printed TAC listing.
type AllocatorStats struct {
	Minted   int
	PeakLive int
}

// Stats reports this allocator's minted-name count and Ershov peak.
func (a *Allocator) Stats() AllocatorStats {
	return AllocatorStats{Minted: a.minted, PeakLive: a.peakLive}
}
