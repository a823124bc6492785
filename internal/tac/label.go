package tac

import "fmt"

// Labels mints branch-target names `L0, L1, …` monotonically, optionally
// hinted with a readability prefix (§4.4 "Label generator"). The shared
// counter guarantees uniqueness even when two call sites pass the same
// prefix.
type Labels struct {
	counter int
}

// NewLabels returns a label generator starting at L0.
func NewLabels() *Labels { return &Labels{} }

// Fresh returns a new unique label. prefix is a debug hint ("Ltrue",
// "Lend", "Lloop", …); an empty prefix falls back to the bare "L" form.
func (l *Labels) Fresh(prefix string) string {
	if prefix == "" {
		prefix = "L"
	}
	n := l.counter
	l.counter++
	return fmt.Sprintf("%s%d", prefix, n)
}

// LabelStats is a snapshot of how many labels a generator's compile has
// minted so far.
type LabelStats struct {
	Minted int
}

// Stats reports this generator's minted-label count.
func (l *Labels) Stats() LabelStats { return LabelStats{Minted: l.counter} }
