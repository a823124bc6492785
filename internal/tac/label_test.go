package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabelsAreUniqueAcrossPrefixes(t *testing.T) {
	l := NewLabels()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		name := l.Fresh("Lloop")
		assert.False(t, seen[name], "label %q minted twice", name)
		seen[name] = true
	}
	for i := 0; i < 50; i++ {
		name := l.Fresh("Lend")
		assert.False(t, seen[name], "label %q minted twice", name)
		seen[name] = true
	}
}

func TestLabelsFallBackToBarePrefix(t *testing.T) {
	l := NewLabels()
	assert.Equal(t, "L0", l.Fresh(""))
	assert.Equal(t, "L1", l.Fresh(""))
}

func TestLabelsStatsCountsEveryPrefix(t *testing.T) {
	l := NewLabels()
	l.Fresh("Lloop")
	l.Fresh("Lend")
	l.Fresh("Lcase")
	assert.Equal(t, LabelStats{Minted: 3}, l.Stats())
}
