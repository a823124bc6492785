package tac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivationRecordParamOffsetsStartAtTwo(t *testing.T) {
	ar := NewActivationRecord([]string{"this", "n"})
	assert.Equal(t, 0, ar.SavedReturnOffset)
	assert.Equal(t, 1, ar.SavedFrameOffset)
	assert.Equal(t, []ParamSlot{{Name: "this", Offset: 2}, {Name: "n", Offset: 3}}, ar.Params)
}

func TestActivationRecordLocalsDecreaseFromNegativeOne(t *testing.T) {
	ar := NewActivationRecord(nil)
	assert.Equal(t, -1, ar.AddLocal("x"))
	assert.Equal(t, -2, ar.AddLocal("y"))
}

func TestActivationRecordFrameSizeIncludesSpill(t *testing.T) {
	ar := NewActivationRecord([]string{"a", "b"})
	ar.AddLocal("x")
	ar.SetSpill(3)
	// 2 (saved RA + saved FP) + 2 params + 1 local + 3 spill slots.
	assert.Equal(t, 8, ar.FrameSize())
}

