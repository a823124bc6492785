package tac

// ParamSlot is one parameter's position in an ActivationRecord, an
// offset in frame words above the saved frame pointer.
type ParamSlot struct {
	Name   string
	Offset int
}

// LocalSlot is one local variable's position, an offset in frame words
// below the saved frame pointer.
type LocalSlot struct {
	Name   string
	Offset int
}

// ActivationRecord describes one function's stack frame (§4.4 "Address
// manager / activation records"): parameters at positive offsets from
// the frame pointer, locals at negative offsets, a saved-return-address
// slot, a saved-frame-pointer slot, and a spill region sized to the
// function's peak live-temporary count. This is generator-internal
// bookkeeping — independent of the scope-tree-wide memory annotator in
// internal/mem, so TAC generation never depends on annotate_memory
// having run first.
type ActivationRecord struct {
	Params            []ParamSlot
	Locals            []LocalSlot
	SavedReturnOffset int
	SavedFrameOffset  int
	SpillSize         int
}

// NewActivationRecord lays out params at offsets 2, 3, 4, … (0 and 1 are
// reserved for the saved return address and saved frame pointer).
func NewActivationRecord(paramNames []string) *ActivationRecord {
	ar := &ActivationRecord{SavedReturnOffset: 0, SavedFrameOffset: 1}
	offset := 2
	for _, p := range paramNames {
		ar.Params = append(ar.Params, ParamSlot{Name: p, Offset: offset})
		offset++
	}
	return ar
}

// AddLocal appends a local at the next negative offset and returns it.
func (ar *ActivationRecord) AddLocal(name string) int {
	offset := -(len(ar.Locals) + 1)
	ar.Locals = append(ar.Locals, LocalSlot{Name: name, Offset: offset})
	return offset
}

// SetSpill records the spill region size, normally the owning function's
// temp allocator peak.
func (ar *ActivationRecord) SetSpill(peak int) { ar.SpillSize = peak }

// FrameSize is the total frame size in words: saved RA + saved FP +
// params + locals + spill region.
func (ar *ActivationRecord) FrameSize() int {
	return 2 + len(ar.Params) + len(ar.Locals) + ar.SpillSize
}
