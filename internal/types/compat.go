package types

import "fmt"

// ClassRegistry answers ancestry questions for class types. The semantic
// analyzer's class registry (internal/sema) implements this so the type
// model stays free of any dependency on symbol tables or AST nodes.
type ClassRegistry interface {
	// Superclass returns the direct superclass name of class name, or ""
	// if name has no declared superclass or is not a known class.
	Superclass(name string) (string, bool)
	// HasClass reports whether name is a registered class.
	HasClass(name string) bool
}

// IsSubclass reports whether child is ancestrally equal to or a descendant
// of ancestor, per §3.3 (single inheritance, iterative ancestor walk that
// stops at the first already-visited class, so a malformed cyclic
// hierarchy cannot loop forever).
func IsSubclass(reg ClassRegistry, child, ancestor string) bool {
	if child == ancestor {
		return true
	}
	seen := map[string]bool{child: true}
	current := child
	for {
		parent, ok := reg.Superclass(current)
		if !ok || parent == "" {
			return false
		}
		if parent == ancestor {
			return true
		}
		if seen[parent] {
			// Cycle already present; the analyzer reports it separately,
			// this walk simply must not spin forever.
			return false
		}
		seen[parent] = true
		current = parent
	}
}

// CompatibleAssign reports whether a value of type actual may be assigned
// to a location of type target (§3.1 "Compatibility rules": target ← actual).
func CompatibleAssign(reg ClassRegistry, target, actual Type) bool {
	if target.Kind == Invalid || actual.Kind == Invalid {
		// An already-diagnosed expression; don't cascade more errors.
		return true
	}
	if target.Equal(actual) {
		return true
	}
	switch {
	case target.Kind == Float && actual.Kind == Integer:
		return true
	case target.Kind == Class && actual.Kind == Null:
		return true
	case target.Kind == Array && actual.Kind == Null:
		return true
	case target.Kind == Class && actual.Kind == Class:
		return IsSubclass(reg, actual.ClassName, target.ClassName)
	case target.Kind == Array && actual.Kind == Array:
		if target.Rank != actual.Rank {
			return false
		}
		return CompatibleAssign(reg, *target.Elem, *actual.Elem)
	default:
		return false
	}
}

// HeterogeneousArray is returned by UnifyArrayElements when no common
// widened type exists for the given element types.
type HeterogeneousArray struct{ Types []Type }

func (e HeterogeneousArray) Error() string {
	return fmt.Sprintf("heterogeneous array literal with %d incompatible element types", len(e.Types))
}

// PromoteNumeric returns the arithmetic-promotion result of two numeric
// types per §3.1: FLOAT if either operand is FLOAT, else INTEGER. Passing
// a non-numeric type is a caller error.
func PromoteNumeric(a, b Type) (Type, error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return INVALID, fmt.Errorf("promote_numeric requires numeric operands, got %s and %s", a, b)
	}
	if a.Kind == Float || b.Kind == Float {
		return FLOAT, nil
	}
	return INTEGER, nil
}

// UnifyArrayElements folds successive pairwise widening across a list of
// element types and returns the least type every element is assignable
// to, or HeterogeneousArray if no such type exists (§4.1).
func UnifyArrayElements(reg ClassRegistry, elems []Type) (Type, error) {
	if len(elems) == 0 {
		return ANY, nil
	}
	result := elems[0]
	for _, next := range elems[1:] {
		widened, ok := widen(reg, result, next)
		if !ok {
			return INVALID, HeterogeneousArray{Types: elems}
		}
		result = widened
	}
	return result, nil
}

// widen returns the least type both a and b are assignable to, if any.
func widen(reg ClassRegistry, a, b Type) (Type, bool) {
	if a.Equal(b) {
		return a, true
	}
	if a.IsNumeric() && b.IsNumeric() {
		t, _ := PromoteNumeric(a, b)
		return t, true
	}
	if a.Kind == Class && b.Kind == Class {
		if IsSubclass(reg, b.ClassName, a.ClassName) {
			return a, true
		}
		if IsSubclass(reg, a.ClassName, b.ClassName) {
			return b, true
		}
		return INVALID, false
	}
	if a.Kind == Class && b.Kind == Null {
		return a, true
	}
	if b.Kind == Class && a.Kind == Null {
		return b, true
	}
	if a.Kind == Array && b.Kind == Array && a.Rank == b.Rank {
		elem, ok := widen(reg, *a.Elem, *b.Elem)
		if !ok {
			return INVALID, false
		}
		return NewArray(elem, a.Rank), true
	}
	return INVALID, false
}
