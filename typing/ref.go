package typing

import (
	"github.com/llir/llvm/ir/value"
)

// Ref is a typed value handle: a raw LLVM value together with the semantic
// type it was produced as.  The raw value is only reachable through a Region,
// so every use site states which type it expects.
type Ref struct {
	RefMT *Reference
	val   value.Value
}

// Wrap creates a new handle for val with semantic type refMT.
func Wrap(refMT *Reference, val value.Value) Ref {
	return Ref{RefMT: refMT, val: val}
}

// IsValid reports whether the handle carries a value at all.
func (r Ref) IsValid() bool {
	return r.RefMT != nil && r.val != nil
}
