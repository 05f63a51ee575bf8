package typing

import "fmt"

// Kind is the kind of a semantic reference type.  Its value must be one of the
// enumerated kinds below.
type Kind uint

// Enumeration of reference kinds
const (
	KindBool Kind = iota
	KindInt
	KindVoid
	KindNever
)

// Reference is a semantic type as the lowering layer sees it.  References are
// interned by a Cache: two references denote the same type if and only if they
// are the same pointer.  This is what lets the divergence check be a simple
// pointer comparison against Cache.NeverRef.
type Reference struct {
	Kind Kind

	// Bits is the width of an integer reference.  It is zero for all other
	// kinds.
	Bits int
}

// Repr returns a string representing the reference type.
func (r *Reference) Repr() string {
	if r == nil {
		return "<nil>"
	}

	switch r.Kind {
	case KindBool:
		return "bool"
	case KindInt:
		return fmt.Sprintf("i%d", r.Bits)
	case KindVoid:
		return "void"
	default:
		return "never"
	}
}

func (r *Reference) String() string {
	return r.Repr()
}

// IsNever reports whether r is the divergence marker.
func (r *Reference) IsNever() bool {
	return r != nil && r.Kind == KindNever
}
