package typing

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// emptyStruct is the LLVM representation of both `void` and `never` values: a
// value of either type carries no information.
var emptyStruct = types.NewStruct()

// Translate converts a semantic reference type into its LLVM representation.
func Translate(r *Reference) types.Type {
	switch r.Kind {
	case KindBool:
		return types.I1
	case KindInt:
		return types.NewInt(uint64(r.Bits))
	default:
		return emptyStruct
	}
}

// ZeroValue returns the zero constant of the reference's representation.  It
// is used for the `void` unit value and the `never` sentinel.
func ZeroValue(r *Reference) constant.Constant {
	return constant.NewZeroInitializer(Translate(r))
}

// SameType reports whether two LLVM types are identical.
func SameType(a, b types.Type) bool {
	return a.Equal(b)
}
