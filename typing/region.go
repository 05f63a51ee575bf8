package typing

import (
	"kiln/logging"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Region is the reference-validity authority for a family of semantic types.
// CheckValidReference converts a handle into its raw value, failing fatally if
// the handle is not of the expected type.  The block is the one the caller is
// currently emitting into: a region may append run-time checks there.
type Region interface {
	CheckValidReference(block *ir.Block, expectedMT *Reference, ref Ref) value.Value
}

// CheckedRegion is the default region.  It performs the static checks only and
// never emits code.
type CheckedRegion struct{}

func (CheckedRegion) CheckValidReference(block *ir.Block, expectedMT *Reference, ref Ref) value.Value {
	where := "<detached>"
	if block != nil {
		where = block.Name()
	}

	if ref.RefMT != expectedMT {
		logging.LogICE("reference check in block %s: expected type %s, got %s", where, expectedMT.Repr(), ref.RefMT.Repr())
	}

	if ref.val == nil {
		logging.LogICE("reference check in block %s: %s handle has no value", where, expectedMT.Repr())
	}

	if want := Translate(expectedMT); !SameType(ref.val.Type(), want) {
		logging.LogICE(
			"reference check in block %s: %s handle has representation %s, expected %s",
			where, expectedMT.Repr(), ref.val.Type().LLString(), want.LLString(),
		)
	}

	return ref.val
}
