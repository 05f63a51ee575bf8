// Package branch lowers structured control flow (if, if/else, loops) into
// basic blocks, branches and phi nodes.
//
// Every primitive takes the builder the caller is currently emitting with.  On
// return that same builder is positioned at the block where execution resumes
// after the construct, so the caller keeps emitting with it as if the
// construct were a single instruction.  Arms are supplied as callbacks; each is
// invoked exactly once with a fresh builder positioned at the arm's first
// block.  A callback may move its builder (nested constructs do), so the block
// an arm finishes in is always re-queried from the builder.
package branch

import (
	"kiln/backend"
	"kiln/logging"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// assertBool fails if cond is not a single-bit boolean.
func assertBool(construct string, cond value.Value) {
	if cond == nil {
		logging.LogICE("%s: missing condition value", construct)
	}

	if !cond.Type().Equal(types.I1) {
		logging.LogICE("%s: condition must be i1, got %s", construct, cond.Type().LLString())
	}
}

// startArm appends a new block to the function and creates a builder for it.
func startArm(fs *backend.FuncState) (*ir.Block, *backend.Builder) {
	start := fs.AppendBlock()
	return start, backend.NewBuilderAt(start)
}
