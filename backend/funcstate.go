package backend

import (
	"fmt"
	"kiln/common"

	"github.com/llir/llvm/ir"
)

// FuncState is the per-function lowering context.  It identifies the function
// new blocks are appended to and hands out their labels.
type FuncState struct {
	// ContainingFunc is the function under construction.
	ContainingFunc *ir.Func

	// blockCounter is the number of labels handed out so far.
	blockCounter int
}

// NewFuncState creates a new function context for f.
func NewFuncState(f *ir.Func) *FuncState {
	return &FuncState{ContainingFunc: f}
}

// NextBlockName returns a new block label unique within the function.
func (fs *FuncState) NextBlockName() string {
	name := fmt.Sprintf("%s%d", common.BlockLabelPrefix, fs.blockCounter)
	fs.blockCounter++
	return name
}

// AppendBlock adds a new basic block to the function.  It does *not* move any
// builder to this new block.
func (fs *FuncState) AppendBlock() *ir.Block {
	return fs.ContainingFunc.NewBlock(fs.NextBlockName())
}
