package backend

import (
	"kiln/logging"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builder is an emission cursor: it points into exactly one block and every
// instruction appended through it lands at the end of that block.  A builder
// is exclusively owned by whoever created it.  Once the block it was made for
// has been given a terminator, the owner releases it and must not touch it
// again.
type Builder struct {
	block    *ir.Block
	released bool
}

// NewBuilder creates a new, unpositioned builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// NewBuilderAt creates a new builder positioned at the end of block.
func NewBuilderAt(block *ir.Block) *Builder {
	return &Builder{block: block}
}

// -----------------------------------------------------------------------------

// Block returns the block the builder is currently positioned over.  Lowering
// callbacks may move their builder, so this is not necessarily the block the
// builder was created for.
func (b *Builder) Block() *ir.Block {
	b.mustBeLive("Block")
	return b.block
}

// MoveToEnd moves the builder to the end of block.
func (b *Builder) MoveToEnd(block *ir.Block) {
	if b.released {
		logging.LogICE("MoveToEnd: builder used after release")
	}

	b.block = block
}

// Terminated reports whether the current block already ends in a terminator.
func (b *Builder) Terminated() bool {
	return b.Block().Term != nil
}

// Release ends the builder's lifetime.
func (b *Builder) Release() {
	if b.released {
		logging.LogICE("Release: builder released twice")
	}

	b.released = true
	b.block = nil
}

// Released reports whether the builder has been released.
func (b *Builder) Released() bool {
	return b.released
}

// -----------------------------------------------------------------------------

// BuildBr terminates the current block with an unconditional branch.
func (b *Builder) BuildBr(target *ir.Block) *ir.TermBr {
	return b.terminable("BuildBr").NewBr(target)
}

// BuildCondBr terminates the current block with a conditional branch.
func (b *Builder) BuildCondBr(cond value.Value, targetTrue, targetFalse *ir.Block) *ir.TermCondBr {
	return b.terminable("BuildCondBr").NewCondBr(cond, targetTrue, targetFalse)
}

// BuildRet terminates the current block with a return.  A nil value returns
// void.
func (b *Builder) BuildRet(val value.Value) *ir.TermRet {
	return b.terminable("BuildRet").NewRet(val)
}

// BuildUnreachable terminates the current block with `unreachable`.
func (b *Builder) BuildUnreachable() *ir.TermUnreachable {
	return b.terminable("BuildUnreachable").NewUnreachable()
}

// BuildPhi appends a merge node of type typ to the current block.
func (b *Builder) BuildPhi(typ types.Type, incs ...*ir.Incoming) *ir.InstPhi {
	block := b.Block()
	if block.Term != nil {
		logging.LogICE("BuildPhi: block %s is already terminated", block.Name())
	}

	for _, inst := range block.Insts {
		if _, ok := inst.(*ir.InstPhi); !ok {
			logging.LogICE("BuildPhi: block %s already has non-phi instructions", block.Name())
		}
	}

	phi := block.NewPhi(incs...)
	phi.Typ = typ
	return phi
}

// -----------------------------------------------------------------------------

// mustBeLive fails if the builder cannot be used.
func (b *Builder) mustBeLive(op string) {
	if b.released {
		logging.LogICE("%s: builder used after release", op)
	}

	if b.block == nil {
		logging.LogICE("%s: builder is not positioned at a block", op)
	}
}

// terminable returns the current block after checking that it does not have a
// terminator yet.
func (b *Builder) terminable(op string) *ir.Block {
	block := b.Block()
	if block.Term != nil {
		logging.LogICE("%s: block %s already ends in a terminator", op, block.Name())
	}

	return block
}
