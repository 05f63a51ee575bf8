package backend

import (
	"github.com/llir/llvm/ir"
)

// AsBlock returns the block a branch target or phi predecessor refers to, or
// nil if it does not refer to a block.
func AsBlock(v interface{}) *ir.Block {
	block, _ := v.(*ir.Block)
	return block
}

// Successors returns the successor blocks of block in terminator order.  For a
// conditional branch the true target comes first.  A block without a
// terminator has no successors.
func Successors(block *ir.Block) []*ir.Block {
	switch term := block.Term.(type) {
	case nil:
		return nil
	case *ir.TermBr:
		return []*ir.Block{AsBlock(term.Target)}
	case *ir.TermCondBr:
		return []*ir.Block{AsBlock(term.TargetTrue), AsBlock(term.TargetFalse)}
	case *ir.TermRet, *ir.TermUnreachable:
		return nil
	default:
		return term.Succs()
	}
}

// Predecessors maps every block of f to the blocks that branch to it, in
// function order.  A block branching to the same target on both edges of a
// conditional branch is listed once.
func Predecessors(f *ir.Func) map[*ir.Block][]*ir.Block {
	preds := make(map[*ir.Block][]*ir.Block, len(f.Blocks))
	for _, block := range f.Blocks {
		seen := make(map[*ir.Block]bool)
		for _, succ := range Successors(block) {
			if succ == nil || seen[succ] {
				continue
			}

			seen[succ] = true
			preds[succ] = append(preds[succ], block)
		}
	}

	return preds
}
