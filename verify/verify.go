// Package verify checks the structural invariants of generated LLVM IR: the
// properties the control-flow lowering must preserve and that LLVM itself
// would reject the module for.
package verify

import (
	"fmt"
	"kiln/backend"
	"strings"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// Error lists every structural problem found in one function.
type Error struct {
	Func     string
	Problems []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function @%s is malformed:\n  %s", e.Func, strings.Join(e.Problems, "\n  "))
}

// Module verifies every function in m that has a body.  It stops at the first
// malformed function.
func Module(m *ir.Module) error {
	for _, f := range m.Funcs {
		if err := Func(f); err != nil {
			return err
		}
	}

	return nil
}

// Func verifies f.  Declarations (functions without blocks) are trivially
// well formed.
func Func(f *ir.Func) error {
	if len(f.Blocks) == 0 {
		return nil
	}

	v := &verifier{
		f:      f,
		owned:  make(map[*ir.Block]bool, len(f.Blocks)),
		preds:  backend.Predecessors(f),
		errors: &Error{Func: f.Name()},
	}

	for _, block := range f.Blocks {
		v.owned[block] = true
	}

	if len(v.preds[f.Blocks[0]]) != 0 {
		v.problem("entry block %s has predecessors", f.Blocks[0].Name())
	}

	for _, block := range f.Blocks {
		v.checkInsts(block)
		v.checkTerm(block)
	}

	if len(v.errors.Problems) > 0 {
		return v.errors
	}

	return nil
}

// -----------------------------------------------------------------------------

type verifier struct {
	f      *ir.Func
	owned  map[*ir.Block]bool
	preds  map[*ir.Block][]*ir.Block
	errors *Error
}

func (v *verifier) problem(format string, args ...interface{}) {
	v.errors.Problems = append(v.errors.Problems, fmt.Sprintf(format, args...))
}

// checkInsts checks the phi prefix of block and every phi in it.
func (v *verifier) checkInsts(block *ir.Block) {
	seenNonPhi := false
	for _, inst := range block.Insts {
		phi, ok := inst.(*ir.InstPhi)
		if !ok {
			seenNonPhi = true
			continue
		}

		if seenNonPhi {
			v.problem("block %s: phi %s follows a non-phi instruction", block.Name(), phi.Ident())
		}

		v.checkPhi(block, phi)
	}
}

// checkPhi checks that phi names every predecessor of block exactly once, names
// nothing else, and that every incoming value has the phi's type.
func (v *verifier) checkPhi(block *ir.Block, phi *ir.InstPhi) {
	preds := make(map[*ir.Block]bool)
	for _, pred := range v.preds[block] {
		preds[pred] = true
	}

	listed := make(map[*ir.Block]bool)
	for _, inc := range phi.Incs {
		pred := backend.AsBlock(inc.Pred)
		if pred == nil {
			v.problem("block %s: phi %s has an incoming edge from a non-block", block.Name(), phi.Ident())
			continue
		}

		if listed[pred] {
			v.problem("block %s: phi %s lists predecessor %s twice", block.Name(), phi.Ident(), pred.Name())
		}
		listed[pred] = true

		if !preds[pred] {
			v.problem("block %s: phi %s lists %s, which does not branch here", block.Name(), phi.Ident(), pred.Name())
		}

		if !inc.X.Type().Equal(phi.Type()) {
			v.problem(
				"block %s: phi %s has type %s but the value from %s is %s",
				block.Name(), phi.Ident(), phi.Type().LLString(), pred.Name(), inc.X.Type().LLString(),
			)
		}
	}

	for _, pred := range v.preds[block] {
		if !listed[pred] {
			v.problem("block %s: phi %s is missing predecessor %s", block.Name(), phi.Ident(), pred.Name())
		}
	}
}

// checkTerm checks the terminator of block.
func (v *verifier) checkTerm(block *ir.Block) {
	if block.Term == nil {
		v.problem("block %s has no terminator", block.Name())
		return
	}

	for _, succ := range backend.Successors(block) {
		if succ == nil || !v.owned[succ] {
			v.problem("block %s branches outside of the function", block.Name())
		}
	}

	switch term := block.Term.(type) {
	case *ir.TermCondBr:
		if !term.Cond.Type().Equal(types.I1) {
			v.problem("block %s: branch condition is %s, not i1", block.Name(), term.Cond.Type().LLString())
		}
	case *ir.TermRet:
		retType := v.f.Sig.RetType
		if term.X == nil {
			if !retType.Equal(types.Void) {
				v.problem("block %s: void return from a function returning %s", block.Name(), retType.LLString())
			}
		} else if !term.X.Type().Equal(retType) {
			v.problem(
				"block %s: returns %s from a function returning %s",
				block.Name(), term.X.Type().LLString(), retType.LLString(),
			)
		}
	}
}
