// Package interp evaluates generated LLVM IR directly.  It understands the
// integer subset the lowering pipeline emits and is used to check that lowered
// control flow computes what the source program says it does.
package interp

import (
	"fmt"
	"kiln/backend"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// DefaultMaxSteps is the default instruction budget of an interpreter.
const DefaultMaxSteps = 1000000

// TrapError is returned when evaluation reaches `unreachable`, calls an
// external function (such as the trap function) or divides by zero.
type TrapError struct {
	Func   string
	Block  string
	Reason string
}

func (te *TrapError) Error() string {
	return fmt.Sprintf("trap in @%s, block %s: %s", te.Func, te.Block, te.Reason)
}

// StepLimitError is returned when evaluation runs out of instruction budget.
type StepLimitError struct {
	Limit int
}

func (se *StepLimitError) Error() string {
	return fmt.Sprintf("step limit of %d exceeded", se.Limit)
}

// -----------------------------------------------------------------------------

// Interpreter evaluates the functions of a single module.
type Interpreter struct {
	// MaxSteps bounds the number of instructions and terminators executed by
	// a single top-level call.
	MaxSteps int

	funcs map[string]*ir.Func
	steps int
}

// New creates an interpreter for mod.
func New(mod *ir.Module) *Interpreter {
	in := &Interpreter{
		MaxSteps: DefaultMaxSteps,
		funcs:    make(map[string]*ir.Func, len(mod.Funcs)),
	}

	for _, f := range mod.Funcs {
		in.funcs[f.Name()] = f
	}

	return in
}

// Run is a convenience wrapper creating an interpreter and calling one
// function.
func Run(mod *ir.Module, funcName string, args ...int64) (int64, error) {
	return New(mod).Call(funcName, args...)
}

// Call evaluates the named function with integer arguments.  Booleans are
// passed and returned as 0 and 1; a void function returns 0.
func (in *Interpreter) Call(funcName string, args ...int64) (int64, error) {
	f, ok := in.funcs[funcName]
	if !ok {
		return 0, fmt.Errorf("no function named @%s", funcName)
	}

	if len(args) != len(f.Params) {
		return 0, fmt.Errorf("@%s takes %d arguments, got %d", funcName, len(f.Params), len(args))
	}

	in.steps = 0
	return in.call(f, args)
}

// -----------------------------------------------------------------------------

// frame is the state of one function activation.
type frame struct {
	f     *ir.Func
	vals  map[value.Value]int64
	cells map[value.Value]*int64
}

func (in *Interpreter) call(f *ir.Func, args []int64) (int64, error) {
	if len(f.Blocks) == 0 {
		return 0, &TrapError{Func: f.Name(), Block: "<external>", Reason: "call to external function"}
	}

	fr := &frame{
		f:     f,
		vals:  make(map[value.Value]int64),
		cells: make(map[value.Value]*int64),
	}

	for i, param := range f.Params {
		fr.vals[param] = truncate(param.Type(), args[i])
	}

	var pred *ir.Block
	block := f.Blocks[0]
	for {
		if err := in.enter(fr, pred, block); err != nil {
			return 0, err
		}

		for _, inst := range block.Insts {
			if err := in.tick(); err != nil {
				return 0, err
			}

			if _, ok := inst.(*ir.InstPhi); ok {
				continue
			}

			if err := in.exec(fr, block, inst); err != nil {
				return 0, err
			}
		}

		if err := in.tick(); err != nil {
			return 0, err
		}

		switch term := block.Term.(type) {
		case *ir.TermRet:
			if term.X == nil {
				return 0, nil
			}

			return fr.eval(term.X)
		case *ir.TermBr:
			pred, block = block, backend.AsBlock(term.Target)
		case *ir.TermCondBr:
			cond, err := fr.eval(term.Cond)
			if err != nil {
				return 0, err
			}

			pred = block
			if cond != 0 {
				block = backend.AsBlock(term.TargetTrue)
			} else {
				block = backend.AsBlock(term.TargetFalse)
			}
		case *ir.TermUnreachable:
			return 0, &TrapError{Func: f.Name(), Block: block.Name(), Reason: "reached unreachable"}
		case nil:
			return 0, fmt.Errorf("block %s of @%s has no terminator", block.Name(), f.Name())
		default:
			return 0, fmt.Errorf("unsupported terminator %s", term.LLString())
		}
	}
}

// enter evaluates the phis of block for an arrival from pred.  All phis read
// their operands before any of them is assigned.
func (in *Interpreter) enter(fr *frame, pred, block *ir.Block) error {
	var phis []*ir.InstPhi
	var vals []int64

	for _, inst := range block.Insts {
		phi, ok := inst.(*ir.InstPhi)
		if !ok {
			break
		}

		found := false
		for _, inc := range phi.Incs {
			if backend.AsBlock(inc.Pred) == pred {
				x, err := fr.eval(inc.X)
				if err != nil {
					return err
				}

				phis = append(phis, phi)
				vals = append(vals, x)
				found = true
				break
			}
		}

		if !found {
			return fmt.Errorf("phi %s in block %s has no entry for the incoming edge", phi.Ident(), block.Name())
		}
	}

	for i, phi := range phis {
		fr.vals[phi] = vals[i]
	}

	return nil
}

func (in *Interpreter) tick() error {
	in.steps++
	if in.MaxSteps > 0 && in.steps > in.MaxSteps {
		return &StepLimitError{Limit: in.MaxSteps}
	}

	return nil
}

// -----------------------------------------------------------------------------

// exec executes a single non-phi instruction.
func (in *Interpreter) exec(fr *frame, block *ir.Block, inst ir.Instruction) error {
	switch v := inst.(type) {
	case *ir.InstAdd:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x + y })
	case *ir.InstSub:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x - y })
	case *ir.InstMul:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x * y })
	case *ir.InstXor:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x ^ y })
	case *ir.InstAnd:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x & y })
	case *ir.InstOr:
		return fr.binary(v, v.X, v.Y, func(x, y int64) int64 { return x | y })
	case *ir.InstSDiv, *ir.InstSRem:
		return in.divide(fr, block, inst)
	case *ir.InstICmp:
		x, err := fr.eval(v.X)
		if err != nil {
			return err
		}

		y, err := fr.eval(v.Y)
		if err != nil {
			return err
		}

		result, err := compare(v.Pred, x, y, v.X.Type())
		if err != nil {
			return err
		}

		if result {
			fr.vals[v] = 1
		} else {
			fr.vals[v] = 0
		}
	case *ir.InstAlloca:
		fr.cells[v] = new(int64)
	case *ir.InstLoad:
		cell, ok := fr.cells[v.Src]
		if !ok {
			return fmt.Errorf("load from %s, which is not a stack slot", v.Src.Ident())
		}

		fr.vals[v] = *cell
	case *ir.InstStore:
		cell, ok := fr.cells[v.Dst]
		if !ok {
			return fmt.Errorf("store to %s, which is not a stack slot", v.Dst.Ident())
		}

		x, err := fr.eval(v.Src)
		if err != nil {
			return err
		}

		*cell = x
	case *ir.InstCall:
		callee, ok := v.Callee.(*ir.Func)
		if !ok {
			return fmt.Errorf("indirect calls are not supported")
		}

		args := make([]int64, len(v.Args))
		for i, arg := range v.Args {
			x, err := fr.eval(arg)
			if err != nil {
				return err
			}

			args[i] = x
		}

		result, err := in.call(callee, args)
		if err != nil {
			if te, ok := err.(*TrapError); ok && te.Block == "<external>" {
				te.Func, te.Block = fr.f.Name(), block.Name()
				te.Reason = "call to external function @" + callee.Name()
			}

			return err
		}

		if !callee.Sig.RetType.Equal(types.Void) {
			fr.vals[v] = result
		}
	default:
		return fmt.Errorf("unsupported instruction %s", inst.LLString())
	}

	return nil
}

// divide executes sdiv and srem, trapping on a zero divisor.
func (in *Interpreter) divide(fr *frame, block *ir.Block, inst ir.Instruction) error {
	var x, y value.Value
	var result value.Value
	rem := false
	switch v := inst.(type) {
	case *ir.InstSDiv:
		x, y, result = v.X, v.Y, v
	case *ir.InstSRem:
		x, y, result, rem = v.X, v.Y, v, true
	}

	a, err := fr.eval(x)
	if err != nil {
		return err
	}

	b, err := fr.eval(y)
	if err != nil {
		return err
	}

	if b == 0 {
		return &TrapError{Func: fr.f.Name(), Block: block.Name(), Reason: "division by zero"}
	}

	if rem {
		fr.vals[result] = truncate(result.Type(), a%b)
	} else {
		fr.vals[result] = truncate(result.Type(), a/b)
	}

	return nil
}

// binary evaluates a two-operand integer instruction.
func (fr *frame) binary(result value.Value, x, y value.Value, op func(x, y int64) int64) error {
	a, err := fr.eval(x)
	if err != nil {
		return err
	}

	b, err := fr.eval(y)
	if err != nil {
		return err
	}

	fr.vals[result] = truncate(result.Type(), op(a, b))
	return nil
}

// eval returns the integer value of an operand.
func (fr *frame) eval(v value.Value) (int64, error) {
	switch c := v.(type) {
	case *constant.Int:
		return truncate(c.Type(), c.X.Int64()), nil
	case *constant.ZeroInitializer, *constant.Undef:
		return 0, nil
	}

	if x, ok := fr.vals[v]; ok {
		return x, nil
	}

	return 0, fmt.Errorf("use of %s before it was defined", v.Ident())
}

// -----------------------------------------------------------------------------

// truncate wraps x to the width of an integer type.  i1 values are kept as 0
// or 1; wider values are sign extended from their width.
func truncate(t types.Type, x int64) int64 {
	it, ok := t.(*types.IntType)
	if !ok || it.BitSize >= 64 {
		return x
	}

	if it.BitSize == 1 {
		return x & 1
	}

	shift := 64 - it.BitSize
	return (x << shift) >> shift
}

// compare evaluates an integer comparison.
func compare(pred enum.IPred, x, y int64, t types.Type) (bool, error) {
	ux, uy := uint64(x), uint64(y)
	if it, ok := t.(*types.IntType); ok && it.BitSize < 64 {
		mask := uint64(1)<<it.BitSize - 1
		ux, uy = ux&mask, uy&mask
	}

	switch pred {
	case enum.IPredEQ:
		return x == y, nil
	case enum.IPredNE:
		return x != y, nil
	case enum.IPredSGT:
		return x > y, nil
	case enum.IPredSGE:
		return x >= y, nil
	case enum.IPredSLT:
		return x < y, nil
	case enum.IPredSLE:
		return x <= y, nil
	case enum.IPredUGT:
		return ux > uy, nil
	case enum.IPredUGE:
		return ux >= uy, nil
	case enum.IPredULT:
		return ux < uy, nil
	case enum.IPredULE:
		return ux <= uy, nil
	}

	return false, fmt.Errorf("unsupported comparison %s", pred)
}
