package generate

import (
	"kiln/ast"
	"kiln/backend"
	"kiln/branch"
	"kiln/typing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression and returns its value.
func (g *Generator) genExpr(b *backend.Builder, expr ast.Expr) typing.Ref {
	switch v := expr.(type) {
	case *ast.IntLit:
		return g.gs.ConstInt(64, v.Value)
	case *ast.BoolLit:
		return g.gs.ConstBool(v.Value)
	case *ast.Ident:
		ident := g.lookup(v.Name)
		if ident.Mutable {
			return typing.Wrap(ident.RefMT, b.Block().NewLoad(g.convType(ident.RefMT), ident.Val))
		}

		return typing.Wrap(ident.RefMT, ident.Val)
	case *ast.UnaryOp:
		return g.genUnaryOp(b, v)
	case *ast.BinaryOp:
		return g.genBinaryOp(b, v)
	case *ast.Call:
		return g.genCall(b, v)
	case *ast.IfExpr:
		return g.genIfExpr(b, v)
	case *ast.Block:
		return g.genBlock(b, v)
	}

	// the checker rejects every other expression
	return g.gs.Unit()
}

func (g *Generator) genUnaryOp(b *backend.Builder, uo *ast.UnaryOp) typing.Ref {
	refMT := uo.Type()
	x := g.unwrap(b, refMT, g.genExpr(b, uo.Operand))

	if uo.Op == ast.OpNot {
		return typing.Wrap(refMT, b.Block().NewXor(x, constant.True))
	}

	zero := constant.NewInt(g.convType(refMT).(*types.IntType), 0)
	return typing.Wrap(refMT, b.Block().NewSub(zero, x))
}

// icmpPreds maps comparison operators to their LLVM predicates.
var icmpPreds = map[int]enum.IPred{
	ast.OpEq: enum.IPredEQ,
	ast.OpNe: enum.IPredNE,
	ast.OpLt: enum.IPredSLT,
	ast.OpLe: enum.IPredSLE,
	ast.OpGt: enum.IPredSGT,
	ast.OpGe: enum.IPredSGE,
}

func (g *Generator) genBinaryOp(b *backend.Builder, bo *ast.BinaryOp) typing.Ref {
	if bo.Op == ast.OpAnd || bo.Op == ast.OpOr {
		return g.genShortCircuit(b, bo)
	}

	operandMT := bo.Lhs.Type()
	lhs := g.unwrap(b, operandMT, g.genExpr(b, bo.Lhs))
	rhs := g.unwrap(b, operandMT, g.genExpr(b, bo.Rhs))

	block := b.Block()
	var result value.Value
	switch bo.Op {
	case ast.OpAdd:
		result = block.NewAdd(lhs, rhs)
	case ast.OpSub:
		result = block.NewSub(lhs, rhs)
	case ast.OpMul:
		result = block.NewMul(lhs, rhs)
	case ast.OpDiv:
		result = block.NewSDiv(lhs, rhs)
	case ast.OpMod:
		result = block.NewSRem(lhs, rhs)
	default:
		result = block.NewICmp(icmpPreds[bo.Op], lhs, rhs)
	}

	return typing.Wrap(bo.Type(), result)
}

// genShortCircuit generates `&&` and `||`.  The right operand is only evaluated
// when it decides the result, so both lower to a raw two-armed conditional.
func (g *Generator) genShortCircuit(b *backend.Builder, bo *ast.BinaryOp) typing.Ref {
	boolMT := g.gs.Cache.BoolRef
	lhs := g.unwrap(b, boolMT, g.genExpr(b, bo.Lhs))

	evalRhs := func(rb *backend.Builder) value.Value {
		return g.unwrap(rb, boolMT, g.genExpr(rb, bo.Rhs))
	}

	var result value.Value
	if bo.Op == ast.OpAnd {
		result = branch.BuildIfElse(g.gs, g.fs, b, types.I1, lhs, evalRhs, func(*backend.Builder) value.Value {
			return constant.False
		})
	} else {
		result = branch.BuildIfElse(g.gs, g.fs, b, types.I1, lhs, func(*backend.Builder) value.Value {
			return constant.True
		}, evalRhs)
	}

	return typing.Wrap(boolMT, result)
}

func (g *Generator) genCall(b *backend.Builder, call *ast.Call) typing.Ref {
	callee := g.funcs[call.Func]

	args := make([]value.Value, len(call.Args))
	for i, arg := range call.Args {
		args[i] = g.unwrap(b, arg.Type(), g.genExpr(b, arg))
	}

	result := b.Block().NewCall(callee, args...)
	if call.Type() == g.gs.Cache.VoidRef {
		return g.gs.Unit()
	}

	return typing.Wrap(call.Type(), result)
}
