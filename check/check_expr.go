package check

import (
	"kiln/ast"
	"kiln/typing"
)

// checkOperand checks an expression whose value is consumed.  Such an
// expression must complete.
func (c *Checker) checkOperand(expr ast.Expr, what string) (*typing.Reference, error) {
	typ, err := c.checkExpr(expr)
	if err != nil {
		return nil, err
	}

	if typ.IsNever() {
		return nil, c.errorf("%s never completes", what)
	}

	return typ, nil
}

// expectBool checks that an operand is a boolean.
func (c *Checker) expectBool(expr ast.Expr, what string) error {
	typ, err := c.checkOperand(expr, what)
	if err != nil {
		return err
	}

	if typ != c.cache.BoolRef {
		return c.errorf("%s must be bool, not %s", what, typ.Repr())
	}

	return nil
}

// checkExpr checks and annotates an expression.
func (c *Checker) checkExpr(expr ast.Expr) (*typing.Reference, error) {
	typ, err := c.exprType(expr)
	if err != nil {
		return nil, err
	}

	expr.SetType(typ)
	return typ, nil
}

func (c *Checker) exprType(expr ast.Expr) (*typing.Reference, error) {
	intMT := c.cache.IntRef(64)

	switch v := expr.(type) {
	case *ast.IntLit:
		return intMT, nil
	case *ast.BoolLit:
		return c.cache.BoolRef, nil
	case *ast.Ident:
		lv, ok := c.lookup(v.Name)
		if !ok {
			return nil, c.errorf("undefined variable `%s`", v.Name)
		}

		return lv.typ, nil
	case *ast.UnaryOp:
		typ, err := c.checkOperand(v.Operand, "operand of `"+ast.OpRepr(v.Op)+"`")
		if err != nil {
			return nil, err
		}

		want := intMT
		if v.Op == ast.OpNot {
			want = c.cache.BoolRef
		}

		if typ != want {
			return nil, c.errorf("operator `%s` expects %s, not %s", ast.OpRepr(v.Op), want.Repr(), typ.Repr())
		}

		return typ, nil
	case *ast.BinaryOp:
		return c.binaryType(v)
	case *ast.Call:
		sig, ok := c.sigs[v.Func]
		if !ok {
			return nil, c.errorf("undefined function `%s`", v.Func)
		}

		if len(sig.params) != len(v.Args) {
			return nil, c.errorf("`%s` takes %d arguments, got %d", v.Func, len(sig.params), len(v.Args))
		}

		for i, arg := range v.Args {
			typ, err := c.checkOperand(arg, "argument")
			if err != nil {
				return nil, err
			}

			if typ != sig.params[i] {
				return nil, c.errorf("argument %d of `%s` must be %s, not %s", i+1, v.Func, sig.params[i].Repr(), typ.Repr())
			}
		}

		return sig.ret, nil
	case *ast.IfExpr:
		return c.ifType(v)
	case *ast.Block:
		return c.checkBlock(v)
	}

	return nil, c.errorf("unknown expression %T", expr)
}

func (c *Checker) binaryType(bo *ast.BinaryOp) (*typing.Reference, error) {
	intMT := c.cache.IntRef(64)
	what := "operand of `" + ast.OpRepr(bo.Op) + "`"

	lhs, err := c.checkOperand(bo.Lhs, what)
	if err != nil {
		return nil, err
	}

	rhs, err := c.checkOperand(bo.Rhs, what)
	if err != nil {
		return nil, err
	}

	if lhs != rhs {
		return nil, c.errorf("mismatched operands of `%s`: %s and %s", ast.OpRepr(bo.Op), lhs.Repr(), rhs.Repr())
	}

	switch bo.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if lhs != intMT {
			return nil, c.errorf("operator `%s` expects int operands, not %s", ast.OpRepr(bo.Op), lhs.Repr())
		}

		return intMT, nil
	case ast.OpEq, ast.OpNe:
		if lhs != intMT && lhs != c.cache.BoolRef {
			return nil, c.errorf("cannot compare values of type %s", lhs.Repr())
		}

		return c.cache.BoolRef, nil
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if lhs != intMT {
			return nil, c.errorf("operator `%s` expects int operands, not %s", ast.OpRepr(bo.Op), lhs.Repr())
		}

		return c.cache.BoolRef, nil
	case ast.OpAnd, ast.OpOr:
		if lhs != c.cache.BoolRef {
			return nil, c.errorf("operator `%s` expects bool operands, not %s", ast.OpRepr(bo.Op), lhs.Repr())
		}

		return c.cache.BoolRef, nil
	}

	return nil, c.errorf("`%s` is not a binary operator", ast.OpRepr(bo.Op))
}

// ifType computes the type of an if expression.  A `never` arm takes the type
// of the other arm; two `never` arms make the whole expression `never`.
func (c *Checker) ifType(ie *ast.IfExpr) (*typing.Reference, error) {
	if err := c.expectBool(ie.Cond, "if condition"); err != nil {
		return nil, err
	}

	thenType, err := c.checkBlock(ie.Then)
	if err != nil {
		return nil, err
	}

	if ie.Else == nil {
		if thenType != c.cache.VoidRef && !thenType.IsNever() {
			return nil, c.errorf("if without else cannot yield a value of type %s", thenType.Repr())
		}

		return c.cache.VoidRef, nil
	}

	elseType, err := c.checkBlock(ie.Else)
	if err != nil {
		return nil, err
	}

	switch {
	case thenType.IsNever():
		return elseType, nil
	case elseType.IsNever():
		return thenType, nil
	case thenType != elseType:
		return nil, c.errorf("if arms yield different types: %s and %s", thenType.Repr(), elseType.Repr())
	}

	return thenType, nil
}
