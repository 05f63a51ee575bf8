package check

import (
	"kiln/ast"
	"kiln/typing"
)

// checkBlock checks a block in its own scope and annotates it.
func (c *Checker) checkBlock(block *ast.Block) (*typing.Reference, error) {
	c.pushScope()
	defer c.popScope()

	for i, stmt := range block.Stmts {
		if err := c.checkStmt(stmt); err != nil {
			return nil, err
		}

		if ast.Diverges(stmt) {
			if i < len(block.Stmts)-1 || block.Result != nil {
				return nil, c.errorf("unreachable code after a statement that never completes")
			}

			block.SetType(c.cache.NeverRef)
			return c.cache.NeverRef, nil
		}
	}

	if block.Result == nil {
		block.SetType(c.cache.VoidRef)
		return c.cache.VoidRef, nil
	}

	typ, err := c.checkExpr(block.Result)
	if err != nil {
		return nil, err
	}

	block.SetType(typ)
	return typ, nil
}

// checkLoopBody checks the body of any loop: it must not yield a value.
func (c *Checker) checkLoopBody(body *ast.Block) error {
	typ, err := c.checkBlock(body)
	if err != nil {
		return err
	}

	if typ != c.cache.VoidRef && !typ.IsNever() {
		return c.errorf("loop body cannot yield a value of type %s", typ.Repr())
	}

	return nil
}

func (c *Checker) checkStmt(stmt ast.Stmt) error {
	switch v := stmt.(type) {
	case *ast.Let:
		typ, err := c.checkOperand(v.Init, "initializer")
		if err != nil {
			return err
		}

		if typ == c.cache.VoidRef {
			return c.errorf("cannot bind `%s` to a void value", v.Name)
		}

		c.scopes[len(c.scopes)-1][v.Name] = localVar{typ: typ, mutable: v.Mutable}
	case *ast.Assign:
		lv, ok := c.lookup(v.Name)
		if !ok {
			return c.errorf("undefined variable `%s`", v.Name)
		}

		if !lv.mutable {
			return c.errorf("cannot assign to immutable variable `%s`", v.Name)
		}

		typ, err := c.checkOperand(v.Value, "assigned value")
		if err != nil {
			return err
		}

		if typ != lv.typ {
			return c.errorf("cannot assign %s to `%s` of type %s", typ.Repr(), v.Name, lv.typ.Repr())
		}
	case *ast.ExprStmt:
		_, err := c.checkExpr(v.X)
		return err
	case *ast.While:
		if err := c.expectBool(v.Cond, "while condition"); err != nil {
			return err
		}

		return c.checkLoopBody(v.Body)
	case *ast.DoWhile:
		if err := c.checkLoopBody(v.Body); err != nil {
			return err
		}

		return c.expectBool(v.Cond, "do-while condition")
	case *ast.Loop:
		c.loops = append(c.loops, v)
		err := c.checkLoopBody(v.Body)
		c.loops = c.loops[:len(c.loops)-1]
		return err
	case *ast.Break:
		if len(c.loops) == 0 {
			return c.errorf("`break` outside of a loop")
		}

		c.loops[len(c.loops)-1].HasBreak = true
	case *ast.Return:
		if v.Value == nil {
			if c.ret != c.cache.VoidRef {
				return c.errorf("missing return value of type %s", c.ret.Repr())
			}

			return nil
		}

		typ, err := c.checkOperand(v.Value, "return value")
		if err != nil {
			return err
		}

		if typ != c.ret {
			return c.errorf("cannot return %s from a function returning %s", typ.Repr(), c.ret.Repr())
		}
	case *ast.Abort:
		// always fine
	default:
		return c.errorf("unknown statement %T", stmt)
	}

	return nil
}
