// Package check annotates a program tree with semantic types and rejects
// programs the lowering layer must never see: type errors, misplaced `break`,
// and code after a statement that never completes.
package check

import (
	"fmt"
	"kiln/ast"
	"kiln/typing"
)

// Error is a type error in a user program.
type Error struct {
	Func    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("in function `%s`: %s", e.Func, e.Message)
}

// localVar is the checker's view of a local variable.
type localVar struct {
	typ     *typing.Reference
	mutable bool
}

// funcSig is the checker's view of a function signature.
type funcSig struct {
	params []*typing.Reference
	ret    *typing.Reference
}

// Checker type checks a program against a type cache.
type Checker struct {
	cache *typing.Cache
	sigs  map[string]funcSig

	// state of the function being checked
	fn     *ast.FuncDef
	ret    *typing.Reference
	scopes []map[string]localVar
	loops  []*ast.Loop
}

// NewChecker creates a new checker.  All annotated types come from cache.
func NewChecker(cache *typing.Cache) *Checker {
	return &Checker{cache: cache, sigs: make(map[string]funcSig)}
}

// Check type checks and annotates a whole program.  It stops at the first
// error.
func (c *Checker) Check(prog *ast.Program) error {
	for _, fn := range prog.Funcs {
		if _, ok := c.sigs[fn.Name]; ok {
			return &Error{Func: fn.Name, Message: "function defined multiple times"}
		}

		sig := funcSig{ret: c.LabelType(fn.RetType)}
		for _, param := range fn.Params {
			if param.Type == ast.TypeVoid {
				return &Error{Func: fn.Name, Message: fmt.Sprintf("parameter `%s` cannot be void", param.Name)}
			}

			sig.params = append(sig.params, c.LabelType(param.Type))
		}

		c.sigs[fn.Name] = sig
	}

	for _, fn := range prog.Funcs {
		if err := c.checkFunc(fn); err != nil {
			return err
		}
	}

	return nil
}

// LabelType converts a signature type label into its semantic type.
func (c *Checker) LabelType(label int) *typing.Reference {
	switch label {
	case ast.TypeInt:
		return c.cache.IntRef(64)
	case ast.TypeBool:
		return c.cache.BoolRef
	default:
		return c.cache.VoidRef
	}
}

// -----------------------------------------------------------------------------

func (c *Checker) checkFunc(fn *ast.FuncDef) error {
	c.fn = fn
	c.ret = c.sigs[fn.Name].ret
	c.scopes = nil
	c.loops = nil

	c.pushScope()
	for i, param := range fn.Params {
		if _, ok := c.scopes[0][param.Name]; ok {
			return c.errorf("parameter `%s` declared multiple times", param.Name)
		}

		c.scopes[0][param.Name] = localVar{typ: c.sigs[fn.Name].params[i]}
	}

	bodyType, err := c.checkBlock(fn.Body)
	if err != nil {
		return err
	}
	c.popScope()

	if bodyType.IsNever() || bodyType == c.ret {
		return nil
	}

	if c.ret == c.cache.VoidRef {
		return c.errorf("function body yields %s but the function returns void", bodyType.Repr())
	}

	return c.errorf("function must return %s, but its body yields %s", c.ret.Repr(), bodyType.Repr())
}

func (c *Checker) errorf(format string, args ...interface{}) error {
	return &Error{Func: c.fn.Name, Message: fmt.Sprintf(format, args...)}
}

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, make(map[string]localVar))
}

func (c *Checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Checker) lookup(name string) (localVar, bool) {
	// iterate through scopes in reverse order to implement shadowing.
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if lv, ok := c.scopes[i][name]; ok {
			return lv, true
		}
	}

	return localVar{}, false
}
