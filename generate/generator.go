package generate

import (
	"kiln/ast"
	"kiln/backend"
	"kiln/check"
	"kiln/common"
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMIdent is the type used for LLVM identifiers.  It stores the value, its
// semantic type, and whether or not the value has to loaded explicitly to be
// used.
type LLVMIdent struct {
	Val     value.Value
	RefMT   *typing.Reference
	Mutable bool
}

// Generator is responsible for converting a checked program into an LLVM
// module.  All structured control flow goes through package branch.
type Generator struct {
	// gs is the global lowering context.  Its module is the one being built.
	gs *backend.GlobalState

	// prog is the program being lowered.
	prog *ast.Program

	// checker resolves signature type labels.
	checker *check.Checker

	// funcs maps program function names to their LLVM functions.  They are
	// all declared before any body is generated so calls can be emitted in
	// any order.
	funcs map[string]*ir.Func

	// trapFunc is the external function `abort` calls.
	trapFunc *ir.Func

	// fs is the context of the function being generated.
	fs *backend.FuncState

	// enclosingFunc is function enclosing the block being generated.
	enclosingFunc *ir.Func

	// retMT is the semantic return type of the enclosing function.
	retMT *typing.Reference

	// localScopes is the stack of local scopes used during generation.
	localScopes []map[string]LLVMIdent

	// breakTargets is the stack of afterward blocks of the enclosing `loop`
	// statements.  `break` branches to the top one.
	breakTargets []*ir.Block
}

// Generate checks prog and lowers it into a new LLVM module.  User errors in
// the program are returned; anything that goes wrong past checking is an
// internal compiler error.
func Generate(prog *ast.Program) (*ir.Module, error) {
	mod := ir.NewModule()
	mod.SourceFilename = prog.Name

	gs := backend.NewGlobalState(mod)
	g := NewGenerator(gs, prog)
	if err := g.checker.Check(prog); err != nil {
		return nil, err
	}

	g.Generate()
	return mod, nil
}

// NewGenerator creates a new generator emitting into gs.Module.  The program
// must be checked against gs.Cache before Generate is called.
func NewGenerator(gs *backend.GlobalState, prog *ast.Program) *Generator {
	return &Generator{
		gs:      gs,
		prog:    prog,
		checker: check.NewChecker(gs.Cache),
		funcs:   make(map[string]*ir.Func),
	}
}

// Generate lowers every function of the program.
func (g *Generator) Generate() {
	g.trapFunc = g.gs.Module.NewFunc(common.TrapFuncName, types.Void)

	for _, fn := range g.prog.Funcs {
		params := make([]*ir.Param, len(fn.Params))
		for i, param := range fn.Params {
			params[i] = ir.NewParam(param.Name, g.convType(g.checker.LabelType(param.Type)))
		}

		g.funcs[fn.Name] = g.gs.Module.NewFunc(fn.Name, g.convRetType(fn.RetType), params...)
	}

	for _, fn := range g.prog.Funcs {
		g.genFunc(fn)
	}
}

// genFunc generates the body of a single function.
func (g *Generator) genFunc(fn *ast.FuncDef) {
	g.enclosingFunc = g.funcs[fn.Name]
	g.fs = backend.NewFuncState(g.enclosingFunc)
	g.retMT = g.checker.LabelType(fn.RetType)
	g.localScopes = nil
	g.breakTargets = nil

	b := backend.NewBuilderAt(g.enclosingFunc.NewBlock("entry"))

	g.pushScope()
	for i, param := range fn.Params {
		g.defineLocal(param.Name, g.enclosingFunc.Params[i], g.checker.LabelType(param.Type), false)
	}

	result := g.genBlock(b, fn.Body)
	g.popScope()

	// a body that never completes has already terminated its last block
	if !result.RefMT.IsNever() {
		if g.retMT == g.gs.Cache.VoidRef {
			b.BuildRet(nil)
		} else {
			b.BuildRet(g.unwrap(b, g.retMT, result))
		}
	}

	b.Release()
}

// -----------------------------------------------------------------------------

// pushScope pushes a new local scope onto the scope stack.
func (g *Generator) pushScope() {
	g.localScopes = append(g.localScopes, make(map[string]LLVMIdent))
}

// popScope pops a local scope off of the local scope stack.
func (g *Generator) popScope() {
	g.localScopes = g.localScopes[:len(g.localScopes)-1]
}

// defineLocal defines a local variable.
func (g *Generator) defineLocal(name string, val value.Value, refMT *typing.Reference, mutable bool) {
	g.localScopes[len(g.localScopes)-1][name] = LLVMIdent{Val: val, RefMT: refMT, Mutable: mutable}
}

// lookup looks up a local symbol.
func (g *Generator) lookup(name string) LLVMIdent {
	// iterate through scopes in reverse order to implement shadowing.
	for i := len(g.localScopes) - 1; i >= 0; i-- {
		if ident, ok := g.localScopes[i][name]; ok {
			return ident
		}
	}

	// the checker guarantees every name resolves
	return LLVMIdent{}
}

// -----------------------------------------------------------------------------

// convType converts a semantic type into its LLVM type.
func (g *Generator) convType(refMT *typing.Reference) types.Type {
	return typing.Translate(refMT)
}

// convRetType converts a return type label into an LLVM return type.  Unlike
// values, void returns use LLVM's own void type.
func (g *Generator) convRetType(label int) types.Type {
	if label == ast.TypeVoid {
		return types.Void
	}

	return g.convType(g.checker.LabelType(label))
}

// unwrap validates ref against refMT and returns its raw value.
func (g *Generator) unwrap(b *backend.Builder, refMT *typing.Reference, ref typing.Ref) value.Value {
	return g.gs.CheckValidReference(b, refMT, ref)
}

// resumeAfterDivergence moves b to a fresh block if its current block has
// already been terminated.  The new block has no predecessors; it exists so a
// loop's back edge always has a block to leave from.
func (g *Generator) resumeAfterDivergence(b *backend.Builder) {
	if b.Terminated() {
		b.MoveToEnd(g.fs.AppendBlock())
	}
}
