package generate

import (
	"kiln/ast"
	"kiln/backend"
	"kiln/typing"
)

// genBlock generates a block in its own scope and returns the block's value.
// If the block never completes, the divergence sentinel is returned and b is
// left on a block that has already been terminated.
func (g *Generator) genBlock(b *backend.Builder, block *ast.Block) typing.Ref {
	g.pushScope()
	defer g.popScope()

	for _, stmt := range block.Stmts {
		g.genStmt(b, stmt)

		if ast.Diverges(stmt) {
			return g.gs.NeverRef()
		}
	}

	if block.Result == nil {
		return g.gs.Unit()
	}

	return g.genExpr(b, block.Result)
}

// genStmt generates a single statement.
func (g *Generator) genStmt(b *backend.Builder, stmt ast.Stmt) {
	switch v := stmt.(type) {
	case *ast.Let:
		g.genLet(b, v)
	case *ast.Assign:
		ident := g.lookup(v.Name)
		val := g.unwrap(b, ident.RefMT, g.genExpr(b, v.Value))
		b.Block().NewStore(val, ident.Val)
	case *ast.ExprStmt:
		g.genExpr(b, v.X)
	case *ast.While:
		g.genWhile(b, v)
	case *ast.DoWhile:
		g.genDoWhile(b, v)
	case *ast.Loop:
		g.genLoop(b, v)
	case *ast.Break:
		b.BuildBr(g.breakTargets[len(g.breakTargets)-1])
	case *ast.Return:
		if v.Value == nil {
			b.BuildRet(nil)
		} else {
			b.BuildRet(g.unwrap(b, g.retMT, g.genExpr(b, v.Value)))
		}
	case *ast.Abort:
		g.genTrap(b)
		b.BuildUnreachable()
	}
}

// genLet generates a variable declaration.
func (g *Generator) genLet(b *backend.Builder, let *ast.Let) {
	initRef := g.genExpr(b, let.Init)
	initMT := let.Init.Type()
	init := g.unwrap(b, initMT, initRef)

	if let.Mutable {
		// mutable variables require a stack allocation and a store. However,
		// the `alloca` is always placed in the entry block so that loops do
		// not allocate on every iteration.
		varPtr := g.enclosingFunc.Blocks[0].NewAlloca(g.convType(initMT))
		b.Block().NewStore(init, varPtr)
		g.defineLocal(let.Name, varPtr, initMT, true)
	} else {
		// immutable variables are just their initializer's value
		g.defineLocal(let.Name, init, initMT, false)
	}
}

// genTrap emits a call to the trap function.
func (g *Generator) genTrap(b *backend.Builder) {
	b.Block().NewCall(g.trapFunc)
}
