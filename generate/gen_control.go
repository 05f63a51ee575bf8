package generate

import (
	"kiln/ast"
	"kiln/backend"
	"kiln/branch"
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// genIfExpr generates an if expression and returns its value (void if it is
// used as a statement or has no else branch).
func (g *Generator) genIfExpr(b *backend.Builder, ifExpr *ast.IfExpr) typing.Ref {
	condRef := g.genExpr(b, ifExpr.Cond)

	if ifExpr.Else == nil {
		g.genOneArmedIf(b, ifExpr, condRef)
		return g.gs.Unit()
	}

	thenMT, elseMT := ifExpr.Then.Type(), ifExpr.Else.Type()
	voidMT := g.gs.Cache.VoidRef

	// purely side-effecting if/else: no value to merge
	if thenMT == voidMT && elseMT == voidMT {
		cond := g.unwrap(b, g.gs.Cache.BoolRef, condRef)
		branch.BuildVoidIfElse(g.gs, g.fs, b, cond, func(tb *backend.Builder) {
			g.genBlock(tb, ifExpr.Then)
		}, func(eb *backend.Builder) {
			g.genBlock(eb, ifExpr.Else)
		})

		return g.gs.Unit()
	}

	return branch.BuildIfElseV(
		g.gs, g.fs, b,
		condRef,
		thenMT, elseMT,
		func(tb *backend.Builder) typing.Ref {
			return g.genBlock(tb, ifExpr.Then)
		},
		func(eb *backend.Builder) typing.Ref {
			return g.genBlock(eb, ifExpr.Else)
		},
	)
}

// genOneArmedIf generates an if without an else branch.  The then-arm shape
// picks the lowering: a lone `abort` or `return` gets the dedicated forms, an
// arm that completes falls through, and any other diverging arm is paired with
// an empty else arm.
func (g *Generator) genOneArmedIf(b *backend.Builder, ifExpr *ast.IfExpr, condRef typing.Ref) {
	then := ifExpr.Then

	if len(then.Stmts) == 1 && then.Result == nil {
		switch v := then.Stmts[0].(type) {
		case *ast.Abort:
			cond := g.unwrap(b, g.gs.Cache.BoolRef, condRef)
			branch.BuildIfNever(g.gs, g.fs, b, cond, g.genTrap)
			return
		case *ast.Return:
			cond := g.unwrap(b, g.gs.Cache.BoolRef, condRef)
			branch.BuildIfReturn(g.gs, g.fs, b, cond, func(tb *backend.Builder) value.Value {
				if v.Value == nil {
					return nil
				}

				return g.unwrap(tb, g.retMT, g.genExpr(tb, v.Value))
			})
			return
		}
	}

	if !then.Type().IsNever() {
		branch.BuildIfV(g.gs, g.fs, b, condRef, func(tb *backend.Builder) {
			g.genBlock(tb, then)
		})
		return
	}

	branch.BuildIfElseV(
		g.gs, g.fs, b,
		condRef,
		g.gs.Cache.NeverRef, g.gs.Cache.VoidRef,
		func(tb *backend.Builder) typing.Ref {
			return g.genBlock(tb, then)
		},
		func(*backend.Builder) typing.Ref {
			return g.gs.Unit()
		},
	)
}

// -----------------------------------------------------------------------------

// genWhile generates a condition-tested loop.
func (g *Generator) genWhile(b *backend.Builder, whileStmt *ast.While) {
	branch.BuildWhile(g.gs, g.fs, b, func(cb *backend.Builder) typing.Ref {
		return g.genExpr(cb, whileStmt.Cond)
	}, func(bb *backend.Builder) {
		g.genBlock(bb, whileStmt.Body)
		g.resumeAfterDivergence(bb)
	})
}

// genDoWhile generates a loop that tests its condition after the body.
func (g *Generator) genDoWhile(b *backend.Builder, doWhile *ast.DoWhile) {
	branch.BuildBoolyWhileV(g.gs, g.fs, b, func(bb *backend.Builder) typing.Ref {
		g.genBlock(bb, doWhile.Body)
		g.resumeAfterDivergence(bb)

		return g.genExpr(bb, doWhile.Cond)
	})
}

// genLoop generates a loop that only exits through `break`.
func (g *Generator) genLoop(b *backend.Builder, loop *ast.Loop) {
	branch.BuildBreakyWhile(g.gs, g.fs, b, func(bb *backend.Builder, afterward *ir.Block) {
		g.breakTargets = append(g.breakTargets, afterward)
		g.genBlock(bb, loop.Body)
		g.breakTargets = g.breakTargets[:len(g.breakTargets)-1]

		g.resumeAfterDivergence(bb)
	})

	// nothing branches to the afterward block of a loop without a break, but
	// it still needs a terminator
	if !loop.HasBreak {
		b.BuildUnreachable()
	}
}
