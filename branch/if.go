package branch

import (
	"kiln/backend"
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// All one-armed conditionals produce the same shape:
//
//	            .-----> then -----.
//	current ---:                   :---> afterward
//	            '-----------------'
//
// The builder comes in pointed at "current" and leaves pointed at "afterward".
// The forms differ only in how "then" ends.

// BuildIf lowers a one-armed conditional whose then-arm falls through to the
// code after the construct.
func BuildIf(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, cond value.Value, buildThen func(*backend.Builder)) {
	assertBool("BuildIf", cond)

	buildOneArmed(fs, b, cond, func(thenBuilder *backend.Builder, afterward *ir.Block) {
		buildThen(thenBuilder)
		thenBuilder.BuildBr(afterward)
	})
}

// BuildIfV is BuildIf with a semantic condition validated against `bool`.
func BuildIfV(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, condRef typing.Ref, buildThen func(*backend.Builder)) {
	condLE := gs.CheckValidReference(b, gs.Cache.BoolRef, condRef)
	BuildIf(gs, fs, b, condLE, buildThen)
}

// BuildIfNever lowers a one-armed conditional whose then-arm never completes:
// it traps or aborts.  The then-block is closed with `unreachable`, so the only
// way into "afterward" is the false edge.  The callback must not terminate its
// block itself.
func BuildIfNever(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, cond value.Value, buildThen func(*backend.Builder)) {
	assertBool("BuildIfNever", cond)

	buildOneArmed(fs, b, cond, func(thenBuilder *backend.Builder, afterward *ir.Block) {
		buildThen(thenBuilder)
		thenBuilder.BuildUnreachable()
	})
}

// BuildIfReturn lowers a one-armed conditional whose then-arm returns from the
// function with the value produced by the callback (nil for a void return).
func BuildIfReturn(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, cond value.Value, buildThen func(*backend.Builder) value.Value) {
	assertBool("BuildIfReturn", cond)

	buildOneArmed(fs, b, cond, func(thenBuilder *backend.Builder, afterward *ir.Block) {
		toReturn := buildThen(thenBuilder)
		thenBuilder.BuildRet(toReturn)
	})
}

// buildOneArmed creates the then and afterward blocks, branches into them from
// the current block, lets fill emit and terminate the then-arm, and moves b to
// afterward.
func buildOneArmed(fs *backend.FuncState, b *backend.Builder, cond value.Value, fill func(*backend.Builder, *ir.Block)) {
	thenStart, thenBuilder := startArm(fs)
	afterward := fs.AppendBlock()

	b.BuildCondBr(cond, thenStart, afterward)

	fill(thenBuilder, afterward)
	thenBuilder.Release()

	b.MoveToEnd(afterward)
}
