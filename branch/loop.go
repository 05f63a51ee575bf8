package branch

import (
	"kiln/backend"
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// Both loop forms produce the same shape:
//
//	            .-----> body -----.
//	current ---'         ^         :---> afterward
//	                     '--------'
//
// The builder comes in pointed at "current" and leaves pointed at "afterward".

// BuildBoolyWhile lowers a loop with no separate condition: the body runs at
// least once and yields an i1 deciding whether to run again.
func BuildBoolyWhile(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, buildBody func(*backend.Builder) value.Value) {
	bodyStart, bodyBuilder := startArm(fs)

	// jump from the current block into the body for the first time
	b.BuildBr(bodyStart)

	continueLE := buildBody(bodyBuilder)
	assertBool("BuildBoolyWhile", continueLE)

	afterward := fs.AppendBlock()

	bodyBuilder.BuildCondBr(continueLE, bodyStart, afterward)
	bodyBuilder.Release()

	b.MoveToEnd(afterward)
}

// BuildBoolyWhileV is BuildBoolyWhile with a semantic continuation value
// validated against `bool`.
func BuildBoolyWhileV(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, buildBody func(*backend.Builder) typing.Ref) {
	BuildBoolyWhile(gs, fs, b, func(bodyBuilder *backend.Builder) value.Value {
		continueRef := buildBody(bodyBuilder)
		return gs.CheckValidReference(bodyBuilder, gs.Cache.BoolRef, continueRef)
	})
}

// BuildBreakyWhile lowers a loop that only exits by branching to its break
// target.  The afterward block is created before the body is built and handed
// to the callback, which may branch to it from any nesting depth.  Whatever
// block the body ends in loops back to the start of the body.
func BuildBreakyWhile(gs *backend.GlobalState, fs *backend.FuncState, b *backend.Builder, buildBody func(*backend.Builder, *ir.Block)) {
	bodyStart, bodyBuilder := startArm(fs)

	b.BuildBr(bodyStart)

	afterward := fs.AppendBlock()

	buildBody(bodyBuilder, afterward)

	bodyBuilder.BuildBr(bodyStart)
	bodyBuilder.Release()

	b.MoveToEnd(afterward)
}

// BuildWhile lowers a condition-tested loop.  Each pass through the loop
// evaluates the condition first; if it holds the body runs and the loop
// continues, otherwise the loop exits without running the body.
func BuildWhile(
	gs *backend.GlobalState,
	fs *backend.FuncState,
	b *backend.Builder,
	buildCondition func(*backend.Builder) typing.Ref,
	buildBody func(*backend.Builder),
) {
	boolMT := gs.Cache.BoolRef

	BuildBoolyWhileV(gs, fs, b, func(bodyBuilder *backend.Builder) typing.Ref {
		conditionRef := buildCondition(bodyBuilder)

		return BuildIfElseV(
			gs, fs, bodyBuilder,
			conditionRef,
			boolMT, boolMT,
			func(thenBuilder *backend.Builder) typing.Ref {
				buildBody(thenBuilder)

				// keep looping
				return gs.ConstBool(true)
			},
			func(elseBuilder *backend.Builder) typing.Ref {
				// stop looping
				return gs.ConstBool(false)
			},
		)
	})
}
