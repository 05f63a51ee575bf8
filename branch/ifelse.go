package branch

import (
	"kiln/backend"
	"kiln/logging"
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// All two-armed conditionals produce the same shape:
//
//	            .-----> then -----.
//	current ---:                   :---> afterward
//	            '-----> else -----'
//
// Both arms are filled before the conditional branch out of "current" is
// emitted.  The builder comes in pointed at "current" and leaves pointed at
// "afterward".

// arm is the outcome of filling one side of a two-armed conditional.
type arm struct {
	start   *ir.Block
	builder *backend.Builder

	// final is the block the arm's builder ended in.  This is the block that
	// branches to afterward and the one the phi names as predecessor.
	final *ir.Block
}

// fillArm creates an arm's start block and runs build against it.
func fillArm(fs *backend.FuncState, build func(*backend.Builder)) arm {
	start, builder := startArm(fs)
	build(builder)

	return arm{start: start, builder: builder, final: builder.Block()}
}

// joinArm branches an arm to afterward and releases its builder.
func (a arm) joinArm(afterward *ir.Block) {
	a.builder.BuildBr(afterward)
	a.builder.Release()
}

// -----------------------------------------------------------------------------

// BuildIfElse lowers a two-armed conditional whose arms both produce a value of
// resultType.  It returns the phi merging the two values.
func BuildIfElse(
	gs *backend.GlobalState,
	fs *backend.FuncState,
	b *backend.Builder,
	resultType types.Type,
	cond value.Value,
	buildThen, buildElse func(*backend.Builder) value.Value,
) value.Value {
	assertBool("BuildIfElse", cond)

	var thenResult, elseResult value.Value
	thenArm := fillArm(fs, func(thenBuilder *backend.Builder) {
		thenResult = buildThen(thenBuilder)
	})
	elseArm := fillArm(fs, func(elseBuilder *backend.Builder) {
		elseResult = buildElse(elseBuilder)
	})

	assertArmType("BuildIfElse", "then", resultType, thenResult)
	assertArmType("BuildIfElse", "else", resultType, elseResult)

	b.BuildCondBr(cond, thenArm.start, elseArm.start)

	afterward := fs.AppendBlock()
	thenArm.joinArm(afterward)
	elseArm.joinArm(afterward)

	b.MoveToEnd(afterward)

	return b.BuildPhi(
		resultType,
		ir.NewIncoming(thenResult, thenArm.final),
		ir.NewIncoming(elseResult, elseArm.final),
	)
}

// BuildVoidIfElse lowers a two-armed conditional whose arms produce nothing.
func BuildVoidIfElse(
	gs *backend.GlobalState,
	fs *backend.FuncState,
	b *backend.Builder,
	cond value.Value,
	buildThen, buildElse func(*backend.Builder),
) {
	assertBool("BuildVoidIfElse", cond)

	thenArm := fillArm(fs, buildThen)
	elseArm := fillArm(fs, buildElse)

	b.BuildCondBr(cond, thenArm.start, elseArm.start)

	afterward := fs.AppendBlock()
	thenArm.joinArm(afterward)
	elseArm.joinArm(afterward)

	b.MoveToEnd(afterward)
}

// BuildIfElseV lowers a two-armed conditional over semantic values where
// either arm may be declared `never`.  A `never` arm has already ended its own
// block (return, unreachable, a branch out of an enclosing loop), so it gets no
// edge to afterward and no phi entry.
//
// If both arms are `never` there is nothing to resume: no afterward block is
// created, the divergence sentinel is returned and b is left where it was.
// That block now ends in the conditional branch, so b must not be used to emit
// anything further.
func BuildIfElseV(
	gs *backend.GlobalState,
	fs *backend.FuncState,
	b *backend.Builder,
	condRef typing.Ref,
	thenResultMT, elseResultMT *typing.Reference,
	buildThen, buildElse func(*backend.Builder) typing.Ref,
) typing.Ref {
	neverMT := gs.Cache.NeverRef

	var thenResultRef, elseResultRef typing.Ref
	var thenResultLE, elseResultLE value.Value
	thenArm := fillArm(fs, func(thenBuilder *backend.Builder) {
		thenResultRef = buildThen(thenBuilder)
		thenResultLE = gs.CheckValidReference(thenBuilder, thenResultMT, thenResultRef)
	})
	elseArm := fillArm(fs, func(elseBuilder *backend.Builder) {
		elseResultRef = buildElse(elseBuilder)
		elseResultLE = gs.CheckValidReference(elseBuilder, elseResultMT, elseResultRef)
	})

	conditionLE := gs.CheckValidReference(b, gs.Cache.BoolRef, condRef)
	assertBool("BuildIfElseV", conditionLE)
	b.BuildCondBr(conditionLE, thenArm.start, elseArm.start)

	thenDiverges := thenResultMT == neverMT
	elseDiverges := elseResultMT == neverMT
	assertDiverged("then", thenDiverges, thenArm)
	assertDiverged("else", elseDiverges, elseArm)

	if thenDiverges && elseDiverges {
		thenArm.builder.Release()
		elseArm.builder.Release()
		return gs.NeverRef()
	}

	afterward := fs.AppendBlock()
	if thenDiverges {
		thenArm.builder.Release()
	} else {
		thenArm.joinArm(afterward)
	}

	if elseDiverges {
		elseArm.builder.Release()
	} else {
		elseArm.joinArm(afterward)
	}

	b.MoveToEnd(afterward)

	switch {
	case thenDiverges:
		return elseResultRef
	case elseDiverges:
		return thenResultRef
	}

	if !thenResultLE.Type().Equal(elseResultLE.Type()) {
		logging.LogICE(
			"BuildIfElseV: arm representations differ: then is %s (%s), else is %s (%s)",
			thenResultMT.Repr(), thenResultLE.Type().LLString(),
			elseResultMT.Repr(), elseResultLE.Type().LLString(),
		)
	}

	phi := b.BuildPhi(
		thenResultLE.Type(),
		ir.NewIncoming(thenResultLE, thenArm.final),
		ir.NewIncoming(elseResultLE, elseArm.final),
	)

	return typing.Wrap(thenResultMT, phi)
}

// -----------------------------------------------------------------------------

// assertArmType fails if an arm's value is not of the declared result type.
func assertArmType(construct, armName string, resultType types.Type, result value.Value) {
	if result == nil {
		logging.LogICE("%s: %s arm produced no value, expected %s", construct, armName, resultType.LLString())
	}

	if !result.Type().Equal(resultType) {
		logging.LogICE(
			"%s: %s arm produced %s, expected %s",
			construct, armName, result.Type().LLString(), resultType.LLString(),
		)
	}
}

// assertDiverged fails if an arm declared `never` left its block open: that
// block would end up with no terminator at all.
func assertDiverged(armName string, diverges bool, a arm) {
	if diverges && a.final.Term == nil {
		logging.LogICE("BuildIfElseV: %s arm is declared never but block %s falls through", armName, a.final.Name())
	}
}
