package backend

import (
	"kiln/logging"
	"kiln/typing"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func expectICE(t *testing.T, contains string, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()

		r := recover()
		if r == nil {
			t.Fatalf("expected an internal compiler error containing %q", contains)
		}

		ie, ok := r.(*logging.InternalError)
		if !ok {
			panic(r)
		}

		if !strings.Contains(ie.Message, contains) {
			t.Fatalf("expected an internal compiler error containing %q, got %q", contains, ie.Message)
		}
	}()

	fn()
}

func newFunc() *ir.Func {
	return ir.NewModule().NewFunc("f", types.I64)
}

func TestBlockNamesAreUnique(t *testing.T) {
	fs := NewFuncState(newFunc())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		block := fs.AppendBlock()
		if seen[block.Name()] {
			t.Fatalf("block name %s handed out twice", block.Name())
		}

		seen[block.Name()] = true
	}

	if len(fs.ContainingFunc.Blocks) != 50 {
		t.Fatalf("expected 50 blocks, got %d", len(fs.ContainingFunc.Blocks))
	}

	if name := fs.ContainingFunc.Blocks[0].Name(); name != "bb0" {
		t.Fatalf("first block should be bb0, got %s", name)
	}
}

func TestBuilderTerminatesOnce(t *testing.T) {
	f := newFunc()
	b := NewBuilderAt(f.NewBlock("entry"))

	if b.Terminated() {
		t.Fatalf("fresh block should not be terminated")
	}

	b.BuildRet(constant.NewInt(types.I64, 0))
	if !b.Terminated() {
		t.Fatalf("block should be terminated after BuildRet")
	}

	expectICE(t, "BuildBr: block entry already ends in a terminator", func() {
		b.BuildBr(f.NewBlock("other"))
	})
}

func TestBuilderRelease(t *testing.T) {
	f := newFunc()
	b := NewBuilderAt(f.NewBlock("entry"))
	b.BuildUnreachable()
	b.Release()

	if !b.Released() {
		t.Fatalf("builder should report being released")
	}

	expectICE(t, "Block: builder used after release", func() {
		b.Block()
	})

	expectICE(t, "MoveToEnd: builder used after release", func() {
		b.MoveToEnd(f.NewBlock("other"))
	})

	expectICE(t, "released twice", func() {
		b.Release()
	})
}

func TestUnpositionedBuilder(t *testing.T) {
	b := NewBuilder()

	expectICE(t, "not positioned", func() {
		b.BuildUnreachable()
	})

	block := newFunc().NewBlock("entry")
	b.MoveToEnd(block)
	if b.Block() != block {
		t.Fatalf("builder should be positioned at the block it was moved to")
	}
}

func TestBuildPhiMustLeadBlock(t *testing.T) {
	f := newFunc()
	entry := f.NewBlock("entry")
	other := f.NewBlock("other")

	b := NewBuilderAt(other)
	phi := b.BuildPhi(types.I64, ir.NewIncoming(constant.NewInt(types.I64, 1), entry))
	if !phi.Type().Equal(types.I64) {
		t.Fatalf("phi should have type i64, got %s", phi.Type().LLString())
	}

	// a second phi is fine, anything after an ordinary instruction is not
	b.BuildPhi(types.I64, ir.NewIncoming(constant.NewInt(types.I64, 2), entry))
	other.NewAdd(phi, phi)

	expectICE(t, "already has non-phi instructions", func() {
		b.BuildPhi(types.I64, ir.NewIncoming(constant.NewInt(types.I64, 3), entry))
	})
}

func TestPredecessors(t *testing.T) {
	f := newFunc()
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	join := f.NewBlock("join")

	entry.NewCondBr(constant.True, left, right)
	left.NewBr(join)
	right.NewBr(join)
	join.NewCondBr(constant.False, left, left)

	preds := Predecessors(f)

	if len(preds[entry]) != 0 {
		t.Fatalf("entry should have no predecessors")
	}

	if got := preds[join]; len(got) != 2 || got[0] != left || got[1] != right {
		t.Fatalf("join should be reached from left then right, got %v", got)
	}

	// both edges of join's conditional branch go to left: listed once
	if got := preds[left]; len(got) != 2 || got[0] != entry || got[1] != join {
		t.Fatalf("left should be reached from entry and join, got %v", got)
	}

	succs := Successors(entry)
	if len(succs) != 2 || succs[0] != left || succs[1] != right {
		t.Fatalf("successors should list the true target first")
	}
}

func TestGlobalStateValues(t *testing.T) {
	gs := NewGlobalState(ir.NewModule())
	b := NewBuilderAt(newFunc().NewBlock("entry"))

	never := gs.NeverRef()
	if !never.RefMT.IsNever() || never.RefMT != gs.Cache.NeverRef {
		t.Fatalf("NeverRef should carry the interned never type")
	}

	if gs.NeverRef().RefMT != never.RefMT {
		t.Fatalf("divergence sentinel should be identical across calls")
	}

	x := gs.CheckValidReference(b, gs.Cache.IntRef(32), gs.ConstInt(32, 7))
	if !x.Type().Equal(types.I32) {
		t.Fatalf("ConstInt(32) should be an i32, got %s", x.Type().LLString())
	}

	expectICE(t, "expected type i32, got i64", func() {
		gs.CheckValidReference(b, gs.Cache.IntRef(32), gs.ConstInt(64, 7))
	})
}

type countingRegion struct {
	calls int
}

func (cr *countingRegion) CheckValidReference(block *ir.Block, expectedMT *typing.Reference, ref typing.Ref) value.Value {
	cr.calls++
	return typing.CheckedRegion{}.CheckValidReference(block, expectedMT, ref)
}

func TestRegionOverride(t *testing.T) {
	gs := NewGlobalState(ir.NewModule())
	b := NewBuilderAt(newFunc().NewBlock("entry"))

	region := &countingRegion{}
	gs.SetRegion(gs.Cache.BoolRef, region)

	gs.CheckValidReference(b, gs.Cache.BoolRef, gs.ConstBool(true))
	gs.CheckValidReference(b, gs.Cache.IntRef(64), gs.ConstInt(64, 1))

	if region.calls != 1 {
		t.Fatalf("bool region should have been consulted once, got %d", region.calls)
	}
}
