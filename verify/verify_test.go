package verify

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func i64(x int64) *constant.Int {
	return constant.NewInt(types.I64, x)
}

// diamond builds a well formed if/else merging two values.
func diamond() (*ir.Func, *ir.InstPhi) {
	f := ir.NewModule().NewFunc("diamond", types.I64, ir.NewParam("c", types.I1))
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	join := f.NewBlock("join")

	entry.NewCondBr(f.Params[0], left, right)
	left.NewBr(join)
	right.NewBr(join)

	phi := join.NewPhi(ir.NewIncoming(i64(1), left), ir.NewIncoming(i64(2), right))
	join.NewRet(phi)

	return f, phi
}

func expectProblem(t *testing.T, f *ir.Func, contains string) {
	t.Helper()

	err := Func(f)
	if err == nil {
		t.Fatalf("expected a problem containing %q, function verified", contains)
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *verify.Error, got %T", err)
	}

	for _, problem := range verr.Problems {
		if strings.Contains(problem, contains) {
			return
		}
	}

	t.Fatalf("expected a problem containing %q, got:\n%s", contains, err.Error())
}

func TestWellFormed(t *testing.T) {
	f, _ := diamond()
	if err := Func(f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// declarations have nothing to check
	if err := Func(ir.NewModule().NewFunc("decl", types.Void)); err != nil {
		t.Fatalf("unexpected error for declaration: %v", err)
	}
}

func TestMissingTerminator(t *testing.T) {
	f, _ := diamond()
	f.Blocks[1].Term = nil

	expectProblem(t, f, "block left has no terminator")
}

func TestPhiMissingPredecessor(t *testing.T) {
	f, phi := diamond()
	phi.Incs = phi.Incs[:1]

	expectProblem(t, f, "is missing predecessor right")
}

func TestPhiExtraPredecessor(t *testing.T) {
	f, phi := diamond()
	phi.Incs = append(phi.Incs, ir.NewIncoming(i64(3), f.Blocks[0]))

	expectProblem(t, f, "lists entry, which does not branch here")
}

func TestPhiDuplicatePredecessor(t *testing.T) {
	f, phi := diamond()
	phi.Incs[1] = ir.NewIncoming(i64(2), f.Blocks[1])

	expectProblem(t, f, "lists predecessor left twice")
}

func TestPhiTypeMismatch(t *testing.T) {
	f, phi := diamond()
	phi.Incs[1].X = constant.False

	expectProblem(t, f, "the value from right is i1")
}

func TestPhiAfterInstruction(t *testing.T) {
	f, phi := diamond()
	join := f.Blocks[3]
	add := join.NewAdd(i64(1), i64(1))
	join.Insts = []ir.Instruction{add, phi}

	expectProblem(t, f, "follows a non-phi instruction")
}

func TestEntryWithPredecessors(t *testing.T) {
	f, _ := diamond()
	f.Blocks[1].Term = nil
	f.Blocks[1].NewBr(f.Blocks[0])

	expectProblem(t, f, "entry block entry has predecessors")
}

func TestBranchOutsideFunction(t *testing.T) {
	f, _ := diamond()
	stranger := ir.NewModule().NewFunc("g", types.Void).NewBlock("elsewhere")
	f.Blocks[2].Term = nil
	f.Blocks[2].NewBr(stranger)

	expectProblem(t, f, "block right branches outside of the function")
}

func TestConditionMustBeI1(t *testing.T) {
	f, _ := diamond()
	f.Blocks[0].Term = nil
	f.Blocks[0].NewCondBr(i64(1), f.Blocks[1], f.Blocks[2])

	expectProblem(t, f, "branch condition is i64, not i1")
}

func TestReturnType(t *testing.T) {
	f, _ := diamond()
	f.Blocks[3].Term = nil
	f.Blocks[3].NewRet(constant.True)

	expectProblem(t, f, "returns i1 from a function returning i64")

	g := ir.NewModule().NewFunc("g", types.I64)
	g.NewBlock("entry").NewRet(nil)

	expectProblem(t, g, "void return from a function returning i64")
}

func TestModuleStopsAtFirstError(t *testing.T) {
	m := ir.NewModule()
	m.NewFunc("ok", types.Void).NewBlock("entry").NewRet(nil)
	m.NewFunc("broken", types.Void).NewBlock("entry")

	err := Module(m)

	var verr *Error
	if !errors.As(err, &verr) || verr.Func != "broken" {
		t.Fatalf("expected an error for @broken, got %v", err)
	}
}
