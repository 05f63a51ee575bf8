package typing

import (
	"kiln/logging"
	"strings"
	"sync"
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
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

func TestIntRefInterning(t *testing.T) {
	c := NewCache()

	var wg sync.WaitGroup
	refs := make([]*Reference, 16)
	for i := range refs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			refs[i] = c.IntRef(64)
		}(i)
	}
	wg.Wait()

	for _, ref := range refs {
		if ref != refs[0] {
			t.Fatalf("IntRef(64) returned distinct references")
		}
	}

	if c.IntRef(32) == c.IntRef(64) {
		t.Fatalf("different widths must not share a reference")
	}

	if NewCache().IntRef(64) == c.IntRef(64) {
		t.Fatalf("references belong to their cache")
	}
}

func TestNeverIsOnlyNever(t *testing.T) {
	c := NewCache()

	for _, ref := range []*Reference{c.BoolRef, c.VoidRef, c.IntRef(8)} {
		if ref.IsNever() {
			t.Fatalf("%s reported as never", ref.Repr())
		}
	}

	if !c.NeverRef.IsNever() {
		t.Fatalf("never reference not recognized")
	}

	var nilRef *Reference
	if nilRef.IsNever() || nilRef.Repr() != "<nil>" {
		t.Fatalf("nil reference mishandled")
	}
}

func TestTranslate(t *testing.T) {
	c := NewCache()

	cases := []struct {
		ref  *Reference
		want types.Type
	}{
		{c.BoolRef, types.I1},
		{c.IntRef(64), types.I64},
		{c.IntRef(16), types.I16},
		{c.VoidRef, types.NewStruct()},
		{c.NeverRef, types.NewStruct()},
	}

	for _, tc := range cases {
		if got := Translate(tc.ref); !SameType(got, tc.want) {
			t.Fatalf("Translate(%s) = %s, expected %s", tc.ref.Repr(), got.LLString(), tc.want.LLString())
		}
	}
}

func TestCheckedRegion(t *testing.T) {
	c := NewCache()
	region := CheckedRegion{}

	x := constant.NewInt(types.I64, 3)
	if got := region.CheckValidReference(nil, c.IntRef(64), Wrap(c.IntRef(64), x)); got != x {
		t.Fatalf("region should hand back the wrapped value")
	}

	expectICE(t, "expected type bool, got i64", func() {
		region.CheckValidReference(nil, c.BoolRef, Wrap(c.IntRef(64), x))
	})

	expectICE(t, "handle has no value", func() {
		region.CheckValidReference(nil, c.BoolRef, Wrap(c.BoolRef, nil))
	})

	expectICE(t, "has representation i64, expected i1", func() {
		region.CheckValidReference(nil, c.BoolRef, Wrap(c.BoolRef, x))
	})
}

func TestRefValidity(t *testing.T) {
	c := NewCache()

	if (Ref{}).IsValid() {
		t.Fatalf("zero ref should be invalid")
	}

	if !Wrap(c.VoidRef, ZeroValue(c.VoidRef)).IsValid() {
		t.Fatalf("unit ref should be valid")
	}
}
