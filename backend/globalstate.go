package backend

import (
	"kiln/typing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// GlobalState is the module-wide lowering context.  It is threaded explicitly
// through every lowering call; nothing here is process global.
type GlobalState struct {
	// Module is the LLVM module being built.
	Module *ir.Module

	// Cache is the semantic type cache every reference must come from.
	Cache *typing.Cache

	// NeverPtr is the raw value of the divergence sentinel.
	NeverPtr value.Value

	// regions maps a semantic type to the region responsible for it.  Types
	// without an entry use defaultRegion.
	regions       map[*typing.Reference]typing.Region
	defaultRegion typing.Region
}

// NewGlobalState creates a new global context around mod.
func NewGlobalState(mod *ir.Module) *GlobalState {
	cache := typing.NewCache()

	return &GlobalState{
		Module:        mod,
		Cache:         cache,
		NeverPtr:      typing.ZeroValue(cache.NeverRef),
		regions:       make(map[*typing.Reference]typing.Region),
		defaultRegion: typing.CheckedRegion{},
	}
}

// GetRegion returns the region responsible for refMT.
func (gs *GlobalState) GetRegion(refMT *typing.Reference) typing.Region {
	if region, ok := gs.regions[refMT]; ok {
		return region
	}

	return gs.defaultRegion
}

// SetRegion makes region responsible for refMT.
func (gs *GlobalState) SetRegion(refMT *typing.Reference, region typing.Region) {
	gs.regions[refMT] = region
}

// CheckValidReference unwraps ref as a value of type expectedMT, emitting any
// checks into the builder's current block.
func (gs *GlobalState) CheckValidReference(b *Builder, expectedMT *typing.Reference, ref typing.Ref) value.Value {
	return gs.GetRegion(expectedMT).CheckValidReference(b.Block(), expectedMT, ref)
}

// NeverRef returns the divergence sentinel handle.
func (gs *GlobalState) NeverRef() typing.Ref {
	return typing.Wrap(gs.Cache.NeverRef, gs.NeverPtr)
}

// Unit returns the handle of the `void` value.
func (gs *GlobalState) Unit() typing.Ref {
	return typing.Wrap(gs.Cache.VoidRef, typing.ZeroValue(gs.Cache.VoidRef))
}

// ConstBool wraps a boolean constant.
func (gs *GlobalState) ConstBool(x bool) typing.Ref {
	return typing.Wrap(gs.Cache.BoolRef, constant.NewBool(x))
}

// ConstInt wraps an integer constant of the given width.
func (gs *GlobalState) ConstInt(bits int, x int64) typing.Ref {
	refMT := gs.Cache.IntRef(bits)
	return typing.Wrap(refMT, constant.NewInt(typing.Translate(refMT).(*types.IntType), x))
}
