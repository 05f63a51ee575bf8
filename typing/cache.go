package typing

import "sync"

// Cache interns semantic reference types.  There is one cache per global
// lowering context and every reference handed to the lowering primitives must
// come from it.
type Cache struct {
	BoolRef  *Reference
	VoidRef  *Reference
	NeverRef *Reference

	// ints maps a bit width to its interned integer reference.
	ints map[int]*Reference

	m sync.Mutex
}

// NewCache creates a new cache with the fixed references populated.
func NewCache() *Cache {
	return &Cache{
		BoolRef:  &Reference{Kind: KindBool},
		VoidRef:  &Reference{Kind: KindVoid},
		NeverRef: &Reference{Kind: KindNever},
		ints:     make(map[int]*Reference),
	}
}

// IntRef returns the interned integer reference of the given width.
func (c *Cache) IntRef(bits int) *Reference {
	c.m.Lock()
	defer c.m.Unlock()

	if ref, ok := c.ints[bits]; ok {
		return ref
	}

	ref := &Reference{Kind: KindInt, Bits: bits}
	c.ints[bits] = ref
	return ref
}
