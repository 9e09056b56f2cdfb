// Copyright 2026 The Wireloom Authors
// SPDX-License-Identifier: Apache-2.0

package message

import (
	"fmt"

	"github.com/wireloom/wireloom/wire"
)

// Factory constructs a fresh instance of one concrete message kind.
type Factory func() Message

// Kind is one registered message kind. A dialect may register several
// kinds under the same id when the payload disambiguates them; the id
// layer tries them in registration order.
type Kind struct {
	ID      ID
	Name    string
	Factory Factory
}

// Registry is the closed set of message kinds of a dialect, declared
// at construction time. It is immutable after the last Register call
// and safe for concurrent readers from then on.
type Registry struct {
	kinds []Kind
	byID  map[ID][]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID][]int)}
}

// Register adds a message kind. Kinds sharing an id are tried in
// registration order during read disambiguation. Panics on a nil
// factory: the kind set is static dialect data, and a hole in it is a
// definition bug.
func (reg *Registry) Register(id ID, name string, factory Factory) {
	if factory == nil {
		panic(fmt.Sprintf("message: kind %q (id %d) registered without factory", name, id))
	}
	reg.byID[id] = append(reg.byID[id], len(reg.kinds))
	reg.kinds = append(reg.kinds, Kind{ID: id, Name: name, Factory: factory})
}

// Kinds returns every registered kind in registration order.
func (reg *Registry) Kinds() []Kind { return reg.kinds }

// Alternatives returns how many kinds share the given id.
func (reg *Registry) Alternatives(id ID) int { return len(reg.byID[id]) }

// kindIndex resolves (id, idx) to the registry slot, -1 when the id
// is unknown or idx exhausts its alternatives.
func (reg *Registry) kindIndex(id ID, idx int) int {
	slots := reg.byID[id]
	if idx < 0 || idx >= len(slots) {
		return -1
	}
	return slots[idx]
}

// Allocator constructs messages for the id layer during reads. The
// occurrence index selects among kinds sharing an id: the layer
// retries with idx 1, 2, ... when a payload read rejects the earlier
// alternatives.
type Allocator interface {
	// Alloc returns a fresh (or pooled) instance of the idx-th kind
	// registered under id. InvalidMsgID when no such kind exists;
	// MsgAllocFailure when the kind exists but cannot be
	// instantiated right now.
	Alloc(id ID, idx int) (Message, wire.Status)

	// Release returns an instance obtained from Alloc. Heap
	// allocation ignores it; pooled allocation frees the kind's
	// slot.
	Release(m Message)
}

// HeapAllocator allocates a fresh message per call.
type HeapAllocator struct {
	reg *Registry
}

// NewHeapAllocator returns a heap allocator over the registry.
func NewHeapAllocator(reg *Registry) *HeapAllocator {
	return &HeapAllocator{reg: reg}
}

// Alloc implements [Allocator].
func (a *HeapAllocator) Alloc(id ID, idx int) (Message, wire.Status) {
	slot := a.reg.kindIndex(id, idx)
	if slot < 0 {
		return nil, wire.InvalidMsgID
	}
	return a.reg.kinds[slot].Factory(), wire.Success
}

// Release implements [Allocator].
func (a *HeapAllocator) Release(Message) {}

// PoolAllocator permits at most one live instance per registered
// kind. A used-mask tracks live slots; allocating a kind whose slot
// is taken returns MsgAllocFailure until the instance is released.
//
// Unlike the heap allocator it is stateful and, like the rest of the
// framework, not safe for concurrent use.
type PoolAllocator struct {
	reg  *Registry
	used []bool
	live map[Message]int
}

// NewPoolAllocator returns a pool allocator over the registry.
func NewPoolAllocator(reg *Registry) *PoolAllocator {
	return &PoolAllocator{
		reg:  reg,
		used: make([]bool, len(reg.kinds)),
		live: make(map[Message]int),
	}
}

// Alloc implements [Allocator].
func (a *PoolAllocator) Alloc(id ID, idx int) (Message, wire.Status) {
	slot := a.reg.kindIndex(id, idx)
	if slot < 0 {
		return nil, wire.InvalidMsgID
	}
	if a.used[slot] {
		return nil, wire.MsgAllocFailure
	}
	m := a.reg.kinds[slot].Factory()
	a.used[slot] = true
	a.live[m] = slot
	return m, wire.Success
}

// Release implements [Allocator].
func (a *PoolAllocator) Release(m Message) {
	slot, ok := a.live[m]
	if !ok {
		return
	}
	delete(a.live, m)
	a.used[slot] = false
}

// InUse reports whether any instance of the idx-th kind under id is
// live.
func (a *PoolAllocator) InUse(id ID, idx int) bool {
	slot := a.reg.kindIndex(id, idx)
	return slot >= 0 && a.used[slot]
}
