package ecs

import (
	"iter"
	"math/bits"
	"reflect"
)

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage owns its registry, so independent worlds never share column factories.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a component type with the given registry.
// Spawning an unregistered type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &pagedStorage[T]{}
	}
}

// Registered reports whether the type has a storage factory.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const pageSize = 64

// page is a fixed block of component slots with an occupancy mask.
// Pages are never moved once allocated, so pointers handed out by Get stay
// valid until the slot is deleted.
type page[T any] struct {
	items [pageSize]T
	used  uint64
}

// pagedStorage is the dense column for one component type.
type pagedStorage[T any] struct {
	pages     []*page[T]
	freeSlots []int
	next      int
	count     int
}

func (ps *pagedStorage[T]) locate(index int) (*page[T], uint) {
	if index < 0 || index >= ps.next {
		return nil, 0
	}
	return ps.pages[index/pageSize], uint(index % pageSize)
}

// Append stores the item (value or pointer to T) and returns its slot.
func (ps *pagedStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	var index int
	if n := len(ps.freeSlots); n > 0 {
		index = ps.freeSlots[n-1]
		ps.freeSlots = ps.freeSlots[:n-1]
	} else {
		index = ps.next
		ps.next++
		if index/pageSize >= len(ps.pages) {
			ps.pages = append(ps.pages, &page[T]{})
		}
	}

	p := ps.pages[index/pageSize]
	slot := uint(index % pageSize)
	p.items[slot] = value
	p.used |= 1 << slot
	ps.count++
	return index
}

// Get returns a *T for an occupied slot, nil otherwise.
func (ps *pagedStorage[T]) Get(index int) any {
	p, slot := ps.locate(index)
	if p == nil || p.used&(1<<slot) == 0 {
		return nil
	}
	return &p.items[slot]
}

// Has reports whether the slot is occupied.
func (ps *pagedStorage[T]) Has(index int) bool {
	p, slot := ps.locate(index)
	return p != nil && p.used&(1<<slot) != 0
}

// Delete clears the slot and makes it available for reuse.
func (ps *pagedStorage[T]) Delete(index int) {
	p, slot := ps.locate(index)
	if p == nil || p.used&(1<<slot) == 0 {
		return
	}
	var zero T
	p.items[slot] = zero
	p.used &^= 1 << slot
	ps.freeSlots = append(ps.freeSlots, index)
	ps.count--
}

// Len returns the number of occupied slots.
func (ps *pagedStorage[T]) Len() int {
	return ps.count
}

// Iter yields occupied slot indices in ascending order.
func (ps *pagedStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for pageIdx, p := range ps.pages {
			mask := p.used
			for mask != 0 {
				slot := bits.TrailingZeros64(mask)
				mask &^= 1 << uint(slot)
				if !yield(pageIdx*pageSize + slot) {
					return
				}
			}
		}
	}
}
