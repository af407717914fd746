package ecs

import (
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int      { return len(a) }
func (a byTypeName) Swap(i, j int) { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool {
	if ni, nj := a[i].String(), a[j].String(); ni != nj {
		return ni < nj
	}
	return typeId(a[i]) < typeId(a[j])
}

// Archetype stores every entity that holds exactly one particular set of component types.
// Column i holds the components of types[i]; an entity's index is its slot in every column.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []iComponentStorage
	// generations[slot] is the generation handed to the slot's current or next occupant.
	generations []uint16
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]iComponentStorage, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](16),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.columns[idx] = factory()
	}

	return a
}

// Spawn appends one entity's components and returns its id.
// components must hold exactly one value per archetype type.
func (a *Archetype) Spawn(components []any) EntityId {
	slot := -1
	for _, comp := range components {
		col := a.column(componentType(comp))
		if col < 0 {
			panic("component " + componentType(comp).String() + " does not belong to archetype")
		}
		idx := a.columns[col].Append(comp)
		if slot != -1 && idx != slot {
			panic("archetype columns out of sync")
		}
		slot = idx
	}
	for len(a.generations) <= slot {
		a.generations = append(a.generations, 0)
	}
	return a.idAt(slot)
}

func (a *Archetype) idAt(slot int) EntityId {
	return NewEntityId(a.id, a.generations[slot], uint32(slot))
}

func (a *Archetype) column(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// GetComponent returns a pointer to the component of the given type, or nil
func (a *Archetype) GetComponent(id EntityId, compType reflect.Type) any {
	col := a.column(compType)
	if col < 0 || !a.Alive(id) {
		return nil
	}
	return a.columns[col].Get(int(id.Index()))
}

// Alive reports whether the id names the entity currently occupying its slot.
func (a *Archetype) Alive(id EntityId) bool {
	if id.ArchetypeId() != a.id || len(a.columns) == 0 {
		return false
	}
	index := int(id.Index())
	return index < len(a.generations) &&
		a.generations[index] == id.Generation() &&
		a.columns[0].Has(index)
}

// Delete clears an entity's slot in every column and invalidates its EntityRef.
// The slot is recycled by a later Spawn under the next generation.
// Stale ids are ignored.
func (a *Archetype) Delete(id EntityId) {
	if !a.Alive(id) {
		return
	}

	if weakPtr, ok := a.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}

	index := id.Index()
	for _, col := range a.columns {
		col.Delete(int(index))
	}
	a.generations[index] = (a.generations[index] + 1) & generationMask
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in the archetype.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(a.idAt(index)) {
				return
			}
		}
	}
}
