package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

type fieldRole uint8

const (
	roleRequired fieldRole = iota
	roleOptional
	roleWithout
)

// View represents a query for entities with a specific combination of components.
// The type T is a struct whose fields are pointers to component types.
//
// Embedded fields are always required. Named fields accept an `ecs` struct tag:
//
//	`ecs:"optional"` the field is nil when the entity lacks the component
//	`ecs:"without"`  entities holding the component are excluded; the field stays nil
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	roles       []fieldRole
	fieldOffset []uintptr
}

// NewView creates a new view for the given struct type
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		storage:     storage,
		types:       make([]reflect.Type, 0, structType.NumField()),
		roles:       make([]fieldRole, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		role := roleRequired
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				role = roleOptional
			case "without":
				role = roleWithout
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (expected \"optional\" or \"without\")")
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.roles = append(v.roles, role)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	return v
}

// matchesArchetype checks the archetype holds every required type and none of the excluded ones
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for i, typ := range v.types {
		switch v.roles[i] {
		case roleRequired:
			if !archetype.HasComponent(typ) {
				return false
			}
		case roleWithout:
			if archetype.HasComponent(typ) {
				return false
			}
		}
	}
	return true
}

func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.types))
	for i, typ := range v.types {
		indices[i] = -1
		if v.roles[i] == roleWithout {
			continue
		}
		indices[i] = archetype.column(typ)
	}
	return indices
}

func (v *View[T]) setField(resultPtr unsafe.Pointer, i int, component any) {
	fieldPtr := unsafe.Add(resultPtr, v.fieldOffset[i])
	if component == nil {
		*(*unsafe.Pointer)(fieldPtr) = nil
		return
	}
	*(*unsafe.Pointer)(fieldPtr) = dataPointer(component)
}

func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, entityIndex int, storageIndices []int) bool {
	for i, col := range storageIndices {
		var component any
		if col >= 0 {
			component = archetype.columns[col].Get(entityIndex)
		}
		if component == nil && v.roles[i] == roleRequired {
			return false
		}
		v.setField(resultPtr, i, component)
	}
	return true
}

// Fill populates the struct for the given entity.
// Returns false if the entity does not satisfy the view's filter.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Alive(id) || !v.matchesArchetype(archetype) {
		return false
	}
	return v.populateResult(unsafe.Pointer(ptr), archetype, int(id.Index()), v.buildStorageIndices(archetype))
}

// Get returns a populated view struct for the given entity, or nil if the entity
// does not satisfy the view's filter
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef returns a populated view struct for the given entity ref, or nil if invalid
func (v *View[T]) GetRef(ref *EntityRef) *T {
	entityId, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(entityId)
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.columns) == 0 {
			return
		}

		indices := v.buildStorageIndices(archetype)
		var result T
		resultPtr := unsafe.Pointer(&result)

		for entityIndex := range archetype.columns[0].Iter() {
			if !v.populateResult(resultPtr, archetype, entityIndex, indices) {
				continue
			}
			if !yield(archetype.idAt(entityIndex), result) {
				return
			}
		}
	}
}

// Iter returns an iterator over all entities matching the view.
// Archetype order is unspecified.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.archetypes {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values returns an iterator over just the view structs
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity with components copied from the view struct.
// Nil optional and excluded fields are skipped; a nil required field panics.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.types))
	for i, typ := range v.types {
		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, v.fieldOffset[i]))
		if componentPtr == nil {
			if v.roles[i] == roleRequired {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		if v.roles[i] == roleWithout {
			panic("excluded component " + typ.String() + " set in View.Spawn")
		}
		components = append(components, reflect.NewAt(typ, componentPtr).Elem().Interface())
	}

	return v.storage.Spawn(components...)
}
