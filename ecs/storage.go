package ecs

import (
	"encoding/binary"
	"reflect"
	"slices"
	"sort"
	"unsafe"
	"weak"

	"github.com/cespare/xxhash/v2"
)

// Storage is the entity registry: archetypes keyed by the hash of their
// component set plus the singleton resources that belong to no entity.
type Storage struct {
	archetypes map[uint32]*Archetype
	singletons map[reflect.Type]*singletonEntry
	registry   *ComponentRegistry
}

type singletonEntry struct {
	value   reflect.Value
	dataPtr unsafe.Pointer
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		singletons: make(map[reflect.Type]*singletonEntry),
		registry:   registry,
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// CreateEntityRef returns the stable reference for an entity, creating it on first use.
// Returns nil if the entity does not exist.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	archetype := s.archetypes[id.ArchetypeId()]
	if archetype == nil || !archetype.Alive(id) {
		return nil
	}

	if weakPtr, ok := archetype.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		archetype.refs.Del(id)
	}

	ref := &EntityRef{
		Id:        id,
		Archetype: archetype,
	}
	archetype.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current id behind a ref.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Valid() {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches a ref from its entity without deleting the entity.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if !ref.Valid() {
		return false
	}

	if archetype := s.archetypes[ref.Id.ArchetypeId()]; archetype != nil {
		archetype.refs.Del(ref.Id)
	}

	ref.Id = 0
	ref.Archetype = nil
	return true
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	archetype, _ := s.lookupArchetype(extractComponentTypes(components))
	return archetype
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := append([]reflect.Type(nil), types...)
	sort.Sort(byTypeName(sorted))
	archetype, _ := s.lookupArchetype(sorted)
	return archetype
}

// Archetypes returns every archetype in the storage in no particular order.
func (s *Storage) Archetypes() []*Archetype {
	out := make([]*Archetype, 0, len(s.archetypes))
	for _, a := range s.archetypes {
		out = append(out, a)
	}
	return out
}

// lookupArchetype finds the archetype holding exactly the sorted types. When
// none exists it returns the id a new one should take: the type hash, probed
// forward past ids already taken by other signatures.
func (s *Storage) lookupArchetype(types []reflect.Type) (*Archetype, uint32) {
	id := hashTypes(types)
	for range archetypeMask {
		archetype, taken := s.archetypes[id]
		if !taken {
			return nil, id
		}
		if slices.Equal(archetype.types, types) {
			return archetype, id
		}
		id = nextArchetypeId(id)
	}
	panic("archetype id space exhausted")
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetype, id := s.lookupArchetype(types)
	if archetype == nil {
		archetype = NewArchetype(id, types, s.registry)
		s.archetypes[id] = archetype
	}
	return archetype
}

// Spawn creates a new entity holding the provided component bundle.
// Components may be passed by value or by pointer; each type may appear once.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	return s.archetypeFor(extractComponentTypes(components)).Spawn(components)
}

// SpawnBatch spawns one entity per bundle and returns their ids in order.
func (s *Storage) SpawnBatch(bundles ...[]any) []EntityId {
	ids := make([]EntityId, 0, len(bundles))
	for _, bundle := range bundles {
		ids = append(ids, s.Spawn(bundle...))
	}
	return ids
}

// Alive reports whether the id still names a live entity.
func (s *Storage) Alive(id EntityId) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	return ok && archetype.Alive(id)
}

// Delete removes all data related to the entity ID
func (s *Storage) Delete(id EntityId) {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return
	}
	archetype.Delete(id)
}

// AddComponent attaches a component to an entity and returns the entity's new id,
// or 0 if the id does not name a live entity.
// If the entity already holds the type the value is overwritten in place.
// EntityRefs follow the entity into its new archetype.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	oldArchetype := s.archetypes[id.ArchetypeId()]
	if oldArchetype == nil || !oldArchetype.Alive(id) {
		return 0
	}

	compType := componentType(component)
	if existing := oldArchetype.GetComponent(id, compType); existing != nil {
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return id
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))
	newArchetype := s.archetypeFor(newTypes)

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(id, typ))
		}
	}

	newId := newArchetype.Spawn(components)

	if weakPtr, ok := oldArchetype.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = newArchetype
			newArchetype.refs.Put(newId, weakPtr)
		}
		oldArchetype.refs.Del(id)
	}

	oldArchetype.Delete(id)
	return newId
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok {
		return nil
	}
	return archetype.GetComponent(id, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	archetype, ok := s.archetypes[id.ArchetypeId()]
	if !ok || !archetype.Alive(id) {
		return false
	}
	return archetype.HasComponent(compType)
}

// AddSingleton stores a resource that belongs to no entity. Adding a type that
// already exists overwrites the value in place, so outstanding pointers stay valid.
func (s *Storage) AddSingleton(value any) {
	typ := reflect.TypeOf(value)
	if typ == nil {
		panic("cannot add nil singleton")
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	v := reflect.Indirect(reflect.ValueOf(value))

	if entry, ok := s.singletons[typ]; ok {
		entry.value.Elem().Set(v)
		return
	}

	holder := reflect.New(typ)
	holder.Elem().Set(v)
	s.singletons[typ] = &singletonEntry{
		value:   holder,
		dataPtr: holder.UnsafePointer(),
	}
}

// RemoveSingleton drops a resource. Singleton accessors observe nil afterwards.
func (s *Storage) RemoveSingleton(typ reflect.Type) {
	delete(s.singletons, typ)
}

// ReadSingleton points target (a **T) at the stored singleton of type T.
// Returns false if no such singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Ptr {
		panic("ReadSingleton target must be a pointer to a pointer")
	}

	typ := rv.Elem().Type().Elem()
	entry := s.getSingletonEntry(typ)
	if entry == nil {
		return false
	}
	rv.Elem().Set(reflect.NewAt(typ, entry.dataPtr))
	return true
}

func (s *Storage) getSingletonEntry(typ reflect.Type) *singletonEntry {
	return s.singletons[typ]
}

func componentType(comp any) reflect.Type {
	compType := reflect.TypeOf(comp)
	if compType == nil {
		panic("cannot use nil as a component")
	}
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	switch compType.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

// extractComponentTypes returns the sorted component types of a bundle
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := componentType(comp)
		for _, seen := range types {
			if seen == compType {
				panic("duplicate component type " + compType.String() + " in bundle")
			}
		}
		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// eface mirrors the runtime layout of an empty interface.
type eface struct {
	typ, data unsafe.Pointer
}

// dataPointer returns the value word of v. For pointer components this is the
// pointer itself; for a reflect.Type it is the *rtype, which is unique per type.
func dataPointer(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

func typeId(t reflect.Type) uintptr {
	return uintptr(dataPointer(t))
}

// hashTypes derives the preferred archetype id of a sorted type list. Zero is
// reserved for invalidated EntityRefs.
func hashTypes(types []reflect.Type) uint32 {
	var buf [8]byte
	digest := xxhash.New()
	for _, t := range types {
		binary.LittleEndian.PutUint64(buf[:], uint64(typeId(t)))
		_, _ = digest.Write(buf[:])
	}

	sum := digest.Sum64()
	h := (uint32(sum) ^ uint32(sum>>32)) & archetypeMask
	if h == 0 {
		h = 1
	}
	return h
}

func nextArchetypeId(id uint32) uint32 {
	id = (id + 1) & archetypeMask
	if id == 0 {
		id = 1
	}
	return id
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent fetches a typed component pointer, or nil if absent.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
