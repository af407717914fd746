package ecs

import (
	"reflect"
	"unsafe"
)

// Singleton provides direct access to a resource that is not owned by any entity,
// such as game state or rules. Declare it as a system field to have the
// Scheduler wire it on Register.
type Singleton[T any] struct {
	storage       *Storage
	componentPtr  unsafe.Pointer
	componentType reflect.Type
}

// NewSingleton returns an accessor for the T resource, creating the resource
// from initializer (or the zero value) if it does not exist yet.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	componentType := reflect.TypeFor[T]()

	if storage.getSingletonEntry(componentType) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the accessor to a storage without creating the resource.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.componentType = reflect.TypeFor[T]()
	s.updateCache()
}

// Get returns a pointer to the resource, or nil if it has not been added.
func (s *Singleton[T]) Get() *T {
	s.updateCache()
	if s.componentPtr == nil {
		return nil
	}
	return (*T)(s.componentPtr)
}

// Exists returns true if the resource has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if entry := s.storage.getSingletonEntry(s.componentType); entry != nil {
		s.componentPtr = entry.dataPtr
	} else {
		s.componentPtr = nil
	}
}
