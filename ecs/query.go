package ecs

import (
	"fmt"
	"iter"
)

// Query wraps a View with per-frame caching. The Scheduler calls Execute right
// before the owning system runs, so the cache reflects every write made by
// systems earlier in the same frame.
type Query[T any] struct {
	view               *View[T]
	storage            *Storage
	cachedArchetypes   []*Archetype
	lastArchetypeCount int

	cachedEntities   []EntityId
	cachedComponents []T
	cacheValid       bool
}

// NewQuery creates a new Query with archetype-level caching.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cachedArchetypes = nil
	q.lastArchetypeCount = -1
	q.cacheValid = false
}

// Execute rebuilds the entity and component caches.
func (q *Query[T]) Execute() {
	if count := len(q.storage.archetypes); count != q.lastArchetypeCount {
		q.cachedArchetypes = q.cachedArchetypes[:0]
		for _, archetype := range q.storage.archetypes {
			if q.view.matchesArchetype(archetype) {
				q.cachedArchetypes = append(q.cachedArchetypes, archetype)
			}
		}
		q.lastArchetypeCount = count
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]
	for _, archetype := range q.cachedArchetypes {
		for id, item := range q.view.iterArchetype(archetype) {
			q.cachedEntities = append(q.cachedEntities, id)
			q.cachedComponents = append(q.cachedComponents, item)
		}
	}

	q.cacheValid = true
}

func (q *Query[T]) mustBeExecuted(method string) {
	if !q.cacheValid {
		panic("Query." + method + "() called before Query.Execute()")
	}
}

// Len returns the number of matches found by the last Execute.
func (q *Query[T]) Len() int {
	q.mustBeExecuted("Len")
	return len(q.cachedEntities)
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.mustBeExecuted("Iter")
	return func(yield func(EntityId, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	q.mustBeExecuted("Values")
	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Cardinality classifies how many entities matched a query expected to be unique.
type Cardinality uint8

const (
	NoMatch Cardinality = iota
	OneMatch
	ManyMatches
)

func (c Cardinality) String() string {
	switch c {
	case NoMatch:
		return "none"
	case OneMatch:
		return "one"
	default:
		return "many"
	}
}

// SingleResult is the outcome of a singleton lookup. Id and Value are only
// meaningful when Cardinality is OneMatch.
type SingleResult[T any] struct {
	Id          EntityId
	Value       T
	Matches     int
	Cardinality Cardinality
}

// Get returns the match and true only if exactly one entity matched.
func (r SingleResult[T]) Get() (T, bool) {
	return r.Value, r.Cardinality == OneMatch
}

// Single classifies the cached matches as none, one, or many.
// Panics if Execute() has not been called.
func (q *Query[T]) Single() SingleResult[T] {
	q.mustBeExecuted("Single")

	result := SingleResult[T]{Matches: len(q.cachedEntities)}
	switch result.Matches {
	case 0:
		result.Cardinality = NoMatch
	case 1:
		result.Cardinality = OneMatch
		result.Id = q.cachedEntities[0]
		result.Value = q.cachedComponents[0]
	default:
		result.Cardinality = ManyMatches
	}
	return result
}

// MustSingle returns the only match and panics otherwise. Use it where a
// missing or duplicated entity can only be a programming error.
func (q *Query[T]) MustSingle() (EntityId, T) {
	result := q.Single()
	if result.Cardinality != OneMatch {
		panic(fmt.Sprintf("Query.MustSingle(): expected exactly one match, found %d", result.Matches))
	}
	return result.Id, result.Value
}
