package ecs

import (
	"reflect"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchetypeIdCollision(t *testing.T) {
	registry := NewComponentRegistry()
	RegisterComponent[int](registry)
	RegisterComponent[string](registry)
	storage := NewStorage(registry)

	ints := extractComponentTypes([]any{1})
	strs := extractComponentTypes([]any{"x"})

	// Another signature already owns the id the int bundle hashes to.
	squatter := NewArchetype(hashTypes(ints), strs, registry)
	storage.archetypes[squatter.id] = squatter

	id := storage.Spawn(7)
	assert.NotEqual(t, squatter.id, id.ArchetypeId())
	assert.Equal(t, nextArchetypeId(squatter.id), id.ArchetypeId())
	assert.Equal(t, 7, *ReadComponent[int](storage, id))
	assert.Equal(t, 0, squatter.Len())

	assert.Same(t, storage.archetypes[id.ArchetypeId()], storage.GetArchetype(0))
	assert.Same(t, storage.archetypes[id.ArchetypeId()], storage.GetArchetypeByTypes(ints))

	again := storage.Spawn(8)
	assert.Equal(t, id.ArchetypeId(), again.ArchetypeId())
}

func TestArchetypeIdWraps(t *testing.T) {
	assert.Equal(t, uint32(1), nextArchetypeId(archetypeMask))
	assert.Equal(t, uint32(6), nextArchetypeId(5))
	assert.LessOrEqual(t, hashTypes(extractComponentTypes([]any{1, "x", 2.0})), uint32(archetypeMask))
}

func TestTypeOrderBreaksNameTies(t *testing.T) {
	first := reflect.TypeOf(func() any {
		type marker struct{}
		return marker{}
	}())
	second := reflect.TypeOf(func() any {
		type marker struct{ X int }
		return marker{}
	}())
	require.Equal(t, first.String(), second.String())
	require.NotEqual(t, first, second)

	a := []reflect.Type{first, second}
	b := []reflect.Type{second, first}
	sort.Sort(byTypeName(a))
	sort.Sort(byTypeName(b))

	assert.Equal(t, a, b)
	assert.Equal(t, hashTypes(a), hashTypes(b))
}
