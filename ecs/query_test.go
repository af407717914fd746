package ecs_test

import (
	"testing"

	"github.com/plus3/isoarena/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)

	storage := ecs.NewStorage(registry)

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	t.Run("execute builds cache", func(t *testing.T) {
		query.Execute()
		assert.Equal(t, 3, query.Len())
	})

	t.Run("panics without execute", func(t *testing.T) {
		freshQuery := ecs.NewQuery[struct {
			*Position
			*Velocity
		}](storage)

		assert.Panics(t, func() {
			for range freshQuery.Iter() {
			}
		})
		assert.Panics(t, func() { freshQuery.Single() })
	})

	t.Run("cache reflects new spawns after re-execute", func(t *testing.T) {
		query.Execute()
		initialCount := query.Len()

		storage.Spawn(Position{X: 10, Y: 10}, Velocity{DX: 2.0, DY: 2.0})
		assert.Equal(t, initialCount, query.Len())

		query.Execute()
		assert.Equal(t, initialCount+1, query.Len())
	})

	t.Run("cache reflects new archetypes after re-execute", func(t *testing.T) {
		query.Execute()
		before := query.Len()

		storage.Spawn(Velocity{DX: 1}, Position{X: 1}, Health{Current: 1})
		query.Execute()
		assert.Equal(t, before+1, query.Len())
	})

	t.Run("iter values", func(t *testing.T) {
		query.Execute()

		count := 0
		for item := range query.Values() {
			assert.NotNil(t, item.Position)
			assert.NotNil(t, item.Velocity)
			count++
		}
		assert.Equal(t, query.Len(), count)
	})
}

func TestQuerySingle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	cameras := ecs.NewQuery[struct {
		*Position
		*Camera
	}](storage)

	t.Run("no match", func(t *testing.T) {
		cameras.Execute()
		result := cameras.Single()
		assert.Equal(t, ecs.NoMatch, result.Cardinality)
		assert.Equal(t, 0, result.Matches)
		_, ok := result.Get()
		assert.False(t, ok)
		assert.Panics(t, func() { cameras.MustSingle() })
	})

	first := storage.Spawn(Position{X: 5, Y: 12}, Camera{})

	t.Run("one match", func(t *testing.T) {
		cameras.Execute()
		result := cameras.Single()
		assert.Equal(t, ecs.OneMatch, result.Cardinality)
		item, ok := result.Get()
		assert.True(t, ok)
		assert.Equal(t, first, result.Id)
		assert.Equal(t, float32(12), item.Position.Y)

		id, _ := cameras.MustSingle()
		assert.Equal(t, first, id)
	})

	storage.Spawn(Position{X: 0, Y: 0}, Camera{})

	t.Run("many matches", func(t *testing.T) {
		cameras.Execute()
		result := cameras.Single()
		assert.Equal(t, ecs.ManyMatches, result.Cardinality)
		assert.Equal(t, 2, result.Matches)
		assert.Equal(t, "many", result.Cardinality.String())
		_, ok := result.Get()
		assert.False(t, ok)
		assert.Panics(t, func() { cameras.MustSingle() })
	})
}
