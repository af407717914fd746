package game_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func spawnViewpoint(storage *ecs.Storage, x, y, z float32) ecs.EntityId {
	return storage.Spawn(game.TransformFromXYZ(x, y, z), game.Viewpoint{})
}

func TestViewpointTracksPlayer(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	spawnPlayer(storage, mgl32.Vec3{3, 0.5, 7}, 2)
	view := spawnViewpoint(storage, 5, 12, 16)
	before := *ecs.ReadComponent[game.Transform](storage, view)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(game.NewViewpointTrackingSystem(zerolog.Nop()))
	scheduler.Once(0.016)

	after := ecs.ReadComponent[game.Transform](storage, view)
	assert.Equal(t, mgl32.Vec3{3, 12, 7}, after.Translation)
	assert.Equal(t, before.Rotation, after.Rotation)
	assert.Equal(t, before.Scale, after.Scale)
}

func TestViewpointSameFrameAsMovement(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	player := spawnPlayer(storage, mgl32.Vec3{0, 0.5, 0}, 2)
	view := spawnViewpoint(storage, 5, 12, 16)

	input := ecs.NewSingleton[game.InputState](storage)
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&game.MovementSystem{})
	scheduler.Register(game.NewViewpointTrackingSystem(zerolog.Nop()))

	input.Get().Pressed = game.KeysOf(game.KeyLeft)
	scheduler.Once(0.5)

	p := ecs.ReadComponent[game.Transform](storage, player).Translation
	v := ecs.ReadComponent[game.Transform](storage, view).Translation
	assert.Equal(t, p.X(), v.X())
	assert.Equal(t, p.Z(), v.Z())
	assert.Equal(t, float32(12), v.Y())
}

func TestViewpointSkipsAmbiguousWorlds(t *testing.T) {
	t.Run("two viewpoints", func(t *testing.T) {
		var buf bytes.Buffer
		storage := ecs.NewStorage(game.NewRegistry())
		spawnPlayer(storage, mgl32.Vec3{3, 0.5, 7}, 2)
		first := spawnViewpoint(storage, 5, 12, 16)
		second := spawnViewpoint(storage, -5, 12, -16)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(game.NewViewpointTrackingSystem(zerolog.New(&buf)))
		scheduler.Once(0.016)
		scheduler.Once(0.016)

		assert.Equal(t, mgl32.Vec3{5, 12, 16}, ecs.ReadComponent[game.Transform](storage, first).Translation)
		assert.Equal(t, mgl32.Vec3{-5, 12, -16}, ecs.ReadComponent[game.Transform](storage, second).Translation)
		assert.Equal(t, 1, strings.Count(buf.String(), "ambiguous match"), "diagnostic is logged once per change")
		assert.Contains(t, buf.String(), `"matches":2`)
	})

	t.Run("no player", func(t *testing.T) {
		storage := ecs.NewStorage(game.NewRegistry())
		view := spawnViewpoint(storage, 5, 12, 16)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(game.NewViewpointTrackingSystem(zerolog.Nop()))
		assert.NotPanics(t, func() { scheduler.Once(0.016) })
		assert.Equal(t, mgl32.Vec3{5, 12, 16}, ecs.ReadComponent[game.Transform](storage, view).Translation)
	})

	t.Run("no viewpoint", func(t *testing.T) {
		storage := ecs.NewStorage(game.NewRegistry())
		player := spawnPlayer(storage, mgl32.Vec3{3, 0.5, 7}, 2)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(game.NewViewpointTrackingSystem(zerolog.Nop()))
		assert.NotPanics(t, func() { scheduler.Once(0.016) })
		assert.Equal(t, mgl32.Vec3{3, 0.5, 7}, ecs.ReadComponent[game.Transform](storage, player).Translation)
	})

	t.Run("entity that is both player and viewpoint is ignored", func(t *testing.T) {
		storage := ecs.NewStorage(game.NewRegistry())
		spawnPlayer(storage, mgl32.Vec3{3, 0.5, 7}, 2)
		hybrid := storage.Spawn(game.TransformFromXYZ(9, 9, 9), game.Player{Name: "Mirror"}, game.Viewpoint{})
		view := spawnViewpoint(storage, 5, 12, 16)

		scheduler := ecs.NewScheduler(storage)
		scheduler.Register(game.NewViewpointTrackingSystem(zerolog.Nop()))
		scheduler.Once(0.016)

		assert.Equal(t, mgl32.Vec3{3, 12, 7}, ecs.ReadComponent[game.Transform](storage, view).Translation)
		assert.Equal(t, mgl32.Vec3{9, 9, 9}, ecs.ReadComponent[game.Transform](storage, hybrid).Translation)
	})
}

func TestViewpointResumesAfterAmbiguity(t *testing.T) {
	var buf bytes.Buffer
	storage := ecs.NewStorage(game.NewRegistry())
	spawnPlayer(storage, mgl32.Vec3{3, 0.5, 7}, 2)
	view := spawnViewpoint(storage, 5, 12, 16)
	extra := spawnViewpoint(storage, 0, 12, 0)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(game.NewViewpointTrackingSystem(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	scheduler.Once(0.016)

	storage.Delete(extra)
	scheduler.Once(0.016)

	assert.Equal(t, mgl32.Vec3{3, 12, 7}, ecs.ReadComponent[game.Transform](storage, view).Translation)
	assert.Contains(t, buf.String(), "viewpoint tracking resumed")
}
