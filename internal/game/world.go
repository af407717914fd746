package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/rs/zerolog"
)

// Setup holds everything the startup systems need to seed a session.
type Setup struct {
	Rules   GameRules
	Player  PlayerSpec
	Enemies []EnemySpec
	Camera  CameraSpec
	Ground  GroundSpec
}

// DefaultSetup is the stock arena: one player, one enemy, the classic rules
// and a camera looking down the (-1, 0, -1) diagonal.
func DefaultSetup() Setup {
	return Setup{
		Rules: DefaultRules(),
		Player: PlayerSpec{
			Name:   "Alice",
			Health: 100,
			Speed:  2,
			Spawn:  mgl32.Vec3{1.5, 0.5, 1.5},
			Size:   mgl32.Vec3{1, 1, 1},
			Color:  SRGB(0.8, 0.7, 0.6),
		},
		Enemies: []EnemySpec{
			{Name: "Bad guy", Health: 100},
		},
		// Tracking keeps the camera directly above the player, which puts
		// the player about 9.4 units below the view centre at this tilt.
		Camera: CameraSpec{
			Position:      mgl32.Vec3{5, 12, 16},
			FixedVertical: 24,
		},
		Ground: GroundSpec{
			Size:  16,
			Color: SRGB(0.3, 0.5, 0.3),
		},
	}
}

// NewRegistry registers every component type the game spawns.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[Enemy](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Speed](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Visual](registry)
	ecs.RegisterComponent[Viewpoint](registry)
	ecs.RegisterComponent[Projection](registry)
	ecs.RegisterComponent[Ground](registry)
	return registry
}

// World is a ready-to-tick session: storage, resources and the scheduler
// with the game's systems registered in order.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	input *ecs.Singleton[InputState]
	state *ecs.Singleton[GameState]
	phase *ecs.Singleton[MainState]
}

// NewWorld builds a session. Hosts may register extra frame systems on
// w.Scheduler before the first Tick; they run after viewpoint tracking.
func NewWorld(setup Setup, logger zerolog.Logger) *World {
	storage := ecs.NewStorage(NewRegistry())

	w := &World{
		Storage: storage,
		input:   ecs.NewSingleton[InputState](storage),
		state:   ecs.NewSingleton[GameState](storage),
		phase:   ecs.NewSingleton(storage, StateLoadAssets),
	}

	w.Scheduler = ecs.NewScheduler(storage)
	w.Scheduler.SetLogger(logger.With().Str("component", "scheduler").Logger())

	w.Scheduler.RegisterStartup(NewCameraSetup(setup.Camera))
	w.Scheduler.RegisterStartup(NewSceneSetup(setup.Ground))
	w.Scheduler.RegisterStartup(NewBootstrap(setup, logger.With().Str("system", "Bootstrap").Logger()))

	w.Scheduler.Register(&MovementSystem{})
	w.Scheduler.Register(NewViewpointTrackingSystem(logger.With().Str("system", "ViewpointTracking").Logger()))

	return w
}

// Tick publishes the held keys and runs one frame.
func (w *World) Tick(dt float64, keys KeySet) {
	w.input.Get().Pressed = keys
	w.Scheduler.Once(dt)
}

// State returns the live game state resource.
func (w *World) State() *GameState {
	return w.state.Get()
}

// Phase returns the current application phase.
func (w *World) Phase() MainState {
	if p := w.phase.Get(); p != nil {
		return *p
	}
	return StateLoadAssets
}

// Rules returns the rules inserted by bootstrap, or nil before the first tick.
func (w *World) Rules() *GameRules {
	var rules *GameRules
	if !w.Storage.ReadSingleton(&rules) {
		return nil
	}
	return rules
}
