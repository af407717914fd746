package game

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/rs/zerolog"
)

// PlayerSpec describes the player bootstrap spawns.
type PlayerSpec struct {
	Name   string
	Health uint32
	Speed  float32
	Spawn  mgl32.Vec3
	Size   mgl32.Vec3
	Color  color.RGBA
}

// Bundle returns the components of a freshly spawned player.
func (p PlayerSpec) Bundle() []any {
	t := TransformFromXYZ(p.Spawn.Elem())
	return []any{
		Player{Name: p.Name},
		Health{Current: p.Health, Max: p.Health},
		Score{},
		Velocity{},
		Speed{Current: p.Speed, Max: p.Speed},
		t,
		Visual{Shape: ShapeCuboid, Size: p.Size, Color: p.Color},
	}
}

// EnemySpec describes one enemy bootstrap spawns.
type EnemySpec struct {
	Name   string
	Health uint32
}

func (e EnemySpec) Bundle() []any {
	return []any{
		Enemy{Name: e.Name},
		Health{Current: e.Health, Max: e.Health},
	}
}

// Bootstrap seeds a new session: the rules, the player and the enemies.
// Register it as a startup system; running it twice doubles the roster.
type Bootstrap struct {
	State ecs.Singleton[GameState]
	Phase ecs.Singleton[MainState]

	rules   GameRules
	player  PlayerSpec
	enemies []EnemySpec
	log     zerolog.Logger
}

func NewBootstrap(setup Setup, logger zerolog.Logger) *Bootstrap {
	return &Bootstrap{
		rules:   setup.Rules,
		player:  setup.Player,
		enemies: setup.Enemies,
		log:     logger,
	}
}

func (b *Bootstrap) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.InsertSingleton(b.rules)

	const players = 1
	frame.Commands.Spawn(b.player.Bundle()...)

	bundles := make([][]any, 0, len(b.enemies))
	for _, e := range b.enemies {
		bundles = append(bundles, e.Bundle())
	}
	frame.Commands.SpawnBatch(bundles...)

	if state := b.State.Get(); state != nil {
		state.TotalPlayers = players
	} else {
		frame.Commands.InsertSingleton(GameState{TotalPlayers: players})
	}

	frame.Commands.Defer(func() {
		if phase := b.Phase.Get(); phase != nil {
			*phase = StateGame
		}
	})

	b.log.Info().
		Str("player", b.player.Name).
		Int("players", players).
		Int("enemies", len(b.enemies)).
		Uint32("winning_score", b.rules.WinningScore).
		Uint32("max_rounds", b.rules.MaxRounds).
		Msg("bootstrap complete")
}
