package game_test

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roster struct {
	players *ecs.Query[struct {
		*game.Player
		*game.Health
		*game.Score
		*game.Speed
		*game.Velocity
		*game.Transform
		*game.Visual
	}]
	enemies *ecs.Query[struct {
		*game.Enemy
		*game.Health
	}]
}

func newRoster(storage *ecs.Storage) roster {
	r := roster{
		players: ecs.NewQuery[struct {
			*game.Player
			*game.Health
			*game.Score
			*game.Speed
			*game.Velocity
			*game.Transform
			*game.Visual
		}](storage),
		enemies: ecs.NewQuery[struct {
			*game.Enemy
			*game.Health
		}](storage),
	}
	r.players.Execute()
	r.enemies.Execute()
	return r
}

func TestBootstrap(t *testing.T) {
	var buf bytes.Buffer
	storage := ecs.NewStorage(game.NewRegistry())
	state := ecs.NewSingleton[game.GameState](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(game.NewBootstrap(game.DefaultSetup(), zerolog.New(&buf)))
	scheduler.Once(0)

	r := newRoster(storage)
	require.Equal(t, 1, r.players.Len())
	require.Equal(t, 1, r.enemies.Len())

	_, player := r.players.MustSingle()
	assert.Equal(t, "Alice", player.Player.Name)
	assert.Equal(t, game.Health{Current: 100, Max: 100}, *player.Health)
	assert.Equal(t, uint32(0), player.Score.Value)
	assert.Equal(t, game.Speed{Current: 2, Max: 2}, *player.Speed)
	assert.Equal(t, mgl32.Vec3{}, player.Velocity.Linear)
	assert.Equal(t, mgl32.Vec3{1.5, 0.5, 1.5}, player.Transform.Translation)
	assert.Equal(t, game.ShapeCuboid, player.Visual.Shape)
	assert.Equal(t, game.SRGB(0.8, 0.7, 0.6), player.Visual.Color)

	_, enemy := r.enemies.MustSingle()
	assert.Equal(t, "Bad guy", enemy.Enemy.Name)
	assert.Equal(t, uint32(100), enemy.Health.Current)

	var rules *game.GameRules
	require.True(t, storage.ReadSingleton(&rules))
	assert.Equal(t, game.GameRules{WinningScore: 4, MaxRounds: 10, MaxPlayers: 4}, *rules)

	assert.Equal(t, uint32(1), state.Get().TotalPlayers)
	assert.Equal(t, uint32(0), state.Get().CurrentRound)
	assert.False(t, state.Get().HasWinner())

	assert.Contains(t, buf.String(), "bootstrap complete")
	assert.Contains(t, buf.String(), `"player":"Alice"`)
}

func TestBootstrapRunsOncePerSession(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	ecs.NewSingleton[game.GameState](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(game.NewBootstrap(game.DefaultSetup(), zerolog.Nop()))
	for range 5 {
		scheduler.Once(0.016)
	}

	r := newRoster(storage)
	assert.Equal(t, 1, r.players.Len())
	assert.Equal(t, 1, r.enemies.Len())
}

func TestBootstrapTwiceDoublesRoster(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	ecs.NewSingleton[game.GameState](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(game.NewBootstrap(game.DefaultSetup(), zerolog.Nop()))
	scheduler.RegisterStartup(game.NewBootstrap(game.DefaultSetup(), zerolog.Nop()))
	scheduler.Once(0)

	r := newRoster(storage)
	assert.Equal(t, 2, r.players.Len())
	assert.Equal(t, 2, r.enemies.Len())
	assert.Equal(t, ecs.ManyMatches, r.players.Single().Cardinality)
}

func TestBootstrapCreatesMissingState(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())

	setup := game.DefaultSetup()
	setup.Enemies = []game.EnemySpec{{Name: "a", Health: 10}, {Name: "b", Health: 20}, {Name: "c", Health: 30}}
	setup.Rules.WinningScore = 7

	scheduler := ecs.NewScheduler(storage)
	scheduler.RegisterStartup(game.NewBootstrap(setup, zerolog.Nop()))
	scheduler.Once(0)

	var state *game.GameState
	require.True(t, storage.ReadSingleton(&state))
	assert.Equal(t, uint32(1), state.TotalPlayers)

	var rules *game.GameRules
	require.True(t, storage.ReadSingleton(&rules))
	assert.Equal(t, uint32(7), rules.WinningScore)

	assert.Equal(t, 3, newRoster(storage).enemies.Len())
}
