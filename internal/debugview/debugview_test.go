package debugview

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameHistory(t *testing.T) {
	h := newFrameHistory(3)
	assert.Zero(t, h.Average())

	h.Push(10)
	h.Push(20)
	assert.Equal(t, float32(15), h.Average(), "unfilled slots are ignored")

	h.Push(30)
	h.Push(40)
	assert.Equal(t, float32(30), h.Average(), "oldest sample is overwritten")
}

func TestArenaRoster(t *testing.T) {
	setup := game.DefaultSetup()
	setup.Enemies = append(setup.Enemies, game.EnemySpec{Name: "Archer", Health: 40})

	world := game.NewWorld(setup, zerolog.Nop())
	panel := NewArenaPanel(world)
	assert.Empty(t, panel.Roster())

	world.Tick(0.016, 0)

	entries := panel.Roster()
	require.Len(t, entries, 3)

	sortRoster(entries, columnName, true)
	assert.Equal(t, []string{"Alice", "Archer", "Bad guy"}, names(entries))

	alice := entries[0]
	assert.Equal(t, "player", alice.Kind)
	require.NotNil(t, alice.Position)
	assert.Equal(t, mgl32.Vec3{1.5, 0.5, 1.5}, *alice.Position)
	assert.Nil(t, entries[1].Position)

	sortRoster(entries, columnHealth, false)
	assert.ElementsMatch(t, []string{"Alice", "Bad guy"}, names(entries[:2]))
	assert.Equal(t, "Archer", entries[2].Name)

	assert.Equal(t, []string{"Alice"}, names(filterRoster(entries, "PLAYER")))
	assert.Equal(t, []string{"Bad guy"}, names(filterRoster(entries, "bad")))
	assert.Len(t, filterRoster(entries, ""), 3)
}

func names(entries []RosterEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}
