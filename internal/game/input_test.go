package game_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
	"github.com/stretchr/testify/assert"
)

const (
	w = game.KeyForward
	s = game.KeyBack
	a = game.KeyLeft
	d = game.KeyRight
)

func TestRawDirectionCombinations(t *testing.T) {
	tests := []struct {
		keys []game.Key
		want mgl32.Vec3
	}{
		{nil, mgl32.Vec3{0, 0, 0}},
		{[]game.Key{w}, mgl32.Vec3{-1, 0, -1}},
		{[]game.Key{s}, mgl32.Vec3{1, 0, 1}},
		{[]game.Key{a}, mgl32.Vec3{-1, 0, 1}},
		{[]game.Key{d}, mgl32.Vec3{1, 0, -1}},
		{[]game.Key{w, s}, mgl32.Vec3{0, 0, 0}},
		{[]game.Key{w, a}, mgl32.Vec3{-2, 0, 0}},
		{[]game.Key{w, d}, mgl32.Vec3{0, 0, -2}},
		{[]game.Key{s, a}, mgl32.Vec3{0, 0, 2}},
		{[]game.Key{s, d}, mgl32.Vec3{2, 0, 0}},
		{[]game.Key{a, d}, mgl32.Vec3{0, 0, 0}},
		{[]game.Key{w, s, a}, mgl32.Vec3{-1, 0, 1}},
		{[]game.Key{w, s, d}, mgl32.Vec3{1, 0, -1}},
		{[]game.Key{w, a, d}, mgl32.Vec3{-1, 0, -1}},
		{[]game.Key{s, a, d}, mgl32.Vec3{1, 0, 1}},
		{[]game.Key{w, s, a, d}, mgl32.Vec3{0, 0, 0}},
	}

	seen := map[game.KeySet]bool{}
	for _, tt := range tests {
		keys := game.KeysOf(tt.keys...)
		t.Run(keys.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, game.RawDirection(keys))
		})
		seen[keys] = true
	}
	assert.Len(t, seen, 16)
}

func TestMoveDirectionIsUnitOrZero(t *testing.T) {
	for set := game.KeySet(0); set < 16; set++ {
		raw := game.RawDirection(set)
		dir := game.MoveDirection(set)

		if raw.LenSqr() == 0 {
			assert.Equal(t, mgl32.Vec3{}, dir, set.String())
			continue
		}
		assert.InDelta(t, 1.0, dir.Len(), 1e-6, set.String())
		assert.InDelta(t, 0, dir.Y(), 1e-9, set.String())
		assert.True(t, dir.ApproxEqualThreshold(raw.Normalize(), 1e-6), set.String())
	}
}

func TestKeySet(t *testing.T) {
	set := game.KeysOf(w, d)
	assert.True(t, set.Has(w))
	assert.True(t, set.Has(d))
	assert.False(t, set.Has(a))
	assert.Equal(t, "WD", set.String())

	set = set.Without(w)
	assert.Equal(t, "D", set.String())
	assert.True(t, set.Without(d).Empty())
	assert.Equal(t, "-", game.KeySet(0).String())
}
