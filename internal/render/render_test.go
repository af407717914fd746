package render_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
	"github.com/plus3/isoarena/internal/render"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultCamera(width, height int) render.Camera {
	t := game.TransformFromXYZ(5, 12, 16).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	p := game.Projection{Kind: game.ProjectionOrthographic, FixedVertical: 16, Near: -1000, Far: 1000}
	return render.NewCamera(t, p, width, height)
}

func TestCameraProject(t *testing.T) {
	cam := defaultCamera(800, 600)

	center, ok := cam.Project(mgl32.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 400, center.X(), 1e-3)
	assert.InDelta(t, 300, center.Y(), 1e-3)

	// anything on the line of sight lands on the same pixel
	along, ok := cam.Project(mgl32.Vec3{5, 12, 16}.Mul(0.5))
	require.True(t, ok)
	assert.InDelta(t, center.X(), along.X(), 1e-2)
	assert.InDelta(t, center.Y(), along.Y(), 1e-2)

	up, _ := cam.Project(mgl32.Vec3{0, 1, 0})
	assert.Less(t, up.Y(), center.Y(), "world up is screen up")

	forward, _ := cam.Project(game.KeyForward.Direction())
	back, _ := cam.Project(game.KeyBack.Direction())
	left, _ := cam.Project(game.KeyLeft.Direction())
	right, _ := cam.Project(game.KeyRight.Direction())
	assert.Less(t, forward.Y(), center.Y())
	assert.Greater(t, back.Y(), center.Y())
	assert.Less(t, left.X(), center.X())
	assert.Greater(t, right.X(), center.X())
}

func TestCameraFixedVertical(t *testing.T) {
	cam := defaultCamera(1000, 500)

	// 16 world units span the full viewport height
	a, _ := cam.Project(mgl32.Vec3{})
	b, _ := cam.Project(game.TransformFromXYZ(5, 12, 16).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}).Up().Mul(8))
	assert.InDelta(t, 0, b.Y(), 1e-2)
	assert.InDelta(t, 250, a.Y()-b.Y(), 1e-2)
}

func TestCameraFacing(t *testing.T) {
	cam := defaultCamera(640, 480)
	assert.True(t, cam.Facing(mgl32.Vec3{0, 1, 0}))
	assert.True(t, cam.Facing(mgl32.Vec3{1, 0, 0}))
	assert.True(t, cam.Facing(mgl32.Vec3{0, 0, 1}))
	assert.False(t, cam.Facing(mgl32.Vec3{0, -1, 0}))
	assert.False(t, cam.Facing(mgl32.Vec3{-1, 0, 0}))
	assert.False(t, cam.Facing(mgl32.Vec3{0, 0, -1}))

	assert.Greater(t, cam.Depth(mgl32.Vec3{-1, 0, -1}), cam.Depth(mgl32.Vec3{1, 0, 1}))
}

func TestSceneSnapshot(t *testing.T) {
	world := game.NewWorld(game.DefaultSetup(), zerolog.Nop())
	scene := render.NewScene(world.Storage)

	_, ok := scene.Snapshot(1280, 720)
	assert.False(t, ok, "no viewpoint before the first tick")

	world.Tick(0.016, 0)

	frame, ok := scene.Snapshot(1280, 720)
	require.True(t, ok)
	require.Len(t, frame.Drawables, 2)
	assert.Equal(t, game.ShapePlane, frame.Drawables[0].Visual.Shape, "floor first")
	assert.Equal(t, game.ShapeCuboid, frame.Drawables[1].Visual.Shape)

	player := frame.Drawables[1]
	faces := player.Faces(frame.Camera)
	require.Len(t, faces, 3, "top and two sides face an overhead diagonal camera")
	for _, f := range faces {
		assert.True(t, frame.Camera.Facing(f.Normal))
		assert.Equal(t, uint8(0xff), f.Color.A)
	}

	// tracking keeps the camera directly above the player, so its footprint is centred horizontally
	p, ok := frame.Camera.Project(player.Transform.Translation.Sub(mgl32.Vec3{0, 0.5, 0}))
	require.True(t, ok)
	assert.InDelta(t, 640, p.X(), 1)
}

func TestSceneSortsBackToFront(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	cam := game.TransformFromXYZ(5, 12, 16).LookingAt(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	storage.Spawn(cam, game.Projection{FixedVertical: 16, Near: -100, Far: 100}, game.Viewpoint{})

	cube := game.Visual{Shape: game.ShapeCuboid, Size: mgl32.Vec3{1, 1, 1}}
	near := storage.Spawn(game.TransformFromXYZ(2, 0, 2), cube)
	far := storage.Spawn(game.TransformFromXYZ(-2, 0, -2), cube)
	mid := storage.Spawn(game.TransformFromXYZ(0, 0, 0), cube)

	frame, ok := render.NewScene(storage).Snapshot(100, 100)
	require.True(t, ok)

	var order []ecs.EntityId
	for _, d := range frame.Drawables {
		order = append(order, d.Entity)
	}
	assert.Equal(t, []ecs.EntityId{far, mid, near}, order)
}

func TestSceneNeedsSingleViewpoint(t *testing.T) {
	storage := ecs.NewStorage(game.NewRegistry())
	p := game.Projection{FixedVertical: 16, Near: -100, Far: 100}
	storage.Spawn(game.TransformFromXYZ(5, 12, 16), p, game.Viewpoint{})
	storage.Spawn(game.TransformFromXYZ(-5, 12, 16), p, game.Viewpoint{})

	_, ok := render.NewScene(storage).Snapshot(100, 100)
	assert.False(t, ok)
}
