package game

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
)

// GroundSpec is the arena floor.
type GroundSpec struct {
	Size  float32
	Color color.RGBA
}

// Ground tags the arena floor.
type Ground struct{}

// SceneSetup spawns the static scenery.
type SceneSetup struct {
	ground GroundSpec
}

func NewSceneSetup(ground GroundSpec) *SceneSetup {
	return &SceneSetup{ground: ground}
}

func (s *SceneSetup) Execute(frame *ecs.UpdateFrame) {
	if s.ground.Size <= 0 {
		return
	}
	frame.Commands.Spawn(
		Ground{},
		TransformFromXYZ(0, 0, 0),
		Visual{
			Shape: ShapePlane,
			Size:  mgl32.Vec3{s.ground.Size, 0, s.ground.Size},
			Color: s.ground.Color,
		},
	)
}
