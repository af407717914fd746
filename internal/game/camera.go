package game

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
)

// CameraSpec places the viewpoint. The offset from the target fixes the
// view angle for the whole session.
type CameraSpec struct {
	Position      mgl32.Vec3
	Target        mgl32.Vec3
	FixedVertical float32
}

// CameraSetup spawns the viewpoint entity. The Viewpoint tag is added after
// the spawn lands, which moves the entity into its final archetype.
type CameraSetup struct {
	spec CameraSpec
}

func NewCameraSetup(spec CameraSpec) *CameraSetup {
	return &CameraSetup{spec: spec}
}

func (s *CameraSetup) Execute(frame *ecs.UpdateFrame) {
	transform := TransformFromXYZ(s.spec.Position.Elem()).
		LookingAt(s.spec.Target, mgl32.Vec3{0, 1, 0})

	projection := Projection{
		Kind:          ProjectionOrthographic,
		FixedVertical: s.spec.FixedVertical,
		Near:          -1000,
		Far:           1000,
	}

	commands := frame.Commands
	commands.SpawnThen(func(id ecs.EntityId) {
		commands.AddComponent(id, Viewpoint{})
	}, transform, projection)
}
