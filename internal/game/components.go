package game

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Player tags a locally controlled entity.
type Player struct {
	Name string
}

// Enemy tags a hostile entity.
type Enemy struct {
	Name string
}

// Health is expected to satisfy Current <= Max. Nothing enforces it yet;
// damage and healing systems will own that.
type Health struct {
	Current uint32
	Max     uint32
}

// Score only ever grows.
type Score struct {
	Value uint32
}

// Velocity is the movement direction chosen this frame. It is rebuilt from
// input every tick and never carries momentum between frames.
type Velocity struct {
	Linear mgl32.Vec3
}

// Speed scales the unit movement direction. Expected Current <= Max.
type Speed struct {
	Current float32
	Max     float32
}

// Transform places an entity in the world. Y is up; X and Z span the ground plane.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// TransformFromXYZ returns an unrotated, unscaled transform at the given point.
func TransformFromXYZ(x, y, z float32) Transform {
	return Transform{
		Translation: mgl32.Vec3{x, y, z},
		Rotation:    mgl32.QuatIdent(),
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// LookingAt rotates the transform so that its forward axis (-Z) points at
// target and its up axis lies in the plane of forward and up.
func (t Transform) LookingAt(target, up mgl32.Vec3) Transform {
	forward := target.Sub(t.Translation)
	if forward.LenSqr() == 0 {
		return t
	}
	forward = forward.Normalize()

	right := forward.Cross(up)
	if right.LenSqr() < 1e-12 {
		// up is parallel to forward; any perpendicular axis will do
		right = forward.Cross(mgl32.Vec3{0, 0, 1})
		if right.LenSqr() < 1e-12 {
			right = forward.Cross(mgl32.Vec3{1, 0, 0})
		}
	}
	right = right.Normalize()
	trueUp := right.Cross(forward)

	basis := mgl32.Mat3FromCols(right, trueUp, forward.Mul(-1))
	t.Rotation = mgl32.Mat4ToQuat(basis.Mat4()).Normalize()
	return t
}

// Forward is the direction the transform faces.
func (t Transform) Forward() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// Up is the transform's local up axis in world space.
func (t Transform) Up() mgl32.Vec3 {
	return t.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation.Elem()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}

// Shape selects the geometry a renderer draws for a Visual.
type Shape uint8

const (
	ShapeCuboid Shape = iota
	ShapePlane
)

func (s Shape) String() string {
	switch s {
	case ShapeCuboid:
		return "cuboid"
	case ShapePlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Visual describes how the rendering collaborator should draw an entity.
// Size is the full extent along each local axis.
type Visual struct {
	Shape Shape
	Size  mgl32.Vec3
	Color color.RGBA
}

// SRGB converts 0..1 channel values to an opaque color.
func SRGB(r, g, b float32) color.RGBA {
	return color.RGBA{R: channel(r), G: channel(g), B: channel(b), A: 0xff}
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1)*255 + 0.5)
}

// Viewpoint tags the entity whose transform the view is rendered from.
type Viewpoint struct{}

// ProjectionKind selects how the viewpoint maps the world onto the screen.
type ProjectionKind uint8

const (
	ProjectionOrthographic ProjectionKind = iota
	ProjectionPerspective
)

// Projection configures the viewpoint's lens. For orthographic projections
// FixedVertical is the world-space height of the view; for perspective ones
// it is the vertical field of view in degrees.
type Projection struct {
	Kind          ProjectionKind
	FixedVertical float32
	Near          float32
	Far           float32
}
