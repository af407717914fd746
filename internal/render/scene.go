package render

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/ecs"
	"github.com/plus3/isoarena/internal/game"
)

// Face is one quad of a drawable, already shaded.
type Face struct {
	Corners [4]mgl32.Vec3
	Normal  mgl32.Vec3
	Color   color.RGBA
}

// Drawable is one entity with a Transform and a Visual.
type Drawable struct {
	Entity    ecs.EntityId
	Transform game.Transform
	Visual    game.Visual
	Depth     float32
}

// Frame is everything a host needs to draw one tick.
type Frame struct {
	Camera    Camera
	Drawables []Drawable
}

// Scene reads the renderable state out of a storage.
type Scene struct {
	viewpoints *ecs.Query[struct {
		*game.Transform
		*game.Projection
		*game.Viewpoint
	}]
	drawables *ecs.Query[struct {
		*game.Transform
		*game.Visual
	}]
}

func NewScene(storage *ecs.Storage) *Scene {
	return &Scene{
		viewpoints: ecs.NewQuery[struct {
			*game.Transform
			*game.Projection
			*game.Viewpoint
		}](storage),
		drawables: ecs.NewQuery[struct {
			*game.Transform
			*game.Visual
		}](storage),
	}
}

// Snapshot collects drawables sorted back to front. ok is false unless
// exactly one viewpoint exists.
func (s *Scene) Snapshot(width, height int) (frame Frame, ok bool) {
	s.viewpoints.Execute()
	view, ok := s.viewpoints.Single().Get()
	if !ok {
		return Frame{}, false
	}
	frame.Camera = NewCamera(*view.Transform, *view.Projection, width, height)

	s.drawables.Execute()
	frame.Drawables = make([]Drawable, 0, s.drawables.Len())
	for id, d := range s.drawables.Iter() {
		frame.Drawables = append(frame.Drawables, Drawable{
			Entity:    id,
			Transform: *d.Transform,
			Visual:    *d.Visual,
			Depth:     frame.Camera.Depth(d.Transform.Translation),
		})
	}

	// planes are floors and always go underneath
	slices.SortStableFunc(frame.Drawables, func(a, b Drawable) int {
		if pa, pb := a.Visual.Shape == game.ShapePlane, b.Visual.Shape == game.ShapePlane; pa != pb {
			if pa {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(b.Depth, a.Depth); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})
	return frame, true
}

var light = mgl32.Vec3{0.4, 1, 0.6}.Normalize()

// Faces returns the quads of d that face the camera, farthest first.
func (d Drawable) Faces(cam Camera) []Face {
	m := d.Transform.Matrix()
	h := d.Visual.Size.Mul(0.5)

	corner := func(x, y, z float32) mgl32.Vec3 {
		return mgl32.TransformCoordinate(mgl32.Vec3{x * h.X(), y * h.Y(), z * h.Z()}, m)
	}
	normal := func(n mgl32.Vec3) mgl32.Vec3 {
		return d.Transform.Rotation.Rotate(n)
	}

	var quads []Face
	switch d.Visual.Shape {
	case game.ShapePlane:
		quads = []Face{{
			Corners: [4]mgl32.Vec3{corner(-1, 0, -1), corner(1, 0, -1), corner(1, 0, 1), corner(-1, 0, 1)},
			Normal:  normal(mgl32.Vec3{0, 1, 0}),
		}}
	default:
		quads = []Face{
			{Corners: [4]mgl32.Vec3{corner(-1, 1, -1), corner(1, 1, -1), corner(1, 1, 1), corner(-1, 1, 1)}, Normal: normal(mgl32.Vec3{0, 1, 0})},
			{Corners: [4]mgl32.Vec3{corner(-1, -1, -1), corner(-1, -1, 1), corner(1, -1, 1), corner(1, -1, -1)}, Normal: normal(mgl32.Vec3{0, -1, 0})},
			{Corners: [4]mgl32.Vec3{corner(1, -1, -1), corner(1, -1, 1), corner(1, 1, 1), corner(1, 1, -1)}, Normal: normal(mgl32.Vec3{1, 0, 0})},
			{Corners: [4]mgl32.Vec3{corner(-1, -1, 1), corner(-1, -1, -1), corner(-1, 1, -1), corner(-1, 1, 1)}, Normal: normal(mgl32.Vec3{-1, 0, 0})},
			{Corners: [4]mgl32.Vec3{corner(-1, -1, 1), corner(-1, 1, 1), corner(1, 1, 1), corner(1, -1, 1)}, Normal: normal(mgl32.Vec3{0, 0, 1})},
			{Corners: [4]mgl32.Vec3{corner(1, -1, -1), corner(1, 1, -1), corner(-1, 1, -1), corner(-1, -1, -1)}, Normal: normal(mgl32.Vec3{0, 0, -1})},
		}
	}

	visible := quads[:0]
	for _, f := range quads {
		if !cam.Facing(f.Normal) {
			continue
		}
		f.Color = shade(d.Visual.Color, f.Normal)
		visible = append(visible, f)
	}

	slices.SortFunc(visible, func(a, b Face) int {
		return cmp.Compare(cam.Depth(center(b)), cam.Depth(center(a)))
	})
	return visible
}

func center(f Face) mgl32.Vec3 {
	return f.Corners[0].Add(f.Corners[1]).Add(f.Corners[2]).Add(f.Corners[3]).Mul(0.25)
}

func shade(c color.RGBA, normal mgl32.Vec3) color.RGBA {
	k := 0.55 + 0.45*max(0, normal.Dot(light))
	return color.RGBA{
		R: uint8(float32(c.R) * k),
		G: uint8(float32(c.G) * k),
		B: uint8(float32(c.B) * k),
		A: c.A,
	}
}
