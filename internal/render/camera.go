// Package render turns the simulation's transforms and visuals into
// screen-space geometry. It owns no window; hosts draw what it returns.
package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/isoarena/internal/game"
)

// Camera maps world points onto a viewport of Width x Height pixels.
type Camera struct {
	Eye     mgl32.Vec3
	Forward mgl32.Vec3
	Width   float32
	Height  float32

	viewProj mgl32.Mat4
}

// NewCamera builds a camera from the viewpoint's transform and projection.
func NewCamera(t game.Transform, p game.Projection, width, height int) Camera {
	w, h := float32(max(width, 1)), float32(max(height, 1))
	aspect := w / h

	forward := t.Forward()
	view := mgl32.LookAtV(t.Translation, t.Translation.Add(forward), t.Up())

	var proj mgl32.Mat4
	switch p.Kind {
	case game.ProjectionPerspective:
		proj = mgl32.Perspective(mgl32.DegToRad(p.FixedVertical), aspect, p.Near, p.Far)
	default:
		halfH := p.FixedVertical / 2
		halfW := halfH * aspect
		proj = mgl32.Ortho(-halfW, halfW, -halfH, halfH, p.Near, p.Far)
	}

	return Camera{
		Eye:      t.Translation,
		Forward:  forward,
		Width:    w,
		Height:   h,
		viewProj: proj.Mul4(view),
	}
}

// Project returns the pixel position of a world point. ok is false for
// points behind the camera or outside the depth range.
func (c Camera) Project(p mgl32.Vec3) (screen mgl32.Vec2, ok bool) {
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip.W() <= 0 {
		return mgl32.Vec2{}, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return mgl32.Vec2{}, false
	}
	return mgl32.Vec2{
		(ndc.X() + 1) / 2 * c.Width,
		(1 - ndc.Y()) / 2 * c.Height,
	}, true
}

// Depth is the distance of p in front of the camera along its forward axis.
func (c Camera) Depth(p mgl32.Vec3) float32 {
	return p.Sub(c.Eye).Dot(c.Forward)
}

// Facing reports whether a surface with the given world normal faces the camera.
func (c Camera) Facing(normal mgl32.Vec3) bool {
	return normal.Dot(c.Forward) < 0
}
