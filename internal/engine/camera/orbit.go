// Package camera provides an orbit camera used to aim sight rays and to
// face billboard trails.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/pkg/math"
)

// Orbit circles a target point at a distance.
type Orbit struct {
	Target math.Vec3

	Distance float32
	Pitch    float32 // radians above the horizon
	Yaw      float32 // radians around +Y, 0 looks down -Z

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbit returns a camera ten units from the origin looking slightly down.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        10,
		Pitch:           0.5,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *Orbit) Position() math.Vec3 {
	sp, cp := math32.Sincos(c.Pitch)
	sy, cy := math32.Sincos(c.Yaw)
	return c.Target.Add(math.Vec3{
		X: c.Distance * cp * sy,
		Y: c.Distance * sp,
		Z: c.Distance * cp * cy,
	})
}

// Forward returns the unit view direction.
func (c *Orbit) Forward() math.Vec3 {
	return c.Target.Sub(c.Position()).Normalize()
}

// View returns the view matrix.
func (c *Orbit) View() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.V3(0, 1, 0))
}

// World returns the camera transform, the inverse of View.
func (c *Orbit) World() math.Mat4 {
	return c.View().Inverse()
}

// Ray returns a ray from the camera through the target, reaching rng units.
func (c *Orbit) Ray(rng float32) geom.Ray {
	r, _ := geom.NewRay(c.Position(), c.Forward(), rng)
	return r
}

// Drag turns the camera by a pointer delta. Pitch is clamped.
func (c *Orbit) Drag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// Zoom moves towards the target by a fraction of the current distance.
func (c *Orbit) Zoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// Fit centres the camera on box and backs off until the whole box is in
// front of it.
func (c *Orbit) Fit(box geom.AABB) {
	c.Target = box.Center
	c.Distance = clamp(box.Extents.Length()*2, c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
