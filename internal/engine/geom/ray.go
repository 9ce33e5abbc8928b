// Package geom provides bounding volumes and the point, triangle and ray
// tests the collision code is built from.
package geom

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kdframe/pkg/math"
)

// ErrZeroDirection is returned when a ray is built from a zero-length direction.
var ErrZeroDirection = errors.New("geom: ray direction has zero length")

// Ray is a bounded ray. Dir is unit length when built with NewRay.
type Ray struct {
	Origin math.Vec3
	Dir    math.Vec3
	Range  float32
}

// NewRay creates a ray with a normalized direction.
func NewRay(origin, dir math.Vec3, rng float32) (Ray, error) {
	if dir.IsZero() {
		return Ray{Origin: origin, Range: rng}, ErrZeroDirection
	}
	return Ray{Origin: origin, Dir: dir.Normalize(), Range: rng}, nil
}

// RayBetween creates a ray from start towards end whose range is the
// distance between them.
func RayBetween(start, end math.Vec3) (Ray, error) {
	d := end.Sub(start)
	return NewRay(start, d, d.Length())
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// RaySphere intersects a ray with a sphere. dir must be normalized.
// Returns the entry distance, or 0 when origin is inside the sphere.
func RaySphere(origin, dir math.Vec3, s Sphere) (float32, bool) {
	m := origin.Sub(s.Center)
	c := m.LengthSq() - s.Radius*s.Radius
	if c <= 0 {
		return 0, true
	}
	b := m.Dot(dir)
	// Outside and pointing away.
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return -b - math32.Sqrt(disc), true
}

const triangleEpsilon = 1e-7

// RayTriangle is the Möller-Trumbore test. Both faces are hit. Hits behind
// the origin are rejected. The distance is in units of dir.
func RayTriangle(origin, dir, a, b, c math.Vec3) (float32, bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -triangleEpsilon && det < triangleEpsilon {
		return 0, false
	}
	inv := 1 / det

	s := origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
