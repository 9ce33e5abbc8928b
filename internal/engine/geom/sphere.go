package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kdframe/pkg/math"
)

// Sphere is a bounding sphere.
type Sphere struct {
	Center math.Vec3
	Radius float32
}

// Transform moves the center by m and scales the radius by the largest
// axis scale of m, so the result always encloses the transformed sphere.
func (s Sphere) Transform(m math.Mat4) Sphere {
	return Sphere{
		Center: m.TransformVec3(s.Center),
		Radius: s.Radius * m.MaxAxisScale(),
	}
}

// IntersectsSphere reports whether two spheres overlap or touch.
func (s Sphere) IntersectsSphere(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LengthSq() <= r*r
}

// BoundingSphereFromPoints returns the sphere centered on the points' box
// that encloses all of them.
func BoundingSphereFromPoints(points []math.Vec3) Sphere {
	if len(points) == 0 {
		return Sphere{}
	}
	center := AABBFromPoints(points).Center
	var maxSq float32
	for _, p := range points {
		if d := p.Sub(center).LengthSq(); d > maxSq {
			maxSq = d
		}
	}
	return Sphere{Center: center, Radius: math32.Sqrt(maxSq)}
}
