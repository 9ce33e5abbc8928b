package geom

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/kdframe/pkg/math"
)

// AABB is an axis-aligned bounding box stored as center and half sizes.
type AABB struct {
	Center  math.Vec3
	Extents math.Vec3
}

// NewAABB creates a box from two opposite corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	lo := a.Min(b)
	hi := a.Max(b)
	return AABB{
		Center:  lo.Add(hi).Scale(0.5),
		Extents: hi.Sub(lo).Scale(0.5),
	}
}

// AABBFromPoints fits a box around the given points. No points yields a
// zero box at the origin.
func AABBFromPoints(points []math.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return NewAABB(lo, hi)
}

// Min returns the minimum corner.
func (b AABB) Min() math.Vec3 { return b.Center.Sub(b.Extents) }

// Max returns the maximum corner.
func (b AABB) Max() math.Vec3 { return b.Center.Add(b.Extents) }

// Transform returns the box that encloses b after applying m.
func (b AABB) Transform(m math.Mat4) AABB {
	center := m.TransformVec3(b.Center)
	e := b.Extents
	// |M| * e gives the extents of the rotated box.
	ext := math.Vec3{
		X: math32.Abs(m[0])*e.X + math32.Abs(m[4])*e.Y + math32.Abs(m[8])*e.Z,
		Y: math32.Abs(m[1])*e.X + math32.Abs(m[5])*e.Y + math32.Abs(m[9])*e.Z,
		Z: math32.Abs(m[2])*e.X + math32.Abs(m[6])*e.Y + math32.Abs(m[10])*e.Z,
	}
	return AABB{Center: center, Extents: ext}
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	d := p.Sub(b.Center).Abs()
	return d.X <= b.Extents.X && d.Y <= b.Extents.Y && d.Z <= b.Extents.Z
}

// ClosestPoint clamps p onto the box.
func (b AABB) ClosestPoint(p math.Vec3) math.Vec3 {
	return p.Max(b.Min()).Min(b.Max())
}

// IntersectsSphere reports whether the sphere touches the box.
func (b AABB) IntersectsSphere(s Sphere) bool {
	return b.ClosestPoint(s.Center).Sub(s.Center).LengthSq() <= s.Radius*s.Radius
}

// IntersectsAABB reports whether two boxes overlap.
func (b AABB) IntersectsAABB(o AABB) bool {
	d := b.Center.Sub(o.Center).Abs()
	return d.X <= b.Extents.X+o.Extents.X &&
		d.Y <= b.Extents.Y+o.Extents.Y &&
		d.Z <= b.Extents.Z+o.Extents.Z
}

// IntersectsRay runs a slab test. Returns the entry distance along dir, or
// 0 when origin is inside the box. dir does not need to be normalized; the
// distance is in units of dir.
func (b AABB) IntersectsRay(origin, dir math.Vec3) (float32, bool) {
	lo := b.Min()
	hi := b.Max()
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := origin.Component(axis)
		d := dir.Component(axis)
		mn := lo.Component(axis)
		mx := hi.Component(axis)

		if d == 0 {
			// Parallel to the slab: must already be between the planes.
			if o < mn || o > mx {
				return 0, false
			}
			continue
		}

		t1 := (mn - o) / d
		t2 := (mx - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return 0, true
	}
	return tmin, true
}
