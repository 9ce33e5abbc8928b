package geom

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/kdframe/pkg/math"
)

// OBB is an oriented bounding box. Axes are unit vectors, Extents are the
// half sizes along them.
type OBB struct {
	Center  math.Vec3
	Extents math.Vec3
	Axes    [3]math.Vec3
}

// OBBFromAABB places box in the space described by m. Scale baked into m
// moves into the extents and the axes stay normalized.
func OBBFromAABB(box AABB, m math.Mat4) OBB {
	scale := m.AxisScale()
	return OBB{
		Center:  m.TransformVec3(box.Center),
		Extents: box.Extents.Mul(scale),
		Axes: [3]math.Vec3{
			m.Column(0).Normalize(),
			m.Column(1).Normalize(),
			m.Column(2).Normalize(),
		},
	}
}

// Transform applies m to the box.
func (o OBB) Transform(m math.Mat4) OBB {
	out := OBB{Center: m.TransformVec3(o.Center)}
	ext := [3]float32{o.Extents.X, o.Extents.Y, o.Extents.Z}
	for i, axis := range o.Axes {
		a := m.TransformNormal(axis)
		l := a.Length()
		out.Axes[i] = a.Normalize()
		ext[i] *= l
	}
	out.Extents = math.Vec3FromArray(ext)
	return out
}

// toLocal expresses p in the box frame, relative to the center.
func (o OBB) toLocal(p math.Vec3) math.Vec3 {
	d := p.Sub(o.Center)
	return math.Vec3{X: d.Dot(o.Axes[0]), Y: d.Dot(o.Axes[1]), Z: d.Dot(o.Axes[2])}
}

// ClosestPoint returns the point on or inside the box nearest to p.
func (o OBB) ClosestPoint(p math.Vec3) math.Vec3 {
	local := o.toLocal(p).Max(o.Extents.Negate()).Min(o.Extents)
	return o.Center.
		Add(o.Axes[0].Scale(local.X)).
		Add(o.Axes[1].Scale(local.Y)).
		Add(o.Axes[2].Scale(local.Z))
}

// IntersectsSphere reports whether the sphere touches the box.
func (o OBB) IntersectsSphere(s Sphere) bool {
	return o.ClosestPoint(s.Center).Sub(s.Center).LengthSq() <= s.Radius*s.Radius
}

// IntersectsRay runs the slab test in the box frame. dir must be unit
// length for the distance to be in world units.
func (o OBB) IntersectsRay(origin, dir math.Vec3) (float32, bool) {
	localDir := math.Vec3{X: dir.Dot(o.Axes[0]), Y: dir.Dot(o.Axes[1]), Z: dir.Dot(o.Axes[2])}
	local := AABB{Extents: o.Extents}
	return local.IntersectsRay(o.toLocal(origin), localDir)
}

// IntersectsOBB tests two boxes with the separating axis theorem over the
// 15 candidate axes.
func (o OBB) IntersectsOBB(b OBB) bool {
	t := b.Center.Sub(o.Center)

	for i := 0; i < 3; i++ {
		if !overlapOnAxis(o, b, o.Axes[i], t) || !overlapOnAxis(o, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := o.Axes[i].Cross(b.Axes[j])
			// Parallel edges produce no usable axis.
			if axis.LengthSq() < 1e-8 {
				continue
			}
			if !overlapOnAxis(o, b, axis.Normalize(), t) {
				return false
			}
		}
	}
	return true
}

// IntersectsAABB treats the AABB as an unrotated OBB.
func (o OBB) IntersectsAABB(box AABB) bool {
	return o.IntersectsOBB(OBBFromAABB(box, math.Identity()))
}

func (o OBB) projectedRadius(axis math.Vec3) float32 {
	return o.Extents.X*math32.Abs(o.Axes[0].Dot(axis)) +
		o.Extents.Y*math32.Abs(o.Axes[1].Dot(axis)) +
		o.Extents.Z*math32.Abs(o.Axes[2].Dot(axis))
}

func overlapOnAxis(a, b OBB, axis, t math.Vec3) bool {
	return math32.Abs(t.Dot(axis)) <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

// Penetration returns the separating-axis candidate with the smallest
// overlap, pointing from o towards b, and the overlap along it.
func (o OBB) Penetration(b OBB) (math.Vec3, float32, bool) {
	t := b.Center.Sub(o.Center)
	var best math.Vec3
	depth := float32(-1)

	test := func(axis math.Vec3) bool {
		d := o.projectedRadius(axis) + b.projectedRadius(axis) - math32.Abs(t.Dot(axis))
		if d < 0 {
			return false
		}
		if depth < 0 || d < depth {
			depth = d
			best = axis
			if t.Dot(axis) < 0 {
				best = axis.Negate()
			}
		}
		return true
	}

	for i := 0; i < 3; i++ {
		if !test(o.Axes[i]) || !test(b.Axes[i]) {
			return math.Vec3{}, 0, false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := o.Axes[i].Cross(b.Axes[j])
			if axis.LengthSq() < 1e-8 {
				continue
			}
			if !test(axis.Normalize()) {
				return math.Vec3{}, 0, false
			}
		}
	}
	return best, depth, true
}
