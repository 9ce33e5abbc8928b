package collision

import (
	gomath "math"

	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/internal/engine/mesh"
	"github.com/Faultbox/kdframe/pkg/math"
)

// localRay is a world ray moved into a shape's local space.
type localRay struct {
	origin math.Vec3
	dir    math.Vec3
	rng    float32
	// scale converts world distances to local ones.
	scale float32
}

func invertRay(ray geom.Ray, world math.Mat4) (localRay, bool) {
	inv, ok := world.TryInverse()
	if !ok {
		return localRay{}, false
	}
	dir := inv.TransformNormal(ray.Dir)
	scale := dir.Length()
	if scale == 0 {
		return localRay{}, false
	}
	return localRay{
		origin: inv.TransformVec3(ray.Origin),
		dir:    dir.Scale(1 / scale),
		rng:    ray.Range * scale,
		scale:  scale,
	}, true
}

func rayResult(ray geom.Ray, dist float32) Result {
	return Result{
		HitPos:  ray.At(dist),
		HitDir:  ray.Dir.Negate(),
		Overlap: ray.Range - dist,
	}
}

// triangles walks faces as (a, b, c) corners until fn returns false.
type triangles func(fn func(a, b, c math.Vec3) bool)

func meshTriangles(m *mesh.Mesh) triangles {
	return func(fn func(a, b, c math.Vec3) bool) {
		for i := range m.Faces {
			if !fn(m.Triangle(i)) {
				return
			}
		}
	}
}

func stripTriangles(p mesh.Polygon) triangles {
	return func(fn func(a, b, c math.Vec3) bool) {
		pos := p.Positions()
		for i := 0; i < mesh.StripFaceCount(len(pos)); i++ {
			if !fn(pos[i], pos[i+1], pos[i+2]) {
				return
			}
		}
	}
}

func trianglesRay(tris triangles, ray geom.Ray, world math.Mat4, wantResult bool) (Result, bool) {
	lr, ok := invertRay(ray, world)
	if !ok {
		return Result{}, false
	}

	hit := false
	closest := float32(gomath.MaxFloat32)
	tris(func(a, b, c math.Vec3) bool {
		d, ok := geom.RayTriangle(lr.origin, lr.dir, a, b, c)
		if !ok || d > lr.rng {
			return true
		}
		hit = true
		if d < closest {
			closest = d
		}
		return wantResult
	})
	if !hit || !wantResult {
		return Result{}, hit
	}
	return rayResult(ray, closest/lr.scale), true
}

func trianglesSphere(tris triangles, sphere geom.Sphere, world math.Mat4, wantResult bool) (Result, bool) {
	inv, ok := world.TryInverse()
	if !ok {
		return Result{}, false
	}
	center := inv.TransformVec3(sphere.Center)
	scale := world.AxisScale()
	radiusSq := sphere.Radius * sphere.Radius

	hit := false
	var lastHit math.Vec3
	tris(func(a, b, c math.Vec3) bool {
		near := geom.ClosestPointOnTriangle(center, a, b, c)
		v := center.Sub(near).Mul(scale)
		if v.LengthSq() > radiusSq {
			return true
		}
		hit = true
		if !wantResult {
			return false
		}
		push := v.Normalize().Scale(sphere.Radius - v.Length()).Div(scale)
		center = center.Add(push)
		lastHit = near
		return true
	})
	if !hit || !wantResult {
		return Result{}, hit
	}

	moved := world.TransformVec3(center).Sub(sphere.Center)
	return Result{
		HitPos:  world.TransformVec3(lastHit),
		HitDir:  moved.Normalize(),
		Overlap: moved.Length(),
	}, true
}

// MeshRay casts ray against m placed by world. The ray is moved into mesh
// space so faces are never transformed. Hits beyond the ray range are
// ignored; with wantResult the closest hit is reported.
func MeshRay(m *mesh.Mesh, ray geom.Ray, world math.Mat4, wantResult bool) (Result, bool) {
	if m == nil || len(m.Faces) == 0 {
		return Result{}, false
	}
	d, ok := m.AABB().Transform(world).IntersectsRay(ray.Origin, ray.Dir)
	if !ok || d > ray.Range {
		return Result{}, false
	}
	return trianglesRay(meshTriangles(m), ray, world, wantResult)
}

// MeshSphere tests sphere against m placed by world. With wantResult the
// sphere is pushed out of every face it overlaps in turn, and the result
// holds the total displacement.
func MeshSphere(m *mesh.Mesh, sphere geom.Sphere, world math.Mat4, wantResult bool) (Result, bool) {
	if m == nil || len(m.Faces) == 0 {
		return Result{}, false
	}
	if !m.AABB().Transform(world).IntersectsSphere(sphere) {
		return Result{}, false
	}
	return trianglesSphere(meshTriangles(m), sphere, world, wantResult)
}

// PolygonRay is MeshRay over a triangle strip, without a bounding box test.
func PolygonRay(p mesh.Polygon, ray geom.Ray, world math.Mat4, wantResult bool) (Result, bool) {
	if p == nil {
		return Result{}, false
	}
	return trianglesRay(stripTriangles(p), ray, world, wantResult)
}

// PolygonSphere is MeshSphere over a triangle strip.
func PolygonSphere(p mesh.Polygon, sphere geom.Sphere, world math.Mat4, wantResult bool) (Result, bool) {
	if p == nil {
		return Result{}, false
	}
	return trianglesSphere(stripTriangles(p), sphere, world, wantResult)
}
