package collision

import (
	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/pkg/math"
)

type targetKind int

const (
	targetSphere targetKind = iota
	targetBox
	targetRay

	targetCount
)

// target is a query in world space.
type target struct {
	kind   targetKind
	sphere geom.Sphere
	box    geom.OBB
	ray    geom.Ray
}

// intersectFunc tests one shape against one target placed by world. When
// res is nil the caller only needs a yes or no answer.
type intersectFunc func(s Shape, t *target, world math.Mat4, res *Result) bool

// Pairs missing from the table never hit.
var dispatch = [kindCount][targetCount]intersectFunc{
	KindSphere: {
		targetSphere: sphereVsSphere,
		targetBox:    sphereVsBox,
		targetRay:    sphereVsRay,
	},
	KindBox: {
		targetSphere: boxVsSphere,
		targetBox:    boxVsBox,
		targetRay:    boxVsRay,
	},
	KindModel: {
		targetSphere: modelVsSphere,
		targetRay:    modelVsRay,
	},
	KindPolygon: {
		targetSphere: polygonVsSphere,
		targetRay:    polygonVsRay,
	},
}

// Intersect tests a single shape. Disabled shapes and unknown pairs never
// hit.
func intersect(s Shape, t *target, world math.Mat4, res *Result) bool {
	if !s.Enabled() {
		return false
	}
	k := s.Kind()
	if k < 0 || k >= kindCount {
		return false
	}
	fn := dispatch[k][t.kind]
	if fn == nil {
		return false
	}
	return fn(s, t, world, res)
}

func set(res *Result, r Result) {
	if res != nil {
		*res = r
	}
}

func sphereVsSphere(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*SphereShape).Sphere.Transform(world)
	if !own.IntersectsSphere(t.sphere) {
		return false
	}
	if res != nil {
		delta := t.sphere.Center.Sub(own.Center)
		dir := delta.Normalize()
		overlap := t.sphere.Radius + own.Radius - delta.Length()
		*res = Result{
			HitPos:  own.Center.Add(dir.Scale(own.Radius - overlap*0.5)),
			HitDir:  dir,
			Overlap: overlap,
		}
	}
	return true
}

func sphereVsBox(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*SphereShape).Sphere.Transform(world)
	if !t.box.IntersectsSphere(own) {
		return false
	}
	if res != nil {
		near := t.box.ClosestPoint(own.Center)
		delta := near.Sub(own.Center)
		dir := delta.Normalize()
		if dir.IsZero() {
			dir = t.box.Center.Sub(own.Center).Normalize()
		}
		*res = Result{HitPos: near, HitDir: dir, Overlap: own.Radius - delta.Length()}
	}
	return true
}

func sphereVsRay(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*SphereShape).Sphere.Transform(world)
	d, ok := geom.RaySphere(t.ray.Origin, t.ray.Dir, own)
	if !ok || d > t.ray.Range {
		return false
	}
	set(res, rayResult(t.ray, d))
	return true
}

func boxVsSphere(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*BoxShape).world(world)
	if !own.IntersectsSphere(t.sphere) {
		return false
	}
	if res != nil {
		near := own.ClosestPoint(t.sphere.Center)
		delta := t.sphere.Center.Sub(near)
		dir := delta.Normalize()
		if dir.IsZero() {
			// Centre inside the box.
			dir = t.sphere.Center.Sub(own.Center).Normalize()
		}
		*res = Result{HitPos: near, HitDir: dir, Overlap: t.sphere.Radius - delta.Length()}
	}
	return true
}

func boxVsBox(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*BoxShape).world(world)
	axis, depth, ok := own.Penetration(t.box)
	if !ok {
		return false
	}
	set(res, Result{HitPos: own.ClosestPoint(t.box.Center), HitDir: axis, Overlap: depth})
	return true
}

func boxVsRay(s Shape, t *target, world math.Mat4, res *Result) bool {
	own := s.(*BoxShape).world(world)
	d, ok := own.IntersectsRay(t.ray.Origin, t.ray.Dir)
	if !ok || d > t.ray.Range {
		return false
	}
	set(res, rayResult(t.ray, d))
	return true
}

func modelVsSphere(s Shape, t *target, world math.Mat4, res *Result) bool {
	w := s.(*ModelShape).Work
	if w == nil || w.Data() == nil {
		return false
	}
	data := w.Data()
	nodes := w.Nodes()

	pushed := t.sphere
	hit := false
	var hitPos math.Vec3
	for _, i := range data.CollisionNodes {
		m := data.Nodes[i].Mesh
		if m == nil {
			continue
		}
		r, ok := MeshSphere(m, pushed, world.Mul(nodes[i].World), res != nil)
		if !ok {
			continue
		}
		if res == nil {
			return true
		}
		hit = true
		pushed.Center = pushed.Center.Add(r.HitDir.Scale(r.Overlap))
		hitPos = r.HitPos
	}
	if !hit {
		return false
	}
	moved := pushed.Center.Sub(t.sphere.Center)
	*res = Result{HitPos: hitPos, HitDir: moved.Normalize(), Overlap: moved.Length()}
	return true
}

func modelVsRay(s Shape, t *target, world math.Mat4, res *Result) bool {
	w := s.(*ModelShape).Work
	if w == nil || w.Data() == nil {
		return false
	}
	data := w.Data()
	nodes := w.Nodes()

	hit := false
	var nearest Result
	for _, i := range data.CollisionNodes {
		m := data.Nodes[i].Mesh
		if m == nil {
			continue
		}
		r, ok := MeshRay(m, t.ray, world.Mul(nodes[i].World), res != nil)
		if !ok {
			continue
		}
		if res == nil {
			return true
		}
		// Greatest overlap is the hit closest to the ray origin.
		if !hit || r.Overlap > nearest.Overlap {
			nearest = r
		}
		hit = true
	}
	if hit {
		*res = nearest
	}
	return hit
}

func polygonVsSphere(s Shape, t *target, world math.Mat4, res *Result) bool {
	r, ok := PolygonSphere(s.(*PolygonShape).Polygon, t.sphere, world, res != nil)
	if ok {
		set(res, r)
	}
	return ok
}

func polygonVsRay(s Shape, t *target, world math.Mat4, res *Result) bool {
	r, ok := PolygonRay(s.(*PolygonShape).Polygon, t.ray, world, res != nil)
	if ok {
		set(res, r)
	}
	return ok
}
