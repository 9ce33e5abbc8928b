package collision

import (
	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/internal/engine/mesh"
	"github.com/Faultbox/kdframe/internal/engine/model"
	"github.com/Faultbox/kdframe/pkg/math"
)

// Kind identifies a shape implementation for dispatch.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindModel
	KindPolygon

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindModel:
		return "model"
	case KindPolygon:
		return "polygon"
	}
	return "unknown"
}

// Shape is something a Collider can test queries against.
type Shape interface {
	Kind() Kind
	Type() Type
	Enabled() bool
	SetEnabled(bool)
}

type base struct {
	typ      Type
	disabled bool
}

func (b *base) Type() Type         { return b.typ }
func (b *base) Enabled() bool      { return !b.disabled }
func (b *base) SetEnabled(on bool) { b.disabled = !on }

// SphereShape is a bounding sphere in local space.
type SphereShape struct {
	base
	Sphere geom.Sphere
}

// NewSphereShape returns an enabled sphere shape.
func NewSphereShape(s geom.Sphere, t Type) *SphereShape {
	return &SphereShape{base: base{typ: t}, Sphere: s}
}

func (*SphereShape) Kind() Kind { return KindSphere }

// BoxShape is a bounding box in local space, axis aligned or oriented.
type BoxShape struct {
	base
	AABB     geom.AABB
	OBB      geom.OBB
	Oriented bool
}

// NewBoxShape returns an enabled axis-aligned box shape.
func NewBoxShape(box geom.AABB, t Type) *BoxShape {
	return &BoxShape{base: base{typ: t}, AABB: box}
}

// NewOBBShape returns an enabled oriented box shape.
func NewOBBShape(box geom.OBB, t Type) *BoxShape {
	return &BoxShape{base: base{typ: t}, OBB: box, Oriented: true}
}

func (*BoxShape) Kind() Kind { return KindBox }

// world returns the box placed by m. An axis-aligned box stays axis
// aligned and grows to enclose the rotated corners.
func (s *BoxShape) world(m math.Mat4) geom.OBB {
	if s.Oriented {
		return s.OBB.Transform(m)
	}
	return geom.OBBFromAABB(s.AABB.Transform(m), math.Identity())
}

// ModelShape tests against the collision nodes of a model instance, using
// the instance's current pose.
type ModelShape struct {
	base
	Work *model.Work
}

// NewModelShape returns an enabled shape over w.
func NewModelShape(w *model.Work, t Type) *ModelShape {
	return &ModelShape{base: base{typ: t}, Work: w}
}

func (*ModelShape) Kind() Kind { return KindModel }

// PolygonShape tests against a triangle strip such as a trail or square.
type PolygonShape struct {
	base
	Polygon mesh.Polygon
}

// NewPolygonShape returns an enabled shape over p.
func NewPolygonShape(p mesh.Polygon, t Type) *PolygonShape {
	return &PolygonShape{base: base{typ: t}, Polygon: p}
}

func (*PolygonShape) Kind() Kind { return KindPolygon }
