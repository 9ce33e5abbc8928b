package collision

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/internal/engine/mesh"
	"github.com/Faultbox/kdframe/internal/engine/model"
	"github.com/Faultbox/kdframe/pkg/math"
)

// ErrZeroRayDirection is returned by ValidateRay for a ray with no direction.
var ErrZeroRayDirection = errors.New("collision: ray direction is zero")

// ValidateRay reports whether r can be cast.
func ValidateRay(r RayInfo) error {
	if r.Ray.Dir.IsZero() {
		return ErrZeroRayDirection
	}
	return nil
}

type entry struct {
	name  string
	shape Shape
}

// Collider holds the named shapes of one entity. Queries visit shapes in
// registration order.
type Collider struct {
	shapes   []entry
	index    map[string]int
	disabled Type
	maxHits  int
	log      *zap.Logger
}

// Option configures a Collider.
type Option func(*Collider)

// WithLogger sets the logger used for rejected queries and registry changes.
func WithLogger(l *zap.Logger) Option {
	return func(c *Collider) {
		if l != nil {
			c.log = l
		}
	}
}

// WithMaxResults stops a query once it has appended n results. Zero means
// no cap.
func WithMaxResults(n int) Option {
	return func(c *Collider) { c.maxHits = n }
}

// WithDisabledTypes starts the collider with the given types switched off.
func WithDisabledTypes(t Type) Option {
	return func(c *Collider) { c.disabled = t }
}

// New returns an empty collider.
func New(opts ...Option) *Collider {
	c := &Collider{index: make(map[string]int), log: zap.NewNop()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Register adds s under name. A shape already registered under the same
// name is replaced in place. Nil shapes are ignored.
func (c *Collider) Register(name string, s Shape) {
	if s == nil {
		return
	}
	if i, ok := c.index[name]; ok {
		c.shapes[i].shape = s
		c.log.Debug("shape replaced", zap.String("name", name), zap.Stringer("kind", s.Kind()))
		return
	}
	c.index[name] = len(c.shapes)
	c.shapes = append(c.shapes, entry{name: name, shape: s})
	c.log.Debug("shape registered", zap.String("name", name), zap.Stringer("kind", s.Kind()), zap.Stringer("type", s.Type()))
}

// RegisterSphere adds a bounding sphere.
func (c *Collider) RegisterSphere(name string, s geom.Sphere, t Type) *SphereShape {
	sh := NewSphereShape(s, t)
	c.Register(name, sh)
	return sh
}

// RegisterSphereAt adds a bounding sphere at pos.
func (c *Collider) RegisterSphereAt(name string, pos math.Vec3, radius float32, t Type) *SphereShape {
	return c.RegisterSphere(name, geom.Sphere{Center: pos, Radius: radius}, t)
}

// RegisterBox adds an axis-aligned box.
func (c *Collider) RegisterBox(name string, box geom.AABB, t Type) *BoxShape {
	sh := NewBoxShape(box, t)
	c.Register(name, sh)
	return sh
}

// RegisterOBB adds an oriented box.
func (c *Collider) RegisterOBB(name string, box geom.OBB, t Type) *BoxShape {
	sh := NewOBBShape(box, t)
	c.Register(name, sh)
	return sh
}

// RegisterModel adds a model in its bind pose. The returned shape's Work
// can be animated.
func (c *Collider) RegisterModel(name string, data *model.Data, t Type) *ModelShape {
	return c.RegisterModelWork(name, model.NewWork(data), t)
}

// RegisterModelWork adds an existing model instance, sharing its pose.
func (c *Collider) RegisterModelWork(name string, w *model.Work, t Type) *ModelShape {
	sh := NewModelShape(w, t)
	c.Register(name, sh)
	return sh
}

// RegisterPolygon adds a triangle strip.
func (c *Collider) RegisterPolygon(name string, p mesh.Polygon, t Type) *PolygonShape {
	sh := NewPolygonShape(p, t)
	c.Register(name, sh)
	return sh
}

// Unregister removes the shape under name.
func (c *Collider) Unregister(name string) bool {
	i, ok := c.index[name]
	if !ok {
		return false
	}
	c.shapes = append(c.shapes[:i], c.shapes[i+1:]...)
	delete(c.index, name)
	for j := i; j < len(c.shapes); j++ {
		c.index[c.shapes[j].name] = j
	}
	return true
}

// Shape returns the shape under name.
func (c *Collider) Shape(name string) (Shape, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.shapes[i].shape, true
}

// Names returns shape names in registration order.
func (c *Collider) Names() []string {
	out := make([]string, len(c.shapes))
	for i, e := range c.shapes {
		out[i] = e.name
	}
	return out
}

// Len returns the number of shapes.
func (c *Collider) Len() int { return len(c.shapes) }

// SetEnable switches one shape on or off.
func (c *Collider) SetEnable(name string, on bool) {
	if i, ok := c.index[name]; ok {
		c.shapes[i].shape.SetEnabled(on)
	}
}

// SetEnableType switches whole query types on or off.
func (c *Collider) SetEnableType(t Type, on bool) {
	if on {
		c.disabled &^= t
	} else {
		c.disabled |= t
	}
}

// SetEnableAll switches every shape on or off.
func (c *Collider) SetEnableAll(on bool) {
	for _, e := range c.shapes {
		e.shape.SetEnabled(on)
	}
}

// DisabledTypes returns the switched-off query types.
func (c *Collider) DisabledTypes() Type { return c.disabled }

// IntersectSphere tests a sphere against every shape placed by owner.
// With results nil it stops at the first hit; otherwise every hit is
// appended.
func (c *Collider) IntersectSphere(q SphereInfo, owner math.Mat4, results *[]Result) bool {
	return c.run(q.Type, &target{kind: targetSphere, sphere: q.Sphere}, owner, results)
}

// IntersectBox tests a box against every shape placed by owner.
func (c *Collider) IntersectBox(q BoxInfo, owner math.Mat4, results *[]Result) bool {
	t := &target{kind: targetBox, box: q.OBB}
	if !q.Oriented {
		t.box = geom.OBBFromAABB(q.AABB, math.Identity())
	}
	return c.run(q.Type, t, owner, results)
}

// IntersectRay casts a ray against every shape placed by owner. A ray with
// no direction never hits.
func (c *Collider) IntersectRay(q RayInfo, owner math.Mat4, results *[]Result) bool {
	if err := ValidateRay(q); err != nil {
		c.log.Debug("ray rejected", zap.Error(err))
		return false
	}
	return c.run(q.Type, &target{kind: targetRay, ray: q.Ray}, owner, results)
}

func (c *Collider) run(qt Type, t *target, owner math.Mat4, results *[]Result) bool {
	if qt&c.disabled != 0 {
		return false
	}

	hit := false
	start := 0
	if results != nil {
		start = len(*results)
	}
	for _, e := range c.shapes {
		if e.shape.Type()&qt == 0 {
			continue
		}
		if results == nil {
			if intersect(e.shape, t, owner, nil) {
				return true
			}
			continue
		}
		var r Result
		if !intersect(e.shape, t, owner, &r) {
			continue
		}
		hit = true
		*results = append(*results, r)
		if c.maxHits > 0 && len(*results)-start >= c.maxHits {
			break
		}
	}
	return hit
}
