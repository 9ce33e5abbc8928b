// Package collision tests spheres, boxes and rays against the shapes an
// entity registers: bounding volumes, model meshes and polygon strips.
package collision

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/pkg/math"
)

// Type is a bit set describing what a shape or query is used for.
type Type uint32

const (
	TypeGround Type = 1 << iota
	TypeBump
	TypeDamage
	TypeDamageLine
	TypeSight
	TypeEvent

	TypeNone Type = 0
	TypeAll       = TypeGround | TypeBump | TypeDamage | TypeDamageLine | TypeSight | TypeEvent
)

var typeNames = []struct {
	t    Type
	name string
}{
	{TypeGround, "ground"},
	{TypeBump, "bump"},
	{TypeDamage, "damage"},
	{TypeDamageLine, "damage_line"},
	{TypeSight, "sight"},
	{TypeEvent, "event"},
}

// ErrUnknownType is returned by ParseType for an unrecognised name.
var ErrUnknownType = errors.New("collision: unknown type")

// ParseType combines type names such as "ground" or "damage_line".
// "all" selects every type.
func ParseType(names ...string) (Type, error) {
	var t Type
outer:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if n == "all" {
			t |= TypeAll
			continue
		}
		for _, tn := range typeNames {
			if tn.name == n {
				t |= tn.t
				continue outer
			}
		}
		return 0, fmt.Errorf("%q: %w", n, ErrUnknownType)
	}
	return t, nil
}

func (t Type) String() string {
	if t == TypeNone {
		return "none"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	return strings.Join(parts, "|")
}

// Result describes one hit. HitDir points the way the query target should
// move to leave the shape; Overlap is how far.
type Result struct {
	HitPos  math.Vec3
	HitDir  math.Vec3
	Overlap float32
}

// SphereInfo is a sphere query.
type SphereInfo struct {
	Type   Type
	Sphere geom.Sphere
}

// NewSphereInfo builds a sphere query.
func NewSphereInfo(t Type, center math.Vec3, radius float32) SphereInfo {
	return SphereInfo{Type: t, Sphere: geom.Sphere{Center: center, Radius: radius}}
}

// BoxInfo is a box query, axis aligned or oriented.
type BoxInfo struct {
	Type     Type
	AABB     geom.AABB
	OBB      geom.OBB
	Oriented bool
}

// NewAABBInfo builds an axis-aligned box query.
func NewAABBInfo(t Type, box geom.AABB) BoxInfo {
	return BoxInfo{Type: t, AABB: box}
}

// NewOBBInfo builds an oriented box query.
func NewOBBInfo(t Type, box geom.OBB) BoxInfo {
	return BoxInfo{Type: t, OBB: box, Oriented: true}
}

// RayInfo is a ray query.
type RayInfo struct {
	Type Type
	Ray  geom.Ray
}

// NewRayInfo builds a ray query. The direction is normalized; a zero
// direction is kept and rejected when the query runs.
func NewRayInfo(t Type, origin, dir math.Vec3, rng float32) RayInfo {
	r, _ := geom.NewRay(origin, dir, rng)
	return RayInfo{Type: t, Ray: r}
}

// NewRayInfoBetween builds a ray query from start to end.
func NewRayInfoBetween(t Type, start, end math.Vec3) RayInfo {
	r, _ := geom.RayBetween(start, end)
	return RayInfo{Type: t, Ray: r}
}
