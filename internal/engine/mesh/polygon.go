package mesh

import (
	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/pkg/math"
)

// Polygon is geometry laid out as a triangle strip: vertices i, i+1, i+2
// form face i, giving len-2 faces.
type Polygon interface {
	Positions() []math.Vec3
}

// StripFaceCount returns the number of triangles in a strip of n vertices.
func StripFaceCount(n int) int {
	if n < 3 {
		return 0
	}
	return n - 2
}

// Strip is a polygon with caller supplied vertices.
type Strip struct {
	Points []math.Vec3
}

// NewStrip copies points into a new strip.
func NewStrip(points ...math.Vec3) *Strip {
	return &Strip{Points: append([]math.Vec3(nil), points...)}
}

// Positions implements Polygon.
func (s *Strip) Positions() []math.Vec3 { return s.Points }

// StripAABB fits a box around a polygon's vertices.
func StripAABB(p Polygon) geom.AABB {
	return geom.AABBFromPoints(p.Positions())
}
