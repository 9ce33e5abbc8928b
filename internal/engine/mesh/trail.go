package mesh

import (
	"github.com/Faultbox/kdframe/pkg/math"
)

// TrailPattern selects how a Trail turns its points into a strip.
type TrailPattern int

const (
	// TrailDefault spans each point along its own X axis.
	TrailDefault TrailPattern = iota
	// TrailBillboard spans each point across the view direction.
	TrailBillboard
	// TrailVertices uses the point translations directly as strip vertices.
	TrailVertices
)

// DefaultTrailLength is the number of points kept when none is set.
const DefaultTrailLength = 20

// Trail is a ribbon built from a history of transforms, newest first.
type Trail struct {
	pattern TrailPattern
	length  int
	points  []math.Mat4
	// camera is the camera world matrix used by TrailBillboard.
	camera math.Mat4
	verts  []math.Vec3
}

// NewTrail creates an empty trail.
func NewTrail(pattern TrailPattern, length int) *Trail {
	if length <= 0 {
		length = DefaultTrailLength
	}
	return &Trail{pattern: pattern, length: length, camera: math.Identity()}
}

// Positions implements Polygon.
func (t *Trail) Positions() []math.Vec3 { return t.verts }

// AddPoint pushes a transform to the front, dropping the oldest beyond the
// trail length.
func (t *Trail) AddPoint(m math.Mat4) {
	t.points = append(t.points, math.Mat4{})
	copy(t.points[1:], t.points)
	t.points[0] = m
	if len(t.points) > t.length {
		t.points = t.points[:t.length]
	}
	t.generate()
}

// TopPoint returns the newest transform.
func (t *Trail) TopPoint() (math.Mat4, bool) {
	if len(t.points) == 0 {
		return math.Mat4{}, false
	}
	return t.points[0], true
}

// DelPointBack drops the oldest point.
func (t *Trail) DelPointBack() {
	if len(t.points) == 0 {
		return
	}
	t.points = t.points[:len(t.points)-1]
	t.generate()
}

// ClearPoints removes every point.
func (t *Trail) ClearPoints() {
	t.points = t.points[:0]
	t.verts = t.verts[:0]
}

// NumPoints returns the number of stored transforms.
func (t *Trail) NumPoints() int { return len(t.points) }

// SetPattern changes the pattern and rebuilds the strip.
func (t *Trail) SetPattern(p TrailPattern) {
	if t.pattern == p {
		return
	}
	t.pattern = p
	t.generate()
}

// SetLength sets the maximum number of points. Applies on the next AddPoint.
func (t *Trail) SetLength(n int) {
	if n > 0 {
		t.length = n
	}
}

// SetCamera sets the camera world matrix for the billboard pattern.
func (t *Trail) SetCamera(cam math.Mat4) {
	t.camera = cam
	if t.pattern == TrailBillboard {
		t.generate()
	}
}

func (t *Trail) generate() {
	t.verts = t.verts[:0]
	switch t.pattern {
	case TrailDefault:
		if len(t.points) < 2 {
			return
		}
		for _, m := range t.points {
			t.appendPair(m, m.Column(0))
		}
	case TrailBillboard:
		if len(t.points) < 2 {
			return
		}
		eye := t.camera.Translation()
		var prev math.Vec3
		for i, m := range t.points {
			pos := m.Translation()
			var dir math.Vec3
			if i == 0 {
				dir = t.points[1].Translation().Sub(pos)
			} else {
				dir = pos.Sub(prev)
			}
			axis := dir.Cross(pos.Sub(eye)).Normalize().Scale(m.Column(0).Length())
			t.appendPair(m, axis)
			prev = pos
		}
	case TrailVertices:
		if len(t.points) < 4 {
			return
		}
		for _, m := range t.points {
			t.verts = append(t.verts, m.Translation())
		}
	}
}

// appendPair adds the two ribbon edges for one point. The ribbon is half
// as wide as axis is long.
func (t *Trail) appendPair(m math.Mat4, axis math.Vec3) {
	half := axis.Length() * 0.25
	a := axis.Normalize().Scale(half)
	pos := m.Translation()
	t.verts = append(t.verts, pos.Add(a), pos.Sub(a))
}
