package mesh

import (
	"github.com/Faultbox/kdframe/pkg/math"
)

// Pivot places the origin of a Square. The tens digit selects the column
// (right, center, left) and the ones digit the row (top, middle, bottom).
type Pivot int

const (
	PivotRightTop Pivot = iota
	PivotRightMiddle
	PivotRightBottom
)

const (
	PivotCenterTop Pivot = iota + 10
	PivotCenterMiddle
	PivotCenterBottom
)

const (
	PivotLeftTop Pivot = iota + 20
	PivotLeftMiddle
	PivotLeftBottom
)

// Square is a flat quad in the XY plane, 1x1 centered by default.
type Square struct {
	pivot Pivot
	verts [4]math.Vec3
}

// NewSquare returns a 1x1 quad centered on the origin.
func NewSquare() *Square {
	s := &Square{pivot: PivotCenterMiddle}
	s.SetSize(1, 1)
	return s
}

// Positions implements Polygon.
func (s *Square) Positions() []math.Vec3 { return s.verts[:] }

// Size returns the current width and height.
func (s *Square) Size() (w, h float32) {
	return s.verts[3].X - s.verts[0].X, s.verts[3].Y - s.verts[0].Y
}

// SetPivot moves the origin and keeps the size.
func (s *Square) SetPivot(p Pivot) {
	w, h := s.Size()
	s.pivot = p
	s.SetSize(w, h)
}

// SetSize sets the width and height around the pivot.
func (s *Square) SetSize(w, h float32) {
	hx := w * 0.5
	hy := h * 0.5
	px := float32(int(s.pivot)/10-1) * hx
	py := float32(int(s.pivot)%10-1) * hy

	s.verts[0] = math.Vec3{X: -hx + px, Y: -hy + py}
	s.verts[1] = math.Vec3{X: -hx + px, Y: hy + py}
	s.verts[2] = math.Vec3{X: hx + px, Y: -hy + py}
	s.verts[3] = math.Vec3{X: hx + px, Y: hy + py}
}

// SetScale keeps the aspect ratio: the shorter side becomes scalar long.
func (s *Square) SetScale(scalar float32) {
	w, h := s.Size()
	switch {
	case w == 0 || h == 0:
		v := math.Vec2{X: w, Y: h}.Normalize()
		w, h = v.X, v.Y
	case w > h:
		w, h = w/h, 1
	default:
		w, h = 1, h/w
	}
	s.SetSize(w*scalar, h*scalar)
}
