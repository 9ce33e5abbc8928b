package geom

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/kdframe/pkg/math"
)

func vecNear(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestNewAABBOrdersCorners(t *testing.T) {
	box := NewAABB(math.V3(1, -1, 2), math.V3(-1, 1, 0))
	assert.Equal(t, math.V3(-1, -1, 0), box.Min())
	assert.Equal(t, math.V3(1, 1, 2), box.Max())
}

func TestAABBTransformRotated(t *testing.T) {
	box := AABB{Extents: math.V3(2, 1, 1)}
	m := math.Translate(10, 0, 0).Mul(math.RotateY(gomath.Pi / 2))

	got := box.Transform(m)
	vecNear(t, math.V3(10, 0, 0), got.Center)
	vecNear(t, math.V3(1, 1, 2), got.Extents)
}

func TestAABBIntersectsRay(t *testing.T) {
	box := AABB{Extents: math.Splat3(1)}

	tests := []struct {
		name   string
		origin math.Vec3
		dir    math.Vec3
		hit    bool
		dist   float32
	}{
		{"front", math.V3(0, 0, -5), math.V3(0, 0, 1), true, 4},
		{"inside", math.V3(0, 0, 0), math.V3(1, 0, 0), true, 0},
		{"away", math.V3(0, 0, -5), math.V3(0, 0, -1), false, 0},
		{"parallel miss", math.V3(3, 0, -5), math.V3(0, 0, 1), false, 0},
		{"diagonal", math.V3(-5, -5, 0), math.V3(1, 1, 0).Normalize(), true, 4 * 1.41421356},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ok := box.IntersectsRay(tt.origin, tt.dir)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.dist, dist, 1e-4)
			}
		})
	}
}

func TestAABBIntersectsSphere(t *testing.T) {
	box := AABB{Extents: math.Splat3(1)}
	assert.True(t, box.IntersectsSphere(Sphere{Center: math.V3(1.5, 0, 0), Radius: 0.6}))
	assert.False(t, box.IntersectsSphere(Sphere{Center: math.V3(1.5, 1.5, 0), Radius: 0.6}))
}

func TestSphereTransformUsesLargestScale(t *testing.T) {
	s := Sphere{Center: math.V3(1, 0, 0), Radius: 1}
	got := s.Transform(math.Translate(0, 5, 0).Mul(math.Scale(2, 3, 1)))
	vecNear(t, math.V3(2, 5, 0), got.Center)
	assert.InDelta(t, 3, got.Radius, 1e-5)
}

func TestBoundingSphereFromPoints(t *testing.T) {
	pts := []math.Vec3{{X: -1}, {X: 1}, {Y: 1}, {Y: -1}}
	s := BoundingSphereFromPoints(pts)
	vecNear(t, math.Vec3{}, s.Center)
	assert.InDelta(t, 1, s.Radius, 1e-5)
}

func TestOBBFromAABB(t *testing.T) {
	box := AABB{Extents: math.Splat3(1)}
	m := math.Translate(0, 2, 0).Mul(math.RotateZ(gomath.Pi / 4)).Mul(math.Scale(2, 1, 1))
	o := OBBFromAABB(box, m)

	vecNear(t, math.V3(0, 2, 0), o.Center)
	vecNear(t, math.V3(2, 1, 1), o.Extents)
	assert.InDelta(t, 1, o.Axes[0].Length(), 1e-5)
}

func TestOBBIntersectsRay(t *testing.T) {
	o := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.RotateY(gomath.Pi/4))
	dist, ok := o.IntersectsRay(math.V3(0, 0, -5), math.V3(0, 0, 1))
	require.True(t, ok)
	// Rotated 45 degrees, the corner faces the ray.
	assert.InDelta(t, 5-1.41421356, dist, 1e-4)
}

func TestOBBIntersectsOBB(t *testing.T) {
	a := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Identity())
	b := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Translate(2.3, 0, 0).Mul(math.RotateZ(gomath.Pi/4)))
	// Corner of b reaches x = 2.3 - 1.414 < 1.
	assert.True(t, a.IntersectsOBB(b))

	c := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Translate(2.5, 0, 0).Mul(math.RotateZ(gomath.Pi/4)))
	assert.False(t, a.IntersectsOBB(c))
}

func TestOBBPenetration(t *testing.T) {
	a := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Identity())
	b := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Translate(-1.75, 0.5, 0))

	axis, depth, ok := a.Penetration(b)
	require.True(t, ok)
	assert.InDelta(t, 0.25, depth, 1e-5)
	vecNear(t, math.V3(-1, 0, 0), axis)

	_, _, ok = a.Penetration(OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.Translate(0, 2.5, 0)))
	assert.False(t, ok)
}

func TestOBBIntersectsSphere(t *testing.T) {
	o := OBBFromAABB(AABB{Extents: math.Splat3(1)}, math.RotateY(gomath.Pi/4))
	assert.True(t, o.IntersectsSphere(Sphere{Center: math.V3(0, 0, 1.8), Radius: 0.5}))
	assert.False(t, o.IntersectsSphere(Sphere{Center: math.V3(0, 0, 2.0), Radius: 0.5}))
}

func TestNewRay(t *testing.T) {
	r, err := NewRay(math.Vec3{}, math.V3(0, 3, 0), 10)
	require.NoError(t, err)
	assert.Equal(t, math.V3(0, 1, 0), r.Dir)

	_, err = NewRay(math.Vec3{}, math.Vec3{}, 10)
	assert.ErrorIs(t, err, ErrZeroDirection)

	r, err = RayBetween(math.V3(1, 0, 0), math.V3(1, 0, 4))
	require.NoError(t, err)
	assert.InDelta(t, 4, r.Range, 1e-6)
	assert.Equal(t, math.V3(1, 0, 2), r.At(2))
}

func TestRaySphere(t *testing.T) {
	s := Sphere{Center: math.V3(0, 0, 0), Radius: 1}
	d, ok := RaySphere(math.V3(0, 0, -5), math.V3(0, 0, 1), s)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-5)

	_, ok = RaySphere(math.V3(0, 2, -5), math.V3(0, 0, 1), s)
	assert.False(t, ok)

	d, ok = RaySphere(math.V3(0, 0.5, 0), math.V3(0, 0, 1), s)
	require.True(t, ok)
	assert.Zero(t, d)
}

func TestRayTriangle(t *testing.T) {
	a := math.V3(-1, -1, 0)
	b := math.V3(1, -1, 0)
	c := math.V3(0, 1, 0)

	d, ok := RayTriangle(math.V3(0, 0, -3), math.V3(0, 0, 1), a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-5)

	// Back face is hit too.
	d, ok = RayTriangle(math.V3(0, 0, 3), math.V3(0, 0, -1), a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 3, d, 1e-5)

	_, ok = RayTriangle(math.V3(0, 0, 3), math.V3(0, 0, 1), a, b, c)
	assert.False(t, ok, "behind origin")

	_, ok = RayTriangle(math.V3(5, 0, -3), math.V3(0, 0, 1), a, b, c)
	assert.False(t, ok, "outside edges")

	_, ok = RayTriangle(math.V3(0, 0, -3), math.V3(1, 0, 0), a, b, c)
	assert.False(t, ok, "parallel")
}

func TestClosestPointOnTriangleRegions(t *testing.T) {
	a := math.V3(0, 0, 0)
	b := math.V3(2, 0, 0)
	c := math.V3(0, 2, 0)

	tests := []struct {
		name string
		p    math.Vec3
		want math.Vec3
	}{
		{"vertex a", math.V3(-1, -1, 0), a},
		{"vertex b", math.V3(3, -1, 0), b},
		{"vertex c", math.V3(-1, 3, 0), c},
		{"edge ab", math.V3(1, -1, 0), math.V3(1, 0, 0)},
		{"edge ac", math.V3(-1, 1, 0), math.V3(0, 1, 0)},
		{"edge bc", math.V3(2, 2, 0), math.V3(1, 1, 0)},
		{"face", math.V3(0.5, 0.5, 3), math.V3(0.5, 0.5, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vecNear(t, tt.want, ClosestPointOnTriangle(tt.p, a, b, c))
		})
	}
}
