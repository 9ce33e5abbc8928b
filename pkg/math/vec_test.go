package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec2Normalize(t *testing.T) {
	v := Vec3{3, 9, 4}.XZ()
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
	if got, want := v.Normalize(), (Vec2{0.6, 0.8}); got != want {
		t.Errorf("Vec2.Normalize() = %v, want %v", got, want)
	}
	assert.Equal(t, Vec2{}, Vec2{}.Normalize())
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Normalize())
	assert.True(t, Vec3{}.IsZero())
}

func TestVec3Div(t *testing.T) {
	got := Vec3{4, 6, 8}.Div(Vec3{2, 0, 4})
	assert.Equal(t, Vec3{2, 0, 2}, got)
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -3}
	b := Vec3{2, -1, 0}
	assert.Equal(t, Vec3{1, -1, -3}, a.Min(b))
	assert.Equal(t, Vec3{2, 5, 0}, a.Max(b))
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, -10}
	assert.Equal(t, Vec3{5, 10, -5}, a.Lerp(b, 0.5))
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
}
