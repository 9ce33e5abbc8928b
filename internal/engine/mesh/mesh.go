// Package mesh holds collision geometry: indexed triangle meshes shared by
// model nodes, and triangle strips built at runtime.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Faultbox/kdframe/internal/engine/geom"
	"github.com/Faultbox/kdframe/pkg/math"
)

// ErrFaceIndex is returned when a face references a vertex that does not exist.
var ErrFaceIndex = errors.New("mesh: face index out of range")

// Face is a triangle given by three vertex indices.
type Face [3]uint32

// Subset groups a run of faces that share a material.
type Subset struct {
	MaterialIndex int
	FaceStart     int
	FaceCount     int
}

// Mesh is an indexed triangle mesh in node-local space. It is immutable
// once built and may be shared between model instances.
type Mesh struct {
	Positions []math.Vec3
	Faces     []Face
	Subsets   []Subset
	// Skinned meshes are deformed by bones. Collision still uses the bind
	// pose positions.
	Skinned bool

	bounds geom.AABB
	sphere geom.Sphere
}

// New validates the faces and computes the bounding volumes.
func New(positions []math.Vec3, faces []Face, subsets []Subset, skinned bool) (*Mesh, error) {
	n := uint32(len(positions))
	for i, f := range faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return nil, fmt.Errorf("face %d %v with %d vertices: %w", i, f, n, ErrFaceIndex)
		}
	}
	if len(subsets) == 0 && len(faces) > 0 {
		subsets = []Subset{{FaceCount: len(faces)}}
	}
	return &Mesh{
		Positions: positions,
		Faces:     faces,
		Subsets:   subsets,
		Skinned:   skinned,
		bounds:    geom.AABBFromPoints(positions),
		sphere:    geom.BoundingSphereFromPoints(positions),
	}, nil
}

// AABB returns the local-space bounding box.
func (m *Mesh) AABB() geom.AABB { return m.bounds }

// BoundingSphere returns the local-space bounding sphere.
func (m *Mesh) BoundingSphere() geom.Sphere { return m.sphere }

// Triangle returns the corners of face i.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	f := m.Faces[i]
	return m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]]
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }
