// Package model holds shared model data (node hierarchy, meshes, clips) and
// the per-instance node transforms animated and queried every frame.
package model

import (
	"strings"

	"github.com/Faultbox/kdframe/internal/engine/animation"
	"github.com/Faultbox/kdframe/internal/engine/mesh"
	"github.com/Faultbox/kdframe/pkg/math"
)

// CollisionTag marks nodes whose mesh is used only for collision.
const CollisionTag = "COL"

// Node is one node of the source hierarchy.
type Node struct {
	Name string
	// Mesh is nil for transform-only nodes.
	Mesh *mesh.Mesh

	Local       math.Mat4
	World       math.Mat4
	BoneInverse math.Mat4

	Parent    int // -1 for roots
	Children  []int
	BoneIndex int // -1 when the node is not a bone
	Skinned   bool
}

// Data is a loaded model. It is immutable after NewData and shared by
// every Work and collider that references it.
type Data struct {
	Name       string
	Nodes      []Node
	Animations []*animation.Data

	RootNodes      []int
	BoneNodes      []int
	MeshNodes      []int
	CollisionNodes []int
	DrawNodes      []int
}

// FindNode returns the first node with the given name.
func (d *Data) FindNode(name string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].Name == name {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Animation returns the clip with the given name, or nil.
func (d *Data) Animation(name string) *animation.Data {
	for _, a := range d.Animations {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AnimationAt returns clip i, or nil when out of range.
func (d *Data) AnimationAt(i int) *animation.Data {
	if i < 0 || i >= len(d.Animations) {
		return nil
	}
	return d.Animations[i]
}

// IsSkinMesh reports whether any node carries a skinned mesh.
func (d *Data) IsSkinMesh() bool {
	for i := range d.Nodes {
		if d.Nodes[i].Skinned {
			return true
		}
	}
	return false
}

// buildIndexLists fills the index lists from Nodes. Nodes tagged COL go
// to the collision list; without any, collision uses the draw list.
func (d *Data) buildIndexLists() {
	d.RootNodes = d.RootNodes[:0]
	d.MeshNodes = d.MeshNodes[:0]
	d.CollisionNodes = d.CollisionNodes[:0]
	d.DrawNodes = d.DrawNodes[:0]
	d.BoneNodes = d.BoneNodes[:0]

	for i := range d.Nodes {
		n := &d.Nodes[i]
		if n.Parent < 0 {
			d.RootNodes = append(d.RootNodes, i)
		}
		if n.BoneIndex >= 0 {
			for len(d.BoneNodes) <= n.BoneIndex {
				d.BoneNodes = append(d.BoneNodes, -1)
			}
			d.BoneNodes[n.BoneIndex] = i
		}
		if n.Mesh == nil {
			continue
		}
		d.MeshNodes = append(d.MeshNodes, i)
		if strings.Contains(n.Name, CollisionTag) {
			d.CollisionNodes = append(d.CollisionNodes, i)
		} else {
			d.DrawNodes = append(d.DrawNodes, i)
		}
	}
	if len(d.CollisionNodes) == 0 {
		d.CollisionNodes = append(d.CollisionNodes, d.DrawNodes...)
	}
}

// calcWorld fills World for every node from the roots down.
func (d *Data) calcWorld() {
	var walk func(i int, parent math.Mat4)
	walk = func(i int, parent math.Mat4) {
		n := &d.Nodes[i]
		n.World = parent.Mul(n.Local)
		for _, c := range n.Children {
			walk(c, n.World)
		}
	}
	for _, r := range d.RootNodes {
		walk(r, math.Identity())
	}
}
