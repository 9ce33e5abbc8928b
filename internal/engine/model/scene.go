package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/kdframe/internal/engine/animation"
	"github.com/Faultbox/kdframe/internal/engine/mesh"
	"github.com/Faultbox/kdframe/pkg/math"
)

var (
	// ErrInvalidParent is returned for unknown, self or cyclic parents.
	ErrInvalidParent = errors.New("model: invalid parent")
	// ErrTrackNode is returned when a track names a node that does not exist.
	ErrTrackNode = errors.New("model: track references unknown node")
	// ErrKeyValue is returned for a key with the wrong number of components.
	ErrKeyValue = errors.New("model: key value has wrong length")
	// ErrBoneIndex is returned for a bone index outside the node list.
	ErrBoneIndex = errors.New("model: bone index out of range")
	// ErrFaceIndex aliases mesh.ErrFaceIndex so callers need one import.
	ErrFaceIndex = mesh.ErrFaceIndex
)

// Scene is the imported scene graph a model is built from. Times are in
// seconds and converted to frames on import. Nodes refer to their parent
// by name; an empty parent makes a root.
type Scene struct {
	Name       string      `yaml:"name" msgpack:"name"`
	Nodes      []SceneNode `yaml:"nodes" msgpack:"nodes"`
	Animations []SceneClip `yaml:"animations" msgpack:"animations"`
}

// SceneNode is one node of a Scene.
type SceneNode struct {
	Name   string `yaml:"name" msgpack:"name"`
	Parent string `yaml:"parent,omitempty" msgpack:"parent,omitempty"`

	// Matrix, when set, is the column-major local transform and overrides
	// Translation/Rotation/Scale.
	Matrix      []float32  `yaml:"matrix,omitempty" msgpack:"matrix,omitempty"`
	Translation [3]float32 `yaml:"translation" msgpack:"translation"`
	Rotation    []float32  `yaml:"rotation,omitempty" msgpack:"rotation,omitempty"` // x, y, z, w
	Scale       []float32  `yaml:"scale,omitempty" msgpack:"scale,omitempty"`

	Bone        *int      `yaml:"bone,omitempty" msgpack:"bone,omitempty"`
	InverseBind []float32 `yaml:"inverse_bind,omitempty" msgpack:"inverse_bind,omitempty"`

	Mesh *SceneMesh `yaml:"mesh,omitempty" msgpack:"mesh,omitempty"`
}

// SceneMesh is raw mesh geometry.
type SceneMesh struct {
	Positions [][3]float32  `yaml:"positions" msgpack:"positions"`
	Faces     [][3]uint32   `yaml:"faces" msgpack:"faces"`
	Subsets   []SceneSubset `yaml:"subsets,omitempty" msgpack:"subsets,omitempty"`
	Skinned   bool          `yaml:"skinned,omitempty" msgpack:"skinned,omitempty"`
}

// SceneSubset is a material range of faces.
type SceneSubset struct {
	Material  int `yaml:"material" msgpack:"material"`
	FaceStart int `yaml:"face_start" msgpack:"face_start"`
	FaceCount int `yaml:"face_count" msgpack:"face_count"`
}

// SceneClip is one animation clip.
type SceneClip struct {
	Name string `yaml:"name" msgpack:"name"`
	// Length in seconds. Zero means the time of the last key.
	Length float32      `yaml:"length,omitempty" msgpack:"length,omitempty"`
	Tracks []SceneTrack `yaml:"tracks" msgpack:"tracks"`
}

// SceneTrack animates one node by name.
type SceneTrack struct {
	Node         string     `yaml:"node" msgpack:"node"`
	Translations []SceneKey `yaml:"translations,omitempty" msgpack:"translations,omitempty"`
	Rotations    []SceneKey `yaml:"rotations,omitempty" msgpack:"rotations,omitempty"`
	Scales       []SceneKey `yaml:"scales,omitempty" msgpack:"scales,omitempty"`
}

// SceneKey is a sample: three values for vectors, four (x, y, z, w) for
// rotations.
type SceneKey struct {
	Time  float32   `yaml:"time" msgpack:"time"`
	Value []float32 `yaml:"value" msgpack:"value"`
}

// NewData validates scene and builds an immutable model from it.
func NewData(scene *Scene) (*Data, error) {
	d := &Data{Name: scene.Name, Nodes: make([]Node, len(scene.Nodes))}

	byName := make(map[string]int, len(scene.Nodes))
	for i, sn := range scene.Nodes {
		if _, dup := byName[sn.Name]; !dup {
			byName[sn.Name] = i
		}
	}

	for i := range scene.Nodes {
		sn := &scene.Nodes[i]
		n := &d.Nodes[i]
		n.Name = sn.Name
		n.Parent = -1
		n.BoneIndex = -1
		n.Local = nodeLocal(sn)
		n.BoneInverse = matrixOr(sn.InverseBind, math.Identity())

		if sn.Parent != "" {
			p, ok := byName[sn.Parent]
			if !ok || p == i {
				return nil, fmt.Errorf("node %q parent %q: %w", sn.Name, sn.Parent, ErrInvalidParent)
			}
			n.Parent = p
		}
		if sn.Bone != nil {
			if b := *sn.Bone; b < 0 || b >= len(scene.Nodes) {
				return nil, fmt.Errorf("node %q bone %d: %w", sn.Name, b, ErrBoneIndex)
			}
			n.BoneIndex = *sn.Bone
		}
		if sn.Mesh != nil {
			m, err := newMesh(sn.Mesh)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", sn.Name, err)
			}
			n.Mesh = m
			n.Skinned = m.Skinned
		}
	}

	for i := range d.Nodes {
		if p := d.Nodes[i].Parent; p >= 0 {
			d.Nodes[p].Children = append(d.Nodes[p].Children, i)
		}
	}
	if err := checkAcyclic(d.Nodes); err != nil {
		return nil, err
	}

	for _, sc := range scene.Animations {
		clip, err := newClip(&sc, byName)
		if err != nil {
			return nil, fmt.Errorf("animation %q: %w", sc.Name, err)
		}
		d.Animations = append(d.Animations, clip)
	}

	d.buildIndexLists()
	d.calcWorld()
	return d, nil
}

func checkAcyclic(nodes []Node) error {
	for i := range nodes {
		steps := 0
		for p := nodes[i].Parent; p >= 0; p = nodes[p].Parent {
			steps++
			if steps > len(nodes) {
				return fmt.Errorf("node %q: cycle: %w", nodes[i].Name, ErrInvalidParent)
			}
		}
	}
	return nil
}

func nodeLocal(sn *SceneNode) math.Mat4 {
	if len(sn.Matrix) == 16 {
		return matrixOr(sn.Matrix, math.Identity())
	}
	rot := math.QuatIdentity()
	if len(sn.Rotation) == 4 {
		rot = quatFrom(sn.Rotation).Normalize()
	}
	scale := math.Splat3(1)
	if len(sn.Scale) == 3 {
		scale = math.Vec3{X: sn.Scale[0], Y: sn.Scale[1], Z: sn.Scale[2]}
	}
	return math.Compose(math.Vec3FromArray(sn.Translation), rot, scale)
}

func matrixOr(v []float32, def math.Mat4) math.Mat4 {
	if len(v) != 16 {
		return def
	}
	var m math.Mat4
	copy(m[:], v)
	return m
}

func quatFrom(v []float32) math.Quat {
	return math.Quat{X: v[0], Y: v[1], Z: v[2], W: v[3]}
}

func newMesh(sm *SceneMesh) (*mesh.Mesh, error) {
	positions := make([]math.Vec3, len(sm.Positions))
	for i, p := range sm.Positions {
		positions[i] = math.Vec3FromArray(p)
	}
	faces := make([]mesh.Face, len(sm.Faces))
	for i, f := range sm.Faces {
		faces[i] = mesh.Face(f)
	}
	var subsets []mesh.Subset
	for _, s := range sm.Subsets {
		subsets = append(subsets, mesh.Subset{MaterialIndex: s.Material, FaceStart: s.FaceStart, FaceCount: s.FaceCount})
	}
	return mesh.New(positions, faces, subsets, sm.Skinned)
}

func newClip(sc *SceneClip, byName map[string]int) (*animation.Data, error) {
	clip := &animation.Data{Name: sc.Name, MaxLength: sc.Length * animation.FramesPerSecond}

	for _, st := range sc.Tracks {
		idx, ok := byName[st.Node]
		if !ok {
			return nil, fmt.Errorf("%q: %w", st.Node, ErrTrackNode)
		}
		tr := animation.Track{NodeIndex: idx}
		var err error
		if tr.Translations, err = vecKeys(st.Translations); err != nil {
			return nil, fmt.Errorf("%q translations: %w", st.Node, err)
		}
		if tr.Scales, err = vecKeys(st.Scales); err != nil {
			return nil, fmt.Errorf("%q scales: %w", st.Node, err)
		}
		if tr.Rotations, err = quatKeys(st.Rotations); err != nil {
			return nil, fmt.Errorf("%q rotations: %w", st.Node, err)
		}
		clip.Tracks = append(clip.Tracks, tr)
	}

	if clip.MaxLength == 0 {
		for i := range clip.Tracks {
			if d := clip.Tracks[i].Duration(); d > clip.MaxLength {
				clip.MaxLength = d
			}
		}
	}
	return clip, nil
}

func vecKeys(keys []SceneKey) ([]animation.KeyVec3, error) {
	out := make([]animation.KeyVec3, 0, len(keys))
	for _, k := range keys {
		if len(k.Value) != 3 {
			return nil, fmt.Errorf("time %v: %w", k.Time, ErrKeyValue)
		}
		out = append(out, animation.KeyVec3{
			Time:  k.Time * animation.FramesPerSecond,
			Value: math.Vec3{X: k.Value[0], Y: k.Value[1], Z: k.Value[2]},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func quatKeys(keys []SceneKey) ([]animation.KeyQuat, error) {
	out := make([]animation.KeyQuat, 0, len(keys))
	for _, k := range keys {
		if len(k.Value) != 4 {
			return nil, fmt.Errorf("time %v: %w", k.Time, ErrKeyValue)
		}
		out = append(out, animation.KeyQuat{
			Time:  k.Time * animation.FramesPerSecond,
			Value: quatFrom(k.Value).Normalize(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}
