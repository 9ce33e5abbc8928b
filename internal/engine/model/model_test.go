package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/kdframe/internal/engine/animation"
	"github.com/Faultbox/kdframe/pkg/math"
)

func triangleMesh() *SceneMesh {
	return &SceneMesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Faces:     [][3]uint32{{0, 1, 2}},
	}
}

func armScene() *Scene {
	bone := 0
	return &Scene{
		Name: "arm",
		Nodes: []SceneNode{
			{Name: "root", Translation: [3]float32{0, 1, 0}},
			{Name: "upper", Parent: "root", Translation: [3]float32{2, 0, 0}, Bone: &bone, Mesh: triangleMesh()},
			{Name: "lower", Parent: "upper", Translation: [3]float32{3, 0, 0}, Mesh: triangleMesh()},
			{Name: "body_COL", Parent: "root", Mesh: triangleMesh()},
		},
		Animations: []SceneClip{{
			Name: "swing",
			Tracks: []SceneTrack{{
				Node: "lower",
				Translations: []SceneKey{
					{Time: 1, Value: []float32{3, 2, 0}},
					{Time: 0, Value: []float32{3, 0, 0}},
				},
			}},
		}},
	}
}

func TestNewDataIndexLists(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)

	assert.Equal(t, []int{0}, d.RootNodes)
	assert.Equal(t, []int{1, 2, 3}, d.MeshNodes)
	assert.Equal(t, []int{1, 2}, d.DrawNodes)
	assert.Equal(t, []int{3}, d.CollisionNodes)
	assert.Equal(t, []int{1}, d.BoneNodes)
	assert.Equal(t, []int{1, 3}, d.Nodes[0].Children)
	assert.False(t, d.IsSkinMesh())
}

func TestCollisionFallsBackToDrawNodes(t *testing.T) {
	s := armScene()
	s.Nodes = s.Nodes[:3]
	d, err := NewData(s)
	require.NoError(t, err)
	assert.Equal(t, d.DrawNodes, d.CollisionNodes)
}

func TestNewDataWorldTransforms(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)

	lower, ok := d.FindNode("lower")
	require.True(t, ok)
	assert.Equal(t, math.V3(5, 1, 0), lower.World.Translation())
}

func TestNewDataClipsInFrames(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)

	clip := d.Animation("swing")
	require.NotNil(t, clip)
	assert.Same(t, clip, d.AnimationAt(0))
	assert.Nil(t, d.AnimationAt(1))
	assert.Nil(t, d.Animation("missing"))

	assert.Equal(t, float32(animation.FramesPerSecond), clip.MaxLength)
	require.Len(t, clip.Tracks, 1)
	tr := clip.Tracks[0]
	assert.Equal(t, 2, tr.NodeIndex)
	// Keys are sorted on import.
	assert.Equal(t, float32(0), tr.Translations[0].Time)
	assert.Equal(t, float32(60), tr.Translations[1].Time)
}

func TestNewDataErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		want   error
	}{
		{"unknown parent", func(s *Scene) { s.Nodes[1].Parent = "nope" }, ErrInvalidParent},
		{"self parent", func(s *Scene) { s.Nodes[1].Parent = "upper" }, ErrInvalidParent},
		{"cycle", func(s *Scene) { s.Nodes[0].Parent = "lower" }, ErrInvalidParent},
		{"face index", func(s *Scene) { s.Nodes[2].Mesh.Faces[0][2] = 9 }, ErrFaceIndex},
		{"track node", func(s *Scene) { s.Animations[0].Tracks[0].Node = "ghost" }, ErrTrackNode},
		{"key length", func(s *Scene) { s.Animations[0].Tracks[0].Translations[0].Value = []float32{1} }, ErrKeyValue},
		{"huge bone", func(s *Scene) { big := 1_000_000_000; s.Nodes[1].Bone = &big }, ErrBoneIndex},
		{"negative bone", func(s *Scene) { neg := -1; s.Nodes[1].Bone = &neg }, ErrBoneIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := armScene()
			tt.mutate(s)
			_, err := NewData(s)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRotationKeysNormalized(t *testing.T) {
	s := armScene()
	s.Animations[0].Tracks[0].Rotations = []SceneKey{
		{Time: 0, Value: []float32{0, 0, 0, 2}},
		{Time: 1, Value: []float32{0, 0, 3, 0}},
	}
	d, err := NewData(s)
	require.NoError(t, err)

	keys := d.Animation("swing").Tracks[0].Rotations
	require.Len(t, keys, 2)
	assert.Equal(t, math.QuatIdentity(), keys[0].Value)
	assert.Equal(t, math.Quat{Z: 1}, keys[1].Value)
}

func TestWorkDirtyState(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)
	w := NewWork(d)
	assert.Equal(t, Dirty, w.State())

	w.CalcNodeMatrices()
	assert.Equal(t, Clean, w.State())

	_ = w.Nodes()
	assert.Equal(t, Clean, w.State(), "reads keep the tree clean")

	w.WorkNodes()
	assert.Equal(t, Dirty, w.State())
	w.CalcNodeMatrices()

	require.NotNil(t, w.FindWorkNode("upper"))
	assert.Equal(t, Dirty, w.State())
	w.CalcNodeMatrices()

	assert.Nil(t, w.FindWorkNode("missing"))
	assert.Equal(t, Clean, w.State())
}

func TestWorkPropagatesParentChanges(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)
	w := NewWork(d)

	w.SetLocal(0, math.Translate(0, 10, 0))
	assert.Equal(t, Dirty, w.State())

	// Reading lower must see the new root.
	lower, ok := w.FindNode("lower")
	require.True(t, ok)
	assert.Equal(t, math.V3(5, 10, 0), lower.World.Translation())
	assert.Equal(t, Clean, w.State())

	// Shared data is untouched.
	assert.Equal(t, math.V3(5, 1, 0), d.Nodes[2].World.Translation())
}

func TestWorkDrivenByAnimator(t *testing.T) {
	d, err := NewData(armScene())
	require.NoError(t, err)
	w := NewWork(d)
	w.CalcNodeMatrices()

	a := animation.NewAnimator(nil)
	a.SetAnimation(d.Animation("swing"), true)
	a.AdvanceTime(w, 30)
	a.AdvanceTime(w, 1)

	assert.Equal(t, Dirty, w.State())
	// Half way through: lower local is (3,1,0), world adds root and upper.
	assert.Equal(t, math.V3(5, 2, 0), w.World(2).Translation())
}

func TestWorkSetData(t *testing.T) {
	w := NewWork(nil)
	assert.Zero(t, w.NodeCount())
	w.CalcNodeMatrices()

	d, err := NewData(armScene())
	require.NoError(t, err)
	w.SetData(d)
	assert.Equal(t, 4, w.NodeCount())
	assert.Same(t, d, w.Data())
	assert.Equal(t, "dirty", w.State().String())
}
