package assets

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/kdframe/internal/engine/model"
	"github.com/Faultbox/kdframe/pkg/math"
)

func copyFixture(t *testing.T, dir, name string) string {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "arm.yaml"))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, src, 0644))
	return path
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
		err  bool
	}{
		{"a.yaml", FormatYAML, false},
		{"b.YML", FormatYAML, false},
		{"c.msgpack", FormatMsgpack, false},
		{"d.mpk", FormatMsgpack, false},
		{"e.gltf", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				assert.False(t, IsSceneFile(tt.path))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDataYAML(t *testing.T) {
	d, err := LoadData(filepath.Join("testdata", "arm.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "arm", d.Name)
	assert.Equal(t, []int{3}, d.CollisionNodes)
	lower, ok := d.FindNode("lower")
	require.True(t, ok)
	assert.Equal(t, math.V3(5, 1, 0), lower.World.Translation())
	require.NotNil(t, d.Animation("swing"))
	assert.Equal(t, float32(60), d.Animation("swing").MaxLength)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := DecodeScene(strings.NewReader("name: x\nbogus: 1\n"), FormatYAML)
	assert.Error(t, err)
}

func TestMsgpackMatchesYAML(t *testing.T) {
	scene, err := LoadScene(filepath.Join("testdata", "arm.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeMsgpack(&buf, scene))
	path := filepath.Join(t.TempDir(), "arm.mpk")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

	fromYAML, err := model.NewData(scene)
	require.NoError(t, err)
	fromPack, err := LoadData(path)
	require.NoError(t, err)

	require.Len(t, fromPack.Nodes, len(fromYAML.Nodes))
	for i := range fromYAML.Nodes {
		assert.Equal(t, fromYAML.Nodes[i].World, fromPack.Nodes[i].World, fromYAML.Nodes[i].Name)
	}
	assert.Equal(t, fromYAML.Animations[0].Tracks, fromPack.Animations[0].Tracks)
}

func TestEncodeYAMLLoadsBack(t *testing.T) {
	scene, err := LoadScene(filepath.Join("testdata", "arm.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, scene))
	again, err := DecodeScene(&buf, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, scene.Nodes[2].Name, again.Nodes[2].Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadData("scene.obj")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = LoadData(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nodes:\n  - name: a\n    parent: ghost\n"), 0644))
	_, err = LoadData(bad)
	assert.ErrorIs(t, err, model.ErrInvalidParent)
}

func TestStoreRefCounts(t *testing.T) {
	s := NewStore("testdata", nil)

	a, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	b, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, Stats{Entries: 1, Refs: 2, Hits: 1, Misses: 1}, s.Stats())

	s.Release("arm.yaml")
	assert.Equal(t, 1, s.Stats().Entries)
	s.Release("arm.yaml")
	assert.Equal(t, 0, s.Stats().Entries)
	s.Release("arm.yaml")

	c, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	assert.NotSame(t, a, c)

	_, err = s.Acquire("missing.yaml")
	assert.Error(t, err)

	s.Clear()
	assert.Equal(t, Stats{}, s.Stats())
}

func TestStoreInvalidateReloads(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, "arm.yaml")
	s := NewStore(dir, nil)

	first, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	assert.False(t, s.Invalidate(filepath.Join(dir, "other.yaml")))
	assert.True(t, s.Invalidate(s.Path("arm.yaml")))
	assert.True(t, s.Stale("arm.yaml"))

	second, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.False(t, s.Stale("arm.yaml"))
	assert.Equal(t, 2, s.Stats().Refs)
}

func TestWatcherMarksStale(t *testing.T) {
	dir := t.TempDir()
	path := copyFixture(t, dir, "arm.yaml")
	s := NewStore(dir, nil)
	_, err := s.Acquire("arm.yaml")
	require.NoError(t, err)

	w, err := NewWatcher(s, 10*time.Millisecond, dir)
	require.NoError(t, err)
	defer w.Close()

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(src, '\n'), 0644))

	require.Eventually(t, func() bool { return s.Stale("arm.yaml") }, 2*time.Second, 10*time.Millisecond)

	// Non-scene files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	for range w.Events {
	}
}

func TestWatcherWaitsForLastWrite(t *testing.T) {
	const debounce = 150 * time.Millisecond

	dir := t.TempDir()
	path := copyFixture(t, dir, "arm.yaml")
	s := NewStore(dir, nil)
	_, err := s.Acquire("arm.yaml")
	require.NoError(t, err)

	w, err := NewWatcher(s, debounce, dir)
	require.NoError(t, err)
	defer w.Close()

	full, err := os.ReadFile(path)
	require.NoError(t, err)

	// A save split in two: a truncated file, then the complete one.
	require.NoError(t, os.WriteFile(path, full[:len(full)/2], 0644))
	time.Sleep(debounce / 5)
	require.NoError(t, os.WriteFile(path, full, 0644))
	lastWrite := time.Now()

	select {
	case got := <-w.Events:
		assert.Equal(t, path, got)
		assert.GreaterOrEqual(t, time.Since(lastWrite), debounce)
	case <-time.After(2 * time.Second):
		t.Fatal("no event after the final write")
	}

	assert.True(t, s.Stale("arm.yaml"))
	d, err := s.Acquire("arm.yaml")
	require.NoError(t, err)
	assert.Equal(t, "arm", d.Name)

	select {
	case got := <-w.Events:
		t.Fatalf("unexpected second event for %s", got)
	case <-time.After(2 * debounce):
	}
}
