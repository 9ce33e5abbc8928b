package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/kdframe/internal/assets"
	"github.com/Faultbox/kdframe/internal/config"
	"github.com/Faultbox/kdframe/internal/engine/collision"
	"github.com/Faultbox/kdframe/pkg/math"
)

func TestParseRequest(t *testing.T) {
	req, err := parseRequest("level.yaml", "rise", 3, "0,0,5:0,0,-2:10", "1,2,3:0.5", "0,1.2,8", "ground, bump")
	require.NoError(t, err)

	assert.Equal(t, collision.TypeGround|collision.TypeBump, req.types)
	require.NotNil(t, req.ray)
	assert.Equal(t, math.V3(0, 0, 5), req.ray.Ray.Origin)
	assert.Equal(t, math.V3(0, 0, -1), req.ray.Ray.Dir)
	assert.Equal(t, float32(10), req.ray.Ray.Range)
	require.NotNil(t, req.sphere)
	assert.Equal(t, float32(0.5), req.sphere.Sphere.Radius)
	require.NotNil(t, req.orbit)
	assert.Equal(t, float32(8), req.orbit.Distance)

	req, err = parseRequest("level.yaml", "", 0, "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, collision.TypeGround, req.types)
	assert.Nil(t, req.ray)
}

func TestParseRequestErrors(t *testing.T) {
	tests := []struct {
		name               string
		ray, sphere, orbit string
		types              string
		want               error
	}{
		{"unknown type", "", "", "", "lava", collision.ErrUnknownType},
		{"ray parts", "0,0,0:0,0,1", "", "", "ground", errBadQuery},
		{"ray vector", "0,0:0,0,1:5", "", "", "ground", errBadVector},
		{"ray zero dir", "0,0,0:0,0,0:5", "", "", "ground", collision.ErrZeroRayDirection},
		{"ray range", "0,0,0:0,0,1:far", "", "", "ground", errBadQuery},
		{"sphere parts", "", "0,0,0", "", "ground", errBadQuery},
		{"orbit distance", "", "", "0,0.5,-1", "ground", errBadQuery},
		{"orbit vector", "", "", "0,0.5", "ground", errBadVector},
		{"sphere number", "", "0,x,0:1", "", "ground", errBadVector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRequest("level.yaml", "", 0, tt.ray, tt.sphere, tt.orbit, tt.types)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRunPosesAndQueries(t *testing.T) {
	store := assets.NewStore("testdata", nil)
	req, err := parseRequest("level.yaml", "rise", 31, "0,0,5:0,0,-1:10", "0,0,0.5:1", "0,0,20", "ground")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(config.Default(), req, store, &out))

	text := out.String()
	assert.Contains(t, text, "clip rise time 31.00/60.00")
	assert.Contains(t, text, "(0.000, 2.000, 0.000)")
	assert.Contains(t, text, "ray hit 0: pos (0.000, 0.000, 0.000)")
	assert.Contains(t, text, "overlap 5.000")
	assert.Contains(t, text, "sphere hit 0:")
	assert.Contains(t, text, "orbit hit 0:")
	assert.Zero(t, store.Stats().Entries, "scene released after the run")
}

func TestRunOrbitsSceneBounds(t *testing.T) {
	store := assets.NewStore("testdata", nil)

	for _, orbit := range []string{"0,0,5", "0,0,0"} {
		t.Run(orbit, func(t *testing.T) {
			req, err := parseRequest("ledge.yaml", "", 0, "", "", orbit, "ground")
			require.NoError(t, err)

			var out bytes.Buffer
			require.NoError(t, run(config.Default(), req, store, &out))
			assert.Contains(t, out.String(), "orbit hit 0: pos (6.000, 2.000, 1.000)")
		})
	}
}

func TestRunHonoursConfig(t *testing.T) {
	store := assets.NewStore("testdata", nil)
	cfg := config.Default()
	cfg.Collision.DisabledTypes = []string{"ground"}

	req, err := parseRequest("level.yaml", "", 0, "0,0,5:0,0,-1:10", "", "", "ground")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(cfg, req, store, &out))
	assert.Contains(t, out.String(), "ray: no hit")
	assert.NotContains(t, out.String(), "clip")
}

func TestRunErrors(t *testing.T) {
	store := assets.NewStore("testdata", nil)

	req, err := parseRequest("level.yaml", "dance", 1, "", "", "", "ground")
	require.NoError(t, err)
	assert.ErrorIs(t, run(config.Default(), req, store, &bytes.Buffer{}), errNoClip)

	req.scene = "missing.yaml"
	assert.Error(t, run(config.Default(), req, store, &bytes.Buffer{}))
}
