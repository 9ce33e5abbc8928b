// Package animation evaluates keyframed node tracks into local transforms.
package animation

import (
	"sort"

	"github.com/Faultbox/kdframe/pkg/math"
)

// FramesPerSecond is the time base of keys: imported seconds are scaled by
// it so that a playback speed of 1 advances one frame.
const FramesPerSecond = 60

// KeyVec3 is a translation or scale sample.
type KeyVec3 struct {
	Time  float32
	Value math.Vec3
}

// KeyQuat is a rotation sample.
type KeyQuat struct {
	Time  float32
	Value math.Quat
}

// Track holds the keys of one animated node. Keys in each channel are
// sorted by ascending time.
type Track struct {
	NodeIndex    int
	Translations []KeyVec3
	Rotations    []KeyQuat
	Scales       []KeyVec3
}

// nextKey returns the first index whose key time is strictly after t.
func nextKey(n int, timeAt func(int) float32, t float32) int {
	return sort.Search(n, func(i int) bool { return timeAt(i) > t })
}

// bracket locates the keys around t. When prev == next the value is a
// single key (before the first, after the last, or a zero-length span).
func bracket(n int, timeAt func(int) float32, t float32) (prev, next int, f float32) {
	idx := nextKey(n, timeAt, t)
	switch {
	case idx == 0:
		return 0, 0, 0
	case idx >= n:
		return n - 1, n - 1, 0
	}
	prev, next = idx-1, idx
	span := timeAt(next) - timeAt(prev)
	if span <= 0 {
		// Equal times are a hard cut to the later key.
		return next, next, 0
	}
	return prev, next, (t - timeAt(prev)) / span
}

func interpolateVec3(keys []KeyVec3, t float32) (math.Vec3, bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	prev, next, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value, true
	}
	return keys[prev].Value.Lerp(keys[next].Value, f), true
}

// InterpolateTranslation samples the translation channel at t. ok is false
// when the channel has no keys.
func (tr *Track) InterpolateTranslation(t float32) (math.Vec3, bool) {
	return interpolateVec3(tr.Translations, t)
}

// InterpolateScale samples the scale channel at t.
func (tr *Track) InterpolateScale(t float32) (math.Vec3, bool) {
	return interpolateVec3(tr.Scales, t)
}

// InterpolateRotation samples the rotation channel at t using slerp.
func (tr *Track) InterpolateRotation(t float32) (math.Quat, bool) {
	keys := tr.Rotations
	if len(keys) == 0 {
		return math.QuatIdentity(), false
	}
	prev, next, f := bracket(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value, true
	}
	return keys[prev].Value.Slerp(keys[next].Value, f), true
}

// Interpolate writes T*R*S at time t into dst. Channels without keys
// contribute identity; if no channel has keys dst keeps its bind pose.
func (tr *Track) Interpolate(dst *math.Mat4, t float32) bool {
	pos, hasPos := tr.InterpolateTranslation(t)
	rot, hasRot := tr.InterpolateRotation(t)
	scale, hasScale := tr.InterpolateScale(t)
	if !hasPos && !hasRot && !hasScale {
		return false
	}
	if !hasScale {
		scale = math.Splat3(1)
	}
	*dst = math.Compose(pos, rot, scale)
	return true
}

// Duration returns the time of the last key over all channels.
func (tr *Track) Duration() float32 {
	var d float32
	if n := len(tr.Translations); n > 0 && tr.Translations[n-1].Time > d {
		d = tr.Translations[n-1].Time
	}
	if n := len(tr.Rotations); n > 0 && tr.Rotations[n-1].Time > d {
		d = tr.Rotations[n-1].Time
	}
	if n := len(tr.Scales); n > 0 && tr.Scales[n-1].Time > d {
		d = tr.Scales[n-1].Time
	}
	return d
}
