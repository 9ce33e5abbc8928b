package animation

import (
	"go.uber.org/zap"

	"github.com/Faultbox/kdframe/pkg/math"
)

// Data is one clip. It is immutable once loaded and shared by every
// Animator that plays it.
type Data struct {
	Name      string
	MaxLength float32
	Tracks    []Track
}

// NodeWriter receives evaluated local transforms. Implementations mark
// their world transforms stale on write.
type NodeWriter interface {
	NodeCount() int
	SetLocal(index int, local math.Mat4)
	Local(index int) math.Mat4
}

// Animator is the playhead of one skeleton instance.
type Animator struct {
	data *Data
	time float32
	loop bool
	log  *zap.Logger
}

// NewAnimator creates an idle animator. A nil logger disables logging.
func NewAnimator(log *zap.Logger) *Animator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Animator{log: log}
}

// SetAnimation starts data from time zero.
func (a *Animator) SetAnimation(data *Data, loop bool) {
	a.data = data
	a.loop = loop
	a.time = 0
	if data != nil {
		a.log.Debug("animation set",
			zap.String("clip", data.Name),
			zap.Float32("length", data.MaxLength),
			zap.Bool("loop", loop))
	}
}

// Animation returns the clip being played, or nil.
func (a *Animator) Animation() *Data { return a.data }

// Time returns the playhead in frames.
func (a *Animator) Time() float32 { return a.time }

// Looping reports whether the clip wraps at its end.
func (a *Animator) Looping() bool { return a.loop }

// IsAnimationEnd reports whether there is nothing left to play.
func (a *Animator) IsAnimationEnd() bool {
	return a.data == nil || a.time >= a.data.MaxLength
}

// Progress returns the playhead normalized to [0,1].
func (a *Animator) Progress() float32 {
	if a.data == nil || a.data.MaxLength <= 0 {
		return 0
	}
	p := a.time / a.data.MaxLength
	if p > 1 {
		return 1
	}
	return p
}

// ResetAdvanceTime rewinds the playhead.
func (a *Animator) ResetAdvanceTime() { a.time = 0 }

// AdvanceTime writes every track sampled at the current time into nodes,
// then moves the playhead by speed frames. At the end of the clip the
// playhead wraps to zero when looping and clamps otherwise.
func (a *Animator) AdvanceTime(nodes NodeWriter, speed float32) {
	if a.data == nil {
		return
	}

	count := nodes.NodeCount()
	for i := range a.data.Tracks {
		tr := &a.data.Tracks[i]
		if tr.NodeIndex < 0 || tr.NodeIndex >= count {
			continue
		}
		local := nodes.Local(tr.NodeIndex)
		if tr.Interpolate(&local, a.time) {
			nodes.SetLocal(tr.NodeIndex, local)
		}
	}

	a.time += speed
	if a.time >= a.data.MaxLength {
		if a.loop {
			a.time = 0
		} else {
			a.time = a.data.MaxLength
		}
	}
}
