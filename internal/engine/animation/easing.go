package animation

import "github.com/chewxy/math32"

// Easing curves map progress in [0,1] to an eased value, used to ramp
// playback speed.

// InSine starts slow and ends at full speed.
func InSine(p float32) float32 {
	return 1 - math32.Cos(p*math32.Pi*0.5)
}

// OutSine starts at full speed and slows to a stop.
func OutSine(p float32) float32 {
	return math32.Sin(p * math32.Pi * 0.5)
}

// InOutSine is slow at both ends.
func InOutSine(p float32) float32 {
	return -(math32.Cos(math32.Pi*p) - 1) * 0.5
}

// OutBounce overshoots and settles like a dropped ball.
func OutBounce(p float32) float32 {
	const n1 = 7.5625
	const d1 = 2.75
	switch {
	case p < 1/d1:
		return n1 * p * p
	case p < 2/d1:
		p -= 1.5 / d1
		return n1*p*p + 0.75
	case p < 2.5/d1:
		p -= 2.25 / d1
		return n1*p*p + 0.9375
	default:
		p -= 2.625 / d1
		return n1*p*p + 0.984375
	}
}
