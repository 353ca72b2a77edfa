// Package progress smooths discrete "k of n done" updates into an animated percentage.
//
// A [Reporter] is owned by the foreground loop and stepped with explicit timestamps, typically every [FrameInterval].
// It never blocks and never starts goroutines, so the export worker only has to emit target values.
package progress

import (
	"math"
	"time"
)

const (
	// FrameInterval is the tick period foregrounds use to step a Reporter.
	FrameInterval = 16 * time.Millisecond
	// RiseDuration is how long SetTarget takes to reach its target.
	RiseDuration = 900 * time.Millisecond
	// DecayDuration is the default length of DecayToZero.
	DecayDuration = 300 * time.Millisecond

	Max = 100.0
)

type animKind int

const (
	animNone animKind = iota
	animRise
	animDecay
)

// Reporter holds a displayed value and the target it is moving toward.
type Reporter struct {
	current  float64
	target   float64
	from     float64
	start    time.Time
	duration time.Duration
	kind     animKind
}

// New returns a Reporter at zero.
func New() *Reporter {
	return &Reporter{}
}

// SetTarget starts an ease-in-out rise from the live current value to v, replacing any running animation.
func (r *Reporter) SetTarget(v float64, now time.Time) {
	r.Step(now)

	r.target = clamp(v)
	r.from = r.current
	r.start = now
	r.duration = RiseDuration
	r.kind = animRise
	if r.from == r.target {
		r.kind = animNone
	}
}

// DecayToZero starts a one-shot ease-out fall from the current value to 0 over d.
//
// A non-positive d selects [DecayDuration]. Any rise animation is dropped.
func (r *Reporter) DecayToZero(d time.Duration, now time.Time) {
	r.Step(now)
	if d <= 0 {
		d = DecayDuration
	}

	r.target = 0
	r.from = r.current
	r.start = now
	r.duration = d
	r.kind = animDecay
	if r.from == 0 {
		r.kind = animNone
	}
}

// Reset jumps to zero with no animation.
func (r *Reporter) Reset() {
	*r = Reporter{}
}

// Step advances the animation to now and returns the displayed value and whether an animation is still running.
func (r *Reporter) Step(now time.Time) (float64, bool) {
	if r.kind == animNone {
		return r.current, false
	}

	t := 1.0
	if r.duration > 0 {
		t = float64(now.Sub(r.start)) / float64(r.duration)
	}
	t = math.Max(0, math.Min(1, t))

	switch r.kind {
	case animRise:
		r.current = r.from + (r.target-r.from)*easeInOutCubic(t)
	case animDecay:
		r.current = r.from * easeOutDecay(t)
	}

	if t >= 1 {
		r.current = r.target
		r.kind = animNone
		return r.current, false
	}
	return r.current, true
}

// Value is the last stepped display value.
func (r *Reporter) Value() float64 { return r.current }

// Target is the value the current animation ends at.
func (r *Reporter) Target() float64 { return r.target }

// Animating reports whether Step would still move the value.
func (r *Reporter) Animating() bool { return r.kind != animNone }

// Fraction is Value scaled to [0, 1], the form progress bars take.
func (r *Reporter) Fraction() float64 { return r.current / Max }

// Percent converts k of n into a target value. n <= 0 counts as done.
func Percent(k, n int) float64 {
	if n <= 0 {
		return Max
	}
	return clamp(float64(k) / float64(n) * Max)
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// easeOutDecay is the remaining fraction (1-t)^2.
func easeOutDecay(t float64) float64 {
	return (1 - t) * (1 - t)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(Max, v))
}
