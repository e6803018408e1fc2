package viewer

import (
	gomath "math"
	"time"
)

// Playback walks a range of timeline frames at a fixed rate and yields the
// frame pair a model blends between.
type Playback struct {
	fps   float64
	blend float32

	start int
	count int
	pos   float64 // frames into the range

	Paused bool
}

// NewPlayback creates a playback at fps frames per second. blend scales the
// interpolation toward the next frame; 0 disables it.
func NewPlayback(fps int, blend float32) *Playback {
	return &Playback{fps: float64(fps), blend: blend}
}

// SetRange restarts playback on count frames from start.
func (p *Playback) SetRange(start, count int) {
	p.start = start
	p.count = max(count, 0)
	p.pos = 0
}

// Range returns the frames being played.
func (p *Playback) Range() (start, count int) {
	return p.start, p.count
}

// Advance moves playback forward by dt, looping over the range.
func (p *Playback) Advance(dt time.Duration) {
	if p.Paused || p.count == 0 {
		return
	}
	p.pos = wrap(p.pos+dt.Seconds()*p.fps, float64(p.count))
}

// Step moves n whole frames, dropping any partial frame.
func (p *Playback) Step(n int) {
	if p.count == 0 {
		return
	}
	p.pos = wrap(gomath.Floor(p.pos)+float64(n), float64(p.count))
}

// Frames returns the current frame, the one after it within the range and
// the blend factor between them.
func (p *Playback) Frames() (frame, next int, inter float32) {
	if p.count == 0 {
		return p.start, p.start, 0
	}
	i := int(p.pos)
	frac := p.pos - float64(i)
	return p.start + i, p.start + (i+1)%p.count, float32(frac) * p.blend
}

func wrap(pos, n float64) float64 {
	pos = gomath.Mod(pos, n)
	if pos < 0 {
		pos += n
	}
	return pos
}
