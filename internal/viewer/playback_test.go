package viewer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlaybackAdvance(t *testing.T) {
	p := NewPlayback(10, 1)
	p.SetRange(4, 3)

	frame, next, inter := p.Frames()
	assert.Equal(t, 4, frame)
	assert.Equal(t, 5, next)
	assert.Zero(t, inter)

	p.Advance(150 * time.Millisecond)
	frame, next, inter = p.Frames()
	assert.Equal(t, 5, frame)
	assert.Equal(t, 6, next)
	assert.InDelta(t, 0.5, inter, 1e-4)

	// last frame blends back into the first
	p.Advance(100 * time.Millisecond)
	frame, next, _ = p.Frames()
	assert.Equal(t, 6, frame)
	assert.Equal(t, 4, next)

	p.Advance(100 * time.Millisecond)
	frame, _, _ = p.Frames()
	assert.Equal(t, 4, frame)
}

func TestPlaybackBlendScale(t *testing.T) {
	p := NewPlayback(1, 0.5)
	p.SetRange(0, 2)
	p.Advance(500 * time.Millisecond)
	_, _, inter := p.Frames()
	assert.InDelta(t, 0.25, inter, 1e-4)

	p = NewPlayback(1, 0)
	p.SetRange(0, 2)
	p.Advance(500 * time.Millisecond)
	_, _, inter = p.Frames()
	assert.Zero(t, inter)
}

func TestPlaybackPausedAndStep(t *testing.T) {
	p := NewPlayback(10, 1)
	p.SetRange(0, 4)
	p.Advance(50 * time.Millisecond)
	p.Paused = true
	p.Advance(time.Second)

	frame, _, inter := p.Frames()
	assert.Equal(t, 0, frame)
	assert.InDelta(t, 0.5, inter, 1e-4)

	p.Step(1)
	frame, _, inter = p.Frames()
	assert.Equal(t, 1, frame)
	assert.Zero(t, inter)

	p.Step(-2)
	frame, _, _ = p.Frames()
	assert.Equal(t, 3, frame)
}

func TestPlaybackEmpty(t *testing.T) {
	p := NewPlayback(30, 1)
	p.SetRange(0, 0)
	p.Advance(time.Second)
	p.Step(1)

	frame, next, inter := p.Frames()
	assert.Equal(t, 0, frame)
	assert.Equal(t, 0, next)
	assert.Zero(t, inter)

	start, count := p.Range()
	assert.Equal(t, 0, start)
	assert.Equal(t, 0, count)
}
