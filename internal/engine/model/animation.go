package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Faultbox/midgard-smd/pkg/formats"
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
)

// ErrFrameOutOfRange is returned when a global frame index is not covered by any clip.
var ErrFrameOutOfRange = errors.New("frame out of range")

// Clip is an animation placed on the timeline.
type Clip struct {
	Name  string // Empty for anonymous clips
	Path  string
	Start int // First global frame
	Anim  *formats.SMDAnim

	nodes []int // Clip node index to skeleton index, -1 when absent
}

// FrameCount returns the number of frames the clip occupies.
func (c *Clip) FrameCount() int {
	return c.Anim.FrameCount()
}

// End returns the first global frame after the clip.
func (c *Clip) End() int {
	return c.Start + c.FrameCount()
}

// Contains reports whether the global frame belongs to the clip.
func (c *Clip) Contains(frame int) bool {
	return frame >= c.Start && frame < c.End()
}

// Timeline concatenates clips into one global frame index space in load order.
type Timeline struct {
	clips  []*Clip
	byName map[string]int
	frames int
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{
		byName: make(map[string]int),
	}
}

// LoadClip parses an animation and appends it to the timeline, binding its
// nodes by name to skel. Nodes the skeleton does not have are reported and ignored.
func (t *Timeline) LoadClip(path, name string, data []byte, skel *skeleton.Skeleton, opts formats.SMDOptions) (*Clip, *formats.Diagnostics, error) {
	anim, diag, err := formats.ParseSMDAnim(path, data, opts)
	if err != nil {
		return nil, diag, err
	}
	clip := t.AddClip(name, anim, skel, diag)
	return clip, diag, nil
}

// AddClip appends an already parsed animation. Unmatched node warnings go to diag
// when it is not nil. A name that is already taken now refers to the new clip.
func (t *Timeline) AddClip(name string, anim *formats.SMDAnim, skel *skeleton.Skeleton, diag *formats.Diagnostics) *Clip {
	clip := &Clip{
		Name:  name,
		Path:  anim.Path,
		Start: t.frames,
		Anim:  anim,
		nodes: make([]int, len(anim.Nodes)),
	}
	for i, node := range anim.Nodes {
		idx, ok := skel.Index(node)
		if !ok {
			idx = -1
			if diag != nil {
				diag.Warn(formats.WarnUnmatchedNode, anim.Path, 0, "clip node %q is not in the model skeleton", node)
			}
		}
		clip.nodes[i] = idx
	}

	t.clips = append(t.clips, clip)
	t.frames += clip.FrameCount()
	if name != "" {
		t.byName[name] = len(t.clips) - 1
	}
	return clip
}

// FrameCount returns the total number of frames across all clips.
func (t *Timeline) FrameCount() int {
	return t.frames
}

// Clips returns the clips in load order.
func (t *Timeline) Clips() []*Clip {
	return t.clips
}

// FindFrame returns the first global frame of the named clip, or 0 when the
// name is unknown.
func (t *Timeline) FindFrame(name string) int {
	i, ok := t.byName[name]
	if !ok {
		return 0
	}
	return t.clips[i].Start
}

// ClipAt returns the clip that owns a global frame.
func (t *Timeline) ClipAt(frame int) (*Clip, bool) {
	if frame < 0 || frame >= t.frames {
		return nil, false
	}
	i := sort.Search(len(t.clips), func(i int) bool {
		return t.clips[i].End() > frame
	})
	if i == len(t.clips) || !t.clips[i].Contains(frame) {
		return nil, false
	}
	return t.clips[i], true
}

// SetPose writes the pose of a global frame into the local transforms of skel.
// With bias >= 1 positions and rotations are replaced. Below 1 positions are
// blended toward the frame by bias while rotations are still replaced.
// Nodes a clip has never keyed are left as they are.
func (t *Timeline) SetPose(skel *skeleton.Skeleton, frame int, bias float32) error {
	clip, ok := t.ClipAt(frame)
	if !ok {
		return fmt.Errorf("%w: %d (timeline has %d frames)", ErrFrameOutOfRange, frame, t.frames)
	}

	poses := clip.Anim.Frames[frame-clip.Start].Pose
	for i, p := range poses {
		if !p.Set || i >= len(clip.nodes) || clip.nodes[i] < 0 {
			continue
		}
		node := skel.Node(clip.nodes[i])
		if node == nil {
			continue
		}
		if bias >= 1 {
			node.Local = skeleton.Transform{Position: p.Position, Rotation: p.Rotation}
			continue
		}
		node.Local.Position = p.Position.Scale(bias).Add(node.Local.Position.Scale(1 - bias))
		node.Local.Rotation = p.Rotation
	}
	return nil
}
