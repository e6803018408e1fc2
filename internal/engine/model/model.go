package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/engine/material"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/pkg/formats"
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
)

// Model is a loaded SMD model with its live pose and animation timeline.
// A Model is not safe for concurrent use: posing, skinning and rendering must
// be serialized by the caller.
type Model struct {
	path     string
	smd      *formats.SMD
	bindPose skeleton.Pose
	live     *skeleton.Skeleton
	timeline *Timeline
	opts     Options

	vbuf     VertexBuffer
	vbufSize int

	log *zap.Logger
}

// Load parses a model. Warnings are logged and the load only fails on fatal
// parse errors.
func Load(path string, data []byte, opts Options) (*Model, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Named("model")
	}

	smd, diag, err := formats.ParseSMD(path, data, opts.Parse)
	logDiagnostics(log, diag)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}

	m := &Model{
		path:     path,
		smd:      smd,
		bindPose: smd.Skeleton.Flatten(),
		live:     smd.Skeleton.Clone(),
		opts:     opts,
		log:      log,
	}
	log.Debug("loaded model",
		zap.String("path", path),
		zap.Int("nodes", smd.Skeleton.Len()),
		zap.Int("surfaces", len(smd.Surfaces)),
		zap.Int("triangles", smd.TriangleCount()),
		zap.Int("warnings", diag.Len()))
	return m, nil
}

// LoadAnimation parses an animation clip and appends it to the model's timeline.
// An empty name adds an anonymous clip that FindFrame cannot locate.
func (m *Model) LoadAnimation(path, name string, data []byte) (*Clip, error) {
	if m.timeline == nil {
		m.timeline = NewTimeline()
	}
	clip, diag, err := m.timeline.LoadClip(path, name, data, m.live, m.opts.Parse)
	logDiagnostics(m.log, diag)
	if err != nil {
		return nil, fmt.Errorf("loading animation: %w", err)
	}
	m.log.Debug("loaded animation",
		zap.String("path", path),
		zap.String("name", name),
		zap.Int("start", clip.Start),
		zap.Int("frames", clip.FrameCount()))
	return clip, nil
}

// Path returns the path the model was loaded from.
func (m *Model) Path() string {
	return m.path
}

// SMD returns the parsed model data. The skeleton it holds is the bind pose.
func (m *Model) SMD() *formats.SMD {
	return m.smd
}

// Skeleton returns the live skeleton that SetPose writes to.
func (m *Model) Skeleton() *skeleton.Skeleton {
	return m.live
}

// BindPose returns the flattened bind pose.
func (m *Model) BindPose() skeleton.Pose {
	return m.bindPose
}

// Timeline returns the animation timeline, nil when no clip was loaded.
func (m *Model) Timeline() *Timeline {
	return m.timeline
}

// FrameCount returns the number of animation frames.
func (m *Model) FrameCount() int {
	if m.timeline == nil {
		return 0
	}
	return m.timeline.FrameCount()
}

// FindFrame returns the first frame of the named clip, 0 if there is none.
func (m *Model) FindFrame(name string) int {
	if m.timeline == nil {
		return 0
	}
	return m.timeline.FindFrame(name)
}

// SetPose applies a timeline frame to the live skeleton.
func (m *Model) SetPose(frame int, bias float32) error {
	if m.timeline == nil {
		return fmt.Errorf("%w: %d (model has no animation)", ErrFrameOutOfRange, frame)
	}
	return m.timeline.SetPose(m.live, frame, bias)
}

// ResetPose restores the bind pose into the live skeleton.
func (m *Model) ResetPose() {
	m.live.CopyLocals(m.smd.Skeleton)
}

// Pose flattens the live skeleton.
func (m *Model) Pose() skeleton.Pose {
	return m.live.Flatten()
}

// AddSkins flags every valid surface material in a precache hitlist.
func (m *Model) AddSkins(hitlist []uint8) {
	for i := range m.smd.Surfaces {
		material.Mark(hitlist, m.smd.Surfaces[i].Material)
	}
}

func logDiagnostics(log *zap.Logger, diag *formats.Diagnostics) {
	if diag == nil {
		return
	}
	for _, w := range diag.Warnings {
		log.Warn(w.Message,
			zap.String("path", w.Path),
			zap.Int("line", w.Line),
			zap.Stringer("kind", w.Kind))
	}
}
