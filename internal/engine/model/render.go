package model

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// ErrNoVertexBuffer is returned by RenderFrame before BuildVertexBuffer was called.
var ErrNoVertexBuffer = errors.New("vertex buffer not built")

// Renderer submits draw calls.
type Renderer interface {
	CreateVertexBuffer() VertexBuffer
	SetMaterial(mat formats.MaterialID, clamp bool, translation int)
	DrawArrays(start, count int)
}

// VertexBuffer is a CPU-writable vertex store owned by the renderer.
type VertexBuffer interface {
	// Lock returns a slice of size vertices to fill until Unlock.
	Lock(size int) []Vertex
	Unlock()
	// SetupFrame binds the vertex range starting at start for the next draw.
	SetupFrame(r Renderer, start, count int)
}

// BuildVertexBuffer allocates the model's vertex buffer once, sized for three
// vertices per triangle.
func (m *Model) BuildVertexBuffer(r Renderer) {
	if m.vbuf != nil {
		return
	}
	m.vbuf = r.CreateVertexBuffer()
	m.vbufSize = m.smd.VertexCount()
}

// VertexBuffer returns the buffer built by BuildVertexBuffer.
func (m *Model) VertexBuffer() VertexBuffer {
	return m.vbuf
}

// RenderFrame poses the model, skins it into the vertex buffer and draws each
// surface. frame is applied fully; when inter > 0, frame2 is then blended in
// with bias inter. A valid skin overrides every surface material. Surfaces
// without a valid material are skipped.
//
// A frame outside the timeline leaves the pose untouched; the current pose is
// still drawn and the error returned.
func (m *Model) RenderFrame(r Renderer, skin formats.MaterialID, frame, frame2 int, inter float32, translation int) error {
	if m.vbuf == nil {
		return ErrNoVertexBuffer
	}

	var poseErr error
	if m.timeline != nil {
		poseErr = m.SetPose(frame, 1)
		if poseErr == nil && inter > 0 {
			poseErr = m.SetPose(frame2, inter)
		}
		if poseErr != nil {
			m.log.Warn("invalid frame", zap.String("path", m.path), zap.Error(poseErr))
		}
	}

	dst := m.vbuf.Lock(m.vbufSize)
	if len(dst) < m.vbufSize {
		m.vbuf.Unlock()
		return fmt.Errorf("vertex buffer holds %d vertices, need %d", len(dst), m.vbufSize)
	}
	if missing := m.skinVertices(dst, m.Pose()); missing > 0 {
		m.log.Debug("skinned with missing bones", zap.String("path", m.path), zap.Int("weights", missing))
	}
	m.vbuf.Unlock()

	start := 0
	for i := range m.smd.Surfaces {
		s := &m.smd.Surfaces[i]
		count := len(s.Triangles) * 3

		mat := skin
		if !mat.Valid() {
			mat = s.Material
		}
		if !mat.Valid() {
			start += count
			continue
		}

		r.SetMaterial(mat, false, translation)
		m.vbuf.SetupFrame(r, start, count)
		r.DrawArrays(0, count)
		start += count
	}
	return poseErr
}
