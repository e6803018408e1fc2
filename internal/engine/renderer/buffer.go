package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-smd/internal/engine/model"
)

const vertexStride = int32(unsafe.Sizeof(model.Vertex{}))

// VertexBuffer is a streaming vertex buffer rewritten every frame.
type VertexBuffer struct {
	vao      uint32
	vbo      uint32
	data     []model.Vertex
	capacity int // Vertices allocated on the GPU
}

var _ model.VertexBuffer = (*VertexBuffer)(nil)

func newVertexBuffer() *VertexBuffer {
	b := &VertexBuffer{}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	return b
}

// Lock returns CPU storage for size vertices.
func (b *VertexBuffer) Lock(size int) []model.Vertex {
	if cap(b.data) < size {
		b.data = make([]model.Vertex, size)
	}
	b.data = b.data[:size]
	return b.data
}

// Unlock uploads the locked vertices.
func (b *VertexBuffer) Unlock() {
	if len(b.data) == 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	bytes := len(b.data) * int(vertexStride)
	if len(b.data) > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, bytes, gl.Ptr(b.data), gl.STREAM_DRAW)
		b.capacity = len(b.data)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, bytes, gl.Ptr(b.data))
	}
}

// SetupFrame points the vertex attributes at the range beginning at start, so
// the following draw call starts at vertex 0.
func (b *VertexBuffer) SetupFrame(_ model.Renderer, start, count int) {
	base := uintptr(start) * uintptr(vertexStride)
	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, vertexStride, base)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, vertexStride, base+12)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, vertexStride, base+24)
	gl.EnableVertexAttribArray(0)
	gl.EnableVertexAttribArray(1)
	gl.EnableVertexAttribArray(2)
}

// Delete releases the GPU objects.
func (b *VertexBuffer) Delete() {
	gl.DeleteBuffers(1, &b.vbo)
	gl.DeleteVertexArrays(1, &b.vao)
	b.data = nil
	b.capacity = 0
}
