package model

import (
	gomath "math"

	"github.com/Faultbox/midgard-smd/pkg/math"
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
	"github.com/Faultbox/midgard-smd/pkg/skin"
)

// Mesh skins the model with the live pose.
func (m *Model) Mesh() *Mesh {
	vertices := make([]Vertex, m.smd.VertexCount())
	m.skinVertices(vertices, m.Pose())

	mesh := &Mesh{
		Vertices: vertices,
		Bounds:   computeBounds(vertices),
	}
	start := int32(0)
	for i := range m.smd.Surfaces {
		s := &m.smd.Surfaces[i]
		count := int32(len(s.Triangles) * 3)
		mesh.Groups = append(mesh.Groups, SurfaceGroup{
			Material: s.Material,
			Name:     s.MaterialName,
			Start:    start,
			Count:    count,
		})
		start += count
	}
	return mesh
}

// skinVertices writes every triangle corner, surface by surface, skinned with pose.
// It returns the number of weights whose bone was missing from the pose.
func (m *Model) skinVertices(dst []Vertex, pose skeleton.Pose) int {
	missing := 0
	n := 0
	for si := range m.smd.Surfaces {
		tris := m.smd.Surfaces[si].Triangles
		for ti := range tris {
			for vi := range tris[ti].Vertices {
				v := &tris[ti].Vertices[vi]
				pos, lost := skin.PositionChecked(v.Position, &v.Weights, pose)
				missing += lost
				normal := skin.Normal(v.Normal, &v.Weights, m.bindPose, pose)

				dst[n] = Vertex{
					Position: m.emit(pos),
					Normal:   m.emit(normal),
					TexCoord: [2]float32{v.TexCoord.X, v.TexCoord.Y},
				}
				n++
			}
		}
	}
	return missing
}

func (m *Model) emit(v math.Vec3) [3]float32 {
	if m.opts.SwapYZ {
		v = v.SwapYZ()
	}
	return v.Array()
}

// CenterXZ moves the mesh so its bounds are centered over the origin on the
// ground plane. Heights are kept. It returns the offset that was subtracted.
func (m *Mesh) CenterXZ() (dx, dz float32) {
	c := m.Bounds.Center()
	dx, dz = c[0], c[2]
	for i := range m.Vertices {
		m.Vertices[i].Position[0] -= dx
		m.Vertices[i].Position[2] -= dz
	}
	m.Bounds.Min[0] -= dx
	m.Bounds.Max[0] -= dx
	m.Bounds.Min[2] -= dz
	m.Bounds.Max[2] -= dz
	return dx, dz
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for i := 1; i < len(vertices); i++ {
		p := vertices[i].Position
		for k := 0; k < 3; k++ {
			b.Min[k] = min(b.Min[k], p[k])
			b.Max[k] = max(b.Max[k], p[k])
		}
	}
	return b
}

func sqrtf(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}
