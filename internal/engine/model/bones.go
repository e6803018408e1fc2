package model

import (
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
)

// NodeDebugInfo describes every bone of the live skeleton in arena order.
func (m *Model) NodeDebugInfo() []NodeDebugInfo {
	skel := m.live
	pose := skel.Flatten()
	info := make([]NodeDebugInfo, skel.Len())
	for i := range info {
		node := skel.Node(i)
		world := pose[node.Name]
		info[i] = NodeDebugInfo{
			Name:     node.Name,
			Parent:   skel.ParentName(i),
			Depth:    skel.Depth(i),
			LocalPos: node.Local.Position.Array(),
			LocalRot: quatArray(node.Local),
			WorldPos: world.Position.Array(),
			WorldRot: quatArray(world),
		}
	}
	return info
}

// BoneSegments returns one line segment per non-root bone, from its parent's
// world position to its own, in emitted coordinates.
func (m *Model) BoneSegments() [][2][3]float32 {
	skel := m.live
	pose := skel.Flatten()
	var segs [][2][3]float32
	for i := 0; i < skel.Len(); i++ {
		node := skel.Node(i)
		if node.Parent == skeleton.NoParent {
			continue
		}
		from := pose[skel.Node(node.Parent).Name].Position
		to := pose[node.Name].Position
		segs = append(segs, [2][3]float32{m.emit(from), m.emit(to)})
	}
	return segs
}

func quatArray(t skeleton.Transform) [4]float32 {
	q := t.Rotation
	return [4]float32{q.X, q.Y, q.Z, q.W}
}
