// Package skeleton resolves a parent-chained bone hierarchy into world-space poses.
//
// Nodes live in an arena owned by the Skeleton and refer to their parent by
// index, so a cloned skeleton never shares or dangles references.
package skeleton

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-smd/pkg/math"
)

// NoParent marks a root node.
const NoParent = -1

// Skeleton errors.
var (
	ErrDuplicateNode = errors.New("duplicate node name")
	ErrNodeCycle     = errors.New("node hierarchy contains a cycle")
	ErrNodeIndex     = errors.New("node index out of range")
)

// Transform is a position and rotation pair, either local to a parent or in world space.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
}

// IdentityTransform returns a transform with no translation and no rotation.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity()}
}

// Node is a single bone.
type Node struct {
	Name   string
	Parent int // Index of the parent node, NoParent for roots
	Local  Transform
}

// Skeleton maps node names to nodes.
type Skeleton struct {
	nodes []Node
	index map[string]int
}

// New creates an empty skeleton.
func New() *Skeleton {
	return &Skeleton{
		index: make(map[string]int),
	}
}

// Add appends a root node with an identity local transform and returns its index.
func (s *Skeleton) Add(name string) (int, error) {
	if _, ok := s.index[name]; ok {
		return 0, fmt.Errorf("%w: %q", ErrDuplicateNode, name)
	}
	idx := len(s.nodes)
	s.nodes = append(s.nodes, Node{
		Name:   name,
		Parent: NoParent,
		Local:  IdentityTransform(),
	})
	s.index[name] = idx
	return idx, nil
}

// SetParent links child under parent. Pass NoParent to make child a root.
// Links that would close a cycle are rejected.
func (s *Skeleton) SetParent(child, parent int) error {
	if !s.valid(child) || (parent != NoParent && !s.valid(parent)) {
		return ErrNodeIndex
	}
	for p := parent; p != NoParent; p = s.nodes[p].Parent {
		if p == child {
			return fmt.Errorf("%w: %q under %q", ErrNodeCycle, s.nodes[child].Name, s.nodes[parent].Name)
		}
	}
	s.nodes[child].Parent = parent
	return nil
}

// SetLocal replaces the local transform of node i.
func (s *Skeleton) SetLocal(i int, t Transform) {
	s.nodes[i].Local = t
}

// Len returns the number of nodes.
func (s *Skeleton) Len() int {
	return len(s.nodes)
}

// Node returns node i, or nil when i is out of range. The pointer stays
// valid until the next Add.
func (s *Skeleton) Node(i int) *Node {
	if !s.valid(i) {
		return nil
	}
	return &s.nodes[i]
}

// Index returns the arena index of the named node.
func (s *Skeleton) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Names returns node names in arena order.
func (s *Skeleton) Names() []string {
	names := make([]string, len(s.nodes))
	for i := range s.nodes {
		names[i] = s.nodes[i].Name
	}
	return names
}

// ParentName returns the parent's name, or "" for roots.
func (s *Skeleton) ParentName(i int) string {
	p := s.nodes[i].Parent
	if p == NoParent {
		return ""
	}
	return s.nodes[p].Name
}

// Depth returns the number of ancestors of node i.
func (s *Skeleton) Depth(i int) int {
	depth := 0
	for p := s.nodes[i].Parent; p != NoParent; p = s.nodes[p].Parent {
		depth++
	}
	return depth
}

// Clone returns a deep copy.
func (s *Skeleton) Clone() *Skeleton {
	c := &Skeleton{
		nodes: make([]Node, len(s.nodes)),
		index: make(map[string]int, len(s.index)),
	}
	copy(c.nodes, s.nodes)
	for k, v := range s.index {
		c.index[k] = v
	}
	return c
}

// CopyLocals overwrites every local transform with the one from src.
// Both skeletons must share the same node layout (src is usually a Clone).
func (s *Skeleton) CopyLocals(src *Skeleton) {
	for i := range s.nodes {
		s.nodes[i].Local = src.nodes[i].Local
	}
}

func (s *Skeleton) valid(i int) bool {
	return i >= 0 && i < len(s.nodes)
}
