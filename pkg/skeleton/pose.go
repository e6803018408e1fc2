package skeleton

// Pose maps node names to world-space transforms.
type Pose map[string]Transform

// FlattenNode composes node i with every ancestor, walking the parent chain upward.
// Each ancestor A is applied as p = A.rot * p + A.pos and q = A.rot * q, so the
// resulting rotation is root * ... * parent * node.
func (s *Skeleton) FlattenNode(i int) Transform {
	world := s.nodes[i].Local
	for p := s.nodes[i].Parent; p != NoParent; p = s.nodes[p].Parent {
		parent := s.nodes[p].Local
		world.Position = parent.Rotation.Rotate(world.Position).Add(parent.Position)
		world.Rotation = parent.Rotation.Mul(world.Rotation)
	}
	return world
}

// Flatten computes the world transform of every node.
// Nothing is cached: call it again after any local transform changes.
func (s *Skeleton) Flatten() Pose {
	pose := make(Pose, len(s.nodes))
	for i := range s.nodes {
		pose[s.nodes[i].Name] = s.FlattenNode(i)
	}
	return pose
}
