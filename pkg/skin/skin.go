// Package skin binds vertices to bones and reconstructs skinned positions.
//
// At load time each weight stores the vertex position expressed in its bone's
// bind-pose local frame. At render time the position is rebuilt from the
// animated bone transforms with linear blend skinning.
package skin

import (
	"github.com/Faultbox/midgard-smd/pkg/math"
	"github.com/Faultbox/midgard-smd/pkg/skeleton"
)

// MaxWeights is the number of weight slots per vertex.
const MaxWeights = 8

// Normalization thresholds.
const (
	// PrimaryThreshold is the running weight sum above which a weight's bone
	// becomes the vertex's primary bone.
	PrimaryThreshold float32 = 0.9999
	// OverWeightThreshold is the total above which a vertex is reported as over-weighted.
	OverWeightThreshold float32 = 1.001
)

// Weight ties a vertex to one bone.
type Weight struct {
	Bone   string    // Bone name, empty for an unused slot
	Bias   float32   // Influence in [0,1]
	Offset math.Vec3 // Vertex position in the bone's bind-pose local frame
}

// Weights is the fixed-size weight array of a vertex. Unused slots are zero.
type Weights [MaxWeights]Weight

// Count returns the number of slots with a bone assigned.
func (w *Weights) Count() int {
	n := 0
	for i := range w {
		if w[i].Bone != "" {
			n++
		}
	}
	return n
}

// Total returns the sum of all biases.
func (w *Weights) Total() float32 {
	var total float32
	for i := range w {
		total += w[i].Bias
	}
	return total
}

// Bind returns pos expressed in the unrotated local frame of bone at bind time:
// inverse(boneRot) * (pos - bonePos).
func Bind(pose skeleton.Pose, bone string, pos math.Vec3) (math.Vec3, bool) {
	t, ok := pose[bone]
	if !ok {
		return math.Vec3{}, false
	}
	return t.Rotation.Inverse().Rotate(pos.Sub(t.Position)), true
}

// BindVertex fills the offsets of every used weight slot against the bind pose.
// It returns the number of weights whose bone is missing from the pose.
func BindVertex(pose skeleton.Pose, pos math.Vec3, weights *Weights) int {
	missing := 0
	for i := range weights {
		w := &weights[i]
		if w.Bone == "" {
			continue
		}
		offset, ok := Bind(pose, w.Bone, pos)
		if !ok {
			missing++
			continue
		}
		w.Offset = offset
	}
	return missing
}

// Position reconstructs a skinned vertex position.
// Vertices with no positive bias keep their bind position.
func Position(bindPos math.Vec3, weights *Weights, pose skeleton.Pose) math.Vec3 {
	pos, _ := PositionChecked(bindPos, weights, pose)
	return pos
}

// PositionChecked is Position but also reports how many weighted bones were
// absent from the pose. Missing bones contribute nothing.
func PositionChecked(bindPos math.Vec3, weights *Weights, pose skeleton.Pose) (math.Vec3, int) {
	var sum math.Vec3
	weighted := false
	missing := 0

	for i := range weights {
		w := &weights[i]
		if w.Bias <= 0 {
			continue
		}
		weighted = true

		t, ok := pose[w.Bone]
		if !ok {
			missing++
			continue
		}
		sum = sum.Add(t.Position.Add(t.Rotation.Rotate(w.Offset)).Scale(w.Bias))
	}

	if !weighted {
		return bindPos, 0
	}
	return sum, missing
}

// Normal rotates a bind-space normal by each weighted bone's change in world
// rotation since the bind pose and renormalizes the blend.
func Normal(normal math.Vec3, weights *Weights, bind, pose skeleton.Pose) math.Vec3 {
	var sum math.Vec3
	weighted := false

	for i := range weights {
		w := &weights[i]
		if w.Bias <= 0 {
			continue
		}
		from, ok := bind[w.Bone]
		if !ok {
			continue
		}
		to, ok := pose[w.Bone]
		if !ok {
			continue
		}
		delta := to.Rotation.Mul(from.Rotation.Inverse())
		sum = sum.Add(delta.Rotate(normal).Scale(w.Bias))
		weighted = true
	}

	if !weighted {
		return normal
	}
	if l := sum.Length(); l > 1e-6 {
		return sum.Scale(1 / l)
	}
	return normal
}
