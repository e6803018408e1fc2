package skin

import "errors"

// ErrTooManyWeights is returned when a vertex lists more than MaxWeights influences.
var ErrTooManyWeights = errors.New("too many weights on vertex")

// Builder accumulates the explicit weights of one vertex and applies the
// primary-bone and normalization rules.
type Builder struct {
	primary string
	weights Weights
	used    int
	total   float32
}

// NewBuilder starts a vertex whose primary bone is the one named on the vertex line.
func NewBuilder(primary string) *Builder {
	return &Builder{primary: primary}
}

// Add records an explicit weight. Whenever the running total exceeds
// PrimaryThreshold the weight's bone becomes the primary bone.
func (b *Builder) Add(bone string, bias float32) error {
	if b.used >= MaxWeights {
		return ErrTooManyWeights
	}
	b.weights[b.used] = Weight{Bone: bone, Bias: bias}
	b.used++
	b.total += bias
	if b.total > PrimaryThreshold {
		b.primary = bone
	}
	return nil
}

// Finish normalizes and returns the weights, the primary bone and the explicit
// total. When the total is below 1 and a slot is free, a synthetic weight on the
// primary bone receives the remainder. Remaining slots stay zero.
func (b *Builder) Finish() (Weights, string, float32) {
	if b.total < 1.0 && b.used < MaxWeights {
		b.weights[b.used] = Weight{Bone: b.primary, Bias: 1.0 - b.total}
		b.used++
	}
	return b.weights, b.primary, b.total
}

// OverWeighted reports whether an explicit total exceeds OverWeightThreshold.
func OverWeighted(total float32) bool {
	return total > OverWeightThreshold
}
