package skin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SyntheticRemainder(t *testing.T) {
	b := NewBuilder("hip")
	require.NoError(t, b.Add("thigh", 0.4))
	require.NoError(t, b.Add("knee", 0.2))

	weights, primary, total := b.Finish()
	assert.Equal(t, "hip", primary)
	assert.InDelta(t, 0.6, total, 1e-6)

	assert.Equal(t, 3, weights.Count())
	assert.Equal(t, "hip", weights[2].Bone)
	assert.InDelta(t, 0.4, weights[2].Bias, 1e-6)
	assert.InDelta(t, 1.0, weights.Total(), 1e-4)

	for i := 3; i < MaxWeights; i++ {
		assert.Equal(t, Weight{}, weights[i], "slot %d should be zero", i)
	}
}

func TestBuilder_NoExplicitWeights(t *testing.T) {
	weights, primary, total := NewBuilder("root").Finish()
	assert.Equal(t, "root", primary)
	assert.Zero(t, total)
	assert.Equal(t, Weight{Bone: "root", Bias: 1}, weights[0])
	assert.Equal(t, 1, weights.Count())
}

func TestBuilder_PrimaryReassigned(t *testing.T) {
	tests := []struct {
		name    string
		bones   []string
		biases  []float32
		primary string
	}{
		{"full single weight", []string{"arm"}, []float32{1}, "arm"},
		{"crosses on last", []string{"a", "b"}, []float32{0.5, 0.5}, "b"},
		{"never crosses", []string{"a", "b"}, []float32{0.5, 0.25}, "line"},
		{"reassigned again after crossing", []string{"a", "b"}, []float32{1, 0.1}, "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("line")
			for i := range tt.bones {
				require.NoError(t, b.Add(tt.bones[i], tt.biases[i]))
			}
			_, primary, _ := b.Finish()
			assert.Equal(t, tt.primary, primary)
		})
	}
}

func TestBuilder_FullSlotsNoSynthetic(t *testing.T) {
	b := NewBuilder("root")
	for i := 0; i < MaxWeights; i++ {
		require.NoError(t, b.Add("bone", 0.1))
	}
	assert.ErrorIs(t, b.Add("bone", 0.1), ErrTooManyWeights)

	weights, _, total := b.Finish()
	assert.Equal(t, MaxWeights, weights.Count())
	assert.InDelta(t, 0.8, total, 1e-5)
}

func TestOverWeighted(t *testing.T) {
	assert.False(t, OverWeighted(1.0))
	assert.False(t, OverWeighted(1.0005))
	assert.True(t, OverWeighted(1.01))
}
