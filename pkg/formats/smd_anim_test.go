package formats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-smd/pkg/math"
)

const walkSMD = `version 1
nodes
0 root -1
1 arm 0
end
skeleton
time 0
1 1 0 0 0 0 0
time 1
0 0 0 1 0 0 0
1 2 0 0 0 0 0
time 2
0 0 0 2 0 0 0
end
`

func TestParseSMDAnim_CarryForward(t *testing.T) {
	anim, diag, err := ParseSMDAnim("anims/walk.smd", []byte(walkSMD), SMDOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, diag.Len())
	assert.Equal(t, []string{"root", "arm"}, anim.Nodes)
	require.Equal(t, 3, anim.FrameCount())

	f0 := anim.Frames[0]
	assert.False(t, f0.Pose[0].Set, "root is not mentioned in the first frame")
	assert.True(t, f0.Pose[1].Set)

	f2 := anim.Frames[2]
	assert.Equal(t, 2, f2.Time)
	assert.Equal(t, math.Vec3{Z: 2}, f2.Pose[0].Position)
	assert.True(t, f2.Pose[1].Set)
	assert.Equal(t, math.Vec3{X: 2}, f2.Pose[1].Position, "arm carries over from frame 1")
	assert.True(t, f2.Pose[1].Rotation.ApproxEqual(math.QuatIdentity(), eps))
}

func TestParseSMDAnim_FramesAreIndependent(t *testing.T) {
	anim, _, err := ParseSMDAnim("walk.smd", []byte(walkSMD), SMDOptions{})
	require.NoError(t, err)
	anim.Frames[2].Pose[1].Position = math.Vec3{X: 100}
	assert.Equal(t, math.Vec3{X: 2}, anim.Frames[1].Pose[1].Position)
}

func TestParseSMDAnim_SkipsGeometry(t *testing.T) {
	src := walkSMD + "triangles\nmat\n0 0 0 0 0 0 1 0 0\n0 0 0 0 0 0 1 0 0\n0 0 0 0 0 0 1 0 0\nend\n"
	anim, diag, err := ParseSMDAnim("walk.smd", []byte(src), SMDOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Count(WarnUnknownSection))
	assert.Equal(t, 3, anim.FrameCount())
}

func TestParseSMDAnim_ReplacedSkeleton(t *testing.T) {
	src := walkSMD + "skeleton\ntime 0\n0 5 5 5 0 0 0\nend\n"
	anim, diag, err := ParseSMDAnim("walk.smd", []byte(src), SMDOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Count(WarnReplacedSkeleton))
	require.Equal(t, 1, anim.FrameCount())
	assert.Equal(t, math.Vec3{X: 5, Y: 5, Z: 5}, anim.Frames[0].Pose[0].Position)
	assert.False(t, anim.Frames[0].Pose[1].Set)
}

func TestParseSMDAnim_ReplacedNodes(t *testing.T) {
	src := "version 1\nnodes\n0 root -1\nend\nskeleton\ntime 0\n0 1 0 0 0 0 0\nend\n" +
		"nodes\n0 root -1\n1 tail 0\nend\nskeleton\ntime 0\n1 0 4 0 0 0 0\nend\n"
	anim, diag, err := ParseSMDAnim("a.smd", []byte(src), SMDOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, diag.Count(WarnReplacedNodes))
	assert.Equal(t, 0, diag.Count(WarnReplacedSkeleton), "frames were already dropped with the nodes")

	assert.Equal(t, []string{"root", "tail"}, anim.Nodes)
	require.Equal(t, 1, anim.FrameCount())
	require.Len(t, anim.Frames[0].Pose, 2)
	assert.False(t, anim.Frames[0].Pose[0].Set)
	assert.Equal(t, math.Vec3{Y: 4}, anim.Frames[0].Pose[1].Position)
}

func TestParseSMDAnim_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"version", "version 3\n", ErrUnsupportedSMDVersion},
		{"undefined node", "version 1\nnodes\n0 root -1\nend\nskeleton\ntime 0\n4 0 0 0 0 0 0\nend\n", ErrUndefinedNode},
		{"pose before time", "version 1\nnodes\n0 root -1\nend\nskeleton\n0 0 0 0 0 0 0\nend\n", ErrMalformedSMD},
		{"truncated", "version 1\nnodes\n0 root -1\nend\nskeleton\ntime 0\n0 0 0", ErrUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anim, _, err := ParseSMDAnim("walk.smd", []byte(tt.src), SMDOptions{})
			assert.Nil(t, anim)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
