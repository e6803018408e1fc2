package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-smd/internal/config"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

const quadSMD = `version 1
nodes
0 root -1
end
skeleton
time 0
0 0 0 0 0 0 0
end
triangles
cloth
0 0 0 0 0 0 1 0 0
0 1 0 0 0 0 1 1 0
0 0 1 0 0 0 1 0 1
end
`

const liftSMD = `version 1
nodes
0 root -1
end
skeleton
time 0
0 0 0 0 0 0 0
time 1
0 2 0 0 0 0 0
end
`

// openDir writes files into a fresh data dir and opens a session on it.
func openDir(t *testing.T, files map[string]string) (*Session, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Data.Dirs = []string{dir}
	s, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, dir
}

func TestOpenMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dirs = []string{filepath.Join(t.TempDir(), "nope")}
	_, err := Open(cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadModel(t *testing.T) {
	s, _ := openDir(t, map[string]string{
		"models/quad.smd": quadSMD,
		"anims/lift.smd":  liftSMD,
	})

	m, err := s.LoadModel("models/quad.smd", []Clip{
		{Name: "lift", Path: "anims/lift.smd"},
		{Path: "anims/lift.smd"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, m.SMD().TriangleCount())
	assert.Equal(t, 4, m.FrameCount())
	assert.Equal(t, 0, m.FindFrame("lift"))

	require.NoError(t, m.SetPose(3, 1))
	info := m.NodeDebugInfo()
	require.Len(t, info, 1)
	assert.InDelta(t, 2, info[0].WorldPos[0], 1e-5)
}

func TestLoadModelErrors(t *testing.T) {
	s, _ := openDir(t, map[string]string{
		"quad.smd": quadSMD,
		"bad.smd":  "version 1\nnodes\n0 root -1\n",
	})

	_, err := s.LoadModel("missing.smd", nil)
	assert.Error(t, err)

	_, err = s.LoadModel("quad.smd", []Clip{{Name: "bad", Path: "bad.smd"}})
	assert.ErrorIs(t, err, formats.ErrUnexpectedEOF)
}

func TestReadFileFallsBackToOS(t *testing.T) {
	s, _ := openDir(t, nil)

	path := filepath.Join(t.TempDir(), "outside.smd")
	require.NoError(t, os.WriteFile(path, []byte(quadSMD), 0o644))

	data, err := s.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, quadSMD, string(data))
}

func TestCheck(t *testing.T) {
	s, _ := openDir(t, map[string]string{
		"good.smd": quadSMD,
		"bad.smd":  "version 2\n",
		"lift.smd": liftSMD,
	})

	diag, err := s.Check("good.smd", false)
	require.NoError(t, err)
	// cloth has no image, so it falls back to the placeholder
	assert.Equal(t, 1, diag.Count(formats.WarnMaterialNotFound))

	_, err = s.Check("bad.smd", false)
	assert.ErrorIs(t, err, formats.ErrUnsupportedSMDVersion)

	diag, err = s.Check("lift.smd", true)
	require.NoError(t, err)
	assert.Equal(t, 0, diag.Len())

	diag, err = s.Check("nothing.smd", false)
	assert.Error(t, err)
	assert.NotNil(t, diag)
}

func TestOSPath(t *testing.T) {
	s, dir := openDir(t, map[string]string{"models/quad.smd": quadSMD})

	p, ok := s.OSPath(`models\quad.smd`)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "models", "quad.smd"), p)

	_, ok = s.OSPath("models/none.smd")
	assert.False(t, ok)
}

func TestNewRegistryGlobals(t *testing.T) {
	reg := NewRegistry(nil, map[string]string{"cloth": `textures\cloth.bmp`})

	id, ok := reg.Resolve("", "CLOTH")
	require.True(t, ok)
	mat, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, "textures/cloth.bmp", mat.Path)
}

func TestClipList(t *testing.T) {
	var l ClipList
	require.NoError(t, l.Set("walk=anims/walk.smd"))
	require.NoError(t, l.Set("anims/idle.smd"))
	assert.Error(t, l.Set("run="))

	require.Len(t, l, 2)
	assert.Equal(t, Clip{Name: "walk", Path: "anims/walk.smd"}, l[0])
	assert.Equal(t, Clip{Path: "anims/idle.smd"}, l[1])
	assert.Equal(t, "walk=anims/walk.smd,=anims/idle.smd", l.String())
}
