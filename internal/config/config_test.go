package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/midgard-smd/pkg/encoding"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if len(cfg.Data.Dirs) != 1 || cfg.Data.Dirs[0] != "." {
		t.Errorf("expected data dirs [.], got %v", cfg.Data.Dirs)
	}
	if len(cfg.Data.Packages) != 0 {
		t.Errorf("expected no packages, got %v", cfg.Data.Packages)
	}

	units, err := cfg.Model.Units()
	if err != nil || units != formats.EulerDegrees {
		t.Errorf("expected degrees, got %v (%v)", units, err)
	}
	if !cfg.Model.SwapYZ {
		t.Error("expected swap_yz to be true by default")
	}
	if cfg.Model.DefaultBlend != 1 {
		t.Errorf("expected default blend 1, got %f", cfg.Model.DefaultBlend)
	}

	if cfg.Viewer.Width != 1280 || cfg.Viewer.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if !cfg.Viewer.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Viewer.FPS != 30 {
		t.Errorf("expected 30 fps, got %d", cfg.Viewer.FPS)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" || cfg.Logging.JSONFile {
		t.Errorf("expected console-only logging, got %+v", cfg.Logging)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)

	yamlContent := `
data:
  dirs: [base, mods]
  packages: [models.zip]
  materials:
    skin: textures/skin.bmp

model:
  euler_units: radians
  swap_yz: false
  default_blend: 0.5
  charset: euc-kr

viewer:
  width: 1920
  height: 1080
  vsync: false
  fps: 60
  clear_color: [0, 0, 0, 1]
  show_bones: true

logging:
  level: debug
  log_file: smd.log
  json_file: true
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Data.Dirs) != 2 || cfg.Data.Dirs[1] != "mods" {
		t.Errorf("expected dirs [base mods], got %v", cfg.Data.Dirs)
	}
	if len(cfg.Data.Packages) != 1 || cfg.Data.Packages[0] != "models.zip" {
		t.Errorf("expected packages [models.zip], got %v", cfg.Data.Packages)
	}
	if cfg.Data.Materials["skin"] != "textures/skin.bmp" {
		t.Errorf("expected skin material, got %v", cfg.Data.Materials)
	}

	if units, _ := cfg.Model.Units(); units != formats.EulerRadians {
		t.Errorf("expected radians, got %v", units)
	}
	if cfg.Model.SwapYZ {
		t.Error("expected swap_yz false")
	}
	if cs, _ := cfg.Model.TextCharset(); cs != encoding.EUCKR {
		t.Errorf("expected euc-kr, got %v", cs)
	}
	if cfg.Model.DefaultBlend != 0.5 {
		t.Errorf("expected default blend 0.5, got %f", cfg.Model.DefaultBlend)
	}

	if cfg.Viewer.Width != 1920 || cfg.Viewer.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Viewer.Width, cfg.Viewer.Height)
	}
	if cfg.Viewer.VSync || !cfg.Viewer.ShowBones || cfg.Viewer.FPS != 60 {
		t.Errorf("unexpected viewer settings %+v", cfg.Viewer)
	}
	if cfg.Viewer.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("unexpected clear color %v", cfg.Viewer.ClearColor)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "smd.log" || !cfg.Logging.JSONFile {
		t.Errorf("unexpected logging settings %+v", cfg.Logging)
	}
}

func TestLoadFromFilePartial(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("viewer:\n  fps: 24\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Viewer.FPS != 24 {
		t.Errorf("expected fps 24, got %d", cfg.Viewer.FPS)
	}
	if cfg.Viewer.Width != 1280 || cfg.Model.EulerUnits != "degrees" {
		t.Error("unset keys should keep their defaults")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("viewer: [not, a, map"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/smd.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"euler units", func(c *Config) { c.Model.EulerUnits = "turns" }},
		{"charset", func(c *Config) { c.Model.Charset = "ebcdic" }},
		{"zero blend", func(c *Config) { c.Model.DefaultBlend = 0 }},
		{"blend above one", func(c *Config) { c.Model.DefaultBlend = 1.5 }},
		{"width", func(c *Config) { c.Viewer.Width = 0 }},
		{"fps", func(c *Config) { c.Viewer.FPS = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("viewer:\n  width: 800\n"), 0o644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Errorf("expected to find %s in current directory", FileName)
	}
}

func TestFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	err := fs.Parse([]string{
		"-debug",
		"-data", "a", "-data", "b",
		"-package", "p.zip",
		"-width", "2560", "-height", "1440",
		"-fps", "12",
	})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := Default()
	flags.apply(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if len(cfg.Data.Dirs) != 2 || cfg.Data.Dirs[0] != "a" || cfg.Data.Dirs[1] != "b" {
		t.Errorf("expected -data to replace dirs, got %v", cfg.Data.Dirs)
	}
	if len(cfg.Data.Packages) != 1 || cfg.Data.Packages[0] != "p.zip" {
		t.Errorf("expected packages [p.zip], got %v", cfg.Data.Packages)
	}
	if cfg.Viewer.Width != 2560 || cfg.Viewer.Height != 1440 || cfg.Viewer.FPS != 12 {
		t.Errorf("unexpected viewer settings %+v", cfg.Viewer)
	}
	if flags.Data.String() != "a,b" {
		t.Errorf("unexpected flag string %q", flags.Data.String())
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("viewer:\n  width: 1600\n  height: 900\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", configPath, "-width", "1920"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Viewer.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Viewer.Width)
	}
	if cfg.Viewer.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Viewer.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("model:\n  euler_units: grads\n"), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(&Flags{Config: configPath}); err == nil {
		t.Error("expected invalid config to fail")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.Viewer.FPS = 15
	cfg.Data.Packages = []string{"x.zip"}

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Viewer.FPS != 15 || len(loaded.Data.Packages) != 1 {
		t.Errorf("round trip lost settings: %+v", loaded)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
