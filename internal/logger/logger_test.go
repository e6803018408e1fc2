package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNopBeforeInit(t *testing.T) {
	// Must not panic with the default logger.
	Named("test").Info("discarded", zap.String("k", "v"))
	Sugar.Debugf("discarded %d", 1)
	Sync()
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "smd.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1,
		MaxBackups: 2,
		MaxAgeDays: 1,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	// ~1.5MB of output forces at least one rotation.
	payload := strings.Repeat("v", 200)
	for i := 0; i < 7000; i++ {
		Sugar.Infof("vertex %d: %s", i, payload)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}

	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "smd.log" || !strings.HasPrefix(name, "smd-") {
			continue
		}
		rotated++
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Errorf("expected a rotated log file, got %d entries", len(entries))
	}
}

func TestLogLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level    string
		present  []string
		filtered []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"DEBUG", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
		{"bogus", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(dir, tt.level+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)

			for _, want := range tt.present {
				if !strings.Contains(out, want) {
					t.Errorf("expected %s in output", want)
				}
			}
			for _, unwanted := range tt.filtered {
				if strings.Contains(out, unwanted) {
					t.Errorf("unexpected %s in output for level %s", unwanted, tt.level)
				}
			}
		})
	}
}

func TestJSONFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "smd.json")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1, JSON: true}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Named("model").Warn("material not found", zap.String("path", "models/a.smd"), zap.Int("line", 12))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, content)
	}
	if entry["logger"] != "model" {
		t.Errorf("expected logger name model, got %v", entry["logger"])
	}
	if entry["path"] != "models/a.smd" {
		t.Errorf("expected path field, got %v", entry["path"])
	}
	if entry["line"] != float64(12) {
		t.Errorf("expected line 12, got %v", entry["line"])
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/smd.log")

	if cfg.Path != "/tmp/smd.log" {
		t.Errorf("expected path /tmp/smd.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 14 {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
	if !cfg.Compress || cfg.JSON {
		t.Errorf("expected compressed console-format file, got %+v", cfg)
	}
}
