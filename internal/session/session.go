// Package session opens the configured asset sources and loads models with
// their animation clips. It is shared by the command-line tools.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/assets"
	"github.com/Faultbox/midgard-smd/internal/config"
	"github.com/Faultbox/midgard-smd/internal/engine/material"
	"github.com/Faultbox/midgard-smd/internal/engine/model"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// Session owns the asset sources and the material registry.
type Session struct {
	Assets    *assets.Manager
	Materials *material.Registry

	cfg *config.Config
	log *zap.Logger
}

// Open adds the configured directories, then the packages on top, and
// registers the configured global material names.
func Open(cfg *config.Config) (*Session, error) {
	mgr := assets.NewManager()
	for _, dir := range cfg.Data.Dirs {
		if err := mgr.AddDir(dir); err != nil {
			mgr.Close()
			return nil, err
		}
	}
	for _, pkg := range cfg.Data.Packages {
		if err := mgr.AddPackage(pkg); err != nil {
			mgr.Close()
			return nil, err
		}
	}

	return &Session{
		Assets:    mgr,
		Materials: NewRegistry(mgr, cfg.Data.Materials),
		cfg:       cfg,
		log:       logger.Named("session"),
	}, nil
}

// Close releases the asset sources.
func (s *Session) Close() {
	s.Assets.Close()
}

// NewRegistry creates a material registry with the given global names.
func NewRegistry(src material.Source, globals map[string]string) *material.Registry {
	reg := material.NewRegistry(src)
	names := make([]string, 0, len(globals))
	for name := range globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		reg.Register(name, assets.Clean(globals[name]))
	}
	return reg
}

// Options returns the model options derived from the config.
func (s *Session) Options() model.Options {
	units, _ := s.cfg.Model.Units()
	charset, _ := s.cfg.Model.TextCharset()
	return model.Options{
		Parse: formats.SMDOptions{
			EulerUnits: units,
			Materials:  s.Materials,
			Charset:    charset,
		},
		SwapYZ: s.cfg.Model.SwapYZ,
		Logger: logger.Named("model"),
	}
}

// ReadFile loads a file from the asset sources, falling back to the OS path.
func (s *Session) ReadFile(name string) ([]byte, error) {
	data, err := s.Assets.Load(name)
	if errors.Is(err, assets.ErrNotFound) {
		return os.ReadFile(name)
	}
	return data, err
}

// LoadModel loads a model and appends the clips to its timeline in order.
func (s *Session) LoadModel(path string, clips []Clip) (*model.Model, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := model.Load(path, data, s.Options())
	if err != nil {
		return nil, err
	}

	for _, c := range clips {
		data, err := s.ReadFile(c.Path)
		if err != nil {
			return nil, err
		}
		if _, err := m.LoadAnimation(c.Path, c.Name, data); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Check parses one file and returns its diagnostics, never nil.
func (s *Session) Check(path string, anim bool) (*formats.Diagnostics, error) {
	data, err := s.ReadFile(path)
	if err != nil {
		return &formats.Diagnostics{}, err
	}

	opts := s.Options().Parse
	var diag *formats.Diagnostics
	if anim {
		_, diag, err = formats.ParseSMDAnim(path, data, opts)
	} else {
		_, diag, err = formats.ParseSMD(path, data, opts)
	}
	if diag == nil {
		diag = &formats.Diagnostics{}
	}
	return diag, err
}

// OSPath returns the file on disk that name loads from, searching the data
// directories by priority. Files inside packages have no OS path.
func (s *Session) OSPath(name string) (string, bool) {
	rel := filepath.FromSlash(assets.Clean(name))
	for i := len(s.cfg.Data.Dirs) - 1; i >= 0; i-- {
		p := filepath.Join(s.cfg.Data.Dirs[i], rel)
		if isFile(p) {
			return absPath(p), true
		}
	}
	if isFile(name) {
		return absPath(name), true
	}
	return "", false
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// Clip names an animation file to append to a model's timeline.
type Clip struct {
	Name string
	Path string
}

// ClipList is a repeatable name=path flag. A bare path adds an anonymous clip.
type ClipList []Clip

func (l *ClipList) String() string {
	parts := make([]string, len(*l))
	for i, c := range *l {
		parts[i] = c.Name + "=" + c.Path
	}
	return strings.Join(parts, ",")
}

func (l *ClipList) Set(v string) error {
	name, path, ok := strings.Cut(v, "=")
	if !ok {
		name, path = "", v
	}
	if path == "" {
		return fmt.Errorf("animation %q has no path", v)
	}
	*l = append(*l, Clip{Name: name, Path: path})
	return nil
}
