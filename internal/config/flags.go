package config

import (
	"flag"
	"strings"
)

// Flags holds command-line overrides. Zero values leave the config unchanged.
type Flags struct {
	Config   string
	Debug    bool
	Data     stringList
	Packages stringList
	Width    int
	Height   int
	FPS      int
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Var(&f.Data, "data", "Data directory (repeatable)")
	fs.Var(&f.Packages, "package", "Zip package (repeatable)")
	fs.IntVar(&f.Width, "width", 0, "Window width")
	fs.IntVar(&f.Height, "height", 0, "Window height")
	fs.IntVar(&f.FPS, "fps", 0, "Animation frames per second")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if len(f.Data) > 0 {
		cfg.Data.Dirs = append([]string(nil), f.Data...)
	}
	if len(f.Packages) > 0 {
		cfg.Data.Packages = append(cfg.Data.Packages, f.Packages...)
	}
	if f.Width > 0 {
		cfg.Viewer.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Viewer.Height = f.Height
	}
	if f.FPS > 0 {
		cfg.Viewer.FPS = f.FPS
	}
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
