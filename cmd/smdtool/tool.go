package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/midgard-smd/internal/config"
	"github.com/Faultbox/midgard-smd/internal/engine/model"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/internal/session"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// tool holds the state shared by all commands. The session is opened lazily
// after the command's flags are parsed.
type tool struct {
	flags *config.Flags
	clips session.ClipList

	session *session.Session
}

func newTool(fs *flag.FlagSet) *tool {
	t := &tool{flags: config.RegisterFlags(fs)}
	fs.Var(&t.clips, "anim", "Animation clip as name=path, repeatable")
	return t
}

func (t *tool) open() error {
	if t.session != nil {
		return nil
	}

	cfg, err := config.Load(t.flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSONFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	t.session, err = session.Open(cfg)
	return err
}

// Close releases the session and flushes the log.
func (t *tool) Close() {
	if t.session != nil {
		t.session.Close()
	}
	logger.Sync()
}

// loadModel loads a model and every -anim clip in order.
func (t *tool) loadModel(path string) (*model.Model, error) {
	if err := t.open(); err != nil {
		return nil, err
	}
	return t.session.LoadModel(path, t.clips)
}

func (t *tool) mustLoadModel(path string) *model.Model {
	m, err := t.loadModel(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return m
}

// check parses one file and returns its diagnostics, never nil.
func (t *tool) check(path string, anim bool) (*formats.Diagnostics, error) {
	if err := t.open(); err != nil {
		return &formats.Diagnostics{}, err
	}
	return t.session.Check(path, anim)
}

// checkAll checks every path in order, passing each result to report. It
// returns the warnings of all files together and the number that failed.
func (t *tool) checkAll(paths []string, anim bool, report func(path string, diag *formats.Diagnostics, err error)) (*formats.Diagnostics, int) {
	total := &formats.Diagnostics{}
	failed := 0
	for _, path := range paths {
		diag, err := t.check(path, anim)
		total.Merge(diag)
		if err != nil {
			failed++
		}
		if report != nil {
			report(path, diag, err)
		}
	}
	return total, failed
}
