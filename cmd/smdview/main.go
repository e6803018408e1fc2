// smdview is an interactive viewer for SMD models and their animations.
//
// Controls: drag to orbit, wheel to zoom, space to pause, left/right to step,
// up/down to switch clips, B bones, N bounds, R reframe, F5 reload,
// L sun, F12 screenshot, Esc quit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/config"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/internal/session"
	"github.com/Faultbox/midgard-smd/internal/viewer"
)

func main() {
	fs := flag.NewFlagSet("smdview", flag.ExitOnError)
	flags := config.RegisterFlags(fs)
	var clips session.ClipList
	fs.Var(&clips, "anim", "Animation clip as name=path, repeatable")
	bones := fs.Bool("bones", false, "Show the skeleton on start")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: smdview [options] [model.smd]")
		fmt.Fprintln(os.Stderr, "Without a model a file dialog asks for one.")
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	modelPath := fs.Arg(0)
	if modelPath == "" {
		var err error
		modelPath, err = openModelDialog()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				fmt.Fprintf(os.Stderr, "File dialog error: %v\n", err)
			}
			fs.Usage()
			os.Exit(1)
		}
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *bones {
		cfg.Viewer.ShowBones = true
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, cfg.Logging.JSONFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== smdview ===", zap.String("model", modelPath), zap.Int("clips", len(clips)))
	logger.Sugar.Debugf("Config: %+v", cfg)

	s, err := session.Open(cfg)
	if err != nil {
		logger.Error("failed to open data sources", zap.Error(err))
		os.Exit(1)
	}
	defer s.Close()

	v, err := viewer.New(cfg, s, modelPath, clips)
	if err != nil {
		logger.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.Close()

	if err := v.Run(); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// openModelDialog asks for a model file. It runs before SDL starts, so it may
// block the main thread.
func openModelDialog() (string, error) {
	return dialog.File().
		Filter("SMD Models", "smd").
		Filter("All Files", "*").
		Title("Open SMD Model").
		Load()
}
