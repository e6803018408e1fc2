// Package viewer implements the interactive model viewer loop.
package viewer

import (
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/assets"
	"github.com/Faultbox/midgard-smd/internal/config"
	"github.com/Faultbox/midgard-smd/internal/engine/camera"
	"github.com/Faultbox/midgard-smd/internal/engine/debug"
	"github.com/Faultbox/midgard-smd/internal/engine/input"
	"github.com/Faultbox/midgard-smd/internal/engine/model"
	"github.com/Faultbox/midgard-smd/internal/engine/renderer"
	"github.com/Faultbox/midgard-smd/internal/engine/window"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/internal/session"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

var (
	boneColor   = [4]float32{1, 0.85, 0.2, 1}
	boundsColor = [4]float32{0.3, 0.8, 1, 1}
)

// Viewer shows one model and plays its timeline.
type Viewer struct {
	cfg       *config.Config
	session   *session.Session
	modelPath string
	clips     []session.Clip

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera

	model    *model.Model
	bounds   model.Bounds
	playback *Playback
	clip     int // index into the timeline clips, -1 plays everything

	watcher     *assets.Watcher
	watched     map[string]struct{}
	screenshots *debug.ScreenshotCapture

	showBones    bool
	showBounds   bool
	sunLongitude float32
	running      bool

	log *zap.Logger
}

// New opens the window and loads the model with its clips.
func New(cfg *config.Config, s *session.Session, modelPath string, clips []session.Clip) (*Viewer, error) {
	v := &Viewer{
		cfg:          cfg,
		session:      s,
		modelPath:    modelPath,
		clips:        clips,
		input:        input.New(),
		camera:       camera.NewOrbitCamera(),
		playback:     NewPlayback(cfg.Viewer.FPS, cfg.Model.DefaultBlend),
		clip:         -1,
		watched:      make(map[string]struct{}),
		screenshots:  debug.NewScreenshotCapture("screenshots", "smdview"),
		showBones:    cfg.Viewer.ShowBones,
		sunLongitude: cfg.Viewer.Sun[0],
		log:          logger.Named("viewer"),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:  "smdview - " + path.Base(modelPath),
		Width:  cfg.Viewer.Width,
		Height: cfg.Viewer.Height,
		VSync:  cfg.Viewer.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	w, h := v.window.Size()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: cfg.Viewer.ClearColor,
		Sun:        cfg.Viewer.Sun,
	}, s.Materials)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if v.watcher, err = assets.NewWatcher(); err != nil {
		v.log.Warn("hot reload disabled", zap.Error(err))
	}

	if err := v.load(); err != nil {
		v.Close()
		return nil, err
	}
	v.camera.FitSphere(v.bounds.Center(), v.bounds.Radius())
	return v, nil
}

// load (re)loads the model and its clips and uploads their materials.
func (v *Viewer) load() error {
	m, err := v.session.LoadModel(v.modelPath, v.clips)
	if err != nil {
		return err
	}
	m.BuildVertexBuffer(v.renderer)

	hitlist := v.session.Materials.NewHitlist()
	m.AddSkins(hitlist)
	if failed := v.session.Materials.Precache(hitlist); failed > 0 {
		v.log.Warn("some materials use the placeholder", zap.Int("count", failed))
	}

	v.releaseModel()
	v.model = m
	v.bounds = m.Mesh().Bounds
	v.selectClip(v.clip)
	v.watch()

	v.log.Info("model ready",
		zap.String("path", v.modelPath),
		zap.Int("triangles", m.SMD().TriangleCount()),
		zap.Int("frames", m.FrameCount()))
	return nil
}

// watch registers the model and clip files with the watcher once.
func (v *Viewer) watch() {
	if v.watcher == nil {
		return
	}
	names := []string{v.modelPath}
	for _, c := range v.clips {
		names = append(names, c.Path)
	}
	for _, name := range names {
		p, ok := v.session.OSPath(name)
		if !ok {
			continue
		}
		if _, ok := v.watched[p]; ok {
			continue
		}
		if err := v.watcher.Add(p); err != nil {
			v.log.Warn("cannot watch file", zap.String("path", p), zap.Error(err))
			continue
		}
		v.watched[p] = struct{}{}
	}
}

func (v *Viewer) releaseModel() {
	if v.model == nil {
		return
	}
	if buf, ok := v.model.VertexBuffer().(interface{ Delete() }); ok {
		buf.Delete()
	}
	v.model = nil
}

// selectClip plays clip i of the timeline, or the whole timeline when i is
// out of range.
func (v *Viewer) selectClip(i int) {
	var clips []*model.Clip
	if tl := v.model.Timeline(); tl != nil {
		clips = tl.Clips()
	}
	if i < 0 || i >= len(clips) {
		v.clip = -1
		v.playback.SetRange(0, v.model.FrameCount())
		return
	}
	v.clip = i
	v.playback.SetRange(clips[i].Start, clips[i].FrameCount())
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()
		v.pollChanges()

		v.playback.Advance(dt)

		if err := v.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(v.title(frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			v.renderer.Resize(v.window.Size())
		case input.EventDrag:
			v.camera.HandleDrag(event.DX, event.DY)
		case input.EventWheel:
			v.camera.HandleZoom(event.DY)
		case input.EventKeyDown:
			v.handleKey(event.Key)
		}
	}
}

func (v *Viewer) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_SPACE:
		v.playback.Paused = !v.playback.Paused
	case sdl.SCANCODE_RIGHT:
		v.playback.Step(1)
	case sdl.SCANCODE_LEFT:
		v.playback.Step(-1)
	case sdl.SCANCODE_UP:
		v.selectClip(v.clip + 1)
	case sdl.SCANCODE_DOWN:
		if v.clip < 0 && v.model.Timeline() != nil {
			v.selectClip(len(v.model.Timeline().Clips()) - 1)
		} else {
			v.selectClip(v.clip - 1)
		}
	case sdl.SCANCODE_B:
		v.showBones = !v.showBones
	case sdl.SCANCODE_N:
		v.showBounds = !v.showBounds
	case sdl.SCANCODE_L:
		v.sunLongitude += 15
		v.renderer.SetSun(v.sunLongitude, v.cfg.Viewer.Sun[1])
	case sdl.SCANCODE_R:
		v.camera.FitSphere(v.bounds.Center(), v.bounds.Radius())
	case sdl.SCANCODE_F5:
		v.reload()
	case sdl.SCANCODE_F12:
		v.screenshot()
	}
}

// pollChanges reloads the model when a watched file changed.
func (v *Viewer) pollChanges() {
	if v.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case p, ok := <-v.watcher.Changes():
			if !ok {
				v.watcher = nil
				return
			}
			v.log.Debug("file changed", zap.String("path", p))
			changed = true
		default:
			if changed {
				v.reload()
			}
			return
		}
	}
}

// reload drops cached files and loads the model again. A model that fails to
// load leaves the current one on screen.
func (v *Viewer) reload() {
	v.session.Assets.Cache().Clear()
	if err := v.load(); err != nil {
		v.log.Error("reload failed, keeping previous model", zap.Error(err))
	}
}

func (v *Viewer) render() error {
	v.renderer.SetCamera(v.camera.ViewProjection(v.renderer.Aspect()))
	v.renderer.Begin()

	frame, next, inter := v.playback.Frames()
	err := v.model.RenderFrame(v.renderer, formats.NoMaterial, frame, next, inter, 0)
	if errors.Is(err, model.ErrNoVertexBuffer) {
		return err
	}
	if err != nil {
		v.log.Debug("pose skipped", zap.Int("frame", frame), zap.Error(err))
	}

	if v.showBones {
		v.renderer.DrawLines(v.model.BoneSegments(), boneColor)
	}
	if v.showBounds {
		v.renderer.DrawLines(debug.BoundsSegments(v.bounds.Min, v.bounds.Max), boundsColor)
	}
	return nil
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) title(fps int) string {
	frame, _, _ := v.playback.Frames()
	clip := "all"
	if tl := v.model.Timeline(); tl != nil {
		if c, ok := tl.ClipAt(frame); ok && c.Name != "" {
			clip = c.Name
		}
	}
	return fmt.Sprintf("smdview - %s [%s %d/%d] %d fps",
		path.Base(v.modelPath), clip, frame, v.model.FrameCount(), fps)
}

// Close releases GPU, window and watcher resources.
func (v *Viewer) Close() {
	v.log.Debug("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.renderer != nil {
		v.releaseModel()
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
