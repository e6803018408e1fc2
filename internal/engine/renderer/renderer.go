// Package renderer provides the OpenGL backend that draws skinned models.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-smd/internal/engine/lighting"
	"github.com/Faultbox/midgard-smd/internal/engine/material"
	"github.com/Faultbox/midgard-smd/internal/engine/model"
	"github.com/Faultbox/midgard-smd/internal/engine/shader"
	"github.com/Faultbox/midgard-smd/internal/engine/texture"
	"github.com/Faultbox/midgard-smd/internal/logger"
	"github.com/Faultbox/midgard-smd/pkg/formats"
)

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	ClearColor [4]float32
	Sun        [2]float32 // longitude, latitude in degrees
}

// Renderer draws model surfaces with OpenGL. It implements model.Renderer.
// IMPORTANT: must be created after the OpenGL context.
type Renderer struct {
	config    Config
	materials *material.Registry

	modelProg *shader.Program
	lineProg  *shader.Program
	textures  map[formats.MaterialID]uint32

	lineVAO uint32
	lineVBO uint32

	mvp      mgl32.Mat4
	lightDir mgl32.Vec3

	log *zap.Logger
}

var _ model.Renderer = (*Renderer)(nil)

// New initializes OpenGL and compiles the model programs.
func New(cfg Config, materials *material.Registry) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r := &Renderer{
		config:    cfg,
		materials: materials,
		textures:  make(map[formats.MaterialID]uint32),
		mvp:       mgl32.Ident4(),
		lightDir:  lighting.LightDirection(cfg.Sun[0], cfg.Sun[1]),
		log:       logger.Named("renderer"),
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	c := cfg.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])

	var err error
	if r.modelProg, err = shader.NewProgram(shader.ModelVertex, shader.ModelFragment); err != nil {
		return nil, fmt.Errorf("model program: %w", err)
	}
	if r.lineProg, err = shader.NewProgram(shader.LineVertex, shader.LineFragment); err != nil {
		r.modelProg.Delete()
		return nil, fmt.Errorf("line program: %w", err)
	}

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	for id, tex := range r.textures {
		gl.DeleteTextures(1, &tex)
		delete(r.textures, id)
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
	}
	if r.lineVBO != 0 {
		gl.DeleteBuffers(1, &r.lineVBO)
	}
	r.modelProg.Delete()
	r.lineProg.Delete()
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Aspect returns the viewport aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&pixels[0]))
	return pixels, w, h
}

// SetSun moves the directional light.
func (r *Renderer) SetSun(longitude, latitude float32) {
	r.config.Sun = [2]float32{longitude, latitude}
	r.lightDir = lighting.LightDirection(longitude, latitude)
}

// SetCamera sets the combined model-view-projection matrix for the next draws.
func (r *Renderer) SetCamera(mvp mgl32.Mat4) {
	r.mvp = mvp
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	r.modelProg.Use()
	gl.UniformMatrix4fv(r.modelProg.Uniform("uMVP"), 1, false, &r.mvp[0])
	gl.Uniform3fv(r.modelProg.Uniform("uLightDir"), 1, &r.lightDir[0])
	gl.Uniform1i(r.modelProg.Uniform("uTexture"), 0)
}

// CreateVertexBuffer allocates a vertex array for one model.
func (r *Renderer) CreateVertexBuffer() model.VertexBuffer {
	return newVertexBuffer()
}

// SetMaterial binds the texture of a material, uploading it on first use.
// Palette translations are not supported by this backend and are ignored.
func (r *Renderer) SetMaterial(mat formats.MaterialID, clamp bool, translation int) {
	tex, ok := r.textures[mat]
	if !ok {
		tex = r.upload(mat)
		r.textures[mat] = tex
	}

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	wrap := int32(gl.REPEAT)
	if clamp {
		wrap = gl.CLAMP_TO_EDGE
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
}

// DrawArrays draws count vertices of the buffer bound by SetupFrame as triangles.
func (r *Renderer) DrawArrays(start, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(start), int32(count))
}

// DrawLines draws line segments with a flat color, without depth testing.
func (r *Renderer) DrawLines(segments [][2][3]float32, color [4]float32) {
	if len(segments) == 0 {
		return
	}
	r.lineProg.Use()
	gl.UniformMatrix4fv(r.lineProg.Uniform("uMVP"), 1, false, &r.mvp[0])
	gl.Uniform4fv(r.lineProg.Uniform("uColor"), 1, &color[0])

	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(segments)*int(unsafe.Sizeof(segments[0])), gl.Ptr(&segments[0][0][0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(segments)*2))
	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)

	r.modelProg.Use()
}

func (r *Renderer) upload(mat formats.MaterialID) uint32 {
	img, err := r.materials.Image(mat)
	if err != nil {
		r.log.Warn("texture upload uses placeholder", zap.Int("material", int(mat)), zap.Error(err))
	}
	if img == nil {
		img = texture.Checkerboard(64, 8)
	}
	rgba := texture.ToRGBA(img)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(rgba.Rect.Dx()), int32(rgba.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	return tex
}
