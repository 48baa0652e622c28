// Package renderer owns global OpenGL state: context initialization, frame
// begin/end, the GL-backed upload buffer allocator and screenshots. Scene
// renderers build on top of it.
package renderer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hollowpine/meadowfall/internal/logger"
	"github.com/hollowpine/meadowfall/pkg/math"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
	VSync  bool
}

// Renderer manages the OpenGL context state shared by all scene renderers.
type Renderer struct {
	config Config

	clearColor math.Vec3
}

// New initializes OpenGL and the default pipeline state.
// IMPORTANT: Must be called AFTER the GL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		// Matches the fog color so distant geometry fades into the sky.
		clearColor: math.Vec3{X: 0.65, Y: 0.75, Z: 0.88},
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(r.clearColor.X, r.clearColor.Y, r.clearColor.Z, 1.0)

	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the current drawable size.
func (r *Renderer) Size() (width, height int) {
	return r.config.Width, r.config.Height
}

// Aspect returns the current aspect ratio.
func (r *Renderer) Aspect() float32 {
	if r.config.Height == 0 {
		return 1
	}
	return float32(r.config.Width) / float32(r.config.Height)
}

// SetClearColor changes the frame clear color.
func (r *Renderer) SetClearColor(c math.Vec3) {
	r.clearColor = c
	gl.ClearColor(c.X, c.Y, c.Z, 1.0)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame. Buffer swap happens in the window layer.
func (r *Renderer) End() {
}
