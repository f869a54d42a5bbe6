package engine

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"wormhole"
	"wormhole/internal/logger"
	"wormhole/internal/util"
	"wormhole/pkg/assets"
	"wormhole/pkg/config"
	"wormhole/pkg/controls"
	"wormhole/pkg/pipeline"
	"wormhole/pkg/render"
	"wormhole/pkg/render/opengl"
)

// Engine owns the window, the GL context and the frame loop
type Engine struct {
	window      *glfw.Window
	config      *config.Config
	logger      *logger.Logger
	pipeline    *pipeline.Pipeline
	panel       *controls.Panel
	input       *InputHandler
	audioEngine *AudioEngine
	isRunning   bool
	frameRate   int
	title       string
}

// NewEngine opens the window, loads assets and compiles every pass.
// Shader, framebuffer and asset failures are returned; audio failures are only logged.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Set window hints
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Decorated, glfwBool(cfg.Window.Decorated))
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	// Create window
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	window.MakeContextCurrent()
	if !cfg.Window.Decorated {
		window.SetPos(0, 0)
	}
	if cfg.Window.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	e := &Engine{
		window:    window,
		config:    cfg,
		logger:    log,
		frameRate: cfg.Window.FrameRate,
		title:     cfg.Window.Title,
	}
	if err := e.init(); err != nil {
		glfw.Terminate()
		return nil, err
	}
	return e, nil
}

func (e *Engine) init() error {
	cfg := e.config

	device, err := opengl.NewDevice()
	if err != nil {
		return err
	}
	e.logger.Infof("OpenGL version: %s", device.Version())

	compiler := render.NewShaderCompiler(device, render.NewFSSources(e.shaderFS()), e.logger)
	cache := render.NewResourceCache(device, compiler, e.logger)
	executor := render.NewExecutor(device, cache, render.NewFullscreenQuad(device), render.ClockFunc(glfw.GetTime), e.logger)

	e.panel, err = controls.NewPanel(cfg.Controls)
	if err != nil {
		return fmt.Errorf("invalid controls: %w", err)
	}
	if c, ok := e.panel.Control(controls.BloomIterations); ok {
		c.Set(float32(cfg.Render.BloomLevels))
	}

	loader := assets.NewLoader(os.DirFS(cfg.Assets.Dir), device, e.logger, cfg.Assets.Seed)
	galaxy, err := loader.Cubemap(cfg.Assets.Galaxy)
	if err != nil {
		return fmt.Errorf("failed to load galaxy cubemap: %w", err)
	}
	colorMap, err := loader.Texture2D(cfg.Assets.ColorMap, true)
	if err != nil {
		return fmt.Errorf("failed to load color map: %w", err)
	}

	e.pipeline, err = pipeline.New(device, executor, cfg.Render, cfg.Window.Width, cfg.Window.Height,
		pipeline.Inputs{Galaxy: galaxy, ColorMap: colorMap}, e.panel, e.logger)
	if err != nil {
		return err
	}
	if err := e.pipeline.Warm(); err != nil {
		return err
	}

	e.input = NewInputHandler(e.window)

	if cfg.Audio.Enabled {
		e.audioEngine, err = NewAudioEngine(cfg.Audio, e.logger)
		if err != nil {
			e.logger.Warnf("Background music disabled: %v", err)
		}
	}
	return nil
}

// shaderFS resolves shader locators against shader_dir, or the embedded sources
func (e *Engine) shaderFS() fs.FS {
	dir := e.config.Render.ShaderDir
	if dir == "" {
		return wormhole.Shaders
	}
	if !util.DirExists(dir) {
		e.logger.Warnf("Shader directory %s does not exist, using embedded shaders", dir)
		return wormhole.Shaders
	}
	e.logger.Infof("Loading shaders from %s", dir)
	return os.DirFS(dir)
}

// Run renders frames until the window closes or Escape is pressed
func (e *Engine) Run() error {
	e.isRunning = true
	defer e.cleanup()

	e.updateTitle()

	for e.isRunning && !e.window.ShouldClose() {
		frameStart := time.Now()

		glfw.PollEvents()
		e.input.Update()
		e.processInput()

		width, height := e.window.GetFramebufferSize()
		if _, err := e.pipeline.RenderFrame(e.input.Mouse(), width, height); err != nil {
			return fmt.Errorf("frame failed: %w", err)
		}

		e.window.SwapBuffers()

		// Cap the frame rate
		if e.frameRate > 0 && !e.config.Window.VSync {
			frameTime := time.Since(frameStart)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}
	return nil
}

// processInput applies this frame's key presses to the control panel
func (e *Engine) processInput() {
	// Close when ESC is pressed
	if e.input.IsKeyPressed(glfw.KeyEscape) {
		e.isRunning = false
		return
	}

	changed := true
	switch {
	case e.input.IsKeyPressed(glfw.KeyUp):
		e.panel.Select(-1)
	case e.input.IsKeyPressed(glfw.KeyDown):
		e.panel.Select(1)
	case e.input.IsKeyRepeated(glfw.KeyLeft):
		e.panel.AdjustSelected(-e.stepMultiplier())
	case e.input.IsKeyRepeated(glfw.KeyRight):
		e.panel.AdjustSelected(e.stepMultiplier())
	case e.input.IsKeyPressed(glfw.KeySpace):
		if c := e.panel.Selected(); c != nil && c.Kind == controls.Toggle {
			c.Adjust(1)
		}
	case e.input.IsKeyPressed(glfw.KeyLeftBracket):
		e.adjustControl(controls.BloomIterations, -1)
	case e.input.IsKeyPressed(glfw.KeyRightBracket):
		e.adjustControl(controls.BloomIterations, 1)
	case e.input.IsKeyPressed(glfw.KeyR):
		e.panel.Reset()
		e.logger.Info("Controls reset to defaults")
	default:
		changed = false
	}

	if changed {
		e.updateTitle()
	}
}

// stepMultiplier moves sliders ten steps at a time while Shift is held
func (e *Engine) stepMultiplier() int {
	if e.input.IsKeyDown(glfw.KeyLeftShift) || e.input.IsKeyDown(glfw.KeyRightShift) {
		return 10
	}
	return 1
}

func (e *Engine) adjustControl(name string, steps int) {
	if c, ok := e.panel.Control(name); ok {
		c.Adjust(steps)
		e.logger.Debugf("%s", c)
	}
}

func (e *Engine) updateTitle() {
	selected := e.panel.Selected()
	if selected == nil {
		e.window.SetTitle(e.title)
		return
	}
	e.window.SetTitle(fmt.Sprintf("%s | %s | bloom levels: %d", e.title, selected, e.pipeline.BloomLevels()))
}

// cleanup performs necessary cleanup before exiting
func (e *Engine) cleanup() {
	e.logger.Info("Shutting down engine...")
	if e.audioEngine != nil {
		e.audioEngine.Shutdown()
	}
	e.window.Destroy()
	glfw.Terminate()
}

func glfwBool(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}
