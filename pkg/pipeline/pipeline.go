// Package pipeline wires the fixed frame graph: scene, brightness, bloom
// pyramid, composite, tonemap and present.
package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"wormhole/internal/logger"
	"wormhole/pkg/config"
	"wormhole/pkg/controls"
	"wormhole/pkg/render"
)

// Inputs are the static textures sampled by the scene pass
type Inputs struct {
	Galaxy   render.Texture
	ColorMap render.Texture
}

// Pipeline owns every offscreen target of the frame
type Pipeline struct {
	executor *render.Executor
	panel    *controls.Panel
	logger   *logger.Logger
	shaders  config.PassShaders
	vertex   string
	levels   int
	width    int
	height   int
	inputs   Inputs

	scene      render.Texture
	brightness render.Texture
	bloom      *render.BloomPyramid
	composite  render.Texture
	tonemapped render.Texture
}

// New allocates the offscreen targets at width x height
func New(device render.Device, executor *render.Executor, cfg config.RenderConfig, width, height int,
	inputs Inputs, panel *controls.Panel, log *logger.Logger) (*Pipeline, error) {
	format := render.FormatLDR
	if cfg.HDR {
		format = render.FormatHDR
	}

	bloom, err := render.NewBloomPyramid(device, width, height, format, render.BloomShaders{
		Vertex:     cfg.Vertex,
		Downsample: cfg.Passes.Downsample,
		Upsample:   cfg.Passes.Upsample,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate bloom pyramid: %w", err)
	}

	p := &Pipeline{
		executor:   executor,
		panel:      panel,
		logger:     log,
		shaders:    cfg.Passes,
		vertex:     cfg.Vertex,
		levels:     cfg.BloomLevels,
		width:      width,
		height:     height,
		inputs:     inputs,
		scene:      device.CreateColorTexture(width, height, format),
		brightness: device.CreateColorTexture(width, height, format),
		bloom:      bloom,
		composite:  device.CreateColorTexture(width, height, format),
		tonemapped: device.CreateColorTexture(width, height, format),
	}
	log.Infof("Allocated %dx%d %s targets with %d bloom levels", width, height, format, render.MaxBloomLevels)
	return p, nil
}

// Warm compiles every program of the frame so shader errors surface before the first frame
func (p *Pipeline) Warm() error {
	for _, fragment := range []string{
		p.shaders.Scene,
		p.shaders.Brightness,
		p.shaders.Downsample,
		p.shaders.Upsample,
		p.shaders.Composite,
		p.shaders.Tonemap,
	} {
		if _, err := p.executor.Cache().Program(fragment, p.vertex); err != nil {
			return err
		}
	}
	// Present always uses the default vertex stage
	_, err := p.executor.Cache().Program(p.shaders.Present, "")
	return err
}

// BloomLevels returns the pyramid depth the next frame will use
func (p *Pipeline) BloomLevels() int {
	levels := int(p.panel.Value(controls.BloomIterations, float32(p.levels)))
	if levels < 1 {
		return 1
	}
	return min(levels, render.MaxBloomLevels)
}

// Scene returns the texture the scene pass renders into
func (p *Pipeline) Scene() render.Texture {
	return p.scene
}

// Bloom returns the pyramid
func (p *Pipeline) Bloom() *render.BloomPyramid {
	return p.bloom
}

// Output returns the final offscreen image before presentation
func (p *Pipeline) Output() render.Texture {
	return p.tonemapped
}

// RenderFrame issues every pass of one frame and presents the result
// into a windowWidth x windowHeight default framebuffer
func (p *Pipeline) RenderFrame(mouse mgl32.Vec2, windowWidth, windowHeight int) (*render.Frame, error) {
	frame := p.executor.BeginFrame(p.inputs.Galaxy, p.inputs.ColorMap)

	sceneScalars := p.panel.Values(controls.PassScene)
	sceneScalars["mouseX"] = mouse.X()
	sceneScalars["mouseY"] = mouse.Y()

	if err := frame.Run(render.PassSpec{
		Fragment: p.shaders.Scene,
		Vertex:   p.vertex,
		Scalars:  sceneScalars,
		Textures: map[string]render.Texture{"colorMap": p.inputs.ColorMap},
		Cubemaps: map[string]render.Texture{"galaxy": p.inputs.Galaxy},
		Target:   p.scene,
		Width:    p.width,
		Height:   p.height,
	}); err != nil {
		return frame, fmt.Errorf("scene pass: %w", err)
	}

	if err := frame.Run(render.PassSpec{
		Fragment: p.shaders.Brightness,
		Vertex:   p.vertex,
		Textures: map[string]render.Texture{"texture0": p.scene},
		Target:   p.brightness,
		Width:    p.width,
		Height:   p.height,
	}); err != nil {
		return frame, fmt.Errorf("brightness pass: %w", err)
	}

	bloomed, err := p.bloom.Render(frame, p.brightness, p.BloomLevels())
	if err != nil {
		return frame, err
	}

	if err := frame.Run(render.PassSpec{
		Fragment: p.shaders.Composite,
		Vertex:   p.vertex,
		Scalars:  p.panel.Values(controls.PassComposite),
		Textures: map[string]render.Texture{
			"texture0": p.scene,
			"texture1": bloomed,
		},
		Target: p.composite,
		Width:  p.width,
		Height: p.height,
	}); err != nil {
		return frame, fmt.Errorf("composite pass: %w", err)
	}

	if err := frame.Run(render.PassSpec{
		Fragment: p.shaders.Tonemap,
		Vertex:   p.vertex,
		Scalars:  p.panel.Values(controls.PassTonemap),
		Textures: map[string]render.Texture{"texture0": p.composite},
		Target:   p.tonemapped,
		Width:    p.width,
		Height:   p.height,
	}); err != nil {
		return frame, fmt.Errorf("tonemap pass: %w", err)
	}

	if err := frame.Present(p.shaders.Present, p.tonemapped, windowWidth, windowHeight); err != nil {
		return frame, fmt.Errorf("present pass: %w", err)
	}
	return frame, nil
}
