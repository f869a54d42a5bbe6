package pipeline_test

import (
	"bytes"
	"image"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wormhole"
	"wormhole/internal/logger"
	"wormhole/pkg/config"
	"wormhole/pkg/controls"
	"wormhole/pkg/pipeline"
	"wormhole/pkg/render"
	"wormhole/pkg/render/rendertest"
)

func blankFaces() render.CubemapFaces {
	var faces render.CubemapFaces
	for i := range faces {
		faces[i] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	return faces
}

type fixture struct {
	device   *rendertest.Device
	pipeline *pipeline.Pipeline
	panel    *controls.Panel
	inputs   pipeline.Inputs
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, cfg config.RenderConfig) *fixture {
	t.Helper()

	var logs bytes.Buffer
	log := logger.NewLogger("debug")
	log.SetOutput(&logs)
	log.EnableColors(false)

	device := rendertest.NewDevice()
	compiler := render.NewShaderCompiler(device, render.NewFSSources(wormhole.Shaders), log)
	cache := render.NewResourceCache(device, compiler, log)
	executor := render.NewExecutor(device, cache, render.NewFullscreenQuad(device),
		render.ClockFunc(func() float64 { return 3 }), log)

	panel, err := controls.NewPanel(controls.DefaultDefinitions())
	require.NoError(t, err)

	inputs := pipeline.Inputs{
		Galaxy:   device.UploadCubemap(blankFaces()),
		ColorMap: device.CreateColorTexture(256, 1, render.FormatLDR),
	}
	p, err := pipeline.New(device, executor, cfg, 1920, 1080, inputs, panel, log)
	require.NoError(t, err)

	return &fixture{device: device, pipeline: p, panel: panel, inputs: inputs, logs: &logs}
}

func TestFrameGraphOrder(t *testing.T) {
	f := newFixture(t, config.DefaultConfig().Render)
	shaders := config.DefaultConfig().Render.Passes

	frame, err := f.pipeline.RenderFrame(mgl32.Vec2{100, 200}, 1280, 720)
	require.NoError(t, err)

	passes := frame.Passes()
	require.Len(t, passes, 2*render.MaxBloomLevels+5)

	scene := passes[0]
	assert.Equal(t, shaders.Scene, scene.Fragment)
	assert.Equal(t, f.pipeline.Scene(), scene.Target)
	assert.Equal(t, f.inputs.Galaxy, scene.Inputs["galaxy"])
	assert.Equal(t, f.inputs.ColorMap, scene.Inputs["colorMap"])

	brightness := passes[1]
	assert.Equal(t, shaders.Brightness, brightness.Fragment)
	assert.Equal(t, f.pipeline.Scene(), brightness.Inputs["texture0"])
	assert.Equal(t, brightness.Target, passes[2].Inputs["texture0"], "pyramid starts from the brightness target")

	composite := passes[len(passes)-3]
	assert.Equal(t, shaders.Composite, composite.Fragment)
	assert.Equal(t, f.pipeline.Scene(), composite.Inputs["texture0"])
	assert.Equal(t, f.pipeline.Bloom().Upsampled(0), composite.Inputs["texture1"])

	tonemap := passes[len(passes)-2]
	assert.Equal(t, composite.Target, tonemap.Inputs["texture0"])
	assert.Equal(t, f.pipeline.Output(), tonemap.Target)

	present := passes[len(passes)-1]
	assert.Equal(t, render.Texture(0), present.Target)
	assert.Equal(t, f.pipeline.Output(), present.Inputs["texture0"])
	assert.Equal(t, 1280, present.Width)

	draws := f.device.Draws
	require.Len(t, draws, len(passes))
	assert.Equal(t, render.Framebuffer(0), draws[len(draws)-1].Framebuffer)
	assert.Equal(t, render.PresentSentinelColor, draws[len(draws)-1].Clear)
}

func TestSceneUniforms(t *testing.T) {
	f := newFixture(t, config.DefaultConfig().Render)

	_, err := f.pipeline.RenderFrame(mgl32.Vec2{100, 200}, 1920, 1080)
	require.NoError(t, err)

	scene := f.device.Draws[0]
	assert.Equal(t, float32(100), scene.Floats["mouseX"])
	assert.Equal(t, float32(200), scene.Floats["mouseY"])
	assert.Equal(t, float32(3), scene.Floats["time"])
	assert.Equal(t, float32(0.55), scene.Floats["adiskHeight"])
	assert.Equal(t, mgl32.Vec2{1920, 1080}, scene.Vec2s["resolution"])
	assert.Equal(t, int32(0), scene.Ints["colorMap"])
	assert.Equal(t, int32(1), scene.Ints["galaxy"])

	composite := f.device.Draws[len(f.device.Draws)-3]
	assert.Equal(t, float32(0.1), composite.Floats["bloomStrength"])
	tonemap := f.device.Draws[len(f.device.Draws)-2]
	assert.Equal(t, float32(2.5), tonemap.Floats["gamma"])
	assert.Equal(t, float32(1), tonemap.Floats["tonemappingEnabled"])

	assert.NotContains(t, f.logs.String(), "is not found", "stock shaders declare every uniform the stock controls set")
}

func TestControlChangesReachNextFrame(t *testing.T) {
	f := newFixture(t, config.DefaultConfig().Render)

	gamma, _ := f.panel.Control(controls.Gamma)
	gamma.Set(1.5)
	iterations, _ := f.panel.Control(controls.BloomIterations)
	iterations.Set(3)
	assert.Equal(t, 3, f.pipeline.BloomLevels())

	created := len(f.device.Textures)
	frame, err := f.pipeline.RenderFrame(mgl32.Vec2{}, 800, 600)
	require.NoError(t, err)

	assert.Len(t, frame.Passes(), 2*3+5)
	tonemap := f.device.Draws[len(f.device.Draws)-2]
	assert.Equal(t, float32(1.5), tonemap.Floats["gamma"])
	assert.Equal(t, created, len(f.device.Textures))
}

func TestBloomLevelsFallBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig().Render
	cfg.BloomLevels = 4

	var logs bytes.Buffer
	log := logger.NewLogger("info")
	log.SetOutput(&logs)
	device := rendertest.NewDevice()
	executor := render.NewExecutor(device,
		render.NewResourceCache(device, render.NewShaderCompiler(device, render.NewFSSources(wormhole.Shaders), log), log),
		render.NewFullscreenQuad(device), render.ClockFunc(func() float64 { return 0 }), log)
	panel, err := controls.NewPanel(nil)
	require.NoError(t, err)

	p, err := pipeline.New(device, executor, cfg, 512, 512, pipeline.Inputs{Galaxy: 100, ColorMap: 101}, panel, log)
	require.NoError(t, err)
	assert.Equal(t, 4, p.BloomLevels())
}

func TestWarmReportsCompileErrors(t *testing.T) {
	f := newFixture(t, config.DefaultConfig().Render)
	require.NoError(t, f.pipeline.Warm())
	assert.Equal(t, 7, f.device.Links)

	cfg := config.DefaultConfig().Render
	cfg.Passes.Composite = "shader/missing.frag"
	broken := newFixture(t, cfg)
	err := broken.pipeline.Warm()
	var notFound *render.ResourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "shader/missing.frag", notFound.Locator)
}

func TestBrokenSceneShaderStopsFrame(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewLogger("debug")
	log.SetOutput(&logs)

	sources := fstest.MapFS{
		"shader/simple.vert": {Data: []byte("#version 410 core\nvoid main() {}\n")},
		"shader/scene.frag":  {Data: []byte("#version 410 core\n#error nope\n")},
	}
	device := rendertest.NewDevice()
	cache := render.NewResourceCache(device, render.NewShaderCompiler(device, render.NewFSSources(sources), log), log)
	executor := render.NewExecutor(device, cache, render.NewFullscreenQuad(device),
		render.ClockFunc(func() float64 { return 0 }), log)
	panel, err := controls.NewPanel(controls.DefaultDefinitions())
	require.NoError(t, err)

	cfg := config.DefaultConfig().Render
	cfg.Passes.Scene = "shader/scene.frag"
	p, err := pipeline.New(device, executor, cfg, 512, 512, pipeline.Inputs{Galaxy: 100, ColorMap: 101}, panel, log)
	require.NoError(t, err)

	_, err = p.RenderFrame(mgl32.Vec2{}, 512, 512)
	var compileErr *render.ShaderCompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Empty(t, device.Draws)
}

func TestPyramidTooSmall(t *testing.T) {
	var logs bytes.Buffer
	log := logger.NewLogger("debug")
	log.SetOutput(&logs)
	device := rendertest.NewDevice()
	panel, _ := controls.NewPanel(nil)

	_, err := pipeline.New(device, nil, config.DefaultConfig().Render, 64, 64, pipeline.Inputs{}, panel, log)
	assert.ErrorIs(t, err, render.ErrPyramidNotSized)
}
