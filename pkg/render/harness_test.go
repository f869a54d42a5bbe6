package render_test

import (
	"bytes"
	"testing"
	"testing/fstest"

	"wormhole/internal/logger"
	"wormhole/pkg/render"
	"wormhole/pkg/render/rendertest"
)

const (
	vertexSrc = `#version 410 core
layout (location = 0) in vec3 position;
void main() { gl_Position = vec4(position, 1.0); }
`
	sceneSrc = `#version 410 core
out vec4 fragColor;
uniform vec2 resolution;
uniform float time;
uniform float mouseX;
uniform sampler2D colorMap;
uniform sampler2D uvChecker;
uniform samplerCube galaxy;
void main() { fragColor = vec4(1.0); }
`
	singleInputSrc = `#version 410 core
out vec4 fragColor;
uniform vec2 resolution;
uniform sampler2D texture0;
void main() { fragColor = vec4(1.0); }
`
	twoInputSrc = `#version 410 core
out vec4 fragColor;
uniform vec2 resolution;
uniform sampler2D texture0;
uniform sampler2D texture1;
void main() { fragColor = vec4(1.0); }
`
)

func testSources() fstest.MapFS {
	return fstest.MapFS{
		"shader/simple.vert":           {Data: []byte(vertexSrc)},
		"shader/flipped.vert":          {Data: []byte(vertexSrc)},
		"shader/scene.frag":            {Data: []byte(sceneSrc)},
		"shader/passthrough.frag":      {Data: []byte(singleInputSrc)},
		"shader/bloom_downsample.frag": {Data: []byte(singleInputSrc)},
		"shader/bloom_upsample.frag":   {Data: []byte(twoInputSrc)},
		"shader/broken.frag":           {Data: []byte("#version 410 core\n#error unterminated\n")},
		"shader/unlinkable.frag":       {Data: []byte("#version 410 core\n// link-error\n")},
	}
}

type harness struct {
	device   *rendertest.Device
	cache    *render.ResourceCache
	executor *render.Executor
	quad     *render.FullscreenQuad
	logs     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	var logs bytes.Buffer
	log := logger.NewLogger("debug")
	log.SetOutput(&logs)
	log.EnableColors(false)

	device := rendertest.NewDevice()
	compiler := render.NewShaderCompiler(device, render.NewFSSources(testSources()), log)
	cache := render.NewResourceCache(device, compiler, log)
	quad := render.NewFullscreenQuad(device)
	clock := render.ClockFunc(func() float64 { return 12.5 })

	return &harness{
		device:   device,
		cache:    cache,
		executor: render.NewExecutor(device, cache, quad, clock, log),
		quad:     quad,
		logs:     &logs,
	}
}
