package render_test

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wormhole/pkg/render"
	"wormhole/pkg/render/rendertest"
)

func TestExecuteDrawsQuadIntoTarget(t *testing.T) {
	h := newHarness(t)
	input := h.device.CreateColorTexture(320, 200, render.FormatHDR)
	target := h.device.CreateColorTexture(320, 200, render.FormatHDR)

	err := h.executor.Execute(render.PassSpec{
		Fragment: "shader/passthrough.frag",
		Textures: map[string]render.Texture{"texture0": input},
		Target:   target,
		Width:    320,
		Height:   200,
	})
	require.NoError(t, err)
	require.Len(t, h.device.Draws, 1)

	draw := h.device.Draws[0]
	assert.Equal(t, target, h.device.TargetOf(draw))
	assert.Equal(t, 320, draw.Width)
	assert.Equal(t, 200, draw.Height)
	assert.False(t, draw.DepthTest)
	assert.Equal(t, render.SentinelColor, draw.Clear)
	assert.Equal(t, h.quad.VertexArray(), draw.VertexArray)
	assert.Equal(t, 0, draw.First)
	assert.Equal(t, render.QuadVertexCount, draw.Count)
	assert.Equal(t, mgl32.Vec2{320, 200}, draw.Vec2s["resolution"])

	sampled, ok := h.device.SampledTexture(draw, "texture0")
	require.True(t, ok)
	assert.Equal(t, input, sampled)

	assert.Equal(t, "UseProgram 0", h.device.Calls[len(h.device.Calls)-1])
}

func TestExecuteImplicitUniforms(t *testing.T) {
	h := newHarness(t)
	colorMap := h.device.CreateColorTexture(8, 8, render.FormatLDR)
	target := h.device.CreateColorTexture(100, 50, render.FormatHDR)

	require.NoError(t, h.executor.Execute(render.PassSpec{
		Fragment: "shader/scene.frag",
		Scalars:  map[string]float32{"mouseX": 42},
		Textures: map[string]render.Texture{"colorMap": colorMap},
		Target:   target,
		Width:    100,
		Height:   50,
	}))

	draw := h.device.Draws[0]
	assert.Equal(t, float32(12.5), draw.Floats["time"])
	assert.Equal(t, float32(42), draw.Floats["mouseX"])
	assert.Equal(t, mgl32.Vec2{100, 50}, draw.Vec2s["resolution"])
}

func TestMissingUniformIsTolerated(t *testing.T) {
	h := newHarness(t)
	input := h.device.CreateColorTexture(10, 10, render.FormatHDR)
	target := h.device.CreateColorTexture(10, 10, render.FormatHDR)

	spec := render.PassSpec{
		Fragment: "shader/passthrough.frag",
		Scalars:  map[string]float32{"bloomStrength": 0.4},
		Textures: map[string]render.Texture{"texture0": input, "unusedMap": input},
		Target:   target,
		Width:    10,
		Height:   10,
	}
	require.NoError(t, h.executor.Execute(spec))
	require.NoError(t, h.executor.Execute(spec))

	assert.Len(t, h.device.Draws, 2)
	assert.NotContains(t, h.device.Draws[0].Floats, "bloomStrength")
	assert.Contains(t, h.logs.String(), "uniform bloomStrength is not found")
	assert.Contains(t, h.logs.String(), "uniform unusedMap is not found")
	assert.Equal(t, 1, strings.Count(h.logs.String(), "uniform bloomStrength is not found"))
}

func TestTextureUnitAssignment(t *testing.T) {
	spec := render.PassSpec{
		Textures: map[string]render.Texture{"b": 11, "a": 10},
		Cubemaps: map[string]render.Texture{"c": 12},
	}
	assert.Equal(t, map[string]int{"a": 0, "b": 1, "c": 2}, spec.TextureUnits())
}

func TestExecuteBindsCubemapsAfterTextures(t *testing.T) {
	h := newHarness(t)
	colorMap := h.device.CreateColorTexture(8, 8, render.FormatLDR)
	uvChecker := h.device.CreateColorTexture(8, 8, render.FormatLDR)
	galaxy := h.device.CreateColorTexture(8, 8, render.FormatLDR)
	target := h.device.CreateColorTexture(64, 64, render.FormatHDR)

	require.NoError(t, h.executor.Execute(render.PassSpec{
		Fragment: "shader/scene.frag",
		Textures: map[string]render.Texture{"uvChecker": uvChecker, "colorMap": colorMap},
		Cubemaps: map[string]render.Texture{"galaxy": galaxy},
		Target:   target,
		Width:    64,
		Height:   64,
	}))

	draw := h.device.Draws[0]
	assert.Equal(t, int32(0), draw.Ints["colorMap"])
	assert.Equal(t, int32(1), draw.Ints["uvChecker"])
	assert.Equal(t, int32(2), draw.Ints["galaxy"])
	assert.Equal(t, rendertest.Binding{Target: render.TargetCubemap, Texture: galaxy}, draw.Units[2])
	assert.Equal(t, rendertest.Binding{Target: render.Target2D, Texture: colorMap}, draw.Units[0])
}

func TestExecuteRejectsAliasing(t *testing.T) {
	h := newHarness(t)
	tex := h.device.CreateColorTexture(10, 10, render.FormatHDR)

	err := h.executor.Execute(render.PassSpec{
		Fragment: "shader/passthrough.frag",
		Textures: map[string]render.Texture{"texture0": tex},
		Target:   tex,
		Width:    10,
		Height:   10,
	})

	var alias *render.TextureAliasError
	require.ErrorAs(t, err, &alias)
	assert.Equal(t, "texture0", alias.Uniform)
	assert.Empty(t, h.device.Draws)
}

func TestExecuteInvalidSpecs(t *testing.T) {
	tests := []struct {
		name string
		spec render.PassSpec
	}{
		{"no fragment", render.PassSpec{Target: 1, Width: 1, Height: 1}},
		{"zero width", render.PassSpec{Fragment: "shader/passthrough.frag", Target: 1, Height: 1}},
		{"negative height", render.PassSpec{Fragment: "shader/passthrough.frag", Target: 1, Width: 1, Height: -4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			assert.ErrorIs(t, h.executor.Execute(tt.spec), render.ErrInvalidSpec)
			assert.Empty(t, h.device.Draws)
		})
	}
}

func TestExecuteZeroTargetIsResolutionError(t *testing.T) {
	h := newHarness(t)

	err := h.executor.Execute(render.PassSpec{Fragment: "shader/passthrough.frag", Width: 4, Height: 4})

	var resolution *render.ResourceResolutionError
	require.ErrorAs(t, err, &resolution)
	assert.Empty(t, h.device.Draws)
}

func TestExecuteIncompleteFramebufferDoesNotDraw(t *testing.T) {
	h := newHarness(t)
	input := h.device.CreateColorTexture(10, 10, render.FormatHDR)
	target := h.device.CreateColorTexture(10, 10, render.FormatHDR)
	h.device.Incomplete[target] = true

	err := h.executor.Execute(render.PassSpec{
		Fragment: "shader/passthrough.frag",
		Textures: map[string]render.Texture{"texture0": input},
		Target:   target,
		Width:    10,
		Height:   10,
	})

	var incomplete *render.FramebufferIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Empty(t, h.device.Draws)
}

func TestCompileErrorBeforeFramebufferUse(t *testing.T) {
	h := newHarness(t)
	target := h.device.CreateColorTexture(10, 10, render.FormatHDR)

	err := h.executor.Execute(render.PassSpec{
		Fragment: "shader/broken.frag",
		Target:   target,
		Width:    10,
		Height:   10,
	})

	var compileErr *render.ShaderCompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Zero(t, h.device.FramebufferCreations[target])
	for _, call := range h.device.Calls {
		assert.NotContains(t, call, "BindFramebuffer")
	}
	assert.Empty(t, h.device.Draws)

	_, programs := h.cache.Len()
	assert.Zero(t, programs)
}

func TestPresentDrawsToWindow(t *testing.T) {
	h := newHarness(t)
	input := h.device.CreateColorTexture(1920, 1080, render.FormatHDR)

	require.NoError(t, h.executor.Present("shader/passthrough.frag", input, 1280, 720))

	draw := h.device.Draws[0]
	assert.Equal(t, render.Framebuffer(0), draw.Framebuffer)
	assert.Equal(t, render.PresentSentinelColor, draw.Clear)
	assert.Equal(t, 1280, draw.Width)
	sampled, ok := h.device.SampledTexture(draw, "texture0")
	require.True(t, ok)
	assert.Equal(t, input, sampled)
}
