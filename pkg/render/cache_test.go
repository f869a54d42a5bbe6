package render_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wormhole/pkg/render"
)

func TestFramebufferIdentity(t *testing.T) {
	h := newHarness(t)
	a := h.device.CreateColorTexture(64, 32, render.FormatHDR)
	b := h.device.CreateColorTexture(64, 32, render.FormatHDR)

	first, err := h.cache.Framebuffer(a)
	require.NoError(t, err)
	other, err := h.cache.Framebuffer(b)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := h.cache.Framebuffer(a)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	assert.NotEqual(t, first, other)
	assert.Equal(t, 1, h.device.FramebufferCreations[a])
	assert.Equal(t, 1, h.device.FramebufferCreations[b])
	assert.Equal(t, a, h.device.Framebuffers[first])

	fbs, _ := h.cache.Len()
	assert.Equal(t, 2, fbs)
}

func TestFramebufferIncompleteIsNotCached(t *testing.T) {
	h := newHarness(t)
	tex := h.device.CreateColorTexture(16, 16, render.FormatLDR)
	h.device.Incomplete[tex] = true

	fb, err := h.cache.Framebuffer(tex)
	assert.Equal(t, render.Framebuffer(0), fb)
	var incomplete *render.FramebufferIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, tex, incomplete.Target)

	fbs, _ := h.cache.Len()
	assert.Zero(t, fbs)
	assert.Contains(t, h.logs.String(), "not complete")
}

func TestProgramIdentity(t *testing.T) {
	h := newHarness(t)

	scene, err := h.cache.Program("shader/scene.frag", "")
	require.NoError(t, err)
	_, err = h.cache.Program("shader/passthrough.frag", "")
	require.NoError(t, err)
	_, err = h.cache.Program("shader/bloom_upsample.frag", "shader/simple.vert")
	require.NoError(t, err)
	again, err := h.cache.Program("shader/scene.frag", render.DefaultVertexShader)
	require.NoError(t, err)

	assert.Same(t, scene, again)
	assert.Equal(t, 3, h.device.Links)
	assert.Zero(t, h.device.LiveShaders, "stage objects must be released after linking")

	_, programs := h.cache.Len()
	assert.Equal(t, 3, programs)
}

func TestProgramKeyIncludesVertexStage(t *testing.T) {
	h := newHarness(t)

	plain, err := h.cache.Program("shader/passthrough.frag", "")
	require.NoError(t, err)
	flipped, err := h.cache.Program("shader/passthrough.frag", "shader/flipped.vert")
	require.NoError(t, err)

	assert.NotEqual(t, plain.Handle, flipped.Handle)
}

func TestProgramIntrospectsUniforms(t *testing.T) {
	h := newHarness(t)

	info, err := h.cache.Program("shader/bloom_upsample.frag", "")
	require.NoError(t, err)

	_, ok := info.Location("texture1")
	assert.True(t, ok)
	_, ok = info.Location("bloomStrength")
	assert.False(t, ok)
}

func TestCompileErrorLeavesCacheEmpty(t *testing.T) {
	h := newHarness(t)

	info, err := h.cache.Program("shader/broken.frag", "")
	assert.Nil(t, info)

	var compileErr *render.ShaderCompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, render.StageFragment, compileErr.Stage)
	assert.Equal(t, "shader/broken.frag", compileErr.Locator)
	assert.Contains(t, compileErr.Log, "syntax error")

	_, programs := h.cache.Len()
	assert.Zero(t, programs)
	assert.Zero(t, h.device.LiveShaders)

	// A retry compiles again rather than returning a poisoned entry
	_, err = h.cache.Program("shader/broken.frag", "")
	assert.True(t, errors.As(err, &compileErr))
}

func TestLinkError(t *testing.T) {
	h := newHarness(t)

	_, err := h.cache.Program("shader/unlinkable.frag", "")
	var linkErr *render.ShaderLinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "shader/unlinkable.frag", linkErr.Fragment)
	assert.Equal(t, render.DefaultVertexShader, linkErr.Vertex)
	assert.Zero(t, h.device.LiveShaders)
}

func TestMissingSource(t *testing.T) {
	h := newHarness(t)

	_, err := h.cache.Program("shader/nope.frag", "")
	var notFound *render.ResourceNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "shader/nope.frag", notFound.Locator)
	assert.Zero(t, h.device.LiveShaders)
}
