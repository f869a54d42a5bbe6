package wormhole

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedShaders(t *testing.T) {
	for _, name := range []string{
		"shader/simple.vert",
		"shader/passthrough.frag",
		"shader/blackhole_main.frag",
		"shader/bloom_brightness_pass.frag",
		"shader/bloom_downsample.frag",
		"shader/bloom_upsample.frag",
		"shader/bloom_composite.frag",
		"shader/tonemapping.frag",
	} {
		data, err := fs.ReadFile(Shaders, name)
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(data), "#version 410 core"), name)
	}
}

func TestPostProcessShadersSampleTexture0(t *testing.T) {
	matches, err := fs.Glob(Shaders, "shader/*.frag")
	require.NoError(t, err)

	for _, name := range matches {
		if name == "shader/blackhole_main.frag" {
			continue
		}
		data, err := fs.ReadFile(Shaders, name)
		require.NoError(t, err)
		assert.Contains(t, string(data), "uniform sampler2D texture0;", name)
	}
}
