package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(3.0, 0.0, 1.0))
	assert.Equal(t, float32(-180), Clamp(float32(-200), -180, 180))
	assert.Equal(t, 8, Clamp(8, 1, 8))
	assert.Equal(t, 1, Clamp(0, 1, 8))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 0, Wrap(5, 5))
	assert.Equal(t, 4, Wrap(-1, 5))
	assert.Equal(t, 2, Wrap(12, 5))
	assert.Equal(t, 0, Wrap(3, 0))
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 2.5, Lerp(0, 10, 0.25), 1e-9)
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "right.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "left.png")))
	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.Equal(t, "right", GetFileNameWithoutExt(file))
}
