package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministic(t *testing.T) {
	a := NewGenerator(42)
	b := NewGenerator(42)

	for i := 0; i < 50; i++ {
		x, y, z := float64(i)*0.37, float64(i)*0.11, float64(i)*0.73
		assert.Equal(t, a.Perlin3D(x, y, z), b.Perlin3D(x, y, z))
		assert.Equal(t, a.Cell(i, -i, 2*i), b.Cell(i, -i, 2*i))
	}
	assert.Equal(t, int64(42), a.Seed())
}

func TestPerlinZeroAtLatticePoints(t *testing.T) {
	g := NewGenerator(7)
	assert.Zero(t, g.Perlin3D(0, 0, 0))
	assert.Zero(t, g.Perlin3D(3, -2, 5))
}

func TestRanges(t *testing.T) {
	g := NewGenerator(1)
	for i := 0; i < 200; i++ {
		f := float64(i) * 0.173
		v := g.FBM3D(f, f*0.5, -f, 4, 2.0, 0.5)
		assert.GreaterOrEqual(t, v, -1.5)
		assert.LessOrEqual(t, v, 1.5)

		c := g.Cell(i, i*3, -i)
		assert.GreaterOrEqual(t, c, 0.0)
		assert.Less(t, c, 1.0)
	}
	assert.Zero(t, g.FBM3D(1, 2, 3, 0, 2, 0.5))
}
