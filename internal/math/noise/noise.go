package noise

import (
	"math"
	"math/rand"
)

// Generator produces seeded gradient noise used to synthesize fallback textures
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// NewGenerator creates a generator. Equal seeds give equal output.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed the generator was created with
func (g *Generator) Seed() int64 {
	return g.seed
}

// RandomFloat returns a random float in range [0.0, 1.0)
func (g *Generator) RandomFloat() float64 {
	return g.rng.Float64()
}

// Perlin3D returns gradient noise in roughly [-1, 1]
func (g *Generator) Perlin3D(x, y, z float64) float64 {
	x0, y0, z0 := math.Floor(x), math.Floor(y), math.Floor(z)
	fx, fy, fz := x-x0, y-y0, z-z0
	sx, sy, sz := smoothstep(fx), smoothstep(fy), smoothstep(fz)

	ix, iy, iz := int(x0), int(y0), int(z0)
	seed := int(g.seed)

	corner := func(dx, dy, dz int) float64 {
		grad := gradient3D(hash(ix+dx, iy+dy, iz+dz, seed))
		return grad[0]*(fx-float64(dx)) + grad[1]*(fy-float64(dy)) + grad[2]*(fz-float64(dz))
	}

	v00 := lerp(corner(0, 0, 0), corner(1, 0, 0), sx)
	v10 := lerp(corner(0, 1, 0), corner(1, 1, 0), sx)
	v01 := lerp(corner(0, 0, 1), corner(1, 0, 1), sx)
	v11 := lerp(corner(0, 1, 1), corner(1, 1, 1), sx)

	return lerp(lerp(v00, v10, sy), lerp(v01, v11, sy), sz)
}

// FBM3D sums octaves of Perlin3D, each at lacunarity times the frequency
// and gain times the amplitude of the previous one
func (g *Generator) FBM3D(x, y, z float64, octaves int, lacunarity, gain float64) float64 {
	var sum, norm float64
	amplitude, frequency := 1.0, 1.0
	for i := 0; i < octaves; i++ {
		sum += amplitude * g.Perlin3D(x*frequency, y*frequency, z*frequency)
		norm += amplitude
		amplitude *= gain
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

// Cell returns a stable value in [0, 1) for an integer lattice cell
func (g *Generator) Cell(x, y, z int) float64 {
	return hashToFloat(hash(x, y, z, int(g.seed)))
}

// hash combines the coordinates and seed to create a unique hash
func hash(x, y, z, seed int) int {
	h := seed + x*374761393 + y*668265263 + z*1274126177
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// hashToFloat converts a hash to a float in range [0, 1)
func hashToFloat(h int) float64 {
	return float64(h&0xFFFFFF) / 16777216.0
}

// gradient3D picks one of the twelve cube edge directions
func gradient3D(h int) [3]float64 {
	switch h & 15 % 12 {
	case 0:
		return [3]float64{1, 1, 0}
	case 1:
		return [3]float64{-1, 1, 0}
	case 2:
		return [3]float64{1, -1, 0}
	case 3:
		return [3]float64{-1, -1, 0}
	case 4:
		return [3]float64{1, 0, 1}
	case 5:
		return [3]float64{-1, 0, 1}
	case 6:
		return [3]float64{1, 0, -1}
	case 7:
		return [3]float64{-1, 0, -1}
	case 8:
		return [3]float64{0, 1, 1}
	case 9:
		return [3]float64{0, -1, 1}
	case 10:
		return [3]float64{0, 1, -1}
	default:
		return [3]float64{0, -1, -1}
	}
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// smoothstep: 6t^5 - 15t^4 + 10t^3
func smoothstep(t float64) float64 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}
