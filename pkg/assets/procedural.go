package assets

import (
	"image"
	"image/color"
	"math"

	"wormhole/internal/math/noise"
	"wormhole/internal/util"
	"wormhole/pkg/render"
)

type rampStop struct {
	at    float64
	color [3]float64
}

// Hot inner edge to cold outer edge of the accretion disk
var diskRamp = []rampStop{
	{0.0, [3]float64{255, 250, 235}},
	{0.3, [3]float64{255, 190, 90}},
	{0.6, [3]float64{220, 80, 20}},
	{1.0, [3]float64{40, 5, 0}},
}

// ColorRamp returns a width x 1 gradient sampled by u in [0, 1]
func ColorRamp(width int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, 1))
	for x := 0; x < width; x++ {
		u := 0.0
		if width > 1 {
			u = float64(x) / float64(width-1)
		}
		img.SetRGBA(x, 0, rampAt(u))
	}
	return img
}

func rampAt(u float64) color.RGBA {
	for i := 1; i < len(diskRamp); i++ {
		lo, hi := diskRamp[i-1], diskRamp[i]
		if u > hi.at {
			continue
		}
		t := (u - lo.at) / (hi.at - lo.at)
		return color.RGBA{
			R: uint8(util.Lerp(lo.color[0], hi.color[0], t)),
			G: uint8(util.Lerp(lo.color[1], hi.color[1], t)),
			B: uint8(util.Lerp(lo.color[2], hi.color[2], t)),
			A: 255,
		}
	}
	last := diskRamp[len(diskRamp)-1].color
	return color.RGBA{R: uint8(last[0]), G: uint8(last[1]), B: uint8(last[2]), A: 255}
}

// Starfield renders six size x size faces of sparse stars over a faint nebula.
// Pixels are generated from the view direction so faces meet without seams.
func Starfield(size int, seed int64) render.CubemapFaces {
	gen := noise.NewGenerator(seed)

	var faces render.CubemapFaces
	for face := range faces {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				s := 2*(float64(x)+0.5)/float64(size) - 1
				t := 2*(float64(y)+0.5)/float64(size) - 1
				dx, dy, dz := faceDirection(face, s, t)
				img.SetRGBA(x, y, skyColor(gen, dx, dy, dz))
			}
		}
		faces[face] = img
	}
	return faces
}

// faceDirection maps face coordinates to a unit direction in GL cubemap orientation
func faceDirection(face int, s, t float64) (float64, float64, float64) {
	var x, y, z float64
	switch face {
	case 0:
		x, y, z = 1, -t, -s
	case 1:
		x, y, z = -1, -t, s
	case 2:
		x, y, z = s, 1, t
	case 3:
		x, y, z = s, -1, -t
	case 4:
		x, y, z = s, -t, 1
	default:
		x, y, z = -s, -t, -1
	}
	l := math.Sqrt(x*x + y*y + z*z)
	return x / l, y / l, z / l
}

func skyColor(gen *noise.Generator, x, y, z float64) color.RGBA {
	nebula := util.Clamp(gen.FBM3D(x*2.5, y*2.5, z*2.5, 4, 2.0, 0.5)*0.5+0.5, 0, 1)
	nebula = nebula * nebula * 0.25

	r := nebula * 0.6
	g := nebula * 0.3
	b := nebula

	// One candidate star per lattice cell, most cells empty
	const density = 180.0
	cx, cy, cz := int(math.Floor(x*density)), int(math.Floor(y*density)), int(math.Floor(z*density))
	if v := gen.Cell(cx, cy, cz); v > 0.995 {
		brightness := (v - 0.995) / 0.005
		r += brightness
		g += brightness
		b += brightness * 0.9
	}

	return color.RGBA{
		R: uint8(util.Clamp(r, 0, 1) * 255),
		G: uint8(util.Clamp(g, 0, 1) * 255),
		B: uint8(util.Clamp(b, 0, 1) * 255),
		A: 255,
	}
}
