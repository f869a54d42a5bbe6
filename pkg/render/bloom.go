package render

import "fmt"

// MaxBloomLevels bounds the pyramid depth; textures for every level are allocated up front.
const MaxBloomLevels = 8

// BloomShaders names the programs of the pyramid chains. An empty Vertex
// selects DefaultVertexShader.
type BloomShaders struct {
	Vertex     string
	Downsample string
	Upsample   string
}

// BloomPyramid approximates a wide blur by halving resolution level by level
// and then blending back up. downsampled[i] is the base size shifted right
// by i+1, upsampled[i] by i, so upsampled[0] is full resolution.
type BloomPyramid struct {
	width       int
	height      int
	shaders     BloomShaders
	downsampled [MaxBloomLevels]Texture
	upsampled   [MaxBloomLevels]Texture
}

// NewBloomPyramid allocates all MaxBloomLevels levels for a width x height base
func NewBloomPyramid(device Device, width, height int, format TextureFormat, shaders BloomShaders) (*BloomPyramid, error) {
	if width>>MaxBloomLevels < 1 || height>>MaxBloomLevels < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrPyramidNotSized, width, height)
	}

	p := &BloomPyramid{
		width:   width,
		height:  height,
		shaders: shaders,
	}
	for i := 0; i < MaxBloomLevels; i++ {
		dw, dh := p.DownsampledSize(i)
		p.downsampled[i] = device.CreateColorTexture(dw, dh, format)
		uw, uh := p.UpsampledSize(i)
		p.upsampled[i] = device.CreateColorTexture(uw, uh, format)
	}
	return p, nil
}

// DownsampledSize is the resolution of downsampled[level]
func (p *BloomPyramid) DownsampledSize(level int) (int, int) {
	return p.width >> (level + 1), p.height >> (level + 1)
}

// UpsampledSize is the resolution of upsampled[level]
func (p *BloomPyramid) UpsampledSize(level int) (int, int) {
	return p.width >> level, p.height >> level
}

// Downsampled returns the texture of a downsample level
func (p *BloomPyramid) Downsampled(level int) Texture {
	return p.downsampled[level]
}

// Upsampled returns the texture of an upsample level
func (p *BloomPyramid) Upsampled(level int) Texture {
	return p.upsampled[level]
}

// Plan lists the passes for levels levels in issue order: the whole
// downsample chain, then the upsample chain from the coarsest level back
// to full resolution. Levels above the count keep their textures but are
// not referenced.
func (p *BloomPyramid) Plan(brightness Texture, levels int) ([]PassSpec, error) {
	if levels < 1 || levels > MaxBloomLevels {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrLevelOutOfRange, levels, MaxBloomLevels)
	}

	specs := make([]PassSpec, 0, 2*levels)
	for level := 0; level < levels; level++ {
		input := brightness
		if level > 0 {
			input = p.downsampled[level-1]
		}
		w, h := p.DownsampledSize(level)
		specs = append(specs, PassSpec{
			Fragment: p.shaders.Downsample,
			Vertex:   p.shaders.Vertex,
			Textures: map[string]Texture{"texture0": input},
			Target:   p.downsampled[level],
			Width:    w,
			Height:   h,
		})
	}

	for level := levels - 1; level >= 0; level-- {
		coarser := p.downsampled[level]
		if level < levels-1 {
			coarser = p.upsampled[level+1]
		}
		finer := brightness
		if level > 0 {
			finer = p.downsampled[level-1]
		}
		w, h := p.UpsampledSize(level)
		specs = append(specs, PassSpec{
			Fragment: p.shaders.Upsample,
			Vertex:   p.shaders.Vertex,
			Textures: map[string]Texture{
				"texture0": coarser,
				"texture1": finer,
			},
			Target: p.upsampled[level],
			Width:  w,
			Height: h,
		})
	}

	return specs, nil
}

// Render issues the planned passes on frame and returns the full-resolution result
func (p *BloomPyramid) Render(frame *Frame, brightness Texture, levels int) (Texture, error) {
	specs, err := p.Plan(brightness, levels)
	if err != nil {
		return 0, err
	}
	for _, spec := range specs {
		if err := frame.Run(spec); err != nil {
			return 0, fmt.Errorf("bloom pass %s -> texture %d: %w", spec.Fragment, spec.Target, err)
		}
	}
	return p.upsampled[0], nil
}
