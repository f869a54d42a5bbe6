// Package rendertest provides an in-memory render.Device that records every
// call, for tests that must run without a GPU.
package rendertest

import (
	"fmt"
	"image"
	"regexp"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"wormhole/pkg/render"
)

// CompileErrorMarker makes CompileShader fail when present in a source
const CompileErrorMarker = "#error"

// LinkErrorMarker makes LinkProgram fail when present in either stage
const LinkErrorMarker = "// link-error"

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)\s*;`)

// TextureInfo describes an allocated texture
type TextureInfo struct {
	Width  int
	Height int
	Format render.TextureFormat
	Target render.TextureTarget
}

// Binding is a texture bound to a unit at draw time
type Binding struct {
	Target  render.TextureTarget
	Texture render.Texture
}

// Draw captures the pipeline state at a DrawTriangles call
type Draw struct {
	Framebuffer render.Framebuffer
	Width       int
	Height      int
	Program     render.Program
	Clear       mgl32.Vec4
	DepthTest   bool
	Floats      map[string]float32
	Vec2s       map[string]mgl32.Vec2
	Ints        map[string]int32
	Units       map[int]Binding
	VertexArray render.VertexArray
	First       int
	Count       int
}

// Device is a recording fake. The zero value is not usable; call NewDevice.
type Device struct {
	Textures     map[render.Texture]TextureInfo
	Framebuffers map[render.Framebuffer]render.Texture
	// FramebufferCreations counts CreateFramebuffer calls per color texture
	FramebufferCreations map[render.Texture]int
	// Incomplete lists color textures whose framebuffers fail completeness
	Incomplete map[render.Texture]bool
	Programs   map[render.Program]map[string]int32
	// Pixels holds uploaded images: one for 2D textures, six for cubemaps
	Pixels map[render.Texture][]*image.RGBA
	// LiveShaders counts compiled stages not yet deleted
	LiveShaders int
	Links       int
	Calls       []string
	Draws       []Draw

	next          uint32
	shaderSources map[render.Shader]string
	locationNames map[render.Program]map[int32]string

	framebuffer render.Framebuffer
	viewport    [2]int
	clear       mgl32.Vec4
	depthTest   bool
	program     render.Program
	floats      map[string]float32
	vec2s       map[string]mgl32.Vec2
	ints        map[string]int32
	units       map[int]Binding
	vao         render.VertexArray
}

// NewDevice creates an empty recording device
func NewDevice() *Device {
	return &Device{
		Textures:             make(map[render.Texture]TextureInfo),
		Framebuffers:         make(map[render.Framebuffer]render.Texture),
		FramebufferCreations: make(map[render.Texture]int),
		Incomplete:           make(map[render.Texture]bool),
		Programs:             make(map[render.Program]map[string]int32),
		Pixels:               make(map[render.Texture][]*image.RGBA),
		shaderSources:        make(map[render.Shader]string),
		locationNames:        make(map[render.Program]map[int32]string),
		depthTest:            true,
		floats:               make(map[string]float32),
		vec2s:                make(map[string]mgl32.Vec2),
		ints:                 make(map[string]int32),
		units:                make(map[int]Binding),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) record(format string, args ...interface{}) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) CreateColorTexture(width, height int, format render.TextureFormat) render.Texture {
	tex := render.Texture(d.handle())
	d.Textures[tex] = TextureInfo{Width: width, Height: height, Format: format, Target: render.Target2D}
	d.record("CreateColorTexture %dx%d %s -> %d", width, height, format, tex)
	return tex
}

func (d *Device) UploadTexture2D(img *image.RGBA, repeat bool) render.Texture {
	tex := render.Texture(d.handle())
	b := img.Bounds()
	d.Textures[tex] = TextureInfo{Width: b.Dx(), Height: b.Dy(), Format: render.FormatLDR, Target: render.Target2D}
	d.Pixels[tex] = []*image.RGBA{img}
	d.record("UploadTexture2D %dx%d repeat=%t -> %d", b.Dx(), b.Dy(), repeat, tex)
	return tex
}

func (d *Device) UploadCubemap(faces render.CubemapFaces) render.Texture {
	tex := render.Texture(d.handle())
	b := faces[0].Bounds()
	d.Textures[tex] = TextureInfo{Width: b.Dx(), Height: b.Dy(), Format: render.FormatLDR, Target: render.TargetCubemap}
	d.Pixels[tex] = faces[:]
	d.record("UploadCubemap %dx%d -> %d", b.Dx(), b.Dy(), tex)
	return tex
}

func (d *Device) CreateFramebuffer(color render.Texture) (render.Framebuffer, bool) {
	d.FramebufferCreations[color]++
	if _, ok := d.Textures[color]; !ok || d.Incomplete[color] {
		d.record("CreateFramebuffer %d incomplete", color)
		return 0, false
	}
	fb := render.Framebuffer(d.handle())
	d.Framebuffers[fb] = color
	d.record("CreateFramebuffer %d -> %d", color, fb)
	return fb, true
}

func (d *Device) CreateVertexArray(positions []mgl32.Vec3) render.VertexArray {
	vao := render.VertexArray(d.handle())
	d.record("CreateVertexArray %d vertices -> %d", len(positions), vao)
	return vao
}

func (d *Device) CompileShader(stage render.ShaderStage, source string) (render.Shader, string, bool) {
	if strings.Contains(source, CompileErrorMarker) {
		d.record("CompileShader %s failed", stage)
		return 0, fmt.Sprintf("0:1(1): error: syntax error in %s stage", stage), false
	}
	shader := render.Shader(d.handle())
	d.shaderSources[shader] = source
	d.LiveShaders++
	d.record("CompileShader %s -> %d", stage, shader)
	return shader, "", true
}

func (d *Device) DeleteShader(shader render.Shader) {
	if _, ok := d.shaderSources[shader]; ok {
		delete(d.shaderSources, shader)
		d.LiveShaders--
	}
	d.record("DeleteShader %d", shader)
}

func (d *Device) LinkProgram(vertex, fragment render.Shader) (render.Program, string, bool) {
	vs, fs := d.shaderSources[vertex], d.shaderSources[fragment]
	if strings.Contains(vs, LinkErrorMarker) || strings.Contains(fs, LinkErrorMarker) {
		d.record("LinkProgram %d %d failed", vertex, fragment)
		return 0, "error: unresolved varying", false
	}

	program := render.Program(d.handle())
	uniforms := make(map[string]int32)
	names := make(map[int32]string)
	for _, src := range []string{vs, fs} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := uniforms[m[1]]; ok {
				continue
			}
			loc := int32(len(uniforms))
			uniforms[m[1]] = loc
			names[loc] = m[1]
		}
	}
	d.Programs[program] = uniforms
	d.locationNames[program] = names
	d.Links++
	d.record("LinkProgram %d %d -> %d", vertex, fragment, program)
	return program, "", true
}

func (d *Device) DeleteProgram(program render.Program) {
	delete(d.Programs, program)
	d.record("DeleteProgram %d", program)
}

func (d *Device) ActiveUniforms(program render.Program) map[string]int32 {
	out := make(map[string]int32, len(d.Programs[program]))
	for k, v := range d.Programs[program] {
		out[k] = v
	}
	return out
}

func (d *Device) BindFramebuffer(fb render.Framebuffer) {
	d.framebuffer = fb
	d.record("BindFramebuffer %d", fb)
}

func (d *Device) Viewport(width, height int) {
	d.viewport = [2]int{width, height}
	d.record("Viewport %dx%d", width, height)
}

func (d *Device) DisableDepthTest() {
	d.depthTest = false
	d.record("DisableDepthTest")
}

func (d *Device) Clear(color mgl32.Vec4) {
	d.clear = color
	d.record("Clear %v", color)
}

func (d *Device) UseProgram(program render.Program) {
	d.program = program
	d.floats = make(map[string]float32)
	d.vec2s = make(map[string]mgl32.Vec2)
	d.ints = make(map[string]int32)
	d.record("UseProgram %d", program)
}

func (d *Device) uniformName(location int32) string {
	if name, ok := d.locationNames[d.program][location]; ok {
		return name
	}
	return fmt.Sprintf("@%d", location)
}

func (d *Device) Uniform1f(location int32, value float32) {
	d.floats[d.uniformName(location)] = value
	d.record("Uniform1f %s %v", d.uniformName(location), value)
}

func (d *Device) Uniform2f(location int32, value mgl32.Vec2) {
	d.vec2s[d.uniformName(location)] = value
	d.record("Uniform2f %s %v", d.uniformName(location), value)
}

func (d *Device) Uniform1i(location int32, value int32) {
	d.ints[d.uniformName(location)] = value
	d.record("Uniform1i %s %d", d.uniformName(location), value)
}

func (d *Device) BindTexture(unit int, target render.TextureTarget, texture render.Texture) {
	d.units[unit] = Binding{Target: target, Texture: texture}
	d.record("BindTexture %d %s %d", unit, target, texture)
}

func (d *Device) BindVertexArray(vao render.VertexArray) {
	d.vao = vao
	d.record("BindVertexArray %d", vao)
}

func (d *Device) DrawTriangles(first, count int) {
	units := make(map[int]Binding, len(d.units))
	for k, v := range d.units {
		units[k] = v
	}
	d.Draws = append(d.Draws, Draw{
		Framebuffer: d.framebuffer,
		Width:       d.viewport[0],
		Height:      d.viewport[1],
		Program:     d.program,
		Clear:       d.clear,
		DepthTest:   d.depthTest,
		Floats:      d.floats,
		Vec2s:       d.vec2s,
		Ints:        d.ints,
		Units:       units,
		VertexArray: d.vao,
		First:       first,
		Count:       count,
	})
	d.record("DrawTriangles %d %d", first, count)
}

// TargetOf returns the color texture behind a draw's framebuffer, or 0 for the window
func (d *Device) TargetOf(draw Draw) render.Texture {
	return d.Framebuffers[draw.Framebuffer]
}

// SampledTexture returns the texture a draw sampled through the named sampler uniform
func (d *Device) SampledTexture(draw Draw, uniform string) (render.Texture, bool) {
	unit, ok := draw.Ints[uniform]
	if !ok {
		return 0, false
	}
	b, ok := draw.Units[int(unit)]
	return b.Texture, ok
}

var _ render.Device = (*Device)(nil)
