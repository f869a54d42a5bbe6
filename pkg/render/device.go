package render

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Texture is an opaque GPU image handle. Zero is never a valid texture.
type Texture uint32

// Framebuffer is an opaque render target handle. Zero is the default (window) framebuffer.
type Framebuffer uint32

// Program is an opaque linked shader program handle. Zero means no program.
type Program uint32

// Shader is a compiled, unlinked shader stage.
type Shader uint32

// VertexArray is an opaque vertex array handle.
type VertexArray uint32

// TextureFormat selects the storage class of a color texture
type TextureFormat int

const (
	// FormatHDR stores 16-bit float RGB
	FormatHDR TextureFormat = iota
	// FormatLDR stores 8-bit normalized RGB
	FormatLDR
)

func (f TextureFormat) String() string {
	if f == FormatLDR {
		return "ldr"
	}
	return "hdr"
}

// TextureTarget is the binding point a texture is sampled through
type TextureTarget int

const (
	Target2D TextureTarget = iota
	TargetCubemap
)

func (t TextureTarget) String() string {
	if t == TargetCubemap {
		return "cubemap"
	}
	return "2d"
}

// ShaderStage identifies a programmable pipeline stage
type ShaderStage int

const (
	StageVertex ShaderStage = iota
	StageFragment
)

func (s ShaderStage) String() string {
	if s == StageFragment {
		return "fragment"
	}
	return "vertex"
}

// CubemapFaces holds the six faces in +X, -X, +Y, -Y, +Z, -Z order.
type CubemapFaces [6]*image.RGBA

// Device is the narrow slice of the graphics API the render core drives.
// Implementations are not safe for concurrent use; all calls happen on the
// thread owning the context.
type Device interface {
	CreateColorTexture(width, height int, format TextureFormat) Texture
	UploadTexture2D(img *image.RGBA, repeat bool) Texture
	UploadCubemap(faces CubemapFaces) Texture

	// CreateFramebuffer attaches color as the only color attachment and
	// reports whether the result is complete. An incomplete framebuffer is
	// released before returning.
	CreateFramebuffer(color Texture) (Framebuffer, bool)
	CreateVertexArray(positions []mgl32.Vec3) VertexArray

	// CompileShader returns the info log when ok is false.
	CompileShader(stage ShaderStage, source string) (shader Shader, log string, ok bool)
	DeleteShader(shader Shader)
	// LinkProgram detaches both stages on success. The stages are still owned by the caller.
	LinkProgram(vertex, fragment Shader) (program Program, log string, ok bool)
	DeleteProgram(program Program)
	// ActiveUniforms lists the uniforms the linker kept, keyed by name.
	ActiveUniforms(program Program) map[string]int32

	BindFramebuffer(fb Framebuffer)
	Viewport(width, height int)
	DisableDepthTest()
	Clear(color mgl32.Vec4)
	UseProgram(program Program)
	Uniform1f(location int32, value float32)
	Uniform2f(location int32, value mgl32.Vec2)
	Uniform1i(location int32, value int32)
	BindTexture(unit int, target TextureTarget, texture Texture)
	BindVertexArray(vao VertexArray)
	DrawTriangles(first, count int)
}

// Clock reports monotonic seconds since start
type Clock interface {
	Seconds() float64
}

// ClockFunc adapts a function to Clock
type ClockFunc func() float64

func (f ClockFunc) Seconds() float64 { return f() }
