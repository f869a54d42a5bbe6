// Package opengl implements render.Device on an OpenGL 4.1 core context.
package opengl

import (
	"fmt"
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"wormhole/pkg/render"
)

// Device issues GL calls on the context current on the calling thread
type Device struct{}

// NewDevice loads GL function pointers. A context must be current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return &Device{}, nil
}

// Version returns the driver's GL version string
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Device) CreateColorTexture(width, height int, format render.TextureFormat) render.Texture {
	internal, pixelType := int32(gl.RGB16F), uint32(gl.FLOAT)
	if format == render.FormatLDR {
		internal, pixelType = gl.RGB8, gl.UNSIGNED_BYTE
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, gl.RGB, pixelType, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return render.Texture(tex)
}

func (d *Device) UploadTexture2D(img *image.RGBA, repeat bool) render.Texture {
	wrap := int32(gl.CLAMP_TO_EDGE)
	if repeat {
		wrap = gl.REPEAT
	}
	b := img.Bounds()

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, wrap)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, wrap)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return render.Texture(tex)
}

func (d *Device) UploadCubemap(faces render.CubemapFaces) render.Texture {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, tex)
	for i, face := range faces {
		b := face.Bounds()
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(face.Stride/4))
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(face.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	return render.Texture(tex)
}

func (d *Device) CreateFramebuffer(color render.Texture) (render.Framebuffer, bool) {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(color), 0)

	complete := gl.CheckFramebufferStatus(gl.FRAMEBUFFER) == gl.FRAMEBUFFER_COMPLETE
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if !complete {
		gl.DeleteFramebuffers(1, &fbo)
		return 0, false
	}
	return render.Framebuffer(fbo), true
}

func (d *Device) CreateVertexArray(positions []mgl32.Vec3) render.VertexArray {
	flat := make([]float32, 0, len(positions)*3)
	for _, p := range positions {
		flat = append(flat, p[0], p[1], p[2])
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(flat)*4, gl.Ptr(flat), gl.STATIC_DRAW)

	// Position attribute
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, gl.PtrOffset(0))

	gl.BindVertexArray(0)
	return render.VertexArray(vao)
}

func (d *Device) CompileShader(stage render.ShaderStage, source string) (render.Shader, string, bool) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == render.StageFragment {
		shaderType = gl.FRAGMENT_SHADER
	}
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, strings.TrimRight(log, "\x00"), false
	}

	return render.Shader(shader), "", true
}

func (d *Device) DeleteShader(shader render.Shader) {
	gl.DeleteShader(uint32(shader))
}

func (d *Device) LinkProgram(vertex, fragment render.Shader) (render.Program, string, bool) {
	program := gl.CreateProgram()
	gl.AttachShader(program, uint32(vertex))
	gl.AttachShader(program, uint32(fragment))
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, strings.TrimRight(log, "\x00"), false
	}

	gl.DetachShader(program, uint32(vertex))
	gl.DetachShader(program, uint32(fragment))
	return render.Program(program), "", true
}

func (d *Device) DeleteProgram(program render.Program) {
	gl.DeleteProgram(uint32(program))
}

func (d *Device) ActiveUniforms(program render.Program) map[string]int32 {
	var count, maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)

	uniforms := make(map[string]int32, count)
	if count == 0 || maxLength == 0 {
		return uniforms
	}

	buf := make([]uint8, maxLength)
	for i := int32(0); i < count; i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(uint32(program), uint32(i), maxLength, &length, &size, &xtype, &buf[0])

		name := strings.TrimSuffix(string(buf[:length]), "[0]")
		loc := gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00"))
		if loc >= 0 {
			uniforms[name] = loc
		}
	}
	return uniforms
}

func (d *Device) BindFramebuffer(fb render.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) DisableDepthTest() {
	gl.Disable(gl.DEPTH_TEST)
}

func (d *Device) Clear(color mgl32.Vec4) {
	gl.ClearColor(color[0], color[1], color[2], color[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) UseProgram(program render.Program) {
	gl.UseProgram(uint32(program))
}

func (d *Device) Uniform1f(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (d *Device) Uniform2f(location int32, value mgl32.Vec2) {
	gl.Uniform2f(location, value[0], value[1])
}

func (d *Device) Uniform1i(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (d *Device) BindTexture(unit int, target render.TextureTarget, texture render.Texture) {
	glTarget := uint32(gl.TEXTURE_2D)
	if target == render.TargetCubemap {
		glTarget = gl.TEXTURE_CUBE_MAP
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(glTarget, uint32(texture))
}

func (d *Device) BindVertexArray(vao render.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) DrawTriangles(first, count int) {
	gl.DrawArrays(gl.TRIANGLES, int32(first), int32(count))
}

var _ render.Device = (*Device)(nil)
