package render

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSpec     = errors.New("render: invalid pass spec")
	ErrLevelOutOfRange = errors.New("render: bloom level count out of range")
	ErrPyramidNotSized = errors.New("render: bloom pyramid base resolution too small")
)

// ShaderCompileError reports a stage that failed to compile
type ShaderCompileError struct {
	Stage   ShaderStage
	Locator string
	Log     string
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("render: failed to compile %s shader %q: %s", e.Stage, e.Locator, e.Log)
}

// ShaderLinkError reports a program that failed to link
type ShaderLinkError struct {
	Vertex   string
	Fragment string
	Log      string
}

func (e *ShaderLinkError) Error() string {
	return fmt.Sprintf("render: failed to link program (%s, %s): %s", e.Vertex, e.Fragment, e.Log)
}

// FramebufferIncompleteError reports a target texture that could not back a framebuffer
type FramebufferIncompleteError struct {
	Target Texture
}

func (e *FramebufferIncompleteError) Error() string {
	return fmt.Sprintf("render: framebuffer for texture %d is not complete", e.Target)
}

// ResourceNotFoundError reports a locator the text or asset provider could not open
type ResourceNotFoundError struct {
	Locator string
	Err     error
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("render: resource %q not found: %v", e.Locator, e.Err)
}

func (e *ResourceNotFoundError) Unwrap() error { return e.Err }

// ResourceResolutionError reports a pass whose framebuffer or program resolved to the zero handle
type ResourceResolutionError struct {
	Kind string
	Key  string
}

func (e *ResourceResolutionError) Error() string {
	return fmt.Sprintf("render: %s %s resolved to an invalid handle", e.Kind, e.Key)
}

// TextureAliasError reports a pass sampling the texture it renders into
type TextureAliasError struct {
	Uniform string
	Texture Texture
}

func (e *TextureAliasError) Error() string {
	return fmt.Sprintf("render: uniform %q samples target texture %d", e.Uniform, e.Texture)
}

// UnwrittenInputError reports a pass reading a texture no earlier pass in the frame produced
type UnwrittenInputError struct {
	Uniform string
	Texture Texture
}

func (e *UnwrittenInputError) Error() string {
	return fmt.Sprintf("render: uniform %q reads texture %d before it was written this frame", e.Uniform, e.Texture)
}
