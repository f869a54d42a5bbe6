package render

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"wormhole/internal/logger"
)

// Uniform names every pass receives without declaring them
const (
	ResolutionUniform = "resolution"
	TimeUniform       = "time"
)

var (
	// SentinelColor fills a target before drawing; any of it left afterwards means nothing was drawn there.
	SentinelColor = mgl32.Vec4{0, 1, 1, 1}
	// PresentSentinelColor plays the same role for the window framebuffer.
	PresentSentinelColor = mgl32.Vec4{1, 0, 0, 1}
)

// PassSpec declares one render-to-texture draw. An empty Vertex selects
// DefaultVertexShader.
type PassSpec struct {
	Fragment string
	Vertex   string
	Scalars  map[string]float32
	Textures map[string]Texture
	Cubemaps map[string]Texture
	Target   Texture
	Width    int
	Height   int
}

// Validate checks the spec without touching the device
func (s *PassSpec) Validate() error {
	if s.Fragment == "" {
		return fmt.Errorf("%w: missing fragment shader", ErrInvalidSpec)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %s has size %dx%d", ErrInvalidSpec, s.Fragment, s.Width, s.Height)
	}
	for _, name := range sortedNames(s.Textures) {
		if s.Target != 0 && s.Textures[name] == s.Target {
			return &TextureAliasError{Uniform: name, Texture: s.Target}
		}
	}
	for _, name := range sortedNames(s.Cubemaps) {
		if s.Target != 0 && s.Cubemaps[name] == s.Target {
			return &TextureAliasError{Uniform: name, Texture: s.Target}
		}
	}
	return nil
}

// TextureUnits returns the unit each sampler uniform is bound to: all 2D
// textures first, then all cubemaps, each group in name order, starting at 0.
func (s *PassSpec) TextureUnits() map[string]int {
	units := make(map[string]int, len(s.Textures)+len(s.Cubemaps))
	unit := 0
	for _, name := range sortedNames(s.Textures) {
		units[name] = unit
		unit++
	}
	for _, name := range sortedNames(s.Cubemaps) {
		units[name] = unit
		unit++
	}
	return units
}

// Inputs returns every texture the pass samples, keyed by uniform name
func (s *PassSpec) Inputs() map[string]Texture {
	inputs := make(map[string]Texture, len(s.Textures)+len(s.Cubemaps))
	maps.Copy(inputs, s.Textures)
	maps.Copy(inputs, s.Cubemaps)
	return inputs
}

func sortedNames[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// Executor runs passes against a device, resolving targets and programs through a cache
type Executor struct {
	device Device
	cache  *ResourceCache
	quad   *FullscreenQuad
	clock  Clock
	logger *logger.Logger

	warned map[string]struct{}
}

// NewExecutor creates a pass executor drawing quad for every pass
func NewExecutor(device Device, cache *ResourceCache, quad *FullscreenQuad, clock Clock, log *logger.Logger) *Executor {
	return &Executor{
		device: device,
		cache:  cache,
		quad:   quad,
		clock:  clock,
		logger: log,
		warned: make(map[string]struct{}),
	}
}

// Cache returns the resource cache backing the executor
func (e *Executor) Cache() *ResourceCache {
	return e.cache
}

// Execute renders spec into its target texture
func (e *Executor) Execute(spec PassSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if spec.Target == 0 {
		return &ResourceResolutionError{Kind: "target texture", Key: spec.Fragment}
	}

	program, err := e.resolveProgram(spec)
	if err != nil {
		return err
	}

	fb, err := e.cache.Framebuffer(spec.Target)
	if err != nil {
		return fmt.Errorf("pass %s: %w", spec.Fragment, err)
	}
	if fb == 0 {
		return &ResourceResolutionError{Kind: "framebuffer", Key: fmt.Sprintf("texture %d", spec.Target)}
	}

	e.draw(fb, program, spec, SentinelColor)
	return nil
}

// Present draws input through fragment into the window framebuffer
func (e *Executor) Present(fragment string, input Texture, width, height int) error {
	spec := PassSpec{
		Fragment: fragment,
		Textures: map[string]Texture{"texture0": input},
		Width:    width,
		Height:   height,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	program, err := e.resolveProgram(spec)
	if err != nil {
		return err
	}

	e.draw(0, program, spec, PresentSentinelColor)
	return nil
}

func (e *Executor) resolveProgram(spec PassSpec) (*ProgramInfo, error) {
	program, err := e.cache.Program(spec.Fragment, spec.Vertex)
	if err != nil {
		return nil, err
	}
	if program == nil || program.Handle == 0 {
		return nil, &ResourceResolutionError{Kind: "program", Key: spec.Fragment}
	}
	return program, nil
}

// draw issues the GPU commands for one pass; resolution has already succeeded
func (e *Executor) draw(fb Framebuffer, program *ProgramInfo, spec PassSpec, clear mgl32.Vec4) {
	e.device.BindFramebuffer(fb)
	e.device.Viewport(spec.Width, spec.Height)
	e.device.DisableDepthTest()
	e.device.Clear(clear)

	e.device.UseProgram(program.Handle)

	if loc, ok := program.Location(ResolutionUniform); ok {
		e.device.Uniform2f(loc, mgl32.Vec2{float32(spec.Width), float32(spec.Height)})
	}
	if loc, ok := program.Location(TimeUniform); ok {
		e.device.Uniform1f(loc, float32(e.clock.Seconds()))
	}

	for _, name := range sortedNames(spec.Scalars) {
		loc, ok := program.Location(name)
		if !ok {
			e.warnMissing(program, spec.Fragment, name)
			continue
		}
		e.device.Uniform1f(loc, spec.Scalars[name])
	}

	units := spec.TextureUnits()
	e.bindSamplers(program, spec.Fragment, Target2D, spec.Textures, units)
	e.bindSamplers(program, spec.Fragment, TargetCubemap, spec.Cubemaps, units)

	e.device.BindVertexArray(e.quad.VertexArray())
	e.device.DrawTriangles(0, QuadVertexCount)

	e.device.UseProgram(0)
}

func (e *Executor) bindSamplers(program *ProgramInfo, fragment string, target TextureTarget, textures map[string]Texture, units map[string]int) {
	for _, name := range sortedNames(textures) {
		loc, ok := program.Location(name)
		if !ok {
			e.warnMissing(program, fragment, name)
			continue
		}
		unit := units[name]
		e.device.Uniform1i(loc, int32(unit))
		e.device.BindTexture(unit, target, textures[name])
	}
}

// warnMissing logs an absent uniform once per program
func (e *Executor) warnMissing(program *ProgramInfo, fragment, name string) {
	key := fmt.Sprintf("%d/%s", program.Handle, name)
	if _, seen := e.warned[key]; seen {
		return
	}
	e.warned[key] = struct{}{}
	e.logger.Warnf("uniform %s is not found in shader %s", name, fragment)
}
