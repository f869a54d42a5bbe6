package render

import (
	"fmt"
	"sync"

	"wormhole/internal/logger"
)

// ProgramKey identifies a linked program by both of its stage locators
type ProgramKey struct {
	Vertex   string
	Fragment string
}

func (k ProgramKey) String() string {
	return fmt.Sprintf("%s+%s", k.Vertex, k.Fragment)
}

// ProgramInfo is a cached program together with its introspected uniform set
type ProgramInfo struct {
	Handle   Program
	Uniforms map[string]int32
}

// Location looks name up in the program's active uniforms
func (p *ProgramInfo) Location(name string) (int32, bool) {
	loc, ok := p.Uniforms[name]
	return loc, ok
}

// ResourceCache memoizes framebuffers by target texture and programs by
// stage pair. Entries are never evicted; the cache owns every handle it
// returns for the lifetime of the device context.
type ResourceCache struct {
	device   Device
	compiler *ShaderCompiler
	logger   *logger.Logger

	mutex        sync.Mutex
	framebuffers map[Texture]Framebuffer
	programs     map[ProgramKey]*ProgramInfo
}

// NewResourceCache creates an empty cache
func NewResourceCache(device Device, compiler *ShaderCompiler, log *logger.Logger) *ResourceCache {
	return &ResourceCache{
		device:       device,
		compiler:     compiler,
		logger:       log,
		framebuffers: make(map[Texture]Framebuffer),
		programs:     make(map[ProgramKey]*ProgramInfo),
	}
}

// Framebuffer returns the framebuffer whose sole color attachment is target,
// creating it on first use. An incomplete framebuffer yields the zero handle
// and a *FramebufferIncompleteError; nothing is cached in that case.
func (c *ResourceCache) Framebuffer(target Texture) (Framebuffer, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if fb, ok := c.framebuffers[target]; ok {
		return fb, nil
	}

	fb, complete := c.device.CreateFramebuffer(target)
	if !complete || fb == 0 {
		c.logger.Errorf("Framebuffer for texture %d is not complete", target)
		return 0, &FramebufferIncompleteError{Target: target}
	}

	c.framebuffers[target] = fb
	c.logger.Debugf("Created framebuffer %d for texture %d", fb, target)
	return fb, nil
}

// Program returns the linked program for the (vertex, fragment) pair,
// compiling it on first use. An empty vertex locator means the default
// passthrough stage. Failed compiles leave the cache untouched.
func (c *ResourceCache) Program(fragment, vertex string) (*ProgramInfo, error) {
	if vertex == "" {
		vertex = DefaultVertexShader
	}
	key := ProgramKey{Vertex: vertex, Fragment: fragment}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if info, ok := c.programs[key]; ok {
		return info, nil
	}

	handle, err := c.compiler.Compile(vertex, fragment)
	if err != nil {
		return nil, err
	}

	info := &ProgramInfo{
		Handle:   handle,
		Uniforms: c.device.ActiveUniforms(handle),
	}
	if info.Uniforms == nil {
		info.Uniforms = make(map[string]int32)
	}
	c.programs[key] = info
	return info, nil
}

// Len reports how many framebuffers and programs are cached
func (c *ResourceCache) Len() (framebuffers, programs int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.framebuffers), len(c.programs)
}
