package render

import (
	"wormhole/internal/logger"
)

// DefaultVertexShader is the passthrough stage every pass uses unless it names its own
const DefaultVertexShader = "shader/simple.vert"

// ShaderCompiler turns a pair of source locators into a linked program
type ShaderCompiler struct {
	device  Device
	sources Sources
	logger  *logger.Logger
}

// NewShaderCompiler creates a compiler reading text from sources
func NewShaderCompiler(device Device, sources Sources, log *logger.Logger) *ShaderCompiler {
	return &ShaderCompiler{
		device:  device,
		sources: sources,
		logger:  log,
	}
}

// Compile loads, compiles and links the two stages. The intermediate stage
// objects are always released; only the linked program survives.
func (c *ShaderCompiler) Compile(vertexLocator, fragmentLocator string) (Program, error) {
	if vertexLocator == "" {
		vertexLocator = DefaultVertexShader
	}

	c.logger.Infof("Compiling vertex shader: %s", vertexLocator)
	vertexShader, err := c.compileStage(StageVertex, vertexLocator)
	if err != nil {
		return 0, err
	}
	defer c.device.DeleteShader(vertexShader)

	c.logger.Infof("Compiling fragment shader: %s", fragmentLocator)
	fragmentShader, err := c.compileStage(StageFragment, fragmentLocator)
	if err != nil {
		return 0, err
	}
	defer c.device.DeleteShader(fragmentShader)

	program, log, ok := c.device.LinkProgram(vertexShader, fragmentShader)
	if !ok {
		c.logger.Errorf("Failed to link %s + %s:\n%s", vertexLocator, fragmentLocator, log)
		return 0, &ShaderLinkError{Vertex: vertexLocator, Fragment: fragmentLocator, Log: log}
	}

	return program, nil
}

// compileStage compiles a single stage from its locator
func (c *ShaderCompiler) compileStage(stage ShaderStage, locator string) (Shader, error) {
	source, err := c.sources.ReadText(locator)
	if err != nil {
		return 0, err
	}

	shader, log, ok := c.device.CompileShader(stage, source)
	if !ok {
		c.logger.Errorf("Failed to compile %s shader %s:\n%s", stage, locator, log)
		return 0, &ShaderCompileError{Stage: stage, Locator: locator, Log: log}
	}

	return shader, nil
}
