// Package wormhole holds the default shader sources compiled into the binary.
package wormhole

import "embed"

// Shaders serves "shader/<name>" locators when no shader_dir is configured
//
//go:embed shader
var Shaders embed.FS
