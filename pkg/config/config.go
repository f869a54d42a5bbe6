package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"wormhole/pkg/controls"
	"wormhole/pkg/render"
)

// Config represents the main configuration
type Config struct {
	LogLevel string                `yaml:"log_level"`
	LogFile  string                `yaml:"log_file,omitempty"`
	Window   WindowConfig          `yaml:"window"`
	Render   RenderConfig          `yaml:"render"`
	Assets   AssetsConfig          `yaml:"assets"`
	Audio    AudioConfig           `yaml:"audio"`
	Controls []controls.Definition `yaml:"controls"`
}

// WindowConfig contains window and swap configuration
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Decorated bool   `yaml:"decorated"`
	VSync     bool   `yaml:"vsync"`
	FrameRate int    `yaml:"framerate"` // 0 means uncapped
}

// RenderConfig names the shader sources of each pass and the offscreen format
type RenderConfig struct {
	ShaderDir   string      `yaml:"shader_dir"` // empty uses the embedded shaders
	HDR         bool        `yaml:"hdr"`
	Vertex      string      `yaml:"vertex"`
	Passes      PassShaders `yaml:"passes"`
	BloomLevels int         `yaml:"bloom_levels"`
}

// PassShaders holds the fragment locator of every pass in the frame
type PassShaders struct {
	Scene      string `yaml:"scene"`
	Brightness string `yaml:"brightness"`
	Downsample string `yaml:"downsample"`
	Upsample   string `yaml:"upsample"`
	Composite  string `yaml:"composite"`
	Tonemap    string `yaml:"tonemap"`
	Present    string `yaml:"present"`
}

// AssetsConfig locates textures. Empty paths select procedural fallbacks.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	Galaxy   string `yaml:"galaxy"`
	ColorMap string `yaml:"color_map"`
	Seed     int64  `yaml:"seed"`
}

// AudioConfig contains audio-related configuration
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Music   string  `yaml:"music"`
	Volume  float64 `yaml:"volume"`
	Loop    bool    `yaml:"loop"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Window: WindowConfig{
			Width:     1920,
			Height:    1080,
			Title:     "Wormhole",
			Decorated: false,
			VSync:     true,
			FrameRate: 0,
		},
		Render: RenderConfig{
			HDR:    true,
			Vertex: render.DefaultVertexShader,
			Passes: PassShaders{
				Scene:      "shader/blackhole_main.frag",
				Brightness: "shader/bloom_brightness_pass.frag",
				Downsample: "shader/bloom_downsample.frag",
				Upsample:   "shader/bloom_upsample.frag",
				Composite:  "shader/bloom_composite.frag",
				Tonemap:    "shader/tonemapping.frag",
				Present:    "shader/passthrough.frag",
			},
			BloomLevels: render.MaxBloomLevels,
		},
		Assets: AssetsConfig{
			Dir:      "assets",
			Galaxy:   "skybox_nebula_dark",
			ColorMap: "color_map.png",
			Seed:     1,
		},
		Audio: AudioConfig{
			Enabled: true,
			Music:   "assets/bgm.wav",
			Volume:  1.0,
			Loop:    true,
		},
		Controls: controls.DefaultDefinitions(),
	}
}

// Validate reports the first setting that cannot drive a frame
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Window.Width>>render.MaxBloomLevels < 1 || c.Window.Height>>render.MaxBloomLevels < 1 {
		return fmt.Errorf("window size %dx%d is too small for %d bloom levels",
			c.Window.Width, c.Window.Height, render.MaxBloomLevels)
	}
	if c.Window.FrameRate < 0 {
		return fmt.Errorf("framerate %d must not be negative", c.Window.FrameRate)
	}
	if c.Render.BloomLevels < 1 || c.Render.BloomLevels > render.MaxBloomLevels {
		return fmt.Errorf("bloom_levels %d outside [1, %d]", c.Render.BloomLevels, render.MaxBloomLevels)
	}

	passes := map[string]string{
		"scene":      c.Render.Passes.Scene,
		"brightness": c.Render.Passes.Brightness,
		"downsample": c.Render.Passes.Downsample,
		"upsample":   c.Render.Passes.Upsample,
		"composite":  c.Render.Passes.Composite,
		"tonemap":    c.Render.Passes.Tonemap,
		"present":    c.Render.Passes.Present,
	}
	for name, locator := range passes {
		if locator == "" {
			return fmt.Errorf("render.passes.%s has no fragment shader", name)
		}
	}

	if c.Audio.Volume < 0 {
		return fmt.Errorf("audio volume %g must not be negative", c.Audio.Volume)
	}
	for _, def := range c.Controls {
		if err := def.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// LoadConfig loads the configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	// Create default config
	config := DefaultConfig()

	// Read file
	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	// Parse YAML
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return config, fmt.Errorf("error parsing config: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	// Convert to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	// Write file
	err = os.WriteFile(filePath, data, 0644)
	if err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
