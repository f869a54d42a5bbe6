// Package controls holds the operator-adjustable parameters fed to pass uniforms.
package controls

import (
	"fmt"
	"math"
	"strconv"

	"wormhole/internal/util"
)

// Pass names a control's consumer
const (
	PassScene     = "scene"
	PassBloom     = "bloom"
	PassComposite = "composite"
	PassTonemap   = "tonemap"
)

// Kind selects how a control is edited and displayed
type Kind int

const (
	Toggle Kind = iota
	Slider
	IntSlider
)

func (k Kind) String() string {
	switch k {
	case Toggle:
		return "toggle"
	case Slider:
		return "slider"
	case IntSlider:
		return "int"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	switch s {
	case "toggle":
		return Toggle, nil
	case "slider":
		return Slider, nil
	case "int":
		return IntSlider, nil
	}
	return 0, fmt.Errorf("unknown control kind %q", s)
}

func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Definition describes a control as it appears in configuration
type Definition struct {
	Name    string  `yaml:"name"`
	Pass    string  `yaml:"pass"`
	Kind    Kind    `yaml:"kind"`
	Default float32 `yaml:"default"`
	Min     float32 `yaml:"min"`
	Max     float32 `yaml:"max"`
	Step    float32 `yaml:"step,omitempty"`
}

// Validate checks the range and the default
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("control has no name")
	}
	if d.Pass == "" {
		return fmt.Errorf("control %s has no pass", d.Name)
	}
	if d.Kind == Toggle {
		return nil
	}
	if d.Min > d.Max {
		return fmt.Errorf("control %s: min %g exceeds max %g", d.Name, d.Min, d.Max)
	}
	if d.Default < d.Min || d.Default > d.Max {
		return fmt.Errorf("control %s: default %g outside [%g, %g]", d.Name, d.Default, d.Min, d.Max)
	}
	if d.Step < 0 {
		return fmt.Errorf("control %s: negative step", d.Name)
	}
	return nil
}

// Control is a live value bounded by its definition
type Control struct {
	Definition
	value float32
}

func newControl(def Definition) *Control {
	switch def.Kind {
	case Toggle:
		def.Min, def.Max, def.Step = 0, 1, 1
		if def.Default != 0 {
			def.Default = 1
		}
	case IntSlider:
		if def.Step == 0 {
			def.Step = 1
		}
	case Slider:
		if def.Step == 0 {
			def.Step = (def.Max - def.Min) / 100
		}
	}
	c := &Control{Definition: def}
	c.Set(def.Default)
	return c
}

// Value returns the current value
func (c *Control) Value() float32 {
	return c.value
}

// Enabled reports whether a toggle is on
func (c *Control) Enabled() bool {
	return c.value != 0
}

// Set stores v clamped to the control's range. Int sliders round to the nearest integer.
func (c *Control) Set(v float32) {
	switch c.Kind {
	case Toggle:
		if v != 0 {
			v = 1
		}
	case IntSlider:
		v = float32(math.Round(float64(v)))
	}
	c.value = util.Clamp(v, c.Min, c.Max)
}

// Adjust moves the value by steps increments. Toggles flip on any odd count.
func (c *Control) Adjust(steps int) {
	if c.Kind == Toggle {
		if steps%2 != 0 {
			c.Set(1 - c.value)
		}
		return
	}
	c.Set(c.value + float32(steps)*c.Step)
}

// Reset restores the default value
func (c *Control) Reset() {
	c.Set(c.Default)
}

func (c *Control) String() string {
	switch c.Kind {
	case Toggle:
		if c.Enabled() {
			return c.Name + ": on"
		}
		return c.Name + ": off"
	case IntSlider:
		return fmt.Sprintf("%s: %d", c.Name, int(c.value))
	default:
		return fmt.Sprintf("%s: %.2f", c.Name, c.value)
	}
}
