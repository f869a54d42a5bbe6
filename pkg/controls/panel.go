package controls

import (
	"fmt"

	"wormhole/internal/util"
)

// Names the pipeline reads directly
const (
	BloomIterations    = "bloomIterations"
	BloomStrength      = "bloomStrength"
	TonemappingEnabled = "tonemappingEnabled"
	Gamma              = "gamma"
)

// DefaultDefinitions returns the stock control set in display order
func DefaultDefinitions() []Definition {
	toggle := func(name string, on bool) Definition {
		d := Definition{Name: name, Pass: PassScene, Kind: Toggle}
		if on {
			d.Default = 1
		}
		return d
	}
	slider := func(name string, def, min, max float32) Definition {
		return Definition{Name: name, Pass: PassScene, Kind: Slider, Default: def, Min: min, Max: max}
	}

	defs := []Definition{
		toggle("renderBlackHole", true),
		toggle("mouseControl", true),
		slider("cameraRoll", 0, -180, 180),
		toggle("frontView", false),
		toggle("topView", false),
		toggle("adiskEnabled", true),
		toggle("adiskParticle", true),
		slider("adiskDensityV", 2, 0, 10),
		slider("adiskDensityH", 4, 0, 10),
		slider("adiskHeight", 0.55, 0, 1),
		slider("adiskLit", 0.25, 0, 4),
		slider("adiskNoiseLOD", 5, 1, 12),
		slider("adiskNoiseScale", 0.8, 0, 10),
		slider("adiskSpeed", 0.5, 0, 1),
	}

	return append(defs,
		Definition{Name: BloomIterations, Pass: PassBloom, Kind: IntSlider, Default: 8, Min: 1, Max: 8},
		Definition{Name: BloomStrength, Pass: PassComposite, Kind: Slider, Default: 0.1, Min: 0, Max: 1},
		Definition{Name: TonemappingEnabled, Pass: PassTonemap, Kind: Toggle, Default: 1},
		Definition{Name: Gamma, Pass: PassTonemap, Kind: Slider, Default: 2.5, Min: 1, Max: 4},
	)
}

// Panel is an ordered set of controls with a selection cursor
type Panel struct {
	controls []*Control
	byName   map[string]*Control
	selected int
}

// NewPanel validates defs and builds live controls from them
func NewPanel(defs []Definition) (*Panel, error) {
	p := &Panel{
		byName: make(map[string]*Control, len(defs)),
	}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := p.byName[def.Name]; dup {
			return nil, fmt.Errorf("duplicate control %s", def.Name)
		}
		c := newControl(def)
		p.controls = append(p.controls, c)
		p.byName[def.Name] = c
	}
	return p, nil
}

// Len returns the number of controls
func (p *Panel) Len() int {
	return len(p.controls)
}

// Control returns the named control
func (p *Panel) Control(name string) (*Control, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// Value returns the named control's value, or fallback when it is absent
func (p *Panel) Value(name string, fallback float32) float32 {
	if c, ok := p.byName[name]; ok {
		return c.Value()
	}
	return fallback
}

// Selected returns the control under the cursor, or nil for an empty panel
func (p *Panel) Selected() *Control {
	if len(p.controls) == 0 {
		return nil
	}
	return p.controls[p.selected]
}

// Select moves the cursor by delta, wrapping at both ends
func (p *Panel) Select(delta int) {
	p.selected = util.Wrap(p.selected+delta, len(p.controls))
}

// AdjustSelected moves the selected control by steps
func (p *Panel) AdjustSelected(steps int) {
	if c := p.Selected(); c != nil {
		c.Adjust(steps)
	}
}

// Values maps every control of pass to its current value
func (p *Panel) Values(pass string) map[string]float32 {
	values := make(map[string]float32)
	for _, c := range p.controls {
		if c.Pass == pass {
			values[c.Name] = c.Value()
		}
	}
	return values
}

// Reset restores every control's default
func (p *Panel) Reset() {
	for _, c := range p.controls {
		c.Reset()
	}
}
