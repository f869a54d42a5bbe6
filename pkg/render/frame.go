package render

// PassRecord describes a pass a Frame has issued
type PassRecord struct {
	Fragment string
	Target   Texture
	Width    int
	Height   int
	Inputs   map[string]Texture
}

// Frame enforces producer-before-consumer ordering across the passes of one
// frame. Every sampled texture must either be imported (assets that are
// never rendered into) or have been the target of an earlier pass.
type Frame struct {
	executor *Executor
	imported map[Texture]struct{}
	written  map[Texture]struct{}
	passes   []PassRecord
}

// BeginFrame starts a frame; imports are textures readable without a producer pass
func (e *Executor) BeginFrame(imports ...Texture) *Frame {
	f := &Frame{
		executor: e,
		imported: make(map[Texture]struct{}, len(imports)),
		written:  make(map[Texture]struct{}),
	}
	for _, tex := range imports {
		f.imported[tex] = struct{}{}
	}
	return f
}

// Run checks spec's inputs against the frame's history and executes it
func (f *Frame) Run(spec PassSpec) error {
	inputs := spec.Inputs()
	for _, name := range sortedNames(inputs) {
		if !f.readable(inputs[name]) {
			return &UnwrittenInputError{Uniform: name, Texture: inputs[name]}
		}
	}

	if err := f.executor.Execute(spec); err != nil {
		return err
	}

	f.written[spec.Target] = struct{}{}
	f.passes = append(f.passes, PassRecord{
		Fragment: spec.Fragment,
		Target:   spec.Target,
		Width:    spec.Width,
		Height:   spec.Height,
		Inputs:   inputs,
	})
	return nil
}

// Present draws input to the window; input must already be written this frame
func (f *Frame) Present(fragment string, input Texture, width, height int) error {
	if !f.readable(input) {
		return &UnwrittenInputError{Uniform: "texture0", Texture: input}
	}
	if err := f.executor.Present(fragment, input, width, height); err != nil {
		return err
	}

	f.passes = append(f.passes, PassRecord{
		Fragment: fragment,
		Width:    width,
		Height:   height,
		Inputs:   map[string]Texture{"texture0": input},
	})
	return nil
}

// Written reports whether tex was a pass target earlier in this frame
func (f *Frame) Written(tex Texture) bool {
	_, ok := f.written[tex]
	return ok
}

// Passes returns the passes issued so far, in order
func (f *Frame) Passes() []PassRecord {
	return f.passes
}

func (f *Frame) readable(tex Texture) bool {
	if _, ok := f.imported[tex]; ok {
		return true
	}
	_, ok := f.written[tex]
	return ok
}
