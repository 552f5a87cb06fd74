package pipeline

// Stage is one unit of pipeline work. Setup stages publish frame-state
// entries; drawing stages consume them and issue rendering commands.
type Stage interface {
	Name() string
	RequiredKeys() []Key
	// Validate returns a *PreconditionError when a required key is absent.
	Validate(fs *FrameState) error
	Run(fs *FrameState) error
}

// Requirements implements the Name, RequiredKeys and Validate parts of
// Stage. Concrete stages embed it.
type Requirements struct {
	StageName string
	Required  []Key
}

func (r Requirements) Name() string { return r.StageName }

func (r Requirements) RequiredKeys() []Key { return r.Required }

func (r Requirements) Validate(fs *FrameState) error {
	return Validate(r.StageName, r.Required, fs)
}

// Validate checks that every key in required is present in fs. The values
// themselves are not inspected.
func Validate(stage string, required []Key, fs *FrameState) error {
	var missing []Key
	for _, key := range required {
		if !fs.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &PreconditionError{Stage: stage, Missing: missing}
	}
	return nil
}
