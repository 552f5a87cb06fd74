package pipeline

import (
	"errors"
	"time"

	"github.com/richinsley/glpipeline/inputs"
)

// Pipeline is an ordered, immutable list of stages run once per frame.
type Pipeline struct {
	name    string
	stages  []Stage
	state   *FrameState
	frame   int64
	metrics *Metrics
}

type Option func(*Pipeline)

// WithMetrics records frame and stage metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// New creates a pipeline named after its configuration. The stage list is
// copied; later changes to the caller's slice have no effect.
func New(name string, stages []Stage, opts ...Option) *Pipeline {
	p := &Pipeline{
		name:   name,
		stages: append([]Stage(nil), stages...),
		state:  NewFrameState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Name() string { return p.name }

// StageNames returns the stage names in execution order.
func (p *Pipeline) StageNames() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// State returns the frame state shared by the stages. It persists between
// frames; stages overwrite their keys every frame.
func (p *Pipeline) State() *FrameState { return p.state }

// Frames returns the number of frames that completed without error.
func (p *Pipeline) Frames() int64 { return p.frame }

// RunFrame publishes in and the frame index, then validates and runs each
// stage in order. The first failure aborts the frame and is returned.
func (p *Pipeline) RunFrame(in inputs.Reader) error {
	p.state.SetInput(in)
	p.state.SetScalar(KeyFrame, float64(p.frame))

	for _, s := range p.stages {
		if err := p.runStage(s); err != nil {
			return err
		}
	}
	p.frame++
	if p.metrics != nil {
		p.metrics.frames.WithLabelValues(p.name).Inc()
	}
	return nil
}

func (p *Pipeline) runStage(s Stage) error {
	if err := s.Validate(p.state); err != nil {
		p.recordFailure(s, err)
		return err
	}

	start := time.Now()
	err := s.Run(p.state)
	if p.metrics != nil {
		p.metrics.stageDuration.WithLabelValues(p.name, s.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		p.recordFailure(s, err)
		var pre *PreconditionError
		if errors.As(err, &pre) {
			return err
		}
		return &StageError{Stage: s.Name(), Err: err}
	}
	return nil
}

func (p *Pipeline) recordFailure(s Stage, err error) {
	if p.metrics == nil {
		return
	}
	kind := "run"
	var pre *PreconditionError
	if errors.As(err, &pre) {
		kind = "precondition"
	}
	p.metrics.stageFailures.WithLabelValues(p.name, s.Name(), kind).Inc()
}
