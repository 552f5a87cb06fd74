package pipeline

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/richinsley/glpipeline/inputs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStage struct {
	Requirements
	produces []Key
	err      error
	log      *[]string
}

func (s *recordingStage) Validate(fs *FrameState) error {
	*s.log = append(*s.log, "validate:"+s.StageName)
	return s.Requirements.Validate(fs)
}

func (s *recordingStage) Run(fs *FrameState) error {
	*s.log = append(*s.log, "run:"+s.StageName)
	for _, k := range s.produces {
		fs.SetScalar(k, 1)
	}
	return s.err
}

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var log []string
	p := New("test", []Stage{
		&recordingStage{Requirements: Requirements{StageName: "setup", Required: []Key{KeyInput}}, produces: []Key{KeyModelviewMatrix}, log: &log},
		&recordingStage{Requirements: Requirements{StageName: "draw", Required: []Key{KeyModelviewMatrix}}, log: &log},
	})

	require.NoError(t, p.RunFrame(inputs.NewState()))
	assert.Equal(t, []string{"validate:setup", "run:setup", "validate:draw", "run:draw"}, log)
	assert.Equal(t, []string{"setup", "draw"}, p.StageNames())
	assert.Equal(t, int64(1), p.Frames())
}

func TestPipeline_PublishesInputAndFrame(t *testing.T) {
	in := inputs.NewState()
	p := New("test", nil)

	require.NoError(t, p.RunFrame(in))
	require.NoError(t, p.RunFrame(in))

	r, err := p.State().Input()
	require.NoError(t, err)
	assert.Same(t, in, r)

	frame, err := p.State().Scalar(KeyFrame)
	require.NoError(t, err)
	assert.Equal(t, 1.0, frame)
}

func TestPipeline_MissingKeyStopsBeforeLaterStages(t *testing.T) {
	var log []string
	unknown := Key(99)
	p := New("broken", []Stage{
		&recordingStage{Requirements: Requirements{StageName: "needs-unknown", Required: []Key{unknown}}, log: &log},
		&recordingStage{Requirements: Requirements{StageName: "draw"}, log: &log},
	})

	err := p.RunFrame(inputs.NewState())
	var pre *PreconditionError
	require.True(t, errors.As(err, &pre))
	assert.Equal(t, "needs-unknown", pre.Stage)
	assert.Equal(t, []Key{unknown}, pre.Missing)
	assert.Equal(t, []string{"validate:needs-unknown"}, log)
	assert.Zero(t, p.Frames())
}

func TestPipeline_RunErrorIsWrapped(t *testing.T) {
	var log []string
	cause := errors.New("draw failed")
	p := New("test", []Stage{
		&recordingStage{Requirements: Requirements{StageName: "draw"}, err: cause, log: &log},
		&recordingStage{Requirements: Requirements{StageName: "after"}, log: &log},
	})

	err := p.RunFrame(inputs.NewState())
	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "draw", se.Stage)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, log, "run:after")
}

func TestPipeline_StagesAreCopied(t *testing.T) {
	var log []string
	stages := []Stage{&recordingStage{Requirements: Requirements{StageName: "a"}, log: &log}}
	p := New("test", stages)
	stages[0] = &recordingStage{Requirements: Requirements{StageName: "b"}, log: &log}

	assert.Equal(t, []string{"a"}, p.StageNames())
}

func TestPipeline_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	var log []string
	p := New("square", []Stage{
		&recordingStage{Requirements: Requirements{StageName: "setup"}, log: &log},
	}, WithMetrics(m))
	require.NoError(t, p.RunFrame(inputs.NewState()))
	require.NoError(t, p.RunFrame(inputs.NewState()))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.frames.WithLabelValues("square")))

	bad := New("bad", []Stage{
		&recordingStage{Requirements: Requirements{StageName: "draw", Required: []Key{KeyModelviewMatrix}}, log: &log},
	}, WithMetrics(m))
	require.Error(t, bad.RunFrame(inputs.NewState()))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageFailures.WithLabelValues("bad", "draw", "precondition")))
}
