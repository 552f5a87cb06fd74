package modes

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/configuration"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/graphics/graphicstest"
	"github.com/richinsley/glpipeline/inputs"
	"github.com/richinsley/glpipeline/pipeline"
	"github.com/richinsley/glpipeline/shader"
	"github.com/richinsley/glpipeline/shaders"
	"github.com/richinsley/glpipeline/stages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityTranslator leaves sources untouched so tests do not need the
// ANGLE runtime.
type identityTranslator struct{}

func (identityTranslator) Translate(source string, kind graphics.ShaderKind) (*shader.Translated, error) {
	return &shader.Translated{Code: source}, nil
}

func testEnv(t *testing.T) (Env, *graphicstest.Device, *graphicstest.Context) {
	t.Helper()
	cfg, err := configuration.Default()
	require.NoError(t, err)

	dev := &graphicstest.Device{}
	surface := graphicstest.NewContext(800, 600)
	return Env{
		Device:     dev,
		Surface:    surface,
		Config:     cfg,
		Shaders:    shaders.FS,
		Translator: identityTranslator{},
	}, dev, surface
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"cylinder", "square"}, Names())
}

func TestBuild_Square(t *testing.T) {
	env, dev, surface := testEnv(t)

	m, err := Build("square", env)
	require.NoError(t, err)
	assert.Equal(t, []string{"SimpleMatricesSetup", "SimpleRendering"}, m.Pipeline.StageNames())

	require.Len(t, dev.Programs, 1)
	src := dev.Programs[0]
	assert.Equal(t, "simple", src.Name)
	assert.Contains(t, src.Stages[graphics.VertexShader], "uniform mat4 mvpMatrix")
	assert.NotContains(t, src.Stages, graphics.GeometryShader)

	dev.Calls = nil
	require.NoError(t, m.Pipeline.RunFrame(surface.Input()))

	state := m.Pipeline.State()
	assert.True(t, state.Has(pipeline.KeyProjectionMatrix))
	assert.True(t, state.Has(pipeline.KeyModelviewMatrix))

	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, graphics.TriangleStrip, draws[0].Mode)
	assert.Equal(t, int32(4), draws[0].Count)

	mvp, err := stages.MVP(state)
	require.NoError(t, err)
	assert.Equal(t, []mgl32.Mat4{mvp}, dev.Uniforms())
	assert.False(t, surface.CloseRequested)
}

func TestBuild_Cylinder(t *testing.T) {
	env, dev, surface := testEnv(t)

	m, err := Build("cylinder", env)
	require.NoError(t, err)
	assert.Equal(t, []string{"SimpleMatricesSetup", "VectorCylinder"}, m.Pipeline.StageNames())

	require.Len(t, dev.Programs, 1)
	assert.Contains(t, dev.Programs[0].Stages[graphics.GeometryShader], "layout(lines) in;")

	require.NoError(t, m.Pipeline.RunFrame(surface.Input()))
	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, graphics.LineStrip, draws[0].Mode)
	assert.Equal(t, int32(2), draws[0].Count)
}

func TestBuild_Recording(t *testing.T) {
	env, _, surface := testEnv(t)
	sink := &sliceWriter{}
	env.Recording = &Recording{Writer: sink, Width: 8, Height: 4, Frames: 2}

	m, err := Build("square", env)
	require.NoError(t, err)
	assert.Equal(t, []string{"SimpleMatricesSetup", "SimpleRendering", "Capture"}, m.Pipeline.StageNames())

	require.NoError(t, m.Pipeline.RunFrame(surface.Input()))
	require.NoError(t, m.Pipeline.RunFrame(surface.Input()))
	assert.Len(t, sink.frames, 2)
	assert.True(t, surface.CloseRequested)
}

type sliceWriter struct {
	frames [][]byte
}

func (w *sliceWriter) WriteFrame(pixels []byte) error {
	w.frames = append(w.frames, pixels)
	return nil
}

func TestBuild_UnknownMode(t *testing.T) {
	env, dev, _ := testEnv(t)

	_, err := Build("sphere", env)
	var ce *graphics.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.ErrorContains(t, err, `unknown mode "sphere"`)
	assert.Empty(t, dev.Calls)
}

func TestBuild_ShaderFailureIsConstructionError(t *testing.T) {
	env, _, _ := testEnv(t)
	env.Translator = nil

	_, err := Build("square", env)
	var ce *graphics.ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.ErrorContains(t, err, "need a translator")
}

func TestBuild_Destroy(t *testing.T) {
	env, dev, _ := testEnv(t)
	m, err := Build("cylinder", env)
	require.NoError(t, err)

	dev.Calls = nil
	m.Destroy()
	assert.Equal(t, []string{"DeleteMesh", "DeleteProgram"}, dev.Ops())
}

type orphanStage struct {
	pipeline.Requirements
	ran bool
}

func (s *orphanStage) Run(fs *pipeline.FrameState) error {
	s.ran = true
	return nil
}

func TestPipeline_UnproducedKeyFailsBeforeDraw(t *testing.T) {
	env, dev, surface := testEnv(t)
	cfg := stages.SquareConfig()
	spec, err := env.Config.Program(cfg.Program)
	require.NoError(t, err)
	src, err := shader.Load(env.Shaders, cfg.Program, spec, env.Translator)
	require.NoError(t, err)
	draw, err := stages.NewDrawStage(dev, cfg, src)
	require.NoError(t, err)

	orphan := &orphanStage{Requirements: pipeline.Requirements{
		StageName: "NeedsNormals",
		Required:  []pipeline.Key{pipeline.Key(100)},
	}}
	p := pipeline.New("broken", []pipeline.Stage{
		stages.NewTransformStage(surface),
		orphan,
		draw,
	})

	err = p.RunFrame(inputs.NewState())
	var pre *pipeline.PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "NeedsNormals", pre.Stage)
	assert.False(t, orphan.ran)
	assert.Empty(t, dev.Draws())
}
