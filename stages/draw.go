package stages

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/pipeline"
)

// MVPUniform is the uniform every drawing stage uploads its combined
// model-view-projection matrix to.
const MVPUniform = "mvpMatrix"

// ClearColor is the background every drawing stage clears to.
var ClearColor = [4]float32{.1, .36, .36, 1}

// DrawConfig is the data half of a drawing stage: everything needed to
// build it, without touching the graphics API.
type DrawConfig struct {
	Name string
	// Program names the shader program in the configuration file.
	Program   string
	Positions []float32
	Mode      graphics.Primitive
}

// SquareConfig draws a unit square as a triangle strip.
func SquareConfig() DrawConfig {
	return DrawConfig{
		Name:    "SimpleRendering",
		Program: "simple",
		Positions: []float32{
			1, 1, 0,
			1, -1, 0,
			-1, 1, 0,
			-1, -1, 0,
		},
		Mode: graphics.TriangleStrip,
	}
}

// CylinderConfig draws a single line segment that the cylinder geometry
// shader expands into a tube.
func CylinderConfig() DrawConfig {
	return DrawConfig{
		Name:    "VectorCylinder",
		Program: "cylinder",
		Positions: []float32{
			1, 0, 0,
			-1, 0, 0,
		},
		Mode: graphics.LineStrip,
	}
}

// DrawStage clears the framebuffer and draws a fixed vertex set with the
// frame's model-view-projection matrix.
type DrawStage struct {
	pipeline.Requirements
	device  graphics.Device
	program *graphics.Program
	mesh    *graphics.Mesh
	mode    graphics.Primitive
	mvpLoc  int32
}

// NewDrawStage builds the GPU program and vertex buffer described by cfg.
// The returned stage owns both; release them with Destroy.
func NewDrawStage(device graphics.Device, cfg DrawConfig, src graphics.ProgramSource) (*DrawStage, error) {
	if len(cfg.Positions) == 0 || len(cfg.Positions)%3 != 0 {
		return nil, &graphics.ConstructionError{
			Op:  "configure " + cfg.Name,
			Err: fmt.Errorf("positions must be a non-empty list of xyz triples, got %d floats", len(cfg.Positions)),
		}
	}

	program, err := device.NewProgram(src)
	if err != nil {
		return nil, err
	}

	mesh, err := device.NewMesh(program, cfg.Positions, 3)
	if err != nil {
		device.DeleteProgram(program)
		return nil, err
	}

	return &DrawStage{
		Requirements: pipeline.Requirements{
			StageName: cfg.Name,
			Required:  []pipeline.Key{pipeline.KeyModelviewMatrix, pipeline.KeyProjectionMatrix},
		},
		device:  device,
		program: program,
		mesh:    mesh,
		mode:    cfg.Mode,
		mvpLoc:  program.Uniform(MVPUniform),
	}, nil
}

func (s *DrawStage) Run(fs *pipeline.FrameState) error {
	mvp, err := MVP(fs)
	if err != nil {
		return err
	}

	s.device.ClearColor(ClearColor[0], ClearColor[1], ClearColor[2], ClearColor[3])
	s.device.Clear()
	s.device.Bind(s.mesh)
	s.device.UniformMatrix4(s.mvpLoc, mvp)
	s.device.DrawArrays(s.mode, 0, s.mesh.Vertices)
	err = s.device.CheckError()
	s.device.Unbind()
	return err
}

// Destroy releases the stage's GPU resources.
func (s *DrawStage) Destroy() {
	s.device.DeleteMesh(s.mesh)
	s.device.DeleteProgram(s.program)
}

// MVP combines the frame's model-view and projection matrices.
func MVP(fs *pipeline.FrameState) (mgl32.Mat4, error) {
	modelview, err := fs.Matrix(pipeline.KeyModelviewMatrix)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	projection, err := fs.Matrix(pipeline.KeyProjectionMatrix)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	return projection.Mul4(modelview), nil
}
