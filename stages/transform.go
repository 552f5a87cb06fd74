package stages

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/inputs"
	"github.com/richinsley/glpipeline/pipeline"
)

const (
	FieldOfView = 45.0
	NearPlane   = 0.1
	FarPlane    = 70.0

	// Degrees per frame per rotation axis.
	RotationalVelocity = 0.9
	// Units per frame per translation axis.
	PositionalVelocity = 0.05
)

// Surface is the stage-side view of the window that owns the context.
type Surface interface {
	GetFramebufferSize() (int, int)
	RequestClose()
}

// axisKeys pairs the key that drives an axis forward with the one that
// drives it back.
type axisKeys struct {
	positive, negative inputs.Key
}

var (
	rotationKeys = [3]axisKeys{
		{inputs.KeyJ, inputs.KeyL},
		{inputs.KeyI, inputs.KeyK},
		{inputs.KeyO, inputs.KeyU},
	}
	positionKeys = [3]axisKeys{
		{inputs.KeyD, inputs.KeyA},
		{inputs.KeyW, inputs.KeyS},
		{inputs.KeyE, inputs.KeyQ},
	}
)

// TransformStage computes the projection and model-view matrices from the
// window size and held keys and publishes them into the frame state.
type TransformStage struct {
	pipeline.Requirements
	surface Surface

	position           mgl32.Vec3
	positionalVelocity mgl32.Vec3
	rotation           mgl32.Vec3 // degrees
	rotationalVelocity mgl32.Vec3
}

func NewTransformStage(surface Surface) *TransformStage {
	return &TransformStage{
		Requirements: pipeline.Requirements{
			StageName: "SimpleMatricesSetup",
			Required:  []pipeline.Key{pipeline.KeyInput},
		},
		surface:            surface,
		position:           mgl32.Vec3{0, 0, -5},
		positionalVelocity: mgl32.Vec3{PositionalVelocity, PositionalVelocity, PositionalVelocity},
		rotationalVelocity: mgl32.Vec3{RotationalVelocity, RotationalVelocity, RotationalVelocity},
	}
}

// Position returns the accumulated translation.
func (s *TransformStage) Position() mgl32.Vec3 { return s.position }

// Rotation returns the accumulated per-axis rotation in degrees.
func (s *TransformStage) Rotation() mgl32.Vec3 { return s.rotation }

func (s *TransformStage) Run(fs *pipeline.FrameState) error {
	in, err := fs.Input()
	if err != nil {
		return err
	}

	width, height := s.surface.GetFramebufferSize()
	fs.SetMatrix(pipeline.KeyProjectionMatrix, Projection(width, height))

	if in.PressCount(inputs.KeyEscape) != 0 {
		s.surface.RequestClose()
	}

	for i, k := range rotationKeys {
		s.rotation[i] += s.rotationalVelocity[i] * inputs.Axis(in, k.positive, k.negative)
	}
	for i, k := range positionKeys {
		s.position[i] += s.positionalVelocity[i] * inputs.Axis(in, k.positive, k.negative)
	}

	fs.SetMatrix(pipeline.KeyModelviewMatrix, Modelview(s.rotation, s.position))
	return nil
}

// Projection builds the perspective matrix for a framebuffer. A zero height
// is treated as 1 so a minimised window never divides by zero.
func Projection(width, height int) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(FieldOfView), aspect, NearPlane, FarPlane)
}

// Modelview rotates about X, then Y, then Z (degrees) and then translates.
func Modelview(rotation, position mgl32.Vec3) mgl32.Mat4 {
	rx := mgl32.HomogRotate3DX(mgl32.DegToRad(rotation[0]))
	ry := mgl32.HomogRotate3DY(mgl32.DegToRad(rotation[1]))
	rz := mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation[2]))
	t := mgl32.Translate3D(position[0], position[1], position[2])
	return t.Mul4(rz).Mul4(ry).Mul4(rx)
}
