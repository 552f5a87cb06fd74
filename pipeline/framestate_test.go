package pipeline

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/inputs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameState_TypedAccess(t *testing.T) {
	fs := NewFrameState()
	assert.Zero(t, fs.Len())

	m := mgl32.Translate3D(1, 2, 3)
	fs.SetMatrix(KeyModelviewMatrix, m)
	got, err := fs.Matrix(KeyModelviewMatrix)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	fs.SetScalar(KeyFrame, 7)
	frame, err := fs.Scalar(KeyFrame)
	require.NoError(t, err)
	assert.Equal(t, 7.0, frame)

	in := inputs.NewState()
	fs.SetInput(in)
	r, err := fs.Input()
	require.NoError(t, err)
	assert.Same(t, in, r)

	assert.Equal(t, 3, fs.Len())
}

func TestFrameState_Errors(t *testing.T) {
	fs := NewFrameState()

	_, err := fs.Matrix(KeyProjectionMatrix)
	assert.ErrorContains(t, err, "no projectionMatrix")

	fs.SetScalar(KeyProjectionMatrix, 1)
	_, err = fs.Matrix(KeyProjectionMatrix)
	assert.ErrorContains(t, err, "holds a scalar, not a matrix")
}

func TestFrameState_Overwrite(t *testing.T) {
	fs := NewFrameState()
	fs.SetMatrix(KeyProjectionMatrix, mgl32.Ident4())
	fs.SetMatrix(KeyProjectionMatrix, mgl32.Scale3D(2, 2, 2))

	got, err := fs.Matrix(KeyProjectionMatrix)
	require.NoError(t, err)
	assert.Equal(t, mgl32.Scale3D(2, 2, 2), got)
	assert.Equal(t, 1, fs.Len())
}

func TestKey_String(t *testing.T) {
	assert.Equal(t, "modelviewMatrix", KeyModelviewMatrix.String())
	assert.Equal(t, "key(42)", Key(42).String())
}
