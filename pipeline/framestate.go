package pipeline

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/inputs"
)

// Key names an entry in the frame state.
type Key int

const (
	KeyInput Key = iota
	KeyFrame
	KeyProjectionMatrix
	KeyModelviewMatrix
)

var keyNames = map[Key]string{
	KeyInput:            "input",
	KeyFrame:            "frame",
	KeyProjectionMatrix: "projectionMatrix",
	KeyModelviewMatrix:  "modelviewMatrix",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// Kind tags the variant stored in a Value.
type Kind int

const (
	KindMatrix Kind = iota + 1
	KindInput
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMatrix:
		return "matrix"
	case KindInput:
		return "input"
	case KindScalar:
		return "scalar"
	default:
		return "invalid"
	}
}

// Value is a tagged frame-state entry.
type Value struct {
	kind   Kind
	matrix mgl32.Mat4
	input  inputs.Reader
	scalar float64
}

func MatrixValue(m mgl32.Mat4) Value   { return Value{kind: KindMatrix, matrix: m} }
func InputValue(r inputs.Reader) Value { return Value{kind: KindInput, input: r} }
func ScalarValue(v float64) Value      { return Value{kind: KindScalar, scalar: v} }

func (v Value) Kind() Kind { return v.kind }

// FrameState is the bag of values passed through every stage of a frame.
// It is created once per pipeline and overwritten in place each frame.
type FrameState struct {
	values map[Key]Value
}

func NewFrameState() *FrameState {
	return &FrameState{values: make(map[Key]Value)}
}

func (fs *FrameState) Set(key Key, v Value) {
	fs.values[key] = v
}

func (fs *FrameState) Get(key Key) (Value, bool) {
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FrameState) Has(key Key) bool {
	_, ok := fs.values[key]
	return ok
}

// Len returns the number of keys present.
func (fs *FrameState) Len() int {
	return len(fs.values)
}

func (fs *FrameState) SetMatrix(key Key, m mgl32.Mat4) { fs.Set(key, MatrixValue(m)) }
func (fs *FrameState) SetScalar(key Key, v float64)    { fs.Set(key, ScalarValue(v)) }
func (fs *FrameState) SetInput(r inputs.Reader)        { fs.Set(KeyInput, InputValue(r)) }

// Matrix returns the matrix stored under key.
func (fs *FrameState) Matrix(key Key) (mgl32.Mat4, error) {
	v, err := fs.lookup(key, KindMatrix)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	return v.matrix, nil
}

// Scalar returns the scalar stored under key.
func (fs *FrameState) Scalar(key Key) (float64, error) {
	v, err := fs.lookup(key, KindScalar)
	if err != nil {
		return 0, err
	}
	return v.scalar, nil
}

// Input returns the input state published for this frame.
func (fs *FrameState) Input() (inputs.Reader, error) {
	v, err := fs.lookup(KeyInput, KindInput)
	if err != nil {
		return nil, err
	}
	return v.input, nil
}

func (fs *FrameState) lookup(key Key, kind Kind) (Value, error) {
	v, ok := fs.values[key]
	if !ok {
		return Value{}, fmt.Errorf("frame state has no %s", key)
	}
	if v.kind != kind {
		return Value{}, fmt.Errorf("frame state %s holds a %s, not a %s", key, v.kind, kind)
	}
	return v, nil
}
