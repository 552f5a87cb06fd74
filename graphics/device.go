package graphics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ShaderKind is a programmable pipeline stage a shader source is compiled for.
type ShaderKind int

const (
	VertexShader ShaderKind = iota
	GeometryShader
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case GeometryShader:
		return "geometry"
	case FragmentShader:
		return "fragment"
	default:
		return fmt.Sprintf("shader(%d)", int(k))
	}
}

// ParseShaderKind converts a configuration name into a ShaderKind.
func ParseShaderKind(s string) (ShaderKind, error) {
	switch s {
	case "vertex", "vert":
		return VertexShader, nil
	case "geometry", "geom":
		return GeometryShader, nil
	case "fragment", "frag":
		return FragmentShader, nil
	}
	return 0, fmt.Errorf("unknown shader kind %q", s)
}

// ShaderKinds lists every kind in link order.
var ShaderKinds = []ShaderKind{VertexShader, GeometryShader, FragmentShader}

// Primitive is the topology used to assemble vertices in a draw call.
type Primitive int

const (
	Points Primitive = iota
	Lines
	LineStrip
	Triangles
	TriangleStrip
)

func (p Primitive) String() string {
	switch p {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line_strip"
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle_strip"
	default:
		return fmt.Sprintf("primitive(%d)", int(p))
	}
}

// ProgramSource is everything needed to build a GPU program.
type ProgramSource struct {
	Name string
	// Stages holds the GLSL source text per shader kind. Vertex and
	// fragment are mandatory.
	Stages map[ShaderKind]string
	// Uniforms maps the logical uniform name used by stages to the name
	// emitted in the compiled source. Identity unless the source was
	// translated.
	Uniforms map[string]string
}

// Program is a linked GPU program with its resolved uniform locations.
// A location of -1 means the uniform was optimised out or never declared.
type Program struct {
	Name     string
	ID       uint32
	Uniforms map[string]int32
}

// Uniform returns the location of a logical uniform name, or -1.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.Uniforms[name]; ok {
		return loc
	}
	return -1
}

// Mesh is a vertex array with a single vertex buffer bound to a program.
type Mesh struct {
	Program  *Program
	VAO      uint32
	VBO      uint32
	Vertices int32
}

// Device is the slice of the graphics API used by pipeline stages. The
// OpenGL implementation lives in package gldevice.
type Device interface {
	// NewProgram compiles and links src and resolves its uniforms.
	NewProgram(src ProgramSource) (*Program, error)
	// NewMesh creates a vertex array and one vertex buffer for p, uploads
	// positions once and configures attribute 0 with components floats
	// per vertex, tightly packed.
	NewMesh(p *Program, positions []float32, components int) (*Mesh, error)
	DeleteMesh(m *Mesh)
	DeleteProgram(p *Program)

	ClearColor(r, g, b, a float32)
	// Clear clears the color and depth buffers.
	Clear()
	Bind(m *Mesh)
	Unbind()
	UniformMatrix4(location int32, m mgl32.Mat4)
	DrawArrays(mode Primitive, first, count int32)
	Viewport(x, y, width, height int)
	// ReadPixels reads the current read buffer as tightly packed RGBA.
	ReadPixels(width, height int) ([]byte, error)

	// CheckError returns an *APIError when the API has pending errors.
	CheckError() error
}
