package gldevice

import (
	"fmt"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/graphics"
)

var glInitOnce sync.Once

// Device issues graphics.Device calls against the current OpenGL context.
// It must only be used from the thread that owns the context.
type Device struct{}

// New loads the OpenGL function pointers for the current context and
// enables depth testing. A context must be current on the calling thread.
func New() (*Device, error) {
	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, &graphics.ConstructionError{Op: "initialize OpenGL", Err: initErr}
	}

	log.Printf("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))
	log.Printf("GLSL version: %s", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))
	log.Printf("OpenGL vendor: %s", gl.GoStr(gl.GetString(gl.VENDOR)))
	log.Printf("Renderer: %s", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	d := &Device{}
	if err := d.CheckError(); err != nil {
		return nil, &graphics.ConstructionError{Op: "initialize OpenGL", Err: err}
	}
	return d, nil
}

func (d *Device) NewProgram(src graphics.ProgramSource) (*graphics.Program, error) {
	id, err := newProgram(src)
	if err != nil {
		return nil, &graphics.ConstructionError{Op: "build program " + src.Name, Err: err}
	}

	p := &graphics.Program{Name: src.Name, ID: id, Uniforms: make(map[string]int32)}
	gl.UseProgram(id)
	for logical, compiled := range src.Uniforms {
		p.Uniforms[logical] = gl.GetUniformLocation(id, gl.Str(compiled+"\x00"))
		if p.Uniforms[logical] < 0 {
			log.Printf("Program %s: uniform %s is not active", src.Name, logical)
		}
	}
	gl.UseProgram(0)

	if err := d.CheckError(); err != nil {
		gl.DeleteProgram(id)
		return nil, &graphics.ConstructionError{Op: "build program " + src.Name, Err: err}
	}
	return p, nil
}

func (d *Device) NewMesh(p *graphics.Program, positions []float32, components int) (*graphics.Mesh, error) {
	m := &graphics.Mesh{Program: p, Vertices: int32(len(positions) / components)}

	gl.UseProgram(p.ID)
	gl.GenVertexArrays(1, &m.VAO)
	gl.GenBuffers(1, &m.VBO)
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, int32(components), gl.FLOAT, false, int32(components*4), gl.PtrOffset(0))
	d.Unbind()

	if err := d.CheckError(); err != nil {
		d.DeleteMesh(m)
		return nil, &graphics.ConstructionError{Op: "create mesh for " + p.Name, Err: err}
	}
	return m, nil
}

func (d *Device) DeleteMesh(m *graphics.Mesh) {
	if m == nil {
		return
	}
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
}

func (d *Device) DeleteProgram(p *graphics.Program) {
	if p == nil {
		return
	}
	gl.DeleteProgram(p.ID)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Bind(m *graphics.Mesh) {
	gl.UseProgram(m.Program.ID)
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
}

func (d *Device) Unbind() {
	gl.UseProgram(0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	if location < 0 {
		return
	}
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	gl.DrawArrays(primitive(mode), first, count)
}

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) ReadPixels(width, height int) ([]byte, error) {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	if err := d.CheckError(); err != nil {
		return nil, err
	}
	return pixels, nil
}

// CheckError drains glGetError, reporting at most
// graphics.MaxReportedErrors distinct codes.
func (d *Device) CheckError() error {
	err := graphics.CollectErrors(gl.GetError)
	if err != nil {
		log.Printf("OpenGL exception: %v", err)
	}
	return err
}

func primitive(p graphics.Primitive) uint32 {
	switch p {
	case graphics.Points:
		return gl.POINTS
	case graphics.Lines:
		return gl.LINES
	case graphics.LineStrip:
		return gl.LINE_STRIP
	case graphics.Triangles:
		return gl.TRIANGLES
	case graphics.TriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		panic(fmt.Sprintf("gldevice: unsupported primitive %v", p))
	}
}
