// Package graphicstest provides in-memory fakes of the graphics interfaces.
package graphicstest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/inputs"
)

// Call is one recorded device call.
type Call struct {
	Op     string
	Matrix mgl32.Mat4
	Mode   graphics.Primitive
	Count  int32
}

// Device records every call made through graphics.Device.
type Device struct {
	Calls    []Call
	Programs []graphics.ProgramSource

	// NewProgramErr, when set, is returned by NewProgram.
	NewProgramErr error
	// PendingErrors is drained by CheckError.
	PendingErrors []uint32
	// Pixels is returned by ReadPixels; nil means a zeroed buffer.
	Pixels []byte

	nextID uint32
}

func (d *Device) record(op string) {
	d.Calls = append(d.Calls, Call{Op: op})
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Draws returns the recorded draw calls.
func (d *Device) Draws() []Call {
	var draws []Call
	for _, c := range d.Calls {
		if c.Op == "DrawArrays" {
			draws = append(draws, c)
		}
	}
	return draws
}

// Uniforms returns every matrix uploaded with UniformMatrix4.
func (d *Device) Uniforms() []mgl32.Mat4 {
	var ms []mgl32.Mat4
	for _, c := range d.Calls {
		if c.Op == "UniformMatrix4" {
			ms = append(ms, c.Matrix)
		}
	}
	return ms
}

func (d *Device) NewProgram(src graphics.ProgramSource) (*graphics.Program, error) {
	d.record("NewProgram")
	if d.NewProgramErr != nil {
		return nil, d.NewProgramErr
	}
	if _, ok := src.Stages[graphics.VertexShader]; !ok {
		return nil, &graphics.ConstructionError{Op: "link program " + src.Name, Err: fmt.Errorf("missing vertex shader")}
	}
	d.Programs = append(d.Programs, src)
	d.nextID++
	p := &graphics.Program{Name: src.Name, ID: d.nextID, Uniforms: make(map[string]int32)}
	loc := int32(0)
	for logical := range src.Uniforms {
		p.Uniforms[logical] = loc
		loc++
	}
	return p, nil
}

func (d *Device) NewMesh(p *graphics.Program, positions []float32, components int) (*graphics.Mesh, error) {
	d.record("NewMesh")
	d.nextID++
	return &graphics.Mesh{Program: p, VAO: d.nextID, VBO: d.nextID + 1000, Vertices: int32(len(positions) / components)}, nil
}

func (d *Device) DeleteMesh(m *graphics.Mesh)       { d.record("DeleteMesh") }
func (d *Device) DeleteProgram(p *graphics.Program) { d.record("DeleteProgram") }
func (d *Device) ClearColor(r, g, b, a float32)     { d.record("ClearColor") }
func (d *Device) Clear()                            { d.record("Clear") }
func (d *Device) Bind(m *graphics.Mesh)             { d.record("Bind") }
func (d *Device) Unbind()                           { d.record("Unbind") }
func (d *Device) Viewport(x, y, width, height int)  { d.record("Viewport") }

func (d *Device) UniformMatrix4(location int32, m mgl32.Mat4) {
	d.Calls = append(d.Calls, Call{Op: "UniformMatrix4", Matrix: m})
}

func (d *Device) DrawArrays(mode graphics.Primitive, first, count int32) {
	d.Calls = append(d.Calls, Call{Op: "DrawArrays", Mode: mode, Count: count})
}

func (d *Device) ReadPixels(width, height int) ([]byte, error) {
	d.record("ReadPixels")
	if d.Pixels != nil {
		return d.Pixels, nil
	}
	return make([]byte, width*height*4), nil
}

func (d *Device) CheckError() error {
	d.record("CheckError")
	pending := d.PendingErrors
	d.PendingErrors = nil
	return graphics.CollectErrors(func() uint32 {
		if len(pending) == 0 {
			return 0
		}
		c := pending[0]
		pending = pending[1:]
		return c
	})
}

// Context is a window-less graphics.Context. It reports ShouldClose once
// RequestClose was called or MaxFrames frames have ended.
type Context struct {
	Width, Height int
	MaxFrames     int

	Frames         int
	CloseRequested bool
	ShutdownCalled bool
	// OnEndFrame runs during EndFrame, where a real window polls events.
	OnEndFrame func(frame int, in *inputs.State)

	input *inputs.State
}

func NewContext(width, height int) *Context {
	return &Context{Width: width, Height: height, input: inputs.NewState()}
}

func (c *Context) MakeCurrent()  {}
func (c *Context) Shutdown()     { c.ShutdownCalled = true }
func (c *Context) RequestClose() { c.CloseRequested = true }

func (c *Context) ShouldClose() bool {
	return c.CloseRequested || (c.MaxFrames > 0 && c.Frames >= c.MaxFrames)
}

func (c *Context) EndFrame() {
	c.Frames++
	if c.OnEndFrame != nil {
		c.OnEndFrame(c.Frames, c.input)
	}
}

func (c *Context) GetFramebufferSize() (int, int) { return c.Width, c.Height }
func (c *Context) Time() float64                  { return float64(c.Frames) / 60 }
func (c *Context) Input() *inputs.State           { return c.input }
