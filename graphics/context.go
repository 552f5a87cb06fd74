package graphics

import "github.com/richinsley/glpipeline/inputs"

// Context defines the interface for the window that owns the OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// RequestClose asks the frame loop to stop after the current frame.
	RequestClose()
	// EndFrame presents the back buffer and polls window events. Input
	// callbacks only run inside this call.
	EndFrame()
	GetFramebufferSize() (int, int)
	Time() float64
	// Input returns the input state mutated by the window's callbacks.
	Input() *inputs.State
}
