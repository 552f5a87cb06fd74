package glfwcontext

import (
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/glpipeline/graphics"
	"github.com/richinsley/glpipeline/inputs"
)

// Context owns a GLFW window, its OpenGL context and the input state fed
// by the window's callbacks.
type Context struct {
	window *glfw.Window
	input  *inputs.State
	// onResize is called from the framebuffer size callback.
	onResize func(width, height int)
}

// New creates a window with an OpenGL 4.1 core context and makes the
// context current. Hidden windows are used for recording.
func New(width, height int, title string, visible bool) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, &graphics.ConstructionError{Op: "create window", Err: fmt.Errorf("invalid size %d,%d", width, height)}
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, &graphics.ConstructionError{Op: "create window", Err: err}
	}

	c := &Context{
		window: win,
		input:  inputs.NewState(),
	}
	win.MakeContextCurrent()

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)

	return c, nil
}

// SetResizeCallback registers f to run when the framebuffer size changes,
// typically to update the viewport.
func (c *Context) SetResizeCallback(f func(width, height int)) {
	c.onResize = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	c.input.OnKey(inputs.Key(key), inputs.Action(action))
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	c.input.OnMouseButton(inputs.MouseButton(button), inputs.Action(action))
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	c.input.OnCursor(xpos, ypos)
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	log.Printf("dimensions are now %d, %d", width, height)
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

// Input returns the state written by this window's callbacks.
func (c *Context) Input() *inputs.State {
	return c.input
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window. GLFW itself is terminated separately.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) RequestClose() {
	c.window.SetShouldClose(true)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return &graphics.ConstructionError{Op: "initialize GLFW", Err: err}
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
