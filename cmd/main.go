package main

import (
	"runtime"
)

func init() {
	// GLFW and OpenGL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	Execute()
}
