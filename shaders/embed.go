// Package shaders embeds the GLSL sources for the built-in programs.
package shaders

import "embed"

//go:embed simple cylinder
var FS embed.FS
