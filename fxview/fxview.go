// Package fxview renders composed fragment shaders in a live preview window.
package fxview

import (
	"context"
	"strings"
)

// Config holds preview window parameters.
type Config struct {
	Width  int
	Height int
	// Context cancels the render loop when done.
	Context context.Context
}

func (cfg *Config) defaults() {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
}

// previewVertex is the fullscreen-quad vertex shader used on desktop GL.
const previewVertex = `#version 460
in vec2 a_pos;
void main() {
    gl_Position = vec4(a_pos, 0.0, 1.0);
}
`

// desktopFragment adapts a composed ES 1.00 fragment shader to a desktop
// core profile context. Composed sources carry no #version directive so the
// directive can be prepended, and gl_FragColor is mapped onto a declared
// output. Precision qualifiers are valid no-ops on desktop GLSL.
func desktopFragment(es string) string {
	var b strings.Builder
	b.Grow(len(es) + 64)
	b.WriteString("#version 460\n")
	b.WriteString("out vec4 fxFragColor;\n")
	b.WriteString("#define gl_FragColor fxFragColor\n")
	b.WriteString(es)
	return b.String()
}
