//go:build !tinygo && cgo

package fxview

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxbuild"
)

// Renderer compiles a shader program and pushes parameter values to it.
type Renderer struct {
	prog glgl.Program
}

// Compile builds and binds the preview program from vertex and fragment
// sources. Sources must not be NUL terminated.
func (r *Renderer) Compile(vertex, fragment string) error {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   vertex + "\x00",
		Fragment: fragment + "\x00",
	})
	if err != nil {
		return fmt.Errorf("%s\n\n%w", fragment, err)
	}
	r.prog = prog
	prog.Bind()
	return nil
}

// SetUniform uploads one value to the bound program by uniform name.
func (r *Renderer) SetUniform(name string, v glslfx.Value) error {
	loc, err := r.prog.UniformLocation(name + "\x00")
	if err != nil {
		return fmt.Errorf("uniform %q: %w", name, err)
	}
	switch v.Kind {
	case glslfx.Float, glslfx.Boolean, glslfx.Select:
		gl.Uniform1f(loc, v.Num)
	case glslfx.Int:
		gl.Uniform1i(loc, int32(v.Num+0.5))
	case glslfx.Vec2:
		gl.Uniform2f(loc, v.Vec.X, v.Vec.Y)
	case glslfx.Color:
		rgb := v.RGB()
		gl.Uniform3f(loc, rgb.X, rgb.Y, rgb.Z)
	default:
		return fmt.Errorf("uniform %q: unhandled kind %v", name, v.Kind)
	}
	return nil
}

// UI opens a window and renders the stack's composed shader until the
// window closes or cfg.Context is done. Parameter uniforms are uploaded
// once; u_time and u_resolution refresh every frame.
func UI(s *glslfx.Stack, cfg Config) error {
	cfg.defaults()
	cmp := fxbuild.NewComposer()
	composed, err := cmp.ComposeStack(s)
	if err != nil {
		return err
	}
	window, term, err := startGLFW(cfg.Width, cfg.Height)
	if err != nil {
		return err
	}
	defer term()

	var rend Renderer
	err = rend.Compile(previewVertex, desktopFragment(composed.Source))
	if err != nil {
		return err
	}

	var vao uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	vertices := []float32{
		-1.0, -1.0,
		1.0, -1.0,
		-1.0, 1.0,
		-1.0, 1.0,
		1.0, -1.0,
		1.0, 1.0,
	}
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(vertices), gl.Ptr(vertices), gl.STATIC_DRAW)

	posAttrib, err := rend.prog.AttribLocation("a_pos\x00")
	if err != nil {
		return err
	}
	gl.EnableVertexAttribArray(posAttrib)
	gl.VertexAttribPointer(posAttrib, 2, gl.FLOAT, false, 0, gl.PtrOffset(0))

	if err := uploadStack(&rend, s, composed); err != nil {
		return err
	}
	timeUniform, err := rend.prog.UniformLocation("u_time\x00")
	if err != nil {
		return err
	}
	resUniform, err := rend.prog.UniformLocation("u_resolution\x00")
	if err != nil {
		return err
	}

	ctx := cfg.Context
	for !window.ShouldClose() {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}
		width, height := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(width), int32(height))
		gl.ClearColor(0.0, 0.0, 0.0, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT)

		rend.prog.Bind()
		gl.Uniform1f(timeUniform, float32(glfw.GetTime()))
		gl.Uniform2f(resUniform, float32(width), float32(height))

		gl.BindVertexArray(vao)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
		window.SwapBuffers()

		time.Sleep(time.Second / 60)
		glfw.PollEvents()
	}
	return nil
}

// uploadStack pushes every scoped parameter and color slot to the program.
func uploadStack(rend *Renderer, s *glslfx.Stack, composed fxbuild.Composed) error {
	values := s.Values()
	for _, sp := range composed.Params {
		v, ok := values[sp.ScopedID]
		if !ok || v.Kind != sp.Decl.Kind {
			v = sp.Decl.Default
		}
		if v.Kind == glslfx.Float || v.Kind == glslfx.Select {
			v.Num = sp.Decl.RenderNum(v)
		}
		if err := rend.SetUniform(sp.Uniform, v); err != nil {
			return err
		}
	}
	for slot, hex := range s.Colors() {
		if slot >= composed.ColorCount {
			break
		}
		err := rend.SetUniform(glslfx.ColorUniformName(slot), glslfx.ColorValue(hex))
		if err != nil {
			return err
		}
	}
	return nil
}

func startGLFW(width, height int) (window *glfw.Window, term func(), err error) {
	if err := glfw.Init(); err != nil {
		log.Fatalln("Failed to initialize GLFW:", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err = glfw.CreateWindow(width, height, "glslfx preview", nil, nil)
	if err != nil {
		log.Fatalln("Failed to create GLFW window:", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalln("Failed to initialize OpenGL:", err)
	}
	return window, glfw.Terminate, err
}
