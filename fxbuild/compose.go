// Package fxbuild implements the shader composition engine: it assembles an
// ordered list of effect instances into a single GLSL ES fragment shader with
// instance-scoped uniforms and deduplicated helper functions, and implements
// the inverse transform that bakes parameter values back into literals for
// static export.
//
// Every operation is a pure function over its inputs; composing the same
// inputs twice yields byte-identical source, since the renderer treats any
// change as a recompile.
package fxbuild

import (
	"bytes"
	"io"
	"sort"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxbuild/fxlib"
)

// ScopeParam derives the collision-free scoped identifier and uniform name
// of an instance parameter. Pure and total; uniqueness holds by construction
// because the delimiter is forbidden inside both components.
func ScopeParam(instanceID, paramID string) (scopedID, uniformName string) {
	return glslfx.ScopedID(instanceID, paramID), glslfx.UniformName(instanceID, paramID)
}

// ScopedParam is one uniform actually emitted by a composition, binding a
// parameter declaration to a specific instance.
type ScopedParam struct {
	InstanceID string
	Decl       glslfx.ParamDecl
	ScopedID   string
	Uniform    string
}

// Composed is the full result of one composition: the shader source and the
// flattened scoped-parameter list the caller must keep in sync as uniforms.
type Composed struct {
	Source     string
	Params     []ScopedParam
	ColorCount int
}

// Composer assembles fragment shaders. The zero-cost scratch buffer is
// reused across compositions; a Composer is not safe for concurrent use.
type Composer struct {
	lib     *fxlib.Library
	scratch []byte
}

// NewComposer returns a Composer over the default helper library.
func NewComposer() *Composer {
	return &Composer{lib: fxlib.Default(), scratch: make([]byte, 0, 4096)}
}

// NewComposerWithLibrary returns a Composer over a custom helper library.
func NewComposerWithLibrary(lib *fxlib.Library) *Composer {
	return &Composer{lib: lib, scratch: make([]byte, 0, 4096)}
}

// ComposeStack composes a stack's full state into a fragment shader.
func (c *Composer) ComposeStack(s *glslfx.Stack) (Composed, error) {
	var buf bytes.Buffer
	colorCount := len(s.Colors())
	_, params, err := c.WriteFragment(&buf, s.Registry(), s.Instances(), colorCount)
	if err != nil {
		return Composed{}, err
	}
	return Composed{Source: buf.String(), Params: params, ColorCount: colorCount}, nil
}

// WriteFragment assembles the fragment shader for the given activation-ordered
// instances and writes it to w. Disabled instances and instances whose effect
// id does not resolve are skipped silently; cross-category order is enforced
// by a stable sort on the definitions' order bands so user-chosen relative
// order survives within each category. Returns the bytes written and the
// flattened list of scoped parameters actually declared.
func (c *Composer) WriteFragment(w io.Writer, reg *glslfx.Registry, instances []*glslfx.Instance, colorCount int) (n int, params []ScopedParam, err error) {
	if colorCount < 0 {
		colorCount = 0
	} else if colorCount > glslfx.MaxColorSlots {
		colorCount = glslfx.MaxColorSlots
	}

	type active struct {
		inst *glslfx.Instance
		eff  *glslfx.Effect
	}
	var actives []active
	for _, inst := range instances {
		if inst == nil || !inst.Enabled {
			continue
		}
		eff, ok := reg.Lookup(inst.Effect)
		if !ok {
			continue // Dangling reference mid-edit, never fatal.
		}
		actives = append(actives, active{inst: inst, eff: eff})
	}
	sort.SliceStable(actives, func(i, j int) bool {
		return actives[i].eff.Order < actives[j].eff.Order
	})

	var required []string
	for _, a := range actives {
		required = append(required, a.eff.Helpers...)
	}
	for _, a := range actives {
		for _, p := range a.eff.Params {
			scopedID, uniform := ScopeParam(a.inst.ID, p.ID)
			params = append(params, ScopedParam{
				InstanceID: a.inst.ID,
				Decl:       p,
				ScopedID:   scopedID,
				Uniform:    uniform,
			})
		}
	}

	b := c.scratch[:0]
	b = append(b, "precision mediump float;\n\n"...)
	b = appendUniformDecl(b, "float", "u_time")
	b = appendUniformDecl(b, "vec2", "u_resolution")
	for i := 0; i < colorCount; i++ {
		b = appendUniformDecl(b, "vec3", glslfx.ColorUniformName(i))
	}
	for _, sp := range params {
		b = appendUniformDecl(b, sp.Decl.Kind.GLType(), sp.Uniform)
	}
	b = append(b, '\n')
	b, err = c.lib.Resolve(b, required)
	if err != nil {
		c.scratch = b[:0]
		return 0, nil, err
	}
	b = AppendColorRamp(b, colorCount)
	b = append(b, "\nvoid main() {\n"...)
	b = append(b, "    vec2 uv = gl_FragCoord.xy / u_resolution;\n"...)
	b = append(b, "    vec2 p = (2.0 * gl_FragCoord.xy - u_resolution) / u_resolution.y;\n"...)
	b = append(b, "    float t = u_time;\n"...)
	b = append(b, "    vec3 color = vec3(0.0);\n"...)
	b = append(b, "    float mixv = 0.5;\n"...)

	rename := func(inst *glslfx.Instance) func(string) string {
		return func(paramID string) string {
			return glslfx.UniformName(inst.ID, paramID)
		}
	}
	appendBody := func(b []byte, a active, t glslfx.Template) []byte {
		b = append(b, "    { // "...)
		b = append(b, a.inst.ID...)
		b = append(b, ": "...)
		b = append(b, a.eff.ID...)
		b = append(b, '\n')
		b = t.Append(b, rename(a.inst))
		b = append(b, "\n    }\n"...)
		return b
	}

	genIdx := 0
	colorSet := false
	for _, a := range actives {
		switch a.eff.Category {
		case glslfx.UVTransform:
			b = appendBody(b, a, a.eff.BodyTemplate())
		case glslfx.Generator:
			if genIdx == 0 {
				// First generator sets the mix factor; the ramp turns it
				// into the working color.
				b = appendBody(b, a, a.eff.BodyTemplate())
				b = append(b, "    color = colorRamp(mixv);\n"...)
			} else {
				// Subsequent generators layer over the snapshot: a signal
				// at the neutral midpoint contributes nothing.
				layer := itoa(genIdx)
				b = append(b, "    vec3 prior"+layer+" = color;\n"...)
				b = append(b, "    mixv = 0.5;\n"...)
				b = appendBody(b, a, a.eff.BodyTemplate())
				b = append(b, "    float w"+layer+" = smoothstep(0.0, 1.0, abs(mixv - 0.5) * 2.0);\n"...)
				b = append(b, "    color = mix(prior"+layer+", colorRamp(mixv), w"+layer+");\n"...)
			}
			if !a.eff.PostMixTemplate().IsZero() {
				b = appendBody(b, a, a.eff.PostMixTemplate())
			}
			genIdx++
			colorSet = true
		case glslfx.Post:
			if !colorSet {
				b = append(b, "    color = colorRamp(0.5);\n"...)
				colorSet = true
			}
			b = appendBody(b, a, a.eff.BodyTemplate())
		}
	}
	if !colorSet {
		b = append(b, "    color = colorRamp(0.5);\n"...)
	}
	b = append(b, "    gl_FragColor = vec4(clamp(color, 0.0, 1.0), 1.0);\n"...)
	b = append(b, "}\n"...)

	n, err = w.Write(b)
	c.scratch = b[:0]
	return n, params, err
}
