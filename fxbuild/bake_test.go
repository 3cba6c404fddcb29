package fxbuild_test

import (
	"strings"
	"testing"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxbuild"
)

func TestBakeRemovesAllParameterUniforms(t *testing.T) {
	s := demoStack(t)
	cmp := compose(t, s)
	baked := fxbuild.BakeStack(cmp, s)
	for _, sp := range cmp.Params {
		if strings.Contains(baked, sp.Uniform) {
			t.Errorf("baked source still references %s", sp.Uniform)
		}
	}
	for i := range s.Colors() {
		if strings.Contains(baked, glslfx.ColorUniformName(i)) {
			t.Errorf("baked source still references color slot %d", i)
		}
	}
	if !strings.Contains(baked, "uniform float u_time;") {
		t.Error("u_time must stay live in baked source")
	}
	if !strings.Contains(baked, "uniform vec2 u_resolution;") {
		t.Error("u_resolution must stay live in baked source")
	}
	if strings.Contains(baked, "\n\n\n") {
		t.Error("blank-line runs not collapsed")
	}
}

func TestBakeSubstitutesCurrentValues(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	inst, _ := s.Add("plasma")
	s.SetValue(glslfx.ScopedID(inst.ID, "scale"), glslfx.FloatValue(2.5))
	s.AddColor("#ff0000")
	cmp := compose(t, s)
	baked := fxbuild.BakeStack(cmp, s)
	if !strings.Contains(baked, "p.x * 2.5 +") {
		t.Errorf("scale literal missing:\n%s", baked)
	}
	if !strings.Contains(baked, "vec3(1.0, 0.0, 0.0)") {
		t.Errorf("color literal missing:\n%s", baked)
	}
}

func TestBakeFallsBackToDefaults(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	inst, _ := s.Add("posterize")
	cmp := compose(t, s)
	scoped := glslfx.ScopedID(inst.ID, "levels")
	// Missing value and stale-kind value both bake the declared default.
	for _, values := range []map[string]glslfx.Value{
		{},
		{scoped: glslfx.FloatValue(9)},
	} {
		baked := fxbuild.Bake(cmp.Source, cmp.Params, values, nil)
		if !strings.Contains(baked, "float(4)") {
			t.Errorf("default int literal missing:\n%s", baked)
		}
	}
}

func TestBakeKindLiterals(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	rot, _ := s.Add("rotate") // degrees Float
	mir, _ := s.Add("mirrorx")
	pan, _ := s.Add("pan")
	wav, _ := s.Add("wavedisplace")
	s.SetValue(glslfx.ScopedID(rot.ID, "angle"), glslfx.FloatValue(90))
	s.SetValue(glslfx.ScopedID(mir.ID, "on"), glslfx.BoolValue(false))
	s.SetValue(glslfx.ScopedID(pan.ID, "offset"), glslfx.Vec2Value(0.25, -1))
	s.SetValue(glslfx.ScopedID(wav.ID, "axis"), glslfx.SelectValue(1))
	cmp := compose(t, s)
	baked := fxbuild.BakeStack(cmp, s)
	if !strings.Contains(baked, "rot2d(1.5707964)") {
		t.Errorf("degrees not converted to radians:\n%s", baked)
	}
	if !strings.Contains(baked, "if (0.0 >= 0.5)") {
		t.Error("boolean false not baked as 0.0")
	}
	if !strings.Contains(baked, "p += vec2(0.25, -1.0);") {
		t.Error("vec2 literal missing")
	}
	if !strings.Contains(baked, "if (1.0 < 0.5)") {
		t.Error("select index not baked as float literal")
	}
}

func TestBakePrefixParamNames(t *testing.T) {
	defs := []glslfx.Definition{{
		ID: "gen", Category: glslfx.Generator, Order: 150,
		Params: []glslfx.ParamDecl{
			{ID: "speed", Kind: glslfx.Float, Default: glslfx.FloatValue(1)},
			{ID: "speedy", Kind: glslfx.Float, Default: glslfx.FloatValue(2)},
		},
		Body: "mixv = fract(t * $speed + $speedy);",
	}}
	reg, err := glslfx.NewRegistry(defs...)
	if err != nil {
		t.Fatal(err)
	}
	s := glslfx.NewStack(reg)
	inst, _ := s.Add("gen")
	s.SetValue(glslfx.ScopedID(inst.ID, "speed"), glslfx.FloatValue(3))
	s.SetValue(glslfx.ScopedID(inst.ID, "speedy"), glslfx.FloatValue(4))
	cmp := compose(t, s)
	baked := fxbuild.BakeStack(cmp, s)
	if !strings.Contains(baked, "fract(t * 3.0 + 4.0);") {
		t.Errorf("prefix-overlapping names substituted wrong:\n%s", baked)
	}
}

func TestBakedSourceIsStandalone(t *testing.T) {
	s := demoStack(t)
	cmp := compose(t, s)
	baked := fxbuild.BakeStack(cmp, s)
	for _, line := range strings.Split(baked, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "uniform ") {
			continue
		}
		if trimmed != "uniform float u_time;" && trimmed != "uniform vec2 u_resolution;" {
			t.Errorf("unexpected surviving uniform: %s", trimmed)
		}
	}
}
