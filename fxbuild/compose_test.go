package fxbuild_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxbuild"
)

// demoStack builds a representative stack: two UV transforms, two
// generators sharing a helper, one post effect, three colors.
func demoStack(t *testing.T) *glslfx.Stack {
	t.Helper()
	s := glslfx.NewStack(glslfx.Builtin())
	for _, id := range []string{"rotate", "noisewarp", "fbmnoise", "plasma", "vignette"} {
		if _, err := s.Add(id); err != nil {
			t.Fatal(err)
		}
	}
	for _, c := range []string{"#000000", "#808080", "#ffffff"} {
		if err := s.AddColor(c); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func compose(t *testing.T, s *glslfx.Stack) fxbuild.Composed {
	t.Helper()
	cmp, err := fxbuild.NewComposer().ComposeStack(s)
	if err != nil {
		t.Fatal(err)
	}
	return cmp
}

func TestComposeDeterministic(t *testing.T) {
	s := demoStack(t)
	c := fxbuild.NewComposer()
	first, err := c.ComposeStack(s)
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.ComposeStack(s)
	if err != nil {
		t.Fatal(err)
	}
	if first.Source != second.Source {
		t.Error("identical stack composed to different source")
	}
	other, err := fxbuild.NewComposer().ComposeStack(s)
	if err != nil {
		t.Fatal(err)
	}
	if first.Source != other.Source {
		t.Error("fresh composer produced different source")
	}
}

func TestComposePreamble(t *testing.T) {
	cmp := compose(t, demoStack(t))
	src := cmp.Source
	if !strings.HasPrefix(src, "precision mediump float;\n") {
		t.Error("missing precision preamble")
	}
	for _, decl := range []string{
		"uniform float u_time;",
		"uniform vec2 u_resolution;",
		"uniform vec3 u_color0;",
		"uniform vec3 u_color2;",
	} {
		if !strings.Contains(src, decl) {
			t.Errorf("missing %q", decl)
		}
	}
	if !strings.Contains(src, "gl_FragColor = vec4(clamp(color, 0.0, 1.0), 1.0);") {
		t.Error("missing final assignment")
	}
}

func TestComposeScopedUniformsUnique(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	a, _ := s.Add("plasma")
	b, _ := s.Add("plasma")
	cmp := compose(t, s)
	seen := make(map[string]bool)
	for _, sp := range cmp.Params {
		if seen[sp.Uniform] {
			t.Errorf("duplicate uniform %s", sp.Uniform)
		}
		seen[sp.Uniform] = true
	}
	for _, name := range []string{
		glslfx.UniformName(a.ID, "speed"),
		glslfx.UniformName(b.ID, "speed"),
	} {
		if !seen[name] {
			t.Errorf("missing uniform %s", name)
		}
		if n := strings.Count(cmp.Source, "uniform float "+name+";"); n != 1 {
			t.Errorf("uniform %s declared %d times", name, n)
		}
	}
}

func TestComposeCategoryOrdering(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	// Activation order deliberately scrambles the categories.
	post, _ := s.Add("vignette")
	gen, _ := s.Add("plasma")
	uv, _ := s.Add("rotate")
	cmp := compose(t, s)
	iUV := strings.Index(cmp.Source, "// "+uv.ID+":")
	iGen := strings.Index(cmp.Source, "// "+gen.ID+":")
	iPost := strings.Index(cmp.Source, "// "+post.ID+":")
	if iUV < 0 || iGen < 0 || iPost < 0 {
		t.Fatalf("missing instance marker:\n%s", cmp.Source)
	}
	if !(iUV < iGen && iGen < iPost) {
		t.Errorf("category order violated: uv@%d gen@%d post@%d", iUV, iGen, iPost)
	}
}

func TestComposeKeepsRelativeOrderWithinCategory(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	first, _ := s.Add("plasma")
	second, _ := s.Add("plasma")
	cmp := compose(t, s)
	i1 := strings.Index(cmp.Source, "// "+first.ID+":")
	i2 := strings.Index(cmp.Source, "// "+second.ID+":")
	if i1 < 0 || i2 < 0 || i1 > i2 {
		t.Errorf("equal-order instances reordered: %d %d", i1, i2)
	}
}

func TestComposeHelperDeduplication(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	s.Add("noisewarp") // requires fbm
	s.Add("fbmnoise")  // requires fbm
	cmp := compose(t, s)
	if n := strings.Count(cmp.Source, "float fbm("); n != 1 {
		t.Errorf("fbm defined %d times", n)
	}
	if n := strings.Count(cmp.Source, "float vnoise("); n != 1 {
		t.Errorf("vnoise defined %d times", n)
	}
	iNoise := strings.Index(cmp.Source, "float vnoise(")
	iFbm := strings.Index(cmp.Source, "float fbm(")
	if iNoise > iFbm {
		t.Error("helper dependency emitted after dependent")
	}
}

func TestComposeSkipsDisabledAndDangling(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	gen, _ := s.Add("plasma")
	off, _ := s.Add("grain")
	s.Toggle(off.ID)
	_, _, err := fxbuild.NewComposer().WriteFragment(new(bytes.Buffer), s.Registry(), append(s.Instances(), &glslfx.Instance{ID: "fx99", Effect: "gone", Enabled: true}), 0)
	if err != nil {
		t.Fatal(err)
	}
	full := compose(t, s)
	if strings.Contains(full.Source, off.ID) {
		t.Error("disabled instance composed")
	}
	if !strings.Contains(full.Source, gen.ID) {
		t.Error("enabled instance missing")
	}
	for _, sp := range full.Params {
		if sp.InstanceID == off.ID {
			t.Error("disabled instance contributed uniforms")
		}
	}
}

func TestComposeGeneratorLayering(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	s.Add("fbmnoise")
	s.Add("plasma")
	cmp := compose(t, s)
	src := cmp.Source
	const weight = "smoothstep(0.0, 1.0, abs(mixv - 0.5) * 2.0)"
	if !strings.Contains(src, "float w1 = "+weight+";") {
		t.Error("missing layering weight for second generator")
	}
	if !strings.Contains(src, "vec3 prior1 = color;") {
		t.Error("missing color snapshot before second generator")
	}
	if !strings.Contains(src, "color = mix(prior1, colorRamp(mixv), w1);") {
		t.Error("missing layering blend")
	}
	// The mix factor resets to neutral before every non-first generator.
	iPrior := strings.Index(src, "vec3 prior1")
	iReset := strings.Index(src[iPrior:], "mixv = 0.5;")
	iBlend := strings.Index(src[iPrior:], "color = mix(prior1")
	if iReset < 0 || iReset > iBlend {
		t.Error("mixv not reset between generators")
	}
	if strings.Contains(src, "w0") || strings.Contains(src, "prior0") {
		t.Error("first generator must set the color directly")
	}
}

// A generator left at the neutral midpoint contributes zero weight, so
// layering it over any color is an exact no-op.
func TestLayeringNeutralWeight(t *testing.T) {
	smooth := func(e0, e1, x float32) float32 {
		tt := math32.Max(0, math32.Min(1, (x-e0)/(e1-e0)))
		return tt * tt * (3 - 2*tt)
	}
	if w := smooth(0, 1, math32.Abs(0.5-0.5)*2); w != 0 {
		t.Errorf("neutral midpoint weight = %v, want 0", w)
	}
	if w := smooth(0, 1, math32.Abs(1.0-0.5)*2); w != 1 {
		t.Errorf("saturated weight = %v, want 1", w)
	}
}

func TestComposeZeroGenerators(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	s.Add("rotate")
	s.Add("vignette")
	s.AddColor("#ff0000")
	cmp := compose(t, s)
	if !strings.Contains(cmp.Source, "color = colorRamp(0.5);") {
		t.Error("missing neutral ramp sample without generators")
	}
	// The fallback must land before the post effect reads color.
	iFallback := strings.Index(cmp.Source, "color = colorRamp(0.5);")
	iPost := strings.Index(cmp.Source, ": vignette")
	if iPost >= 0 && iFallback > iPost {
		t.Error("fallback color set after post effect")
	}
}

func TestComposeEmptyStack(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	cmp := compose(t, s)
	if !strings.Contains(cmp.Source, "color = colorRamp(0.5);") {
		t.Error("empty stack must still produce the neutral color")
	}
	if len(cmp.Params) != 0 {
		t.Errorf("empty stack declared %d params", len(cmp.Params))
	}
	for _, helper := range []string{"hash21(", "vnoise(", "fbm(", "voronoi2(", "rot2d("} {
		if strings.Contains(cmp.Source, helper) {
			t.Errorf("helper %s emitted with no effects", helper)
		}
	}
}

func TestComposePostMixRunsAfterBlend(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	inst, _ := s.Add("voronoi")
	cmp := compose(t, s)
	iRamp := strings.Index(cmp.Source, "color = colorRamp(mixv);")
	markers := strings.Count(cmp.Source, "// "+inst.ID+": voronoi")
	if markers != 2 {
		t.Fatalf("want body and post-mix blocks, got %d markers", markers)
	}
	iSecond := strings.LastIndex(cmp.Source, "// "+inst.ID+": voronoi")
	if iRamp < 0 || iSecond < iRamp {
		t.Error("post-mix block emitted before the ramp sample")
	}
}

func TestComposeDegreesConvertOnlyAtBinding(t *testing.T) {
	s := glslfx.NewStack(glslfx.Builtin())
	inst, _ := s.Add("rotate")
	s.SetValue(glslfx.ScopedID(inst.ID, "angle"), glslfx.FloatValue(180))
	cmp := compose(t, s)
	// Composed source references the uniform; conversion happens when the
	// value is bound or baked, never in the template text.
	if !strings.Contains(cmp.Source, "rot2d("+glslfx.UniformName(inst.ID, "angle")+")") {
		t.Error("angle uniform not referenced")
	}
	var decl glslfx.ParamDecl
	for _, sp := range cmp.Params {
		if sp.ScopedID == glslfx.ScopedID(inst.ID, "angle") {
			decl = sp.Decl
		}
	}
	got := decl.RenderNum(glslfx.FloatValue(180))
	if math32.Abs(got-math32.Pi) > 1e-6 {
		t.Errorf("180 degrees rendered as %v, want pi", got)
	}
}
