// Package fxpre is the hand-written-template entry path of the composition
// system. It scans free-form GLSL for annotated literals of the form
//
//	/*@fx float:speed group:animation*/ 1.5 /*@end*/
//
// infers a parameter declaration from each annotation's kind and literal
// shape, rewrites the annotated span to a uniform reference and injects the
// matching uniform declarations, so a raw template becomes a live-tweakable
// shader feeding the same renderer and baking contract as composed stacks.
package fxpre

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"

	"github.com/glslfx/glslfx"
)

// Result is the output of one preprocessing pass.
type Result struct {
	// Source is the rewritten template with annotation spans replaced by
	// uniform references and uniform declarations injected.
	Source string
	// Params lists the discovered or reused parameter declarations in
	// first-appearance order. Each binds to the uniform "u_<ID>".
	Params []glslfx.ParamDecl
}

var (
	annotationRE = regexp.MustCompile(`(?s)/\*@fx[ \t]+(float|int|color|vec2)[ \t]*:[ \t]*([A-Za-z][A-Za-z0-9]*)(?:[ \t]+group[ \t]*:[ \t]*([A-Za-z][A-Za-z0-9 ]*?))?[ \t]*\*/\s*(.*?)\s*/\*@end\*/`)
	uniformLineRE = regexp.MustCompile(`(?m)^[ \t]*uniform[ \t][^;]+;[ \t]*$`)
	precisionRE   = regexp.MustCompile(`(?m)^[ \t]*precision[ \t][^;]+;[ \t]*$`)
)

// Process scans source once, left to right. The first annotation of a name
// fixes its declaration for the whole pass; later annotations of the same
// name only re-reference the same uniform. Names matching a caller-supplied
// known declaration reuse it verbatim so user-adjusted bounds survive source
// edits. A malformed literal never aborts the pass; the parameter falls back
// to a zero default of its kind.
func Process(source string, known []glslfx.ParamDecl) Result {
	matches := annotationRE.FindAllStringSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return Result{Source: source}
	}
	knownByID := make(map[string]glslfx.ParamDecl, len(known))
	for _, d := range known {
		knownByID[d.ID] = d
	}

	var (
		out    strings.Builder
		seen   = make(map[string]bool)
		params []glslfx.ParamDecl
		prev   int
	)
	for _, m := range matches {
		kindStr := source[m[2]:m[3]]
		name := source[m[4]:m[5]]
		group := ""
		if m[6] >= 0 {
			group = strings.TrimSpace(source[m[6]:m[7]])
		}
		literal := source[m[8]:m[9]]

		if !seen[name] {
			seen[name] = true
			if d, ok := knownByID[name]; ok {
				params = append(params, d)
			} else {
				params = append(params, inferDecl(kindStr, name, group, literal))
			}
		}
		out.WriteString(source[prev:m[0]])
		out.WriteString("u_" + name)
		prev = m[1]
	}
	out.WriteString(source[prev:])
	return Result{Source: injectUniforms(out.String(), params), Params: params}
}

// injectUniforms adds one uniform declaration per parameter not already
// declared, immediately after the last pre-existing uniform declaration
// line, else after a precision qualifier line, else at the top.
func injectUniforms(source string, params []glslfx.ParamDecl) string {
	var block strings.Builder
	for _, p := range params {
		name := "u_" + p.ID
		declared := regexp.MustCompile(`(?m)^[ \t]*uniform[ \t]+` + p.Kind.GLType() + `[ \t]+` + name + `[ \t]*;`)
		if declared.MatchString(source) {
			continue
		}
		block.WriteString("uniform " + p.Kind.GLType() + " " + name + ";\n")
	}
	if block.Len() == 0 {
		return source
	}
	if locs := uniformLineRE.FindAllStringIndex(source, -1); len(locs) > 0 {
		at := locs[len(locs)-1][1]
		return source[:at] + "\n" + strings.TrimSuffix(block.String(), "\n") + source[at:]
	}
	if loc := precisionRE.FindStringIndex(source); loc != nil {
		return source[:loc[1]] + "\n" + strings.TrimSuffix(block.String(), "\n") + source[loc[1]:]
	}
	return block.String() + source
}

const rangeEps = 1e-4

func inferDecl(kindStr, name, group, literal string) glslfx.ParamDecl {
	if group == "" {
		group = InferGroup(name)
	}
	d := glslfx.ParamDecl{ID: name, Group: group}
	switch kindStr {
	case "float":
		d.Kind = glslfx.Float
		v, err := parseFloat(literal)
		if err != nil {
			d.Default = glslfx.ZeroValue(glslfx.Float)
			d.Min, d.Max, d.Step = 0, 1, 0.005
			return d
		}
		d.Default = glslfx.FloatValue(v)
		d.Min, d.Max, d.Step = floatRange(v)
	case "int":
		d.Kind = glslfx.Int
		n, err := strconv.Atoi(strings.TrimSpace(literal))
		if err != nil {
			d.Default = glslfx.ZeroValue(glslfx.Int)
			d.Min, d.Max, d.Step = -5, 10, 1
			return d
		}
		d.Default = glslfx.IntValue(n)
		d.Min, d.Max, d.Step = float32(n-5), float32(n+10), 1
	case "color":
		d.Kind = glslfx.Color
		comps, err := vecComponents(literal, 3)
		if err != nil || !inUnitRange(comps) {
			d.Default = glslfx.ZeroValue(glslfx.Color)
			return d
		}
		d.Default = glslfx.ColorValue(glslfx.FormatColor(ms3.Vec{X: comps[0], Y: comps[1], Z: comps[2]}))
	case "vec2":
		d.Kind = glslfx.Vec2
		comps, err := vecComponents(literal, 2)
		if err != nil {
			d.Default = glslfx.ZeroValue(glslfx.Vec2)
			d.Min, d.Max, d.Step = -1, 1, 0.01
			return d
		}
		d.Default = glslfx.Vec2Value(comps[0], comps[1])
		d.Min, d.Max, d.Step = floatRange(math32.Max(math32.Abs(comps[0]), math32.Abs(comps[1])))
	}
	return d
}

// floatRange auto-computes editing bounds around a literal value: near-zero
// values get [0,1]; otherwise the range extends from min(0, v-|v|) to
// max(|v|*0.1, v+2|v|), with the step sized so the range spans roughly 200
// discrete positions.
func floatRange(v float32) (lo, hi, step float32) {
	a := math32.Abs(v)
	if a < rangeEps {
		lo, hi = 0, 1
	} else {
		lo = math32.Min(0, v-a)
		hi = math32.Max(a*0.1, v+a*2)
	}
	step = (hi - lo) / 200
	if step < 0.001 {
		step = 0.001
	}
	return lo, hi, step
}

// InferGroup maps a parameter name to a cosmetic UI group by keyword.
// A group label in the annotation overrides it; never affects correctness.
func InferGroup(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "speed"), strings.Contains(n, "drift"):
		return "animation"
	case strings.Contains(n, "warp"), strings.Contains(n, "noise"), strings.Contains(n, "scale"):
		return "noise"
	case strings.Contains(n, "wave"), strings.Contains(n, "displace"), strings.Contains(n, "freq"), strings.Contains(n, "amplitude"):
		return "waves"
	case strings.Contains(n, "mix"),
		strings.Contains(n, "grad") && (strings.Contains(n, "low") || strings.Contains(n, "high")):
		return "blending"
	case strings.Contains(n, "mask"):
		return "mask"
	case strings.Contains(n, "rotation"), strings.Contains(n, "angle"):
		return "transform"
	}
	return "effects"
}

func parseFloat(lit string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(lit), 32)
	return float32(v), err
}

// vecComponents parses a vecN(a, b, ...) constructor literal.
func vecComponents(lit string, n int) ([]float32, error) {
	lit = strings.TrimSpace(lit)
	prefix := "vec" + strconv.Itoa(n) + "("
	if !strings.HasPrefix(lit, prefix) || !strings.HasSuffix(lit, ")") {
		return nil, strconv.ErrSyntax
	}
	parts := strings.Split(lit[len(prefix):len(lit)-1], ",")
	if len(parts) != n {
		return nil, strconv.ErrSyntax
	}
	comps := make([]float32, n)
	for i, part := range parts {
		v, err := parseFloat(part)
		if err != nil {
			return nil, err
		}
		comps[i] = v
	}
	return comps, nil
}

func inUnitRange(comps []float32) bool {
	for _, c := range comps {
		if c < 0 || c > 1 {
			return false
		}
	}
	return true
}
