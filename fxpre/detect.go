package fxpre

import (
	"regexp"

	"github.com/glslfx/glslfx"
)

var uniformDeclRE = regexp.MustCompile(`(?m)^[ \t]*uniform[ \t]+(float|int|vec2|vec3)[ \t]+u_([A-Za-z][A-Za-z0-9]*)[ \t]*;`)

// DetectUniforms is the fallback entry path for templates with no
// annotations: it scans declared uniforms and synthesizes generic parameter
// declarations so the shader is still tweakable. It never runs when known
// is non-empty; annotated or persisted declarations always win.
func DetectUniforms(source string, known []glslfx.ParamDecl) []glslfx.ParamDecl {
	if len(known) > 0 {
		return nil
	}
	var params []glslfx.ParamDecl
	seen := make(map[string]bool)
	for _, m := range uniformDeclRE.FindAllStringSubmatch(source, -1) {
		glType, name := m[1], m[2]
		if name == "time" || name == "resolution" || seen[name] {
			continue
		}
		seen[name] = true
		d := glslfx.ParamDecl{ID: name, Group: InferGroup(name)}
		switch glType {
		case "float":
			d.Kind = glslfx.Float
			d.Default = glslfx.FloatValue(0.5)
			d.Min, d.Max, d.Step = 0, 1, 0.005
		case "int":
			d.Kind = glslfx.Int
			d.Default = glslfx.IntValue(0)
			d.Min, d.Max, d.Step = -5, 10, 1
		case "vec2":
			d.Kind = glslfx.Vec2
			d.Default = glslfx.Vec2Value(0, 0)
			d.Min, d.Max, d.Step = -1, 1, 0.01
		case "vec3":
			d.Kind = glslfx.Color
			d.Default = glslfx.ColorValue("#808080")
		}
		params = append(params, d)
	}
	return params
}
