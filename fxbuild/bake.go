package fxbuild

import (
	"regexp"

	"github.com/glslfx/glslfx"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Bake is the inverse of composition: it replaces every scoped uniform
// reference in source with a literal of its current value and removes the
// corresponding uniform declarations, producing source with no
// runtime-configurable parameters.
//
// For each parameter the declaration line is stripped before its references
// are substituted; once a reference has become a literal, a later search for
// the declaration by name could no longer tell it apart from coincidental
// literal text. Values missing from the mapping (or stored under a stale
// kind) fall back to the declared default. The built-in u_time and
// u_resolution uniforms are never touched and remain live in exported code.
func Bake(source string, params []ScopedParam, values map[string]glslfx.Value, colors []string) string {
	var lit []byte
	for _, sp := range params {
		v, ok := values[sp.ScopedID]
		if !ok || v.Kind != sp.Decl.Kind {
			v = sp.Decl.Default
		}
		lit = appendValueLiteral(lit[:0], sp.Decl, v)
		source = stripUniformDecl(source, sp.Decl.Kind.GLType(), sp.Uniform)
		source = substituteWord(source, sp.Uniform, string(lit))
	}
	for i, hex := range colors {
		name := glslfx.ColorUniformName(i)
		lit = AppendVec3(lit[:0], glslfx.ColorValue(hex).RGB())
		source = stripUniformDecl(source, "vec3", name)
		source = substituteWord(source, name, string(lit))
	}
	// Cosmetic: collapse the blank-line runs left by stripped declarations.
	return blankRuns.ReplaceAllString(source, "\n\n")
}

// BakeStack bakes a composition with the stack's current values and colors.
func BakeStack(cmp Composed, s *glslfx.Stack) string {
	return Bake(cmp.Source, cmp.Params, s.Values(), s.Colors())
}

func stripUniformDecl(source, glType, name string) string {
	re := regexp.MustCompile(`(?m)^[ \t]*uniform[ \t]+` + glType + `[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*;[ \t]*\r?\n?`)
	return re.ReplaceAllString(source, "")
}

func substituteWord(source, name, literal string) string {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return re.ReplaceAllString(source, literal)
}
