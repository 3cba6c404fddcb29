package fxbuild

import (
	"bytes"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"

	"github.com/glslfx/glslfx"
)

// VertexSource is the fixed fullscreen-quad vertex shader paired with every
// composed fragment shader.
const VertexSource = `attribute vec2 a_pos;
void main() {
    gl_Position = vec4(a_pos, 0.0, 1.0);
}
`

// AppendFloat appends v as a GLSL float literal. The result always carries a
// decimal point so it stays float-typed in GLSL.
func AppendFloat(b []byte, v float32) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, float64(v), 'f', -1, 32)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, ".0"...)
	}
	return b
}

// AppendVec2 appends v as a GLSL vec2 constructor literal.
func AppendVec2(b []byte, v ms2.Vec) []byte {
	b = append(b, "vec2("...)
	b = AppendFloat(b, v.X)
	b = append(b, ", "...)
	b = AppendFloat(b, v.Y)
	b = append(b, ')')
	return b
}

// AppendVec3 appends v as a GLSL vec3 constructor literal.
func AppendVec3(b []byte, v ms3.Vec) []byte {
	b = append(b, "vec3("...)
	b = AppendFloat(b, v.X)
	b = append(b, ", "...)
	b = AppendFloat(b, v.Y)
	b = append(b, ", "...)
	b = AppendFloat(b, v.Z)
	b = append(b, ')')
	return b
}

// appendValueLiteral appends the baked literal for a parameter value,
// dispatching exhaustively over the declared kind.
func appendValueLiteral(b []byte, decl glslfx.ParamDecl, v glslfx.Value) []byte {
	switch decl.Kind {
	case glslfx.Float, glslfx.Select:
		return AppendFloat(b, decl.RenderNum(v))
	case glslfx.Int:
		return strconv.AppendInt(b, int64(math32.Round(v.Num)), 10)
	case glslfx.Boolean:
		if v.Bool() {
			return append(b, "1.0"...)
		}
		return append(b, "0.0"...)
	case glslfx.Color:
		return AppendVec3(b, v.RGB())
	case glslfx.Vec2:
		return AppendVec2(b, v.Vec)
	}
	return AppendFloat(b, v.Num)
}

func appendUniformDecl(b []byte, glType, name string) []byte {
	b = append(b, "uniform "...)
	b = append(b, glType...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, ";\n"...)
	return b
}
