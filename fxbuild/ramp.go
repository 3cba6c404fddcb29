package fxbuild

import (
	"strconv"

	"github.com/glslfx/glslfx"
)

// AppendColorRamp appends the colorRamp blending function over colorCount
// color slot uniforms. The emitted function maps a mix factor in [0,1] to a
// color:
//
//   - 0 slots: the constant no-color value vec3(0.0).
//   - 1 slot: that color regardless of t.
//   - 2 slots: linear interpolation, t clamped to [0,1].
//   - 3+ slots: t rescaled to [0,count-1] and blended stage by stage; stage i
//     must apply after stage i-1 since later stages overwrite earlier ones
//     within their active span.
func AppendColorRamp(b []byte, colorCount int) []byte {
	b = append(b, "vec3 colorRamp(float t) {\n"...)
	switch {
	case colorCount <= 0:
		b = append(b, "    return vec3(0.0);\n"...)
	case colorCount == 1:
		b = append(b, "    return "+glslfx.ColorUniformName(0)+";\n"...)
	case colorCount == 2:
		b = append(b, "    return mix("+glslfx.ColorUniformName(0)+", "+glslfx.ColorUniformName(1)+", clamp(t, 0.0, 1.0));\n"...)
	default:
		b = append(b, "    float s = clamp(t, 0.0, 1.0) * "...)
		b = AppendFloat(b, float32(colorCount-1))
		b = append(b, ";\n"...)
		b = append(b, "    vec3 c = "+glslfx.ColorUniformName(0)+";\n"...)
		for i := 1; i < colorCount; i++ {
			b = append(b, "    c = mix(c, "+glslfx.ColorUniformName(i)+", clamp(s - "...)
			b = AppendFloat(b, float32(i-1))
			b = append(b, ", 0.0, 1.0));\n"...)
		}
		b = append(b, "    return c;\n"...)
	}
	b = append(b, "}\n"...)
	return b
}

// EvalRamp is the float-side reference of the emitted colorRamp, used to
// predict what a composed shader displays for a given mix factor. colors are
// RGB triples in [0,1].
func EvalRamp(colors [][3]float32, t float32) [3]float32 {
	n := len(colors)
	if n == 0 {
		return [3]float32{}
	}
	if n == 1 {
		return colors[0]
	}
	t = clampf(t, 0, 1)
	if n == 2 {
		return mix3(colors[0], colors[1], t)
	}
	s := t * float32(n-1)
	c := colors[0]
	for i := 1; i < n; i++ {
		c = mix3(c, colors[i], clampf(s-float32(i-1), 0, 1))
	}
	return c
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

func mix3(a, b [3]float32, w float32) [3]float32 {
	return [3]float32{
		a[0]*(1-w) + b[0]*w,
		a[1]*(1-w) + b[1]*w,
		a[2]*(1-w) + b[2]*w,
	}
}

func itoa(i int) string { return strconv.Itoa(i) }
