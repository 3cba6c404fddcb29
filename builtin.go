package glslfx

import "github.com/chewxy/math32"

// RenderNum returns the numeric payload as bound to the renderer, applying
// display-unit conversion. Values edited in degrees reach the shader in
// radians; baked literals use the same conversion.
func (p ParamDecl) RenderNum(v Value) float32 {
	if p.Unit == UnitDegrees {
		return v.Num * math32.Pi / 180
	}
	return v.Num
}

// Builtin returns the catalog of built-in effects. The catalog is immutable
// and safe to share; callers wanting extra effects construct their own
// registry from Definitions.
func Builtin() *Registry {
	reg, err := NewRegistry(builtinDefs...)
	if err != nil {
		// The builtin definitions are compile-time constants validated by
		// tests; a failure here is a programming error.
		panic(err)
	}
	return reg
}

var builtinDefs = []Definition{
	// ── UV transforms ──
	{
		ID: "pan", Category: UVTransform, Order: 5,
		Params: []ParamDecl{
			{ID: "offset", Kind: Vec2, Default: Vec2Value(0, 0), Min: -2, Max: 2, Step: 0.01, Group: "transform"},
		},
		Body: `p += $offset;`,
	},
	{
		ID: "rotate", Category: UVTransform, Order: 10,
		Helpers: []string{"rot2d"},
		Params: []ParamDecl{
			{ID: "angle", Kind: Float, Default: FloatValue(0), Min: -180, Max: 180, Step: 1, Unit: UnitDegrees, Group: "transform"},
		},
		Body: `p = rot2d($angle) * p;`,
	},
	{
		ID: "zoom", Category: UVTransform, Order: 20,
		Params: []ParamDecl{
			{ID: "amount", Kind: Float, Default: FloatValue(1), Min: 0.1, Max: 8, Step: 0.01, Group: "transform"},
		},
		Body: `p *= 1.0 / $amount;`,
	},
	{
		ID: "mirrorx", Category: UVTransform, Order: 30,
		Params: []ParamDecl{
			{ID: "on", Kind: Boolean, Default: BoolValue(true), Group: "transform"},
		},
		Body: `if ($on >= 0.5) { p.x = abs(p.x); }`,
	},
	{
		ID: "kaleido", Category: UVTransform, Order: 40,
		Params: []ParamDecl{
			{ID: "segments", Kind: Int, Default: IntValue(6), Min: 2, Max: 16, Step: 1, Group: "transform"},
		},
		Body: `float ang = atan(p.y, p.x);
float seg = 6.2831853 / float($segments);
ang = mod(ang, seg);
ang = abs(ang - seg * 0.5);
p = length(p) * vec2(cos(ang), sin(ang));`,
	},
	{
		ID: "noisewarp", Category: UVTransform, Order: 50,
		Helpers: []string{"fbm"},
		Params: []ParamDecl{
			{ID: "strength", Kind: Float, Default: FloatValue(0.2), Min: 0, Max: 1, Step: 0.005, Group: "noise"},
			{ID: "scale", Kind: Float, Default: FloatValue(3), Min: 0.1, Max: 12, Step: 0.05, Group: "noise"},
			{ID: "drift", Kind: Float, Default: FloatValue(0.1), Min: 0, Max: 2, Step: 0.005, Group: "animation"},
		},
		Body: `p += $strength * (vec2(fbm(p * $scale + t * $drift), fbm(p * $scale - t * $drift + 17.7)) - 0.5);`,
	},
	{
		ID: "wavedisplace", Category: UVTransform, Order: 60,
		Params: []ParamDecl{
			{ID: "freq", Kind: Float, Default: FloatValue(8), Min: 0.5, Max: 40, Step: 0.1, Group: "waves"},
			{ID: "amplitude", Kind: Float, Default: FloatValue(0.05), Min: 0, Max: 0.5, Step: 0.002, Group: "waves"},
			{ID: "speed", Kind: Float, Default: FloatValue(1), Min: 0, Max: 8, Step: 0.02, Group: "animation"},
			{ID: "axis", Kind: Select, Default: SelectValue(0), Options: []string{"horizontal", "vertical"}, Group: "waves"},
		},
		Body: `if ($axis < 0.5) {
    p.y += $amplitude * sin(p.x * $freq + t * $speed);
} else {
    p.x += $amplitude * sin(p.y * $freq + t * $speed);
}`,
	},

	// ── Generators ──
	{
		ID: "fbmnoise", Category: Generator, Order: 110,
		Helpers: []string{"fbm"},
		Params: []ParamDecl{
			{ID: "scale", Kind: Float, Default: FloatValue(3), Min: 0.1, Max: 12, Step: 0.05, Group: "noise"},
			{ID: "speed", Kind: Float, Default: FloatValue(0.2), Min: 0, Max: 4, Step: 0.01, Group: "animation"},
			{ID: "contrast", Kind: Float, Default: FloatValue(1), Min: 0.1, Max: 4, Step: 0.02, Group: "blending"},
		},
		Body: `mixv = fbm(p * $scale + vec2(t * $speed, 0.0));
mixv = clamp((mixv - 0.5) * $contrast + 0.5, 0.0, 1.0);`,
	},
	{
		ID: "plasma", Category: Generator, Order: 120,
		Params: []ParamDecl{
			{ID: "scale", Kind: Float, Default: FloatValue(4), Min: 0.5, Max: 16, Step: 0.05, Group: "waves"},
			{ID: "speed", Kind: Float, Default: FloatValue(1), Min: 0, Max: 6, Step: 0.02, Group: "animation"},
		},
		Body: `float pv = sin(p.x * $scale + t * $speed);
pv += sin((p.y * $scale + t * $speed) * 0.7);
pv += sin((p.x + p.y) * $scale * 0.6 + t * $speed);
pv += sin(length(p) * $scale * 1.3 - t * $speed);
mixv = clamp(pv * 0.125 + 0.5, 0.0, 1.0);`,
	},
	{
		ID: "stripes", Category: Generator, Order: 130,
		Helpers: []string{"rot2d"},
		Params: []ParamDecl{
			{ID: "freq", Kind: Float, Default: FloatValue(10), Min: 0.5, Max: 60, Step: 0.1, Group: "waves"},
			{ID: "angle", Kind: Float, Default: FloatValue(0), Min: -180, Max: 180, Step: 1, Unit: UnitDegrees, Group: "transform"},
			{ID: "soft", Kind: Float, Default: FloatValue(0.1), Min: 0.001, Max: 0.5, Step: 0.002, Group: "blending"},
		},
		Body: `vec2 sq = rot2d($angle) * p;
mixv = 0.5 + 0.5 * sin(sq.x * $freq);
mixv = smoothstep(0.5 - $soft, 0.5 + $soft, mixv);`,
	},
	{
		ID: "voronoi", Category: Generator, Order: 140,
		Helpers: []string{"voronoi2"},
		Params: []ParamDecl{
			{ID: "scale", Kind: Float, Default: FloatValue(5), Min: 0.5, Max: 20, Step: 0.05, Group: "noise"},
			{ID: "speed", Kind: Float, Default: FloatValue(0.3), Min: 0, Max: 4, Step: 0.01, Group: "animation"},
			{ID: "mask", Kind: Boolean, Default: BoolValue(false), Group: "mask"},
			{ID: "maskColor", Kind: Color, Default: ColorValue("#000000"), Group: "mask"},
		},
		Body: `mixv = voronoi2(p * $scale + vec2(0.0, t * $speed));`,
		// Runs against the already-blended color: cells near a site sink
		// into the mask color, preserving whatever earlier layers drew.
		PostMix: `if ($mask >= 0.5) {
    color = mix($maskColor, color, smoothstep(0.0, 0.35, mixv));
}`,
	},

	// ── Post effects ──
	{
		ID: "vignette", Category: Post, Order: 210,
		Params: []ParamDecl{
			{ID: "strength", Kind: Float, Default: FloatValue(0.5), Min: 0, Max: 1, Step: 0.005, Group: "effects"},
			{ID: "radius", Kind: Float, Default: FloatValue(0.75), Min: 0.1, Max: 1.4, Step: 0.005, Group: "effects"},
		},
		Body: `color *= 1.0 - $strength * smoothstep($radius, 1.4, length(p));`,
	},
	{
		ID: "grain", Category: Post, Order: 220,
		Helpers: []string{"hash21"},
		Params: []ParamDecl{
			{ID: "amount", Kind: Float, Default: FloatValue(0.08), Min: 0, Max: 0.5, Step: 0.002, Group: "effects"},
		},
		Body: `color += vec3($amount * (hash21(uv * 1234.5 + t) - 0.5));`,
	},
	{
		ID: "posterize", Category: Post, Order: 230,
		Params: []ParamDecl{
			{ID: "levels", Kind: Int, Default: IntValue(4), Min: 2, Max: 12, Step: 1, Group: "effects"},
		},
		Body: `color = floor(color * float($levels)) / float($levels);`,
	},
	{
		ID: "invertpulse", Category: Post, Order: 240,
		Params: []ParamDecl{
			{ID: "depth", Kind: Float, Default: FloatValue(1), Min: 0, Max: 1, Step: 0.005, Group: "effects"},
			{ID: "speed", Kind: Float, Default: FloatValue(1), Min: 0, Max: 8, Step: 0.02, Group: "animation"},
		},
		Body: `color = mix(color, vec3(1.0) - color, $depth * (0.5 + 0.5 * sin(t * $speed)));`,
	},
	{
		ID: "levels", Category: Post, Order: 250,
		Params: []ParamDecl{
			{ID: "brightness", Kind: Float, Default: FloatValue(0), Min: -1, Max: 1, Step: 0.005, Group: "blending"},
			{ID: "contrast", Kind: Float, Default: FloatValue(1), Min: 0, Max: 3, Step: 0.01, Group: "blending"},
		},
		Body: `color = (color - 0.5) * $contrast + 0.5 + $brightness;`,
	},
}
