// Package glslfx provides the data model for composable real-time fragment
// shader effects: parameter declarations, effect definitions, an immutable
// effect registry and the user-ordered effect stack consumed by the
// composition engine in package fxbuild.
package glslfx

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// ScopeDelimiter joins an instance identifier with a parameter identifier to
// form a globally unique scoped name. It is forbidden inside both components.
const ScopeDelimiter = '_'

var (
	// ErrInvalidIdentifier is returned when an effect, instance or parameter
	// identifier is empty or contains characters that would break generated
	// uniform names (anything outside [A-Za-z0-9], in particular the scope
	// delimiter).
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrUnknownEffect is returned when adding an instance of an effect id
	// the registry does not contain.
	ErrUnknownEffect = errors.New("unknown effect")
)

// ParamKind enumerates the closed set of parameter kinds. Every dispatch over
// kinds in scoping, composition and baking switches exhaustively over these.
type ParamKind uint8

const (
	// Float is a scalar float parameter.
	Float ParamKind = iota
	// Int is an integral parameter, declared as a GLSL int uniform.
	Int
	// Boolean is an on/off parameter bound as 1.0/0.0.
	Boolean
	// Color is an RGB color parameter, declared as a vec3 uniform and
	// carried around as a "#rrggbb" hex string.
	Color
	// Vec2 is a 2-component float parameter.
	Vec2
	// Select is a choice among named options, bound as the float index of
	// the selected option.
	Select
)

func (k ParamKind) String() string {
	switch k {
	case Float:
		return "float"
	case Int:
		return "int"
	case Boolean:
		return "bool"
	case Color:
		return "color"
	case Vec2:
		return "vec2"
	case Select:
		return "select"
	}
	return "unknown"
}

// ParseKind is the inverse of [ParamKind.String], used when decoding
// persisted parameter values.
func ParseKind(s string) (ParamKind, error) {
	for k := Float; k <= Select; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown parameter kind %q", s)
}

// GLType returns the GLSL type used to declare a uniform of this kind.
func (k ParamKind) GLType() string {
	switch k {
	case Float, Boolean, Select:
		return "float"
	case Int:
		return "int"
	case Color:
		return "vec3"
	case Vec2:
		return "vec2"
	}
	return "float"
}

// Unit is an optional display unit for numeric parameters.
type Unit uint8

const (
	// UnitNone leaves the value untouched.
	UnitNone Unit = iota
	// UnitDegrees marks values edited in degrees and converted to radians
	// before they reach the renderer.
	UnitDegrees
)

// Value is a tagged parameter value. The active payload is determined by Kind:
// Num for Float/Int/Boolean/Select, Vec for Vec2, Hex for Color.
type Value struct {
	Kind ParamKind
	Num  float32
	Vec  ms2.Vec
	Hex  string
}

// FloatValue returns a Float Value.
func FloatValue(v float32) Value { return Value{Kind: Float, Num: v} }

// IntValue returns an Int Value.
func IntValue(v int) Value { return Value{Kind: Int, Num: float32(v)} }

// BoolValue returns a Boolean Value. True binds as 1.0, false as 0.0.
func BoolValue(v bool) Value {
	var n float32
	if v {
		n = 1
	}
	return Value{Kind: Boolean, Num: n}
}

// ColorValue returns a Color Value from a "#rrggbb" hex string.
func ColorValue(hex string) Value { return Value{Kind: Color, Hex: hex} }

// Vec2Value returns a Vec2 Value.
func Vec2Value(x, y float32) Value { return Value{Kind: Vec2, Vec: ms2.Vec{X: x, Y: y}} }

// SelectValue returns a Select Value holding the index of the chosen option.
func SelectValue(index int) Value { return Value{Kind: Select, Num: float32(index)} }

// Bool reports whether a Boolean Value is on, thresholding at 0.5.
func (v Value) Bool() bool { return v.Num >= 0.5 }

// RGB returns the color payload of a Color Value as channels in [0,1].
// Unparseable hex yields black.
func (v Value) RGB() ms3.Vec {
	rgb, err := ParseColor(v.Hex)
	if err != nil {
		return ms3.Vec{}
	}
	return rgb
}

// ZeroValue returns the zero value for a kind. It is the fallback for
// unparseable annotation literals.
func ZeroValue(k ParamKind) Value {
	switch k {
	case Color:
		return Value{Kind: Color, Hex: "#000000"}
	default:
		return Value{Kind: k}
	}
}

// ParamDecl declares a single effect or template parameter.
type ParamDecl struct {
	// ID is unique within the owning effect or template and must be a valid
	// identifier fragment since it is concatenated into uniform names.
	ID   string
	Kind ParamKind
	// Default is the value a fresh instance starts with and the fallback
	// when baking a parameter missing from the value mapping.
	Default Value
	// Min, Max and Step bound numeric kinds. Ignored for Color and Boolean.
	Min, Max, Step float32
	// Unit applies display-unit conversion before renderer binding.
	Unit Unit
	// Group is a free-text label for UI organization only.
	Group string
	// Options names the choices of a Select parameter, bound by index.
	Options []string
}

// ValidateIdentifier reports whether s can participate in generated uniform
// names: nonempty, starts with a letter, and contains only [A-Za-z0-9].
func ValidateIdentifier(s string) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (i > 0 && c >= '0' && c <= '9')
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
		}
	}
	return nil
}

func (p ParamDecl) validate() error {
	if err := ValidateIdentifier(p.ID); err != nil {
		return err
	}
	if p.Default.Kind != p.Kind {
		return fmt.Errorf("param %q: default is %s, declared %s", p.ID, p.Default.Kind, p.Kind)
	}
	if p.Kind == Select && len(p.Options) == 0 {
		return fmt.Errorf("param %q: select with no options", p.ID)
	}
	return nil
}
