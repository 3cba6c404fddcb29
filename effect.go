package glslfx

import (
	"errors"
	"fmt"
	"sort"
)

// Category places an effect in one of the three structural stages of a
// composed shader. Cross-category order is always enforced during
// composition: UV transforms run before generators sample the coordinate,
// post effects run after a color exists.
type Category uint8

const (
	// UVTransform effects mutate the working coordinates in place.
	UVTransform Category = iota
	// Generator effects produce the mix factor consumed by the color ramp
	// and participate in multi-generator layering.
	Generator
	// Post effects read and mutate the working color.
	Post
)

func (c Category) String() string {
	switch c {
	case UVTransform:
		return "uv-transform"
	case Generator:
		return "generator"
	case Post:
		return "post"
	}
	return "unknown"
}

// OrderBand returns the half-open [lo,hi) interval of valid Definition.Order
// values for the category. Bands never overlap so a stable sort on Order
// yields the category ordering invariant for free.
func (c Category) OrderBand() (lo, hi int) {
	switch c {
	case UVTransform:
		return 0, 100
	case Generator:
		return 100, 200
	case Post:
		return 200, 300
	}
	return 0, 0
}

// Definition describes one effect as registered: body templates are raw text
// with $paramID placeholders. Registry construction compiles it to an Effect.
type Definition struct {
	ID       string
	Category Category
	// Order is a tie-breaker within the category's band, not a strict total
	// order. Instances of equal Order keep their user-chosen relative order.
	Order int
	// Helpers names the shared library functions the bodies call.
	Helpers []string
	Params  []ParamDecl
	// Body is the main template. Bodies run inside their own block scope and
	// may reference uv, p, t, mixv and (Post only) color.
	Body string
	// PostMix is an optional second template for Generator effects, run
	// after the working color has been computed for this layer.
	PostMix string
}

// Effect is a compiled, registry-owned Definition. Immutable after
// construction.
type Effect struct {
	Definition
	body    Template
	postMix Template
}

// Body returns the compiled main body template.
func (e *Effect) BodyTemplate() Template { return e.body }

// PostMixTemplate returns the compiled post-mix template. IsZero when the
// definition declared none.
func (e *Effect) PostMixTemplate() Template { return e.postMix }

// Param looks up a parameter declaration by id.
func (e *Effect) Param(id string) (ParamDecl, bool) {
	for _, p := range e.Params {
		if p.ID == id {
			return p, true
		}
	}
	return ParamDecl{}, false
}

// Registry is an immutable catalog of effects, constructed explicitly and
// passed to the composition engine.
type Registry struct {
	effects map[string]*Effect
}

// NewRegistry compiles and validates definitions into a Registry. All
// identifier and template errors are reported together.
func NewRegistry(defs ...Definition) (*Registry, error) {
	reg := &Registry{effects: make(map[string]*Effect, len(defs))}
	var errs []error
	for _, def := range defs {
		eff, err := compileDefinition(def)
		if err != nil {
			errs = append(errs, fmt.Errorf("effect %q: %w", def.ID, err))
			continue
		}
		if _, exists := reg.effects[def.ID]; exists {
			errs = append(errs, fmt.Errorf("effect %q: duplicate id", def.ID))
			continue
		}
		reg.effects[def.ID] = eff
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return reg, nil
}

func compileDefinition(def Definition) (*Effect, error) {
	if err := ValidateIdentifier(def.ID); err != nil {
		return nil, err
	}
	lo, hi := def.Category.OrderBand()
	if lo == hi {
		return nil, fmt.Errorf("unknown category %d", def.Category)
	}
	if def.Order < lo || def.Order >= hi {
		return nil, fmt.Errorf("order %d outside %s band [%d,%d)", def.Order, def.Category, lo, hi)
	}
	seen := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		if err := p.validate(); err != nil {
			return nil, err
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate param %q", p.ID)
		}
		seen[p.ID] = true
	}
	if def.Body == "" {
		return nil, errors.New("empty body")
	}
	if def.PostMix != "" && def.Category != Generator {
		return nil, errors.New("post-mix body on non-generator")
	}
	body, err := ParseTemplate(def.Body, def.Params)
	if err != nil {
		return nil, err
	}
	postMix, err := ParseTemplate(def.PostMix, def.Params)
	if err != nil {
		return nil, fmt.Errorf("post-mix: %w", err)
	}
	return &Effect{Definition: def, body: body, postMix: postMix}, nil
}

// Lookup resolves an effect id. The second return is false for dangling ids.
func (r *Registry) Lookup(id string) (*Effect, bool) {
	e, ok := r.effects[id]
	return e, ok
}

// IDs returns all registered effect ids in lexical order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.effects))
	for id := range r.effects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered effects.
func (r *Registry) Len() int { return len(r.effects) }
