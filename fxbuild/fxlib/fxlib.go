// Package fxlib holds the shared GLSL helper functions effect bodies may
// require. Helpers form a small static dependency graph; Resolve emits each
// required helper exactly once with dependencies before dependents, in the
// fixed registration order, so resolution output is reproducible for
// identical inputs.
package fxlib

import (
	_ "embed"
	"errors"
	"fmt"
)

// ErrUnknownHelper is returned when an effect requires a helper name the
// library does not register.
var ErrUnknownHelper = errors.New("unknown helper")

var (
	//go:embed hash21.glsl
	hash21Src []byte
	//go:embed hash22.glsl
	hash22Src []byte
	//go:embed vnoise.glsl
	vnoiseSrc []byte
	//go:embed fbm.glsl
	fbmSrc []byte
	//go:embed voronoi2.glsl
	voronoi2Src []byte
	//go:embed rot2d.glsl
	rot2dSrc []byte
)

// Helper is one registered library function.
type Helper struct {
	// Name is the GLSL function name effect definitions reference.
	Name string
	// Deps names helpers this one calls. Dependencies register before
	// dependents, which makes registration order a topological order.
	Deps []string
	src  []byte
}

// Library is an immutable set of helpers with a fixed emission order.
type Library struct {
	order   []string
	helpers map[string]Helper
}

// Default returns the library of built-in helpers.
func Default() *Library {
	lib, err := New(
		Helper{Name: "hash21", src: hash21Src},
		Helper{Name: "hash22", src: hash22Src},
		Helper{Name: "vnoise", Deps: []string{"hash21"}, src: vnoiseSrc},
		Helper{Name: "fbm", Deps: []string{"vnoise"}, src: fbmSrc},
		Helper{Name: "voronoi2", Deps: []string{"hash22"}, src: voronoi2Src},
		Helper{Name: "rot2d", src: rot2dSrc},
	)
	if err != nil {
		panic(err) // Built-in registrations are validated by tests.
	}
	return lib
}

// New builds a library from helpers in registration order. Every declared
// dependency must be registered before its dependent.
func New(helpers ...Helper) (*Library, error) {
	lib := &Library{helpers: make(map[string]Helper, len(helpers))}
	for _, h := range helpers {
		if len(h.src) == 0 {
			return nil, fmt.Errorf("helper %q: empty source", h.Name)
		}
		if _, exists := lib.helpers[h.Name]; exists {
			return nil, fmt.Errorf("helper %q: duplicate registration", h.Name)
		}
		for _, dep := range h.Deps {
			if _, ok := lib.helpers[dep]; !ok {
				return nil, fmt.Errorf("helper %q: dependency %q not registered before it", h.Name, dep)
			}
		}
		lib.helpers[h.Name] = h
		lib.order = append(lib.order, h.Name)
	}
	return lib, nil
}

// MakeHelper wraps raw GLSL function source as a Helper for custom libraries.
func MakeHelper(name string, src []byte, deps ...string) Helper {
	return Helper{Name: name, Deps: deps, src: src}
}

// Resolve appends the source of every required helper to dst, dependencies
// first, each exactly once, in registration order.
func (lib *Library) Resolve(dst []byte, required []string) ([]byte, error) {
	need := make(map[string]bool, len(required))
	var mark func(name string) error
	mark = func(name string) error {
		h, ok := lib.helpers[name]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownHelper, name)
		}
		if need[name] {
			return nil
		}
		need[name] = true
		for _, dep := range h.Deps {
			if err := mark(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range required {
		if err := mark(name); err != nil {
			return dst, err
		}
	}
	for _, name := range lib.order {
		if !need[name] {
			continue
		}
		dst = append(dst, lib.helpers[name].src...)
		if dst[len(dst)-1] != '\n' {
			dst = append(dst, '\n')
		}
		dst = append(dst, '\n')
	}
	return dst, nil
}

// Has reports whether the library registers the named helper.
func (lib *Library) Has(name string) bool {
	_, ok := lib.helpers[name]
	return ok
}
