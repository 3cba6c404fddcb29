//go:build tinygo || !cgo

package fxview

import (
	"errors"

	"github.com/glslfx/glslfx"
)

// UI requires cgo for an OpenGL context.
func UI(s *glslfx.Stack, cfg Config) error {
	return errors.New("require cgo for shader preview")
}
