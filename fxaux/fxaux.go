// Package fxaux bundles quick-start helpers around the composition and
// baking packages.
package fxaux

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxbuild"
	"github.com/glslfx/glslfx/fxview"
)

type ExportConfig struct {
	// ComposedOutput receives the uniform-driven fragment shader.
	ComposedOutput io.Writer
	// BakedOutput receives the standalone shader with parameter and color
	// uniforms replaced by literals.
	BakedOutput io.Writer
	Silent      bool
}

// Export is an auxiliary function to aid users in getting set up quickly.
// Ideally users should drive [fxbuild.Composer] directly since applications
// may vary widely.
func Export(s *glslfx.Stack, cfg ExportConfig) (err error) {
	if cfg.ComposedOutput == nil && cfg.BakedOutput == nil {
		return errors.New("Export requires output parameter in config")
	}
	log := func(args ...any) {
		if !cfg.Silent {
			fmt.Println(args...)
		}
	}
	cmp := fxbuild.NewComposer()
	watch := stopwatch()
	composed, err := cmp.ComposeStack(s)
	if err != nil {
		return fmt.Errorf("composing fragment shader: %s", err)
	}
	log("composed", len(composed.Params), "parameters in", watch())

	if cfg.ComposedOutput != nil {
		watch = stopwatch()
		_, err = io.WriteString(cfg.ComposedOutput, composed.Source)
		if err != nil {
			return fmt.Errorf("writing composed GLSL: %s", err)
		}
		log("wrote", outputName(cfg.ComposedOutput, "composed GLSL"), "in", watch())
	}

	if cfg.BakedOutput != nil {
		watch = stopwatch()
		baked := fxbuild.BakeStack(composed, s)
		_, err = io.WriteString(cfg.BakedOutput, baked)
		if err != nil {
			return fmt.Errorf("writing baked GLSL: %s", err)
		}
		log("wrote", outputName(cfg.BakedOutput, "baked GLSL"), "in", watch())
	}
	return nil
}

// UI previews the stack in a window. It blocks until the window closes.
func UI(s *glslfx.Stack, width, height int) error {
	return fxview.UI(s, fxview.Config{Width: width, Height: height})
}

func outputName(w io.Writer, fallback string) string {
	if fp, ok := w.(*os.File); ok {
		return fp.Name()
	}
	return fallback
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
