package fxlib_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/glslfx/glslfx/fxbuild/fxlib"
)

func TestResolveEmitsDependenciesFirst(t *testing.T) {
	lib := fxlib.Default()
	out, err := lib.Resolve(nil, []string{"fbm"})
	if err != nil {
		t.Fatal(err)
	}
	src := string(out)
	iHash := strings.Index(src, "float hash21(")
	iNoise := strings.Index(src, "float vnoise(")
	iFbm := strings.Index(src, "float fbm(")
	if iHash < 0 || iNoise < 0 || iFbm < 0 {
		t.Fatalf("missing helper in output:\n%s", src)
	}
	if !(iHash < iNoise && iNoise < iFbm) {
		t.Errorf("dependency order violated: hash21@%d vnoise@%d fbm@%d", iHash, iNoise, iFbm)
	}
	if strings.Contains(src, "voronoi2") || strings.Contains(src, "rot2d") {
		t.Error("unrequired helpers emitted")
	}
}

func TestResolveDeduplicates(t *testing.T) {
	lib := fxlib.Default()
	out, err := lib.Resolve(nil, []string{"fbm", "vnoise", "fbm", "hash21", "fbm"})
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(out), "float vnoise("); n != 1 {
		t.Errorf("vnoise emitted %d times", n)
	}
	if n := strings.Count(string(out), "float fbm("); n != 1 {
		t.Errorf("fbm emitted %d times", n)
	}
}

func TestResolveIsReproducible(t *testing.T) {
	lib := fxlib.Default()
	a, err := lib.Resolve(nil, []string{"voronoi2", "rot2d", "fbm"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := lib.Resolve(nil, []string{"voronoi2", "rot2d", "fbm"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs resolved to different output")
	}
}

func TestResolveUnknownHelper(t *testing.T) {
	lib := fxlib.Default()
	_, err := lib.Resolve(nil, []string{"perlin4d"})
	if !errors.Is(err, fxlib.ErrUnknownHelper) {
		t.Errorf("want ErrUnknownHelper, got %v", err)
	}
}

func TestNewRejectsForwardDependency(t *testing.T) {
	src := []byte("float f(float x) { return g(x); }\n")
	_, err := fxlib.New(fxlib.MakeHelper("f", src, "g"))
	if err == nil {
		t.Error("want error for dependency registered after dependent")
	}
	_, err = fxlib.New(
		fxlib.MakeHelper("g", []byte("float g(float x) { return x; }\n")),
		fxlib.MakeHelper("f", src, "g"),
	)
	if err != nil {
		t.Errorf("valid registration order rejected: %v", err)
	}
	_, err = fxlib.New(
		fxlib.MakeHelper("g", []byte("float g(float x) { return x; }\n")),
		fxlib.MakeHelper("g", []byte("float g(float x) { return x; }\n")),
	)
	if err == nil {
		t.Error("want error for duplicate registration")
	}
}

func TestDefaultRegistersAllHelpers(t *testing.T) {
	lib := fxlib.Default()
	for _, name := range []string{"hash21", "hash22", "vnoise", "fbm", "voronoi2", "rot2d"} {
		if !lib.Has(name) {
			t.Errorf("default library missing %s", name)
		}
	}
}
