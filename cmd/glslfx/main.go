// Command glslfx composes, bakes, preprocesses and previews effect shaders.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/glslfx/glslfx"
	"github.com/glslfx/glslfx/fxaux"
	"github.com/glslfx/glslfx/fxpre"
	"github.com/glslfx/glslfx/project"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var projectFile = flag.String("project", "", "Project JSON file to compose")
	var composedOut = flag.String("composed", "", "Write uniform-driven fragment shader to file")
	var bakedOut = flag.String("baked", "", "Write baked standalone fragment shader to file")
	var templateFile = flag.String("template", "", "Annotated GLSL template to preprocess instead of composing")
	var listEffects = flag.Bool("effects", false, "List built-in effects and exit")
	var view = flag.Bool("view", false, "Open a live preview window")
	var width = flag.Int("width", 800, "Preview window width")
	var height = flag.Int("height", 600, "Preview window height")
	var quiet = flag.Bool("q", false, "Suppress progress output")
	var help = flag.Bool("help", false, "Show help message")
	flag.Parse()

	if *help {
		fmt.Println("glslfx shader composer")
		flag.PrintDefaults()
		return
	}
	if *listEffects {
		printEffects(glslfx.Builtin())
		return
	}
	if *templateFile != "" {
		if err := preprocess(*templateFile, *composedOut); err != nil {
			log.Fatal(err)
		}
		return
	}
	if *projectFile == "" {
		log.Fatal("nothing to do: pass -project, -template or -effects (see -help)")
	}

	p, err := project.LoadFile(*projectFile)
	if err != nil {
		log.Fatalf("loading project: %s", err)
	}
	stack, err := project.Apply(p, glslfx.Builtin())
	if err != nil {
		log.Fatalf("restoring project: %s", err)
	}

	cfg := fxaux.ExportConfig{Silent: *quiet}
	var closers []*os.File
	if *composedOut != "" {
		fp, err := os.Create(*composedOut)
		if err != nil {
			log.Fatal(err)
		}
		closers = append(closers, fp)
		cfg.ComposedOutput = fp
	}
	if *bakedOut != "" {
		fp, err := os.Create(*bakedOut)
		if err != nil {
			log.Fatal(err)
		}
		closers = append(closers, fp)
		cfg.BakedOutput = fp
	}
	if cfg.ComposedOutput != nil || cfg.BakedOutput != nil {
		if err := fxaux.Export(stack, cfg); err != nil {
			log.Fatal(err)
		}
		for _, fp := range closers {
			if err := fp.Close(); err != nil {
				log.Fatal(err)
			}
		}
	}
	if *view {
		if err := fxaux.UI(stack, *width, *height); err != nil {
			log.Fatal(err)
		}
	}
}

// preprocess rewrites an annotated template and prints the discovered
// parameter declarations.
func preprocess(filename, out string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	res := fxpre.Process(string(src), nil)
	if len(res.Params) == 0 {
		res.Params = fxpre.DetectUniforms(res.Source, nil)
	}
	for _, p := range res.Params {
		fmt.Printf("param %-12s %-6s group=%s\n", p.ID, p.Kind, p.Group)
	}
	if out == "" {
		_, err = os.Stdout.WriteString(res.Source)
		return err
	}
	return os.WriteFile(out, []byte(res.Source), 0o644)
}

func printEffects(reg *glslfx.Registry) {
	for _, id := range reg.IDs() {
		eff, _ := reg.Lookup(id)
		var params []string
		for _, p := range eff.Params {
			params = append(params, p.ID)
		}
		fmt.Printf("%-12s %-12s %s\n", id, eff.Category, strings.Join(params, " "))
	}
}
