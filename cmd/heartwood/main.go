// Command heartwood evaluates a Lisp CSG script and writes the
// resulting polygonal mesh as Wavefront OBJ.
//
// Usage:
//
//	heartwood [-o out.obj] script.lisp
//	heartwood -e '(union (box 0 0 0 2 2 2) (box 1 1 1 3 3 3))'
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chazu/heartwood/pkg/engine"
	"github.com/chazu/heartwood/pkg/mesh"
)

func main() {
	out := flag.String("o", "", "output OBJ file (default stdout)")
	expr := flag.String("e", "", "evaluate an inline expression instead of a script file")
	flag.Parse()

	var source string
	switch {
	case *expr != "":
		source = *expr
	case flag.NArg() == 1:
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("read script: %v", err)
		}
		source = string(data)
	default:
		fmt.Fprintln(os.Stderr, "usage: heartwood [-o out.obj] script.lisp | heartwood -e EXPR")
		os.Exit(2)
	}

	res, evalErrs, err := engine.NewEngine().Evaluate(source)
	if err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(os.Stderr, "error: %s\n", e.Error())
		}
		os.Exit(1)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := mesh.WriteOBJ(w, res.Mesh); err != nil {
		log.Fatalf("write obj: %v", err)
	}
}
