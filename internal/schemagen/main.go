// Command schemagen writes the JSON schema of a pagelegend API type.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/macropower/pagelegend/api/v1beta1/configs"
	"github.com/macropower/pagelegend/api/v1beta1/legends"
	"github.com/macropower/pagelegend/pkg/yaml"
)

const modulePath = "github.com/macropower/pagelegend"

var (
	outFile = flag.String("o", "schema.json", "Output file for the generated schema")
	typ     = flag.String("type", "config", "Type to generate, one of: config, legend")
	root    = flag.String("root", "../../..", "Path to the module root, for Go doc comments")
)

func main() {
	flag.Parse()

	var v any

	switch *typ {
	case "config":
		v = configs.New()
	case "legend":
		v = legends.New()
	default:
		log.Fatalf("unknown type %q", *typ)
	}

	out, err := filepath.Abs(*outFile)
	if err != nil {
		log.Fatalf("resolve output path: %v", err)
	}

	// Comments are keyed by import path, so walk from the module root.
	err = os.Chdir(*root)
	if err != nil {
		log.Fatalf("change to module root: %v", err)
	}

	gen := yaml.NewSchemaGenerator(v,
		yaml.WithGoComments(modulePath, "./"),
	)
	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(out, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
