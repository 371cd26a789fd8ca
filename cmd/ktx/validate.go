package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evrktx/ktxvalidate/internal/ktx"
)

// runValidate implements `ktx validate`, following cmd/evrtools's
// per-mode flag.FlagSet + run-function pattern.
func runValidate(args []string) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	format := fs.String("format", "text", "Output format: text, json, mini-json")
	gltfBasisu := fs.Bool("gltf-basisu", false, "Additionally check KHR_texture_basisu glTF compatibility")
	fs.BoolVar(gltfBasisu, "g", false, "Shorthand for --gltf-basisu")
	warnAsErrors := fs.Bool("warnings-as-errors", false, "Treat warnings as errors")
	fs.BoolVar(warnAsErrors, "e", false, "Shorthand for --warnings-as-errors")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ktx validate: expected exactly one INPUT_FILE")
		return 1
	}
	if *format != "text" && *format != "json" && *format != "mini-json" {
		fmt.Fprintf(os.Stderr, "ktx validate: unknown --format %q\n", *format)
		return 1
	}

	result, err := ktx.ValidateFile(fs.Arg(0), ktx.Options{
		WarnAsErrors: *warnAsErrors,
		GltfBasisu:   *gltfBasisu,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ktx validate: %v\n", err)
		return 1
	}

	switch *format {
	case "text":
		fmt.Println(result.TextReport())
	case "json":
		out, _ := result.JSONReport(false)
		fmt.Println(string(out))
	case "mini-json":
		out, _ := result.JSONReport(true)
		fmt.Println(string(out))
	}

	return result.ExitCode()
}
