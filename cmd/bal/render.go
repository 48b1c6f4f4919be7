package main

import (
	"flag"
	"fmt"
	"os"

	balvisual "github.com/baleybots/go-bal/visual"
	"github.com/baleybots/go-bal/visualization"
)

func render(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	output := fs.String("output", "", "Output SVG file (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal render <source.bal> [options]

Compile BAL source and render the visual graph as SVG.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Render a workflow
  bal render workflow.bal --output workflow.svg
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("source file required")
	}

	if *output == "" {
		fs.Usage()
		return fmt.Errorf("--output required")
	}

	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	comp := balvisual.Compile(string(source))
	if len(comp.Errors) > 0 {
		for _, e := range comp.Errors {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return fmt.Errorf("%d compile error(s)", len(comp.Errors))
	}

	if err := visualization.SaveSVG(&comp.Graph, *output); err != nil {
		return fmt.Errorf("generate SVG: %w", err)
	}

	fmt.Printf("✓ Visualization saved to %s\n", *output)
	fmt.Printf("  Nodes: %d\n", len(comp.Graph.Nodes))
	fmt.Printf("  Edges: %d\n", len(comp.Graph.Edges))

	return nil
}
