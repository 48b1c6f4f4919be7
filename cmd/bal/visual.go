package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/baleybots/go-bal/graphio"
	balvisual "github.com/baleybots/go-bal/visual"
)

func visual(args []string) error {
	fs := flag.NewFlagSet("visual", flag.ExitOnError)
	output := fs.String("output", "", "Output JSON file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal visual <source.bal> [options]

Compile BAL source into a visual graph with layout coordinates.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Compile to graph JSON
  bal visual workflow.bal --output graph.json
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("source file required")
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

	data, err := graphio.ToJSON(&comp.Graph)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Graph saved to %s\n", *output)
	} else {
		fmt.Println(string(data))
	}

	fmt.Fprintf(os.Stderr, "  Nodes: %d\n", len(comp.Graph.Nodes))
	fmt.Fprintf(os.Stderr, "  Edges: %d\n", len(comp.Graph.Edges))

	return nil
}
