package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/baleybots/go-bal/bal"
)

func parse(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	output := fs.String("output", "", "Output JSON file (default: stdout)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal parse <source.bal> [options]

Parse BAL source into entity configs and pipeline order.

Options:
`)
		fs.PrintDefaults()
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

	result := bal.Parse(string(source))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Result saved to %s\n", *output)
	} else {
		fmt.Println(string(data))
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d parse error(s)", len(result.Errors))
	}
	return nil
}
