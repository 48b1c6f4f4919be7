package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "parse":
		if err := parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "visual":
		if err := visual(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "render":
		if err := render(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := check(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "events":
		if err := events(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "serve":
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Printf("bal version %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`bal - Baleybots Assembly Language toolchain

Usage:
  bal <command> [options]

Commands:
  parse      Parse BAL source into entity configs and pipeline order
  visual     Compile BAL source into a visual graph (JSON)
  render     Compile BAL source and render the graph as SVG
  check      Parse and lint BAL source, exit non-zero on errors
  events     Summarize a compile event log
  serve      Run the HTTP API and live-parse WebSocket server
  help       Show this help message
  version    Show version information

Examples:
  # Parse a program and print the result
  bal parse workflow.bal

  # Compile to a visual graph
  bal visual workflow.bal --output graph.json

  # Render the graph as SVG
  bal render workflow.bal --output graph.svg

  # Lint in CI
  bal check workflow.bal

For command-specific help, run:
  bal <command> --help`)
}
