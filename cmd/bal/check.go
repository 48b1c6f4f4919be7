package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/baleybots/go-bal/bal"
)

func check(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal check <source.bal>

Parse and lint BAL source. Exits non-zero when the source has parse
errors; soft issues (missing goals, invalid cron schedules, pipeline
references to undeclared entities) are reported as warnings.
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

	result := bal.Parse(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "error: %s\n", e)
		}
		return fmt.Errorf("%d parse error(s)", len(result.Errors))
	}

	warnings := lint(result)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	fmt.Printf("✓ %s: %d entities, %d warnings\n", fs.Arg(0), len(result.Entities), len(warnings))
	return nil
}

// lint reports soft issues a valid program can still carry.
func lint(result *bal.Result) []string {
	var warnings []string

	known := make(map[string]bool, len(result.Entities))
	for _, e := range result.Entities {
		known[e.Name] = true

		if e.Config.Goal == "" {
			warnings = append(warnings, fmt.Sprintf("entity %q has no goal", e.Name))
		}
		if t := e.Config.Trigger; t != nil && !bal.ValidateSchedule(t) {
			warnings = append(warnings, fmt.Sprintf("entity %q has invalid cron schedule %q", e.Name, t.Schedule))
		}
	}

	// Trigger references can point forward, so resolve them after all
	// names are known.

	for _, e := range result.Entities {
		if t := e.Config.Trigger; t != nil && t.Type == bal.TriggerOtherBB && !known[t.SourceBaleybotID] {
			warnings = append(warnings, fmt.Sprintf("entity %q triggers on unknown baleybot %q", e.Name, t.SourceBaleybotID))
		}
	}

	for _, name := range result.Chain {
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("pipeline references undeclared entity %q", name))
		}
	}

	return warnings
}
