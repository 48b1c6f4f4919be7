package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/baleybots/go-bal/eventlog"
)

func events(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: bal events <log.jsonl>

Summarize a compile event log written by the server.
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("log file required")
	}

	evs, err := eventlog.Read(fs.Arg(0))
	if err != nil {
		return err
	}

	s := eventlog.Summarize(evs)
	fmt.Println("=== Compile Event Log Summary ===")
	fmt.Printf("Events: %d\n", s.NumEvents)
	fmt.Printf("Failed: %d\n", s.NumFailed)
	fmt.Printf("Unique sources: %d\n", s.UniqueSources)
	fmt.Printf("Avg duration: %.1fms\n", s.AvgDurationMS)
	if s.NumEvents > 0 {
		fmt.Printf("Time range: %s to %s\n",
			s.StartTime.Format("2006-01-02 15:04:05"),
			s.EndTime.Format("2006-01-02 15:04:05"))
	}

	return nil
}
