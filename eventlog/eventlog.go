// Package eventlog records compile activity as an append-only JSONL
// file. Each line is one parse or compile event; the log is the raw
// material for usage analysis (which programs fail most, how long
// compilation takes).
package eventlog

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Event kinds.
const (
	KindParse   = "parse"
	KindCompile = "compile"
)

// Event is a single compile-activity record.
type Event struct {
	Time       time.Time `json:"time"`
	Kind       string    `json:"kind"`
	SourceHash string    `json:"source_hash"`
	Entities   int       `json:"entities"`
	Errors     int       `json:"errors"`
	DurationMS int64     `json:"duration_ms"`
}

// HashSource returns the hex digest used as a source identifier in
// events. Hashing keeps program text out of the log.
func HashSource(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Log appends events to a JSONL file. Safe for concurrent use.
type Log struct {
	mu sync.Mutex
	f  *os.File
	w  *bufio.Writer
}

// Open opens (or creates) the log file for appending.
func Open(filename string) (*Log, error) {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Log{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one event. A zero Time is stamped with the current time.
func (l *Log) Append(ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.w.Write(data); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return l.w.Flush()
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.f.Close()
}

// Read parses all events from a JSONL log file.
func Read(filename string) ([]Event, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	defer f.Close()

	return ReadFrom(f)
}

// ReadFrom parses events from a JSONL reader. Empty lines are skipped;
// a malformed line fails the whole read with its line number.
func ReadFrom(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		events = append(events, ev)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log: %w", err)
	}
	return events, nil
}

// Summary provides basic statistics over a set of events.
type Summary struct {
	NumEvents     int
	NumFailed     int
	UniqueSources int
	AvgDurationMS float64
	StartTime     time.Time
	EndTime       time.Time
}

// Summarize computes summary statistics for a slice of events.
func Summarize(events []Event) Summary {
	summary := Summary{NumEvents: len(events)}
	if len(events) == 0 {
		return summary
	}

	sources := make(map[string]bool)
	var totalDuration int64

	summary.StartTime = events[0].Time
	summary.EndTime = events[0].Time

	for _, ev := range events {
		if ev.Errors > 0 {
			summary.NumFailed++
		}
		sources[ev.SourceHash] = true
		totalDuration += ev.DurationMS

		if ev.Time.Before(summary.StartTime) {
			summary.StartTime = ev.Time
		}
		if ev.Time.After(summary.EndTime) {
			summary.EndTime = ev.Time
		}
	}

	summary.UniqueSources = len(sources)
	summary.AvgDurationMS = float64(totalDuration) / float64(len(events))
	return summary
}
