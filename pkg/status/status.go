// Package status turns pipeline results into user-facing console output.
package status

import (
	"fmt"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// 🎯 Outcome is the result of running one rule against one file
type Outcome struct {
	Path          string
	Rule          string
	LinesConsumed int
	LinesInserted int
	DryRun        bool
	Err           error
}

// 🔌 Reporter receives user-facing progress from operations
type Reporter interface {
	// FilePatched reports a successful (or would-be, in a dry run) patch
	FilePatched(o Outcome)

	// FileFailed reports a terminal failure for one file
	FileFailed(o Outcome)

	// Preview prints a rendered diff for a pending change
	Preview(path string, rendered string)

	// Summary closes the run
	Summary(patched, failed int)
}

// 🖥️ ConsoleReporter prints pterm-prefixed lines to the terminal. Safe for
// concurrent use; async runs interleave whole lines, never partial ones.
type ConsoleReporter struct {
	mu sync.Mutex
}

// 🏭 NewConsoleReporter creates a new ConsoleReporter
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{}
}

// FilePatched implements Reporter.FilePatched
func (r *ConsoleReporter) FilePatched(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule := color.CyanString(o.Rule)
	if o.DryRun {
		pterm.Info.WithPrefix(pterm.Prefix{Text: "📝"}).Printf("would patch %s (%s: -%d +%d lines)\n", o.Path, rule, o.LinesConsumed, o.LinesInserted)
		return
	}
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✓"}).Printf("patched %s (%s: -%d +%d lines)\n", o.Path, rule, o.LinesConsumed, o.LinesInserted)
}

// FileFailed implements Reporter.FileFailed
func (r *ConsoleReporter) FileFailed(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pterm.Error.WithPrefix(pterm.Prefix{Text: "✗"}).Printf("%s: %v\n", o.Path, o.Err)
}

// Preview implements Reporter.Preview
func (r *ConsoleReporter) Preview(path string, rendered string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pterm.Info.WithPrefix(pterm.Prefix{Text: "📋"}).Printf("pending change for %s\n", path)
	fmt.Print(rendered)
}

// Summary implements Reporter.Summary
func (r *ConsoleReporter) Summary(patched, failed int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if failed > 0 {
		pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Printf("%d file(s) failed, %d patched\n", failed, patched)
		return
	}
	pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Printf("%d file(s) patched\n", patched)
}

// 🤫 NopReporter discards everything. Used by tests and library callers that
// only want the returned errors.
type NopReporter struct{}

// FilePatched implements Reporter.FilePatched
func (NopReporter) FilePatched(Outcome) {}

// FileFailed implements Reporter.FileFailed
func (NopReporter) FileFailed(Outcome) {}

// Preview implements Reporter.Preview
func (NopReporter) Preview(string, string) {}

// Summary implements Reporter.Summary
func (NopReporter) Summary(int, int) {}

// TODO(dr.methodical): 🧪 Add tests capturing ConsoleReporter output via pterm.SetDefaultOutput
