package main

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jcz-project/jcz/internal/util"
)

// Reporter prints per-file progress and outcomes to stderr, leaving
// stdout free for scripting. Grounded on the teacher's internal/cli
// Reporter, trimmed to this pipeline's coarser per-file granularity (no
// byte-level progress bar, since compression/encryption here run as
// single external-tool/library calls rather than streamed chunks).
type Reporter struct {
	mu        sync.Mutex
	quiet     bool
	cancelled atomic.Bool
}

// NewReporter builds a Reporter; if quiet, only errors are printed.
func NewReporter(quiet bool) *Reporter {
	return &Reporter{quiet: quiet}
}

// PrintSuccess reports one input's completed output path.
func (r *Reporter) PrintSuccess(format string, args ...any) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// PrintError reports one input's failure; always printed, even in quiet
// mode, since silent failures would defeat batch reporting.
func (r *Reporter) PrintError(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// Cancel marks the run as cancelled in response to SIGINT/SIGTERM.
func (r *Reporter) Cancel() {
	r.cancelled.Store(true)
}

// IsCancelled reports whether Cancel has been called.
func (r *Reporter) IsCancelled() bool {
	return r.cancelled.Load()
}

// outputSummary formats one successful result's output path alongside
// its on-disk size, e.g. "a.txt.gz.jcze (1.50 KiB)".
func outputSummary(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return path
	}
	return fmt.Sprintf("%s (%s)", path, util.Sizeify(info.Size()))
}

// FinishBatch prints a one-line summary of how long a batch took.
func (r *Reporter) FinishBatch(start time.Time, ok, failed int) {
	if r.quiet {
		return
	}
	elapsed := util.Timeify(int(time.Since(start).Seconds()))
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(os.Stderr, "%d ok, %d failed in %s\n", ok, failed, elapsed)
}
