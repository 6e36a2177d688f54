// Package orchestrator validates a batch of inputs, dispatches each to
// the Pipeline Composer across a bounded worker pool, and collects a
// BatchResult without ever letting one input's failure cancel its
// siblings.
package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/log"
	"github.com/jcz-project/jcz/internal/pipeline"
)

// Result is one input's outcome: either a successful output path or a
// classified error, never both.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Ok reports whether this input's task completed successfully.
func (r Result) Ok() bool { return r.Err == nil }

// BatchResult is the ordered outcome of one orchestrated operation; its
// length always equals the deduplicated input list.
type BatchResult struct {
	Results []Result
}

// Failed returns every result whose task errored.
func (b BatchResult) Failed() []Result {
	var out []Result
	for _, r := range b.Results {
		if !r.Ok() {
			out = append(out, r)
		}
	}
	return out
}

// AllOk reports whether every input in the batch succeeded.
func (b BatchResult) AllOk() bool {
	return len(b.Failed()) == 0
}

// Orchestrator validates batches and dispatches them to a Composer
// across a bounded worker pool.
type Orchestrator struct {
	Composer *pipeline.Composer
}

// New builds an Orchestrator around the given Composer.
func New(composer *pipeline.Composer) *Orchestrator {
	return &Orchestrator{Composer: composer}
}

// workerCount bounds the pool at min(NumCPU, len(inputs)); spec.md
// describes "work-stealing is sufficient" without mandating a specific
// pool size, so this is the only constraint this release imposes.
func workerCount(n int) int {
	cpu := runtime.NumCPU()
	if n < cpu {
		return n
	}
	return cpu
}

// CompressBatch validates and dispatches a forward (compress, optionally
// encrypt) operation across inputs, applying the same CompressionSpec
// and EncryptionSpec to every file.
func (o *Orchestrator) CompressBatch(ctx context.Context, inputs []string, spec pipeline.CompressionSpec, enc pipeline.EncryptionSpec) (BatchResult, error) {
	resolved, err := ValidateCompressInputs(inputs, spec)
	if err != nil {
		return BatchResult{}, err
	}

	results := make([]Result, len(resolved))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(resolved)))

	for i, input := range resolved {
		i, input := i, input
		g.Go(func() error {
			out, err := o.Composer.Forward(gctx, input, spec, enc)
			results[i] = Result{Input: input, Output: out, Err: err}
			if err != nil {
				log.Warn("compress task failed", log.Path("input", input), log.Err(err))
			}
			return nil // never cancel sibling tasks (spec Property 8)
		})
	}
	// errgroup.Wait only returns non-nil if a Go func returned non-nil,
	// which never happens here — per-file errors are captured in results.
	_ = g.Wait()

	return BatchResult{Results: results}, nil
}

// DecompressBatch validates and dispatches a reverse (decrypt-if-needed,
// then decompress) operation across inputs.
func (o *Orchestrator) DecompressBatch(ctx context.Context, inputs []string, dec pipeline.DecryptionSpec) (BatchResult, error) {
	resolved, err := ValidateDecompressInputs(inputs)
	if err != nil {
		return BatchResult{}, err
	}

	results := make([]Result, len(resolved))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(resolved)))

	for i, input := range resolved {
		i, input := i, input
		g.Go(func() error {
			out, err := o.Composer.Reverse(gctx, input, dec)
			results[i] = Result{Input: input, Output: out, Err: err}
			if err != nil {
				log.Warn("decompress task failed", log.Path("input", input), log.Err(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return BatchResult{Results: results}, nil
}

// ensureMoveToWritable creates moveTo if missing and verifies it is a
// writable directory.
func ensureMoveToWritable(moveTo string) error {
	if moveTo == "" {
		return nil
	}
	if err := os.MkdirAll(moveTo, 0755); err != nil {
		return jczerrors.NewFileError("mkdir", moveTo, err)
	}
	probe := filepath.Join(moveTo, ".jcz-write-probe")
	f, err := os.Create(probe)
	if err != nil {
		return jczerrors.NewFileError("write-probe", moveTo, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}
