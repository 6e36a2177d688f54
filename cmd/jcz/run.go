package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jcz-project/jcz/internal/compressor"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/orchestrator"
	"github.com/jcz-project/jcz/internal/pipeline"
	"github.com/spf13/cobra"
)

// Flag-backed option variables, mirroring the teacher's package-level
// flag variable convention (internal/cli/encrypt.go, decrypt.go).
var (
	optFormat          string
	optDecompress      bool
	optLevel           int
	optTimestamp       int
	optDest            string
	optCollectFlat     string
	optCollectParent   string
	optEncryptPassword bool
	optEncryptKey      string
	optDecryptKey      string
	optRemoveEncrypted bool
	optForce           bool
	optQuiet           bool
	optDryRun          bool
	optLogLevel        string
)

func runRoot(cmd *cobra.Command, args []string) error {
	configureLogging()

	if optFormat != "" && optDecompress {
		return fmt.Errorf("-c and -d are mutually exclusive")
	}
	if optFormat == "" && !optDecompress {
		return fmt.Errorf("one of -c <format> or -d is required")
	}
	if len(args) == 0 {
		return jczerrors.ErrNoInputFiles
	}

	if optDecompress {
		return runDecompress(cmd.Context(), args)
	}
	return runCompress(cmd.Context(), args)
}

func buildCompressionSpec() (pipeline.CompressionSpec, error) {
	format := compressor.Format(optFormat)
	switch format {
	case compressor.Gzip, compressor.Bzip2, compressor.Xz, compressor.Zip,
		compressor.Tar, compressor.Tgz, compressor.Tbz2, compressor.Txz:
	default:
		return pipeline.CompressionSpec{}, jczerrors.NewValidationError("compress", "unrecognized format "+optFormat)
	}

	mode := TimestampModeFromInt(optTimestamp)
	if mode < 0 {
		return pipeline.CompressionSpec{}, jczerrors.NewValidationError("timestamp", "must be 0-3")
	}

	var collection *pipeline.CollectionSpec
	switch {
	case optCollectFlat != "" && optCollectParent != "":
		return pipeline.CompressionSpec{}, jczerrors.ErrMutuallyExclusive
	case optCollectFlat != "":
		collection = &pipeline.CollectionSpec{Name: optCollectFlat, Mode: pipeline.CollectionFlat}
	case optCollectParent != "":
		collection = &pipeline.CollectionSpec{Name: optCollectParent, Mode: pipeline.CollectionWithParent}
	}

	return pipeline.CompressionSpec{
		Format:        format,
		Level:         optLevel,
		TimestampMode: mode,
		MoveTo:        optDest,
		Collection:    collection,
	}, nil
}

// TimestampModeFromInt maps the --timestamp integer flag to a
// pipeline.TimestampMode, returning -1 for an out-of-range value.
func TimestampModeFromInt(n int) pipeline.TimestampMode {
	switch n {
	case 0:
		return pipeline.TimestampNone
	case 1:
		return pipeline.TimestampDate
	case 2:
		return pipeline.TimestampDateTime
	case 3:
		return pipeline.TimestampNanoseconds
	default:
		return -1
	}
}

func runCompress(ctx context.Context, inputs []string) error {
	spec, err := buildCompressionSpec()
	if err != nil {
		return err
	}

	var prompter pipeline.PasswordPrompter
	if optEncryptPassword {
		prompter = func() ([]byte, error) { return readPasswordInteractive(true) }
	}
	enc, err := orchestrator.ResolveEncryptionSpec(orchestrator.EncryptOptions{
		Password:     prompter,
		RsaPublicKey: optEncryptKey,
	})
	if err != nil {
		return err
	}

	if optDryRun {
		return runDryRun(inputs, spec)
	}

	orch := orchestrator.New(pipeline.NewComposer(compressor.NewExecCompressor()))
	reporter := NewReporter(optQuiet)
	globalReporter = reporter
	start := time.Now()

	batch, err := orch.CompressBatch(ctx, inputs, spec, enc)
	if err != nil {
		return err
	}
	err = reportBatch(reporter, batch)
	reporter.FinishBatch(start, len(batch.Results)-len(batch.Failed()), len(batch.Failed()))
	return err
}

func runDecompress(ctx context.Context, inputs []string) error {
	var prompter pipeline.PasswordPrompter
	if optDecryptKey == "" {
		prompter = func() ([]byte, error) { return readPasswordInteractive(false) }
	}
	_, _, _, err := orchestrator.ResolveDecryptionSpec(orchestrator.DecryptOptions{
		RsaPrivateKey: optDecryptKey,
	})
	if err != nil {
		return err
	}

	dec := pipeline.DecryptionSpec{
		PasswordPrompt:    prompter,
		RsaPrivateKeyPath: optDecryptKey,
		RemoveEncrypted:   optRemoveEncrypted,
		Force:             optForce,
		MoveTo:            optDest,
	}

	if optDryRun {
		return runDryRunDecompress(inputs)
	}

	orch := orchestrator.New(pipeline.NewComposer(compressor.NewExecCompressor()))
	reporter := NewReporter(optQuiet)
	globalReporter = reporter
	start := time.Now()

	batch, err := orch.DecompressBatch(ctx, inputs, dec)
	if err != nil {
		return err
	}
	err = reportBatch(reporter, batch)
	reporter.FinishBatch(start, len(batch.Results)-len(batch.Failed()), len(batch.Failed()))
	return err
}

func runDryRun(inputs []string, spec pipeline.CompressionSpec) error {
	return printValidation(orchestrator.Validate(inputs, spec))
}

func runDryRunDecompress(inputs []string) error {
	return printValidation(orchestrator.ValidateDecompress(inputs))
}

func printValidation(report orchestrator.ValidationReport) error {
	for _, in := range report.Inputs {
		fmt.Fprintf(os.Stderr, "ok: %s\n", in)
	}
	for _, err := range report.Errs {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if !report.OK() {
		exitCode = 1
	}
	return nil
}

func reportBatch(reporter *Reporter, batch orchestrator.BatchResult) error {
	for _, r := range batch.Results {
		if r.Ok() {
			reporter.PrintSuccess("%s -> %s", r.Input, outputSummary(r.Output))
		} else {
			reporter.PrintError("%s: %v", r.Input, r.Err)
		}
	}
	if !batch.AllOk() {
		exitCode = 1
	}
	return nil
}
