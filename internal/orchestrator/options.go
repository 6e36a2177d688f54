package orchestrator

import (
	"path/filepath"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/pipeline"
)

// EncryptOptions mirrors the raw CLI flags for a compress+encrypt
// invocation before they're turned into an EncryptionSpec, so mutual
// exclusion can be enforced once, in one place, regardless of caller.
type EncryptOptions struct {
	Password       pipeline.PasswordPrompter
	RsaPublicKey   string
	CollectionName string
}

// ResolveEncryptionSpec enforces that --encrypt-password and
// --encrypt-key are mutually exclusive, then builds the EncryptionSpec
// the pipeline expects. Neither set means "no encryption", which is a
// valid compress-only invocation.
func ResolveEncryptionSpec(opts EncryptOptions) (pipeline.EncryptionSpec, error) {
	hasPassword := opts.Password != nil
	hasKey := opts.RsaPublicKey != ""

	if hasPassword && hasKey {
		return pipeline.EncryptionSpec{}, jczerrors.ErrMutuallyExclusive
	}
	if hasPassword {
		return pipeline.EncryptionSpec{Kind: pipeline.EncryptionPassword, PasswordPrompt: opts.Password}, nil
	}
	if hasKey {
		return pipeline.EncryptionSpec{Kind: pipeline.EncryptionRsaPublicKey, RsaPublicKeyPath: opts.RsaPublicKey}, nil
	}
	return pipeline.EncryptionSpec{Kind: pipeline.EncryptionNone}, nil
}

// DecryptOptions mirrors the raw CLI flags for a decrypt+decompress
// invocation.
type DecryptOptions struct {
	Password      pipeline.PasswordPrompter
	RsaPrivateKey string
}

// ResolveDecryptionSpec enforces that a password prompter and
// --decrypt-key are mutually exclusive. Neither set is valid: Reverse still needs to know
// which cipher to try if the input turns out to be a container.
func ResolveDecryptionSpec(opts DecryptOptions) (pipeline.DecryptionKind, pipeline.PasswordPrompter, string, error) {
	hasPassword := opts.Password != nil
	hasKey := opts.RsaPrivateKey != ""

	if hasPassword && hasKey {
		return 0, nil, "", jczerrors.ErrMutuallyExclusive
	}
	if hasPassword {
		return pipeline.DecryptionPassword, opts.Password, "", nil
	}
	if hasKey {
		return pipeline.DecryptionRsaPrivateKey, nil, opts.RsaPrivateKey, nil
	}
	return pipeline.DecryptionNone, nil, "", nil
}

// ValidationReport is the result of Validate: a dry run of every input
// check a CompressBatch/DecompressBatch call would perform, without
// dispatching any pipeline task.
type ValidationReport struct {
	Inputs []string
	Errs   []error
}

// OK reports whether every input passed validation.
func (r ValidationReport) OK() bool { return len(r.Errs) == 0 }

// Validate runs the same input checks CompressBatch runs, without
// dispatching any pipeline task. Like CompressBatch, it creates MoveTo if
// missing and writes and removes a probe file there. It backs
// `jcz --dry-run` for a compress invocation: callers can surface what
// would happen to a batch before committing to it.
func Validate(inputs []string, spec pipeline.CompressionSpec) ValidationReport {
	resolved, err := ValidateCompressInputs(inputs, spec)
	return reportFrom(resolved, err)
}

// ValidateDecompress runs the same checks DecompressBatch runs. It backs
// `jcz -d --dry-run`.
func ValidateDecompress(inputs []string) ValidationReport {
	resolved, err := ValidateDecompressInputs(inputs)
	return reportFrom(resolved, err)
}

func reportFrom(resolved []string, err error) ValidationReport {
	if err != nil {
		return ValidationReport{Errs: []error{err}}
	}
	abs := make([]string, len(resolved))
	for i, in := range resolved {
		a, err := filepath.Abs(in)
		if err != nil {
			a = in
		}
		abs[i] = a
	}
	return ValidationReport{Inputs: abs}
}
