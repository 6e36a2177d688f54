package orchestrator

import (
	"io"
	"os"
	"path/filepath"

	"github.com/jcz-project/jcz/internal/compressor"
	"github.com/jcz-project/jcz/internal/container"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/pipeline"
)

// ValidateCompressInputs resolves every input to its real path (following
// symlinks), drops duplicate real paths, rejects duplicate basenames when
// the spec asks for a single collected archive (since both would collide
// inside it), and ensures MoveTo exists and is writable. It returns the
// deduplicated, validated list in stable order.
func ValidateCompressInputs(inputs []string, spec pipeline.CompressionSpec) ([]string, error) {
	resolved, err := resolveAndDedup(inputs)
	if err != nil {
		return nil, err
	}

	if spec.Collection != nil {
		if err := rejectDuplicateBasenames(resolved); err != nil {
			return nil, err
		}
	}

	if err := ensureMoveToWritable(spec.MoveTo); err != nil {
		return nil, err
	}

	return resolved, nil
}

// ValidateDecompressInputs resolves and dedups inputs for a reverse
// (decrypt/decompress) batch. Duplicate basenames are permitted here:
// each input is restored independently to its own destination, so there
// is no shared archive namespace for them to collide in. Every input
// must either carry a jcz container's magic bytes or a recognized
// compression suffix; anything else is rejected rather than silently
// copied through untouched.
func ValidateDecompressInputs(inputs []string) ([]string, error) {
	resolved, err := resolveAndDedup(inputs)
	if err != nil {
		return nil, err
	}
	for _, in := range resolved {
		ok, err := isDecompressible(in)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, jczerrors.Wrap(jczerrors.ErrInvalidExtension, in)
		}
	}
	return resolved, nil
}

// isDecompressible reports whether path is either a recognized
// compression/archive format by suffix or carries a container's magic
// bytes. It never inspects more than the first few bytes of the file.
func isDecompressible(path string) (bool, error) {
	if _, ok := compressor.DetectFormat(path); ok {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, jczerrors.NewFileError("open", path, err)
	}
	defer f.Close()

	magic := make([]byte, 4)
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, jczerrors.NewFileError("read", path, err)
	}
	return container.IsContainer(magic[:n]), nil
}

// resolveAndDedup checks every input exists, resolves symlinks to a
// canonical real path, and drops duplicates that resolve to the same
// underlying file — so "a.txt" and a symlink to it count once.
func resolveAndDedup(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, jczerrors.ErrNoInputFiles
	}

	seen := make(map[string]bool, len(inputs))
	out := make([]string, 0, len(inputs))

	for _, in := range inputs {
		if _, err := os.Lstat(in); err != nil {
			return nil, jczerrors.NewFileError("stat", in, jczerrors.ErrFileNotFound)
		}
		real, err := filepath.EvalSymlinks(in)
		if err != nil {
			return nil, jczerrors.NewFileError("resolve", in, err)
		}
		if seen[real] {
			continue
		}
		seen[real] = true
		out = append(out, in)
	}

	if len(out) == 0 {
		return nil, jczerrors.ErrNoInputFiles
	}
	return out, nil
}

// rejectDuplicateBasenames returns ErrDuplicateBasenames when two distinct
// inputs share a basename, since a collected archive stores entries by
// basename and would silently drop one.
func rejectDuplicateBasenames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		base := filepath.Base(in)
		if prev, ok := seen[base]; ok && prev != in {
			return jczerrors.Wrap(jczerrors.ErrDuplicateBasenames, base)
		}
		seen[base] = in
	}
	return nil
}
