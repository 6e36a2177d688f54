// Package compressor wraps the external compression tools (gzip, bzip2,
// xz, zip, tar) behind a single Compressor interface. How each format
// shells out to its system binary is plumbing, not design; the pipeline
// only depends on this interface.
package compressor

import (
	"context"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// Format is one of the compression formats a CompressionSpec can name.
type Format string

const (
	Gzip  Format = "gzip"
	Bzip2 Format = "bzip2"
	Xz    Format = "xz"
	Zip   Format = "zip"
	Tar   Format = "tar"
	Tgz   Format = "tgz"
	Tbz2  Format = "tbz2"
	Txz   Format = "txz"
)

// Extension returns the filename suffix this format appends to plain
// compression output, e.g. Tgz -> ".tar.gz".
func (f Format) Extension() string {
	switch f {
	case Gzip:
		return ".gz"
	case Bzip2:
		return ".bz2"
	case Xz:
		return ".xz"
	case Zip:
		return ".zip"
	case Tar:
		return ".tar"
	case Tgz:
		return ".tar.gz"
	case Tbz2:
		return ".tar.bz2"
	case Txz:
		return ".tar.xz"
	default:
		return ""
	}
}

// IsArchive reports whether the format can contain multiple entries
// (tar-family and zip), as opposed to single-stream formats (gzip,
// bzip2, xz applied directly to one file).
func (f Format) IsArchive() bool {
	switch f {
	case Zip, Tar, Tgz, Tbz2, Txz:
		return true
	default:
		return false
	}
}

// extensionTable maps every recognized on-disk suffix back to a Format,
// longest suffix first so compound extensions win over their single-layer
// counterparts.
var extensionTable = []struct {
	suffix string
	format Format
}{
	{".tar.gz", Tgz},
	{".tar.bz2", Tbz2},
	{".tar.xz", Txz},
	{".tgz", Tgz},
	{".tbz2", Tbz2},
	{".txz", Txz},
	{".gz", Gzip},
	{".bz2", Bzip2},
	{".xz", Xz},
	{".zip", Zip},
	{".tar", Tar},
}

// DetectFormat looks at path's suffix and reports the matching Format.
// Used by the pipeline's iterative decompression loop to decide whether
// a layer needs peeling and with which tool.
func DetectFormat(path string) (Format, bool) {
	for _, e := range extensionTable {
		if hasSuffixFold(path, e.suffix) {
			return e.format, true
		}
	}
	return "", false
}

func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := range tail {
		a, b := tail[i], suffix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

// Compressor produces and consumes compressed files for one or more
// formats. The default implementation shells out to system binaries; an
// in-process implementation backs the test suite so it does not depend
// on host tool availability.
type Compressor interface {
	// Compress reads src (a file, or a directory for archive formats)
	// and writes the compressed result to dst.
	Compress(ctx context.Context, format Format, src, dst string, level int) error
	// Decompress reads the compressed file at src and writes its
	// contents to dst — a single file for stream formats, a directory
	// for archive formats.
	Decompress(ctx context.Context, format Format, src, dst string) error
	// Supports reports whether this Compressor implementation can
	// handle the given format.
	Supports(format Format) bool
}

var errUnsupportedFormat = jczerrors.NewValidationError("format", "unsupported by this compressor implementation")

// ErrUnsupportedFormat is returned by a Compressor implementation asked
// to handle a format it does not implement.
func ErrUnsupportedFormat() error { return errUnsupportedFormat }
