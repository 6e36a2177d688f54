package pipeline

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jcz-project/jcz/internal/compressor"
)

func timestampSuffix(mode TimestampMode) string {
	switch mode {
	case TimestampDate:
		return "_" + time.Now().Format("20060102")
	case TimestampDateTime:
		return "_" + time.Now().Format("20060102150405")
	case TimestampNanoseconds:
		return "_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	default:
		return ""
	}
}

// compressedOutputPath computes where the compressed (not yet encrypted)
// intermediate for input is written, applying the timestamp suffix,
// format extension, and move_to directory exactly as CompressionSpec
// alone would, independent of whether encryption follows (spec Property
// 7: options are preserved regardless of encryption).
func compressedOutputPath(input string, spec CompressionSpec) string {
	name := filepath.Base(input) + timestampSuffix(spec.TimestampMode) + spec.Format.Extension()
	dir := spec.MoveTo
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// archiveBaseName derives the name used for a collection archive or for
// the synthesized destination subdirectory of a multi-entry extraction,
// stripping every recognized compression/container suffix rather than
// just the last dotted segment (so "dir.tar.gz.jcze" yields "dir", not
// "dir.tar.gz").
func archiveBaseName(inputs []string, collection *CollectionSpec) string {
	if collection != nil && collection.Name != "" {
		return collection.Name
	}
	if len(inputs) > 0 {
		return stripKnownSuffixes(filepath.Base(inputs[0]))
	}
	return "archive"
}

func stripKnownSuffixes(name string) string {
	for {
		if strings.HasSuffix(name, ".jcze") {
			name = strings.TrimSuffix(name, ".jcze")
			continue
		}
		if format, ok := compressor.DetectFormat(name); ok {
			name = strings.TrimSuffix(name, format.Extension())
			continue
		}
		return name
	}
}
