package compressor

import (
	"context"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// GzipCompressor implements Compressor for the Gzip format entirely
// in-process via klauspost/compress, so the pipeline's test suite does
// not depend on a system gzip binary being installed on the runner.
type GzipCompressor struct{}

// NewGzipCompressor returns an in-process gzip-only Compressor.
func NewGzipCompressor() *GzipCompressor {
	return &GzipCompressor{}
}

func (c *GzipCompressor) Supports(format Format) bool {
	return format == Gzip
}

func (c *GzipCompressor) Compress(ctx context.Context, format Format, src, dst string, level int) error {
	if format != Gzip {
		return ErrUnsupportedFormat()
	}
	if level <= 0 {
		level = gzip.DefaultCompression
	}

	in, err := os.Open(src)
	if err != nil {
		return jczerrors.NewFileError("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return jczerrors.NewFileError("create", dst, err)
	}
	defer out.Close()

	gw, err := gzip.NewWriterLevel(out, level)
	if err != nil {
		return jczerrors.NewCryptoError("gzip-level", err)
	}
	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		return jczerrors.NewFileError("write", dst, err)
	}
	return gw.Close()
}

func (c *GzipCompressor) Decompress(ctx context.Context, format Format, src, dst string) error {
	if format != Gzip {
		return ErrUnsupportedFormat()
	}

	in, err := os.Open(src)
	if err != nil {
		return jczerrors.NewFileError("open", src, err)
	}
	defer in.Close()

	gr, err := gzip.NewReader(in)
	if err != nil {
		return jczerrors.NewFileError("gzip-header", src, err)
	}
	defer gr.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return jczerrors.NewFileError("create", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, gr); err != nil {
		return jczerrors.NewFileError("write", dst, err)
	}
	return nil
}
