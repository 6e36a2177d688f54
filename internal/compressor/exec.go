package compressor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/log"
)

// ExecCompressor shells out to the system gzip, bzip2, xz, zip, and tar
// binaries. How each tool is invoked is plumbing: the contract is
// "produce a compressed file from an input path" and its mirror.
type ExecCompressor struct{}

// NewExecCompressor returns the default, system-binary-backed Compressor.
func NewExecCompressor() *ExecCompressor {
	return &ExecCompressor{}
}

func (c *ExecCompressor) Supports(format Format) bool {
	switch format {
	case Gzip, Bzip2, Xz, Zip, Tar, Tgz, Tbz2, Txz:
		return true
	default:
		return false
	}
}

func (c *ExecCompressor) Compress(ctx context.Context, format Format, src, dst string, level int) error {
	switch format {
	case Gzip:
		return c.compressStream(ctx, "gzip", src, dst, level)
	case Bzip2:
		return c.compressStream(ctx, "bzip2", src, dst, level)
	case Xz:
		return c.compressStream(ctx, "xz", src, dst, level)
	case Zip:
		return c.compressZip(ctx, src, dst, level)
	case Tar:
		return c.compressTar(ctx, src, dst, "")
	case Tgz:
		return c.compressTar(ctx, src, dst, "z")
	case Tbz2:
		return c.compressTar(ctx, src, dst, "j")
	case Txz:
		return c.compressTar(ctx, src, dst, "J")
	default:
		return ErrUnsupportedFormat()
	}
}

func (c *ExecCompressor) Decompress(ctx context.Context, format Format, src, dst string) error {
	switch format {
	case Gzip:
		return c.decompressStream(ctx, "gzip", src, dst)
	case Bzip2:
		return c.decompressStream(ctx, "bzip2", src, dst)
	case Xz:
		return c.decompressStream(ctx, "xz", src, dst)
	case Zip:
		return c.decompressZip(ctx, src, dst)
	case Tar:
		return c.decompressTar(ctx, src, dst, "")
	case Tgz:
		return c.decompressTar(ctx, src, dst, "z")
	case Tbz2:
		return c.decompressTar(ctx, src, dst, "j")
	case Txz:
		return c.decompressTar(ctx, src, dst, "J")
	default:
		return ErrUnsupportedFormat()
	}
}

// compressStream runs "tool -<level> -c <src>", captures the compressed
// stream from the tool's stdout, and writes it to dst; src is left in
// place.
func (c *ExecCompressor) compressStream(ctx context.Context, tool, src, dst string, level int) error {
	if level <= 0 {
		level = 6
	}
	args := []string{"-" + strconv.Itoa(level), "-c", src}
	out, stderr, err := run(ctx, tool, args...)
	if err != nil {
		return jczerrors.NewToolError(tool, stderr, err)
	}
	return os.WriteFile(dst, out, 0600)
}

func (c *ExecCompressor) decompressStream(ctx context.Context, tool, src, dst string) error {
	out, stderr, err := run(ctx, tool, "-d", "-c", src)
	if err != nil {
		return jczerrors.NewToolError(tool, stderr, err)
	}
	return os.WriteFile(dst, out, 0600)
}

func (c *ExecCompressor) compressZip(ctx context.Context, src, dst string, level int) error {
	if level <= 0 {
		level = 6
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return jczerrors.NewFileError("abspath", dst, err)
	}
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	_, stderr, err := runIn(ctx, dir, "zip", "-r", "-"+strconv.Itoa(level), absDst, base)
	if err != nil {
		return jczerrors.NewToolError("zip", stderr, err)
	}
	return nil
}

func (c *ExecCompressor) decompressZip(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(dst, 0700); err != nil {
		return jczerrors.NewFileError("mkdir", dst, err)
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return jczerrors.NewFileError("abspath", src, err)
	}
	_, stderr, err := run(ctx, "unzip", "-o", absSrc, "-d", dst)
	if err != nil {
		return jczerrors.NewToolError("unzip", stderr, err)
	}
	return nil
}

func (c *ExecCompressor) compressTar(ctx context.Context, src, dst, compressFlag string) error {
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return jczerrors.NewFileError("abspath", dst, err)
	}
	dir := filepath.Dir(src)
	base := filepath.Base(src)
	args := []string{"-c" + compressFlag + "f", absDst, "-C", dir, base}
	_, stderr, err := run(ctx, "tar", args...)
	if err != nil {
		return jczerrors.NewToolError("tar", stderr, err)
	}
	return nil
}

func (c *ExecCompressor) decompressTar(ctx context.Context, src, dst, compressFlag string) error {
	if err := os.MkdirAll(dst, 0700); err != nil {
		return jczerrors.NewFileError("mkdir", dst, err)
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return jczerrors.NewFileError("abspath", src, err)
	}
	args := []string{"-x" + compressFlag + "f", absSrc, "-C", dst}
	_, stderr, err := run(ctx, "tar", args...)
	if err != nil {
		return jczerrors.NewToolError("tar", stderr, err)
	}
	return nil
}

func run(ctx context.Context, name string, args ...string) ([]byte, string, error) {
	return runIn(ctx, "", name, args...)
}

func runIn(ctx context.Context, dir, name string, args ...string) ([]byte, string, error) {
	log.Debug("exec tool", log.String("tool", name), log.String("dir", dir))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, stderr.String(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), stderr.String(), nil
}
