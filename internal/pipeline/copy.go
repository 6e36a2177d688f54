package pipeline

import (
	"io"
	"os"
	"path/filepath"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// copyFile copies a single regular file, preserving its mode bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return jczerrors.NewFileError("stat", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return jczerrors.NewFileError("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return jczerrors.NewFileError("create", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return jczerrors.NewFileError("copy", dst, err)
	}
	return nil
}

// copyWithOverwritePolicy copies src to dst, honoring the force flag: if
// dst exists and force is false, the copy is rejected with ErrFileExists
// rather than silently overwriting the user's data.
func copyWithOverwritePolicy(src, dst string, force bool) error {
	if _, err := os.Stat(dst); err == nil && !force {
		return jczerrors.NewFileError("copy", dst, jczerrors.ErrFileExists)
	}
	return copyRecursive(src, dst, force)
}

// copyRecursive copies a file or directory tree from src to dst.
func copyRecursive(src, dst string, force bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return jczerrors.NewFileError("stat", src, err)
	}

	if !info.IsDir() {
		if _, err := os.Stat(dst); err == nil && !force {
			return jczerrors.NewFileError("copy", dst, jczerrors.ErrFileExists)
		}
		return copyFile(src, dst)
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return jczerrors.NewFileError("mkdir", dst, err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return jczerrors.NewFileError("readdir", src, err)
	}
	for _, e := range entries {
		if err := copyRecursive(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name()), force); err != nil {
			return err
		}
	}
	return nil
}
