// Package workspace provides the Isolated Workspace: a uniquely-named
// scratch directory with guaranteed cleanup, used by the pipeline to
// serialize decompression layers without touching user directories.
package workspace

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/log"
)

// Workspace owns a scratch directory under the system temporary area.
// Close removes the directory and everything in it; callers should defer
// Close immediately after Open succeeds, so cleanup runs on every exit
// path including early errors.
type Workspace struct {
	dir string
}

// Open creates a new scratch directory named "jcz-<uuid>" under
// os.TempDir(). The uuid suffix keeps concurrent workspaces from ever
// colliding. On failure it returns TempDirFailed without side effects.
func Open() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "jcz-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, jczerrors.Wrap(jczerrors.ErrTempDirFailed, err.Error())
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace's root directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path joins one or more path elements onto the workspace root.
func (w *Workspace) Path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

// Close removes the workspace directory and all of its contents. Safe to
// call multiple times.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	if err != nil {
		log.Warn("workspace cleanup failed", log.Path("dir", w.dir), log.Err(err))
		return jczerrors.NewFileError("remove", w.dir, err)
	}
	w.dir = ""
	return nil
}
