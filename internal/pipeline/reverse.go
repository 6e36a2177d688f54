package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jcz-project/jcz/internal/compressor"
	"github.com/jcz-project/jcz/internal/container"
	"github.com/jcz-project/jcz/internal/cryptoops"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/workspace"
)

// Reverse peels an input's encryption and compression layers inside an
// Isolated Workspace, one layer per loop iteration, then copies the
// result to its final destination. Container detection is content-based
// (magic bytes), so a renamed `.jcze` file still decrypts. An input that
// carries neither container magic nor a recognized compression suffix on
// its very first pass is rejected with ErrInvalidExtension rather than
// copied through untouched; the same check does not apply to a layer
// already peeled down to its final plaintext, which legitimately has no
// further suffix to detect.
func (c *Composer) Reverse(ctx context.Context, input string, dec DecryptionSpec) (string, error) {
	ws, err := workspace.Open()
	if err != nil {
		return "", err
	}
	defer ws.Close()

	current := ws.Path(filepath.Base(input))
	if err := copyFile(input, current); err != nil {
		return "", err
	}

	removedEncrypted := false
	peeledAny := false

	for {
		if info, err := os.Stat(current); err == nil && info.IsDir() {
			break // an extracted archive: no further layer to peel
		}
		data, err := os.ReadFile(current)
		if err != nil {
			return "", jczerrors.NewFileError("read", current, err)
		}

		if container.IsContainer(data) {
			plaintext, derr := c.decryptLayer(data, dec)
			if derr != nil {
				return "", derr
			}
			newPath := peelContainerSuffix(current)
			if err := os.WriteFile(newPath, plaintext, 0600); err != nil {
				return "", jczerrors.NewFileError("write", newPath, err)
			}
			os.Remove(current)
			current = newPath
			removedEncrypted = true
			peeledAny = true
			continue
		}

		format, ok := compressor.DetectFormat(current)
		if !ok {
			if !peeledAny {
				return "", jczerrors.Wrap(jczerrors.ErrInvalidExtension, input)
			}
			break
		}

		destPath := strings.TrimSuffix(current, format.Extension())
		if format.IsArchive() {
			if err := os.MkdirAll(destPath, 0700); err != nil {
				return "", jczerrors.NewFileError("mkdir", destPath, err)
			}
		}
		if err := c.Compressor.Decompress(ctx, format, current, destPath); err != nil {
			return "", err
		}
		os.Remove(current)
		current = destPath
		peeledAny = true
	}

	outPath, err := c.placeOutput(current, input, dec.MoveTo, dec.Force)
	if err != nil {
		return "", err
	}

	if dec.RemoveEncrypted && removedEncrypted {
		os.Remove(input)
	}
	return outPath, nil
}

func (c *Composer) decryptLayer(data []byte, dec DecryptionSpec) ([]byte, error) {
	decoded, err := container.Decode(data)
	if err != nil {
		return nil, err
	}

	switch decoded.Kind {
	case container.KindPassword:
		password, perr := c.acquirePassword(dec.PasswordPrompt)
		if perr != nil {
			return nil, perr
		}
		defer cryptoops.SecureZero(password)
		return cryptoops.DecryptPassword(decoded.Password, decoded.Ciphertext, password)

	case container.KindRsa:
		keyBytes, kerr := os.ReadFile(dec.RsaPrivateKeyPath)
		if kerr != nil {
			return nil, jczerrors.NewKeyError(dec.RsaPrivateKeyPath, kerr)
		}
		priv, kerr := cryptoops.ParsePrivateKey(keyBytes)
		if kerr != nil {
			return nil, kerr
		}
		return cryptoops.DecryptRsa(decoded.Rsa, decoded.Ciphertext, priv)

	default:
		return nil, jczerrors.NewContainerError("encryption_kind", jczerrors.ErrInvalidContainer)
	}
}

// peelContainerSuffix strips a trailing ".jcze" if present; otherwise it
// tolerates a hand-renamed container by appending ".decrypted", since
// detection never relies on the extension (spec Property 9/12).
func peelContainerSuffix(path string) string {
	if strings.HasSuffix(path, ".jcze") {
		return strings.TrimSuffix(path, ".jcze")
	}
	return path + ".decrypted"
}

// placeOutput copies the workspace's final artifact to its destination,
// following the placement rules: a single file goes to moveTo or the
// original input's parent; a directory result with exactly one member
// is copied as that one folder; multiple top-level entries go straight
// into moveTo if set, or into a new subdirectory named after the
// original input otherwise.
func (c *Composer) placeOutput(current, originalInput, moveTo string, force bool) (string, error) {
	info, err := os.Stat(current)
	if err != nil {
		return "", jczerrors.NewFileError("stat", current, err)
	}

	if !info.IsDir() {
		destDir := moveTo
		if destDir == "" {
			destDir = filepath.Dir(originalInput)
		}
		if err := os.MkdirAll(destDir, 0755); err != nil {
			return "", jczerrors.NewFileError("mkdir", destDir, err)
		}
		destPath := filepath.Join(destDir, filepath.Base(current))
		if err := copyWithOverwritePolicy(current, destPath, force); err != nil {
			return "", err
		}
		return destPath, nil
	}

	entries, err := os.ReadDir(current)
	if err != nil {
		return "", jczerrors.NewFileError("readdir", current, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 1 {
		only := filepath.Join(current, names[0])
		if oi, err := os.Stat(only); err == nil && oi.IsDir() {
			destDir := moveTo
			if destDir == "" {
				destDir = filepath.Dir(originalInput)
			}
			if err := os.MkdirAll(destDir, 0755); err != nil {
				return "", jczerrors.NewFileError("mkdir", destDir, err)
			}
			destPath := filepath.Join(destDir, names[0])
			if err := copyWithOverwritePolicy(only, destPath, force); err != nil {
				return "", err
			}
			return destPath, nil
		}
	}

	if moveTo != "" {
		if err := os.MkdirAll(moveTo, 0755); err != nil {
			return "", jczerrors.NewFileError("mkdir", moveTo, err)
		}
		for _, name := range names {
			if err := copyRecursive(filepath.Join(current, name), filepath.Join(moveTo, name), force); err != nil {
				return "", err
			}
		}
		return moveTo, nil
	}

	destDir := filepath.Join(filepath.Dir(originalInput), archiveBaseName([]string{originalInput}, nil))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", jczerrors.NewFileError("mkdir", destDir, err)
	}
	for _, name := range names {
		if err := copyRecursive(filepath.Join(current, name), filepath.Join(destDir, name), force); err != nil {
			return "", err
		}
	}
	return destDir, nil
}
