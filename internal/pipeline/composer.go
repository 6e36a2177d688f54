package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/jcz-project/jcz/internal/compressor"
	"github.com/jcz-project/jcz/internal/container"
	"github.com/jcz-project/jcz/internal/cryptoops"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
	"github.com/jcz-project/jcz/internal/log"
)

// Composer glues a Compressor and the two ciphers into the forward
// (compress -> encrypt) and reverse (decrypt -> decompress) pipelines.
// One Composer is shared by every task in a batch; PromptMu serializes
// password prompts across them so parallel tasks never interleave on the
// controlling terminal.
type Composer struct {
	Compressor compressor.Compressor
	PromptMu   *sync.Mutex
}

// NewComposer builds a Composer around the given Compressor.
func NewComposer(c compressor.Compressor) *Composer {
	return &Composer{Compressor: c, PromptMu: &sync.Mutex{}}
}

func (c *Composer) acquirePassword(prompt PasswordPrompter) ([]byte, error) {
	if prompt == nil {
		return nil, jczerrors.ErrInvalidPassword
	}
	c.PromptMu.Lock()
	defer c.PromptMu.Unlock()
	return prompt()
}

// Forward compresses input per spec, then — if enc requests it — encrypts
// the compressed intermediate into a `.jcze` container. On any failure,
// partial outputs (the compressed intermediate, a half-written
// container) are removed and the error is returned.
//
// On success the original input is removed, matching the conventional
// behavior of the wrapped tools (gzip, bzip2, xz, tar --remove-files):
// the archive/compressed output replaces its source rather than sitting
// alongside it, which is also what lets the reverse pipeline restore a
// file or directory to its original path without a name collision.
func (c *Composer) Forward(ctx context.Context, input string, spec CompressionSpec, enc EncryptionSpec) (string, error) {
	compressedPath, err := c.forwardCompress(ctx, input, spec)
	if err != nil {
		return "", err
	}

	finalPath := compressedPath
	if enc.Kind != EncryptionNone {
		finalPath, err = c.forwardEncrypt(compressedPath, enc)
		if err != nil {
			os.Remove(compressedPath)
			return "", err
		}
		if err := os.Remove(compressedPath); err != nil {
			log.Warn("failed to remove unencrypted intermediate", log.Path("path", compressedPath), log.Err(err))
		}
	}

	if err := os.RemoveAll(input); err != nil {
		log.Warn("failed to remove original input after compression", log.Path("path", input), log.Err(err))
	}
	return finalPath, nil
}

func (c *Composer) forwardCompress(ctx context.Context, input string, spec CompressionSpec) (string, error) {
	dst := compressedOutputPath(input, spec)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", jczerrors.NewFileError("mkdir", dir, err)
	}
	_, statErr := os.Stat(dst)
	if err := c.Compressor.Compress(ctx, spec.Format, input, dst, spec.Level); err != nil {
		if os.IsNotExist(statErr) {
			os.Remove(dst)
		}
		return "", err
	}
	return dst, nil
}

func (c *Composer) forwardEncrypt(compressedPath string, enc EncryptionSpec) (outPath string, err error) {
	plaintext, err := os.ReadFile(compressedPath)
	if err != nil {
		return "", jczerrors.NewFileError("read", compressedPath, err)
	}

	var sealed []byte
	switch enc.Kind {
	case EncryptionPassword:
		password, perr := c.acquirePassword(enc.PasswordPrompt)
		if perr != nil {
			return "", perr
		}
		defer cryptoops.SecureZero(password)

		meta, ciphertext, cerr := cryptoops.EncryptPassword(plaintext, password)
		if cerr != nil {
			return "", cerr
		}
		sealed = container.EncodePassword(meta, ciphertext)

	case EncryptionRsaPublicKey:
		keyBytes, kerr := os.ReadFile(enc.RsaPublicKeyPath)
		if kerr != nil {
			return "", jczerrors.NewKeyError(enc.RsaPublicKeyPath, kerr)
		}
		pub, kerr := cryptoops.ParsePublicKey(keyBytes)
		if kerr != nil {
			return "", kerr
		}
		meta, ciphertext, cerr := cryptoops.EncryptRsa(plaintext, pub)
		if cerr != nil {
			return "", cerr
		}
		sealed = container.EncodeRsa(meta, ciphertext)

	default:
		return "", jczerrors.NewValidationError("encryption_kind", "unknown encryption kind")
	}

	finalPath := compressedPath + ".jcze"
	tmpPath := finalPath + ".tmp"
	if werr := os.WriteFile(tmpPath, sealed, 0600); werr != nil {
		os.Remove(tmpPath)
		return "", jczerrors.NewFileError("write", tmpPath, werr)
	}
	if rerr := os.Rename(tmpPath, finalPath); rerr != nil {
		os.Remove(tmpPath)
		return "", jczerrors.NewFileError("rename", finalPath, rerr)
	}
	return finalPath, nil
}
