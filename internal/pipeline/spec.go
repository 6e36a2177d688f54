// Package pipeline composes the Container Codec and the two ciphers with
// the Compressor into "compress then encrypt" (forward) and "decrypt then
// decompress, iteratively" (reverse) for a single file.
package pipeline

import "github.com/jcz-project/jcz/internal/compressor"

// TimestampMode controls whether and how a timestamp suffix is appended
// to the compressed output's filename.
type TimestampMode int

const (
	TimestampNone TimestampMode = iota
	TimestampDate
	TimestampDateTime
	TimestampNanoseconds
)

// CollectionMode governs how multiple inputs are folded into one archive.
type CollectionMode int

const (
	// CollectionWithParent preserves each input's parent directory
	// structure inside the archive.
	CollectionWithParent CollectionMode = iota
	// CollectionFlat stores every input as a top-level archive entry.
	CollectionFlat
)

// CollectionSpec names a multi-input collection and how its members nest.
// Only input validation reads it (to reject duplicate basenames); Forward
// compresses each input to its own output whether or not it is set.
type CollectionSpec struct {
	Name string
	Mode CollectionMode
}

// CompressionSpec is the format chosen for one file (or collection).
type CompressionSpec struct {
	Format        compressor.Format
	Level         int // 1..9 where the format supports a level
	TimestampMode TimestampMode
	MoveTo        string // optional destination directory
	Collection    *CollectionSpec
}

// EncryptionKind selects which cipher, if any, seals the compressed
// output.
type EncryptionKind int

const (
	EncryptionNone EncryptionKind = iota
	EncryptionPassword
	EncryptionRsaPublicKey
)

// PasswordPrompter requests a password from the controlling terminal (or
// any other source); callers hold the Composer's prompt mutex while
// invoking it so parallel tasks never interleave on the TTY.
type PasswordPrompter func() ([]byte, error)

// EncryptionSpec describes how (if at all) the compressed output of a
// forward pipeline run should be sealed.
type EncryptionSpec struct {
	Kind             EncryptionKind
	PasswordPrompt   PasswordPrompter
	RsaPublicKeyPath string
}

// DecryptionKind selects which cipher, if any, is expected to have sealed
// the input to a reverse pipeline run. DecryptionNone still attempts
// content-based container detection: if the input is not a container,
// decryption is a no-op regardless of DecryptionKind (spec Property 10).
type DecryptionKind int

const (
	DecryptionNone DecryptionKind = iota
	DecryptionPassword
	DecryptionRsaPrivateKey
)

// DecryptionSpec describes how an encrypted input, if any, should be
// opened before its compression layers are peeled.
type DecryptionSpec struct {
	Kind              DecryptionKind
	PasswordPrompt    PasswordPrompter
	RsaPrivateKeyPath string
	RemoveEncrypted   bool
	Force             bool
	MoveTo            string
}
