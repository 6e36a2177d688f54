// Package container implements the on-disk byte layout of a jcz encrypted
// container: a small fixed header identifying the encryption kind, followed
// by kind-specific metadata and the AEAD ciphertext.
package container

import (
	"encoding/binary"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// Kind identifies which cipher produced a container.
type Kind byte

const (
	// KindPassword marks a container sealed with the Argon2id-derived
	// Password Cipher.
	KindPassword Kind = 0x01
	// KindRsa marks a container sealed with the RSA-OAEP hybrid cipher.
	KindRsa Kind = 0x02
)

// Magic is the 4-byte literal that opens every jcz container.
var Magic = [4]byte{'J', 'C', 'Z', 'E'}

// Version is the only container format version this package writes or
// accepts.
const Version byte = 1

const headerLen = 4 + 1 + 1 + 4 // magic + version + kind + metadata_length

// PasswordMetadataLen is the fixed size of PasswordMetadata's wire form:
// salt(32) || nonce(12) || memory_cost(4) || time_cost(4) || parallelism(4).
const PasswordMetadataLen = 32 + 12 + 4 + 4 + 4

// PasswordMetadata carries everything the Password Cipher's decryptor needs
// besides the password itself.
type PasswordMetadata struct {
	Salt        [32]byte
	Nonce       [12]byte
	MemoryCost  uint32 // KiB
	TimeCost    uint32
	Parallelism uint32
}

func (m PasswordMetadata) encode() []byte {
	b := make([]byte, PasswordMetadataLen)
	copy(b[0:32], m.Salt[:])
	copy(b[32:44], m.Nonce[:])
	binary.BigEndian.PutUint32(b[44:48], m.MemoryCost)
	binary.BigEndian.PutUint32(b[48:52], m.TimeCost)
	binary.BigEndian.PutUint32(b[52:56], m.Parallelism)
	return b
}

func decodePasswordMetadata(b []byte) (PasswordMetadata, error) {
	var m PasswordMetadata
	if len(b) != PasswordMetadataLen {
		return m, jczerrors.NewContainerError("password metadata length", jczerrors.ErrInvalidContainer)
	}
	copy(m.Salt[:], b[0:32])
	copy(m.Nonce[:], b[32:44])
	m.MemoryCost = binary.BigEndian.Uint32(b[44:48])
	m.TimeCost = binary.BigEndian.Uint32(b[48:52])
	m.Parallelism = binary.BigEndian.Uint32(b[52:56])
	return m, nil
}

// RsaMetadata carries the RSA-wrapped data key and the AEAD nonce used for
// the payload.
type RsaMetadata struct {
	WrappedKey []byte
	Nonce      [12]byte
}

func (m RsaMetadata) encode() []byte {
	b := make([]byte, 4+len(m.WrappedKey)+12)
	binary.BigEndian.PutUint32(b[0:4], uint32(len(m.WrappedKey)))
	copy(b[4:4+len(m.WrappedKey)], m.WrappedKey)
	copy(b[4+len(m.WrappedKey):], m.Nonce[:])
	return b
}

func decodeRsaMetadata(b []byte) (RsaMetadata, error) {
	var m RsaMetadata
	if len(b) < 4 {
		return m, jczerrors.NewContainerError("rsa metadata length", jczerrors.ErrInvalidContainer)
	}
	wrappedLen := binary.BigEndian.Uint32(b[0:4])
	rest := b[4:]
	if uint32(len(rest)) != wrappedLen+12 {
		return m, jczerrors.NewContainerError("rsa wrapped_key_length", jczerrors.ErrInvalidContainer)
	}
	m.WrappedKey = append([]byte(nil), rest[:wrappedLen]...)
	copy(m.Nonce[:], rest[wrappedLen:wrappedLen+12])
	return m, nil
}

// EncodePassword serializes a complete container sealed by the Password
// Cipher: magic || version || kind || metadata_length || metadata || ciphertext.
func EncodePassword(meta PasswordMetadata, ciphertext []byte) []byte {
	return encode(KindPassword, meta.encode(), ciphertext)
}

// EncodeRsa serializes a complete container sealed by the RSA hybrid cipher.
func EncodeRsa(meta RsaMetadata, ciphertext []byte) []byte {
	return encode(KindRsa, meta.encode(), ciphertext)
}

func encode(kind Kind, metadata, ciphertext []byte) []byte {
	out := make([]byte, 0, headerLen+len(metadata)+len(ciphertext))
	out = append(out, Magic[:]...)
	out = append(out, Version)
	out = append(out, byte(kind))
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(metadata)))
	out = append(out, lenBuf...)
	out = append(out, metadata...)
	out = append(out, ciphertext...)
	return out
}

// Decoded is the result of parsing a container's bytes: the encryption
// kind, its kind-specific metadata, and the remaining ciphertext.
type Decoded struct {
	Kind       Kind
	Password   PasswordMetadata // populated iff Kind == KindPassword
	Rsa        RsaMetadata      // populated iff Kind == KindRsa
	Ciphertext []byte
}

// IsContainer reports whether data begins with the jcz magic. Detection is
// content-based, never by file extension, so compound suffixes like
// ".tar.gz.jcze" peel correctly during iterative decompression.
func IsContainer(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return data[0] == Magic[0] && data[1] == Magic[1] && data[2] == Magic[2] && data[3] == Magic[3]
}

// Decode parses a container's bytes, validating magic, version, kind, and
// every length field before returning.
func Decode(data []byte) (Decoded, error) {
	var d Decoded
	if len(data) < headerLen {
		return d, jczerrors.NewContainerError("header", jczerrors.ErrInvalidContainer)
	}
	if !IsContainer(data) {
		return d, jczerrors.NewContainerError("magic", jczerrors.ErrInvalidContainer)
	}
	version := data[4]
	if version != Version {
		return d, jczerrors.NewContainerError("version", jczerrors.ErrUnsupportedVersion)
	}
	kind := Kind(data[5])
	metaLen := binary.BigEndian.Uint32(data[6:10])
	rest := data[headerLen:]
	if uint64(metaLen) > uint64(len(rest)) {
		return d, jczerrors.NewContainerError("metadata_length", jczerrors.ErrInvalidContainer)
	}
	metaBytes := rest[:metaLen]
	ciphertext := rest[metaLen:]

	switch kind {
	case KindPassword:
		meta, err := decodePasswordMetadata(metaBytes)
		if err != nil {
			return d, err
		}
		d.Password = meta
	case KindRsa:
		meta, err := decodeRsaMetadata(metaBytes)
		if err != nil {
			return d, err
		}
		d.Rsa = meta
	default:
		return d, jczerrors.NewContainerError("encryption_kind", jczerrors.ErrInvalidContainer)
	}

	d.Kind = kind
	d.Ciphertext = ciphertext
	return d, nil
}
