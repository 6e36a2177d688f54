package cryptoops

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"

	"github.com/jcz-project/jcz/internal/container"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// DataKeySize is the length of the per-file AES-256 data key generated for
// RSA hybrid encryption.
const DataKeySize = 32

// MinRsaModulusBits is the smallest RSA modulus this package will operate
// on. Keys smaller than this are rejected before any crypto operation,
// encrypt or decrypt, to avoid silently producing weak containers.
const MinRsaModulusBits = 2048

// ParsePublicKey decodes a PEM block containing an RSA public key, in
// either PKIX ("PUBLIC KEY") or PKCS#1 ("RSA PUBLIC KEY") form, and
// enforces the minimum modulus size.
func ParsePublicKey(pemBytes []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
	}

	var pub *rsa.PublicKey
	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, jczerrors.NewKeyError("", err)
		}
		pub = key
	default: // "PUBLIC KEY" and anything else PKIX can parse
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, jczerrors.NewKeyError("", err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
		}
		pub = key
	}

	if pub.N.BitLen() < MinRsaModulusBits {
		return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
	}
	return pub, nil
}

// ParsePrivateKey decodes a PEM block containing an RSA private key, in
// either PKCS#1 ("RSA PRIVATE KEY") or PKCS#8 ("PRIVATE KEY") form, and
// enforces the minimum modulus size.
func ParsePrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
	}

	var priv *rsa.PrivateKey
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, jczerrors.NewKeyError("", err)
		}
		priv = key
	default: // "PRIVATE KEY" and anything else PKCS#8 can parse
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, jczerrors.NewKeyError("", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
		}
		priv = key
	}

	if priv.N.BitLen() < MinRsaModulusBits {
		return nil, jczerrors.NewKeyError("", jczerrors.ErrInvalidKey)
	}
	return priv, nil
}

// EncryptRsa seals plaintext under the RSA hybrid cipher: a fresh 32-byte
// AES data key is generated, wrapped with RSA-OAEP-SHA256 under the
// recipient's public key, and used to AES-256-GCM the payload. The data
// key is zeroized on every exit path.
//
// Encryption always uses the public key, decryption the private key,
// following standard public-key cryptography convention regardless of
// how the calling CLI flag happens to be named.
func EncryptRsa(plaintext []byte, pub *rsa.PublicKey) (container.RsaMetadata, []byte, error) {
	var meta container.RsaMetadata

	cc := &CryptoContext{DataKey: make([]byte, DataKeySize)}
	defer cc.Close()
	if _, err := rand.Read(cc.DataKey); err != nil {
		return meta, nil, jczerrors.NewCryptoError("rand", err)
	}

	nonce := make([]byte, passwordNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return meta, nil, jczerrors.NewCryptoError("rand", err)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, cc.DataKey, nil)
	if err != nil {
		return meta, nil, jczerrors.NewCryptoError("rsa-oaep", err)
	}

	ciphertext, err := sealAESGCM(cc.DataKey, nonce, plaintext)
	if err != nil {
		return meta, nil, jczerrors.NewCryptoError("aes-gcm", err)
	}

	meta.WrappedKey = wrapped
	copy(meta.Nonce[:], nonce)
	return meta, ciphertext, nil
}

// DecryptRsa opens an RSA hybrid container. An RSA-OAEP unwrap failure is
// reported as DecryptionFailed; a subsequent GCM tag mismatch is reported
// as AuthenticationFailed, per the distinct-failure-mode vocabulary in the
// error taxonomy.
func DecryptRsa(meta container.RsaMetadata, ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	dataKey, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, meta.WrappedKey, nil)
	if err != nil {
		return nil, jczerrors.ErrDecryptionFailed
	}
	cc := &CryptoContext{DataKey: dataKey}
	defer cc.Close()

	if len(dataKey) != DataKeySize {
		return nil, jczerrors.ErrDecryptionFailed
	}

	plaintext, err := openAESGCM(cc.DataKey, meta.Nonce[:], ciphertext)
	if err != nil {
		return nil, jczerrors.ErrAuthFailed
	}
	return plaintext, nil
}
