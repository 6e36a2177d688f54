package cryptoops

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	"github.com/jcz-project/jcz/internal/container"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

// Argon2 defaults. Parameters are stored per-file in the container
// metadata (see container.PasswordMetadata) so they can be strengthened
// later without breaking files sealed under older defaults.
const (
	Argon2MemoryCostKiB  = 65536 // 64 MiB
	Argon2TimeCost       = 3
	Argon2Parallelism    = 4
	Argon2KeySize        = 32
	passwordSaltSize     = 32
	passwordNonceSize    = 12
	minArgon2MemoryKiB   = 65536
	minArgon2TimeCost    = 3
	minArgon2Parallelism = 1
)

func deriveKey(password, salt []byte, memoryCost, timeCost, parallelism uint32) []byte {
	return argon2.IDKey(password, salt, timeCost, memoryCost, uint8(parallelism), Argon2KeySize)
}

// EncryptPassword seals plaintext with the Password Cipher: fresh salt and
// nonce, Argon2id key derivation, AES-256-GCM over the plaintext. The
// password copy and derived key live in a CryptoContext, closed before
// returning.
func EncryptPassword(plaintext, password []byte) (container.PasswordMetadata, []byte, error) {
	var meta container.PasswordMetadata
	if len(password) == 0 {
		return meta, nil, jczerrors.ErrInvalidPassword
	}

	salt := make([]byte, passwordSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return meta, nil, jczerrors.NewCryptoError("rand", err)
	}
	nonce := make([]byte, passwordNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return meta, nil, jczerrors.NewCryptoError("rand", err)
	}

	cc := &CryptoContext{
		Password:   append([]byte(nil), password...),
		DerivedKey: deriveKey(password, salt, Argon2MemoryCostKiB, Argon2TimeCost, Argon2Parallelism),
	}
	defer cc.Close()

	ciphertext, err := sealAESGCM(cc.DerivedKey, nonce, plaintext)
	if err != nil {
		return meta, nil, jczerrors.NewCryptoError("aes-gcm", err)
	}

	copy(meta.Salt[:], salt)
	copy(meta.Nonce[:], nonce)
	meta.MemoryCost = Argon2MemoryCostKiB
	meta.TimeCost = Argon2TimeCost
	meta.Parallelism = Argon2Parallelism

	return meta, ciphertext, nil
}

// DecryptPassword opens a Password Cipher container. A GCM tag mismatch
// (wrong password, corrupted ciphertext, or tampered metadata) is always
// reported as ErrAuthFailed with identical wording, regardless of cause.
func DecryptPassword(meta container.PasswordMetadata, ciphertext, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, jczerrors.ErrInvalidPassword
	}
	if meta.MemoryCost < minArgon2MemoryKiB || meta.TimeCost < minArgon2TimeCost || meta.Parallelism < minArgon2Parallelism {
		return nil, jczerrors.NewCryptoError("argon2", jczerrors.ErrInvalidKey)
	}

	cc := &CryptoContext{
		Password:   append([]byte(nil), password...),
		DerivedKey: deriveKey(password, meta.Salt[:], meta.MemoryCost, meta.TimeCost, meta.Parallelism),
	}
	defer cc.Close()

	plaintext, err := openAESGCM(cc.DerivedKey, meta.Nonce[:], ciphertext)
	if err != nil {
		return nil, jczerrors.ErrAuthFailed
	}
	return plaintext, nil
}

func sealAESGCM(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func openAESGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}
