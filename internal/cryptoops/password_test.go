package cryptoops

import (
	"bytes"
	"testing"

	"github.com/jcz-project/jcz/internal/container"
	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

func TestEncryptDecryptPasswordRoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	password := []byte("correct horse battery staple")

	meta, ciphertext, err := EncryptPassword(plaintext, password)
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}
	if meta.MemoryCost < minArgon2MemoryKiB || meta.TimeCost < minArgon2TimeCost || meta.Parallelism < minArgon2Parallelism {
		t.Error("metadata should record argon2 params at or above the minimums")
	}

	decrypted, err := DecryptPassword(meta, ciphertext, password)
	if err != nil {
		t.Fatalf("DecryptPassword failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("decrypted plaintext does not match original")
	}
}

func TestDecryptPasswordWrongPasswordFails(t *testing.T) {
	meta, ciphertext, err := EncryptPassword([]byte("secret data"), []byte("password1"))
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}

	_, err = DecryptPassword(meta, ciphertext, []byte("password2"))
	if !jczerrors.IsAuthFailed(err) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestDecryptPasswordCorruptedCiphertextFails(t *testing.T) {
	meta, ciphertext, err := EncryptPassword([]byte("secret data"), []byte("password1"))
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}
	corrupted := append([]byte(nil), ciphertext...)
	corrupted[0] ^= 0xFF

	_, err = DecryptPassword(meta, corrupted, []byte("password1"))
	if !jczerrors.IsAuthFailed(err) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}

func TestEncryptPasswordRejectsEmptyPassword(t *testing.T) {
	_, _, err := EncryptPassword([]byte("data"), nil)
	if !jczerrors.Is(err, jczerrors.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestDecryptPasswordRejectsEmptyPassword(t *testing.T) {
	meta := container.PasswordMetadata{MemoryCost: Argon2MemoryCostKiB, TimeCost: Argon2TimeCost, Parallelism: Argon2Parallelism}
	_, err := DecryptPassword(meta, []byte("ct"), nil)
	if !jczerrors.Is(err, jczerrors.ErrInvalidPassword) {
		t.Errorf("expected ErrInvalidPassword, got %v", err)
	}
}

func TestDecryptPasswordRejectsWeakParams(t *testing.T) {
	meta := container.PasswordMetadata{MemoryCost: 1024, TimeCost: 1, Parallelism: 1}
	_, err := DecryptPassword(meta, []byte("ct"), []byte("password"))
	if err == nil {
		t.Error("expected an error for sub-minimum argon2 parameters")
	}
}

func TestEncryptPasswordProducesDistinctSaltsAndNonces(t *testing.T) {
	meta1, _, err := EncryptPassword([]byte("data"), []byte("password"))
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}
	meta2, _, err := EncryptPassword([]byte("data"), []byte("password"))
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}
	if meta1.Salt == meta2.Salt {
		t.Error("two encryptions produced the same salt")
	}
	if meta1.Nonce == meta2.Nonce {
		t.Error("two encryptions produced the same nonce")
	}
}

func TestEncryptDecryptPasswordLeavesCallerSliceIntact(t *testing.T) {
	password := []byte("correct horse battery staple")
	original := append([]byte(nil), password...)

	meta, ciphertext, err := EncryptPassword([]byte("data"), password)
	if err != nil {
		t.Fatalf("EncryptPassword failed: %v", err)
	}
	if !bytes.Equal(password, original) {
		t.Error("EncryptPassword must not zero the caller's password slice; CryptoContext should hold a copy")
	}

	if _, err := DecryptPassword(meta, ciphertext, password); err != nil {
		t.Fatalf("DecryptPassword failed: %v", err)
	}
	if !bytes.Equal(password, original) {
		t.Error("DecryptPassword must not zero the caller's password slice; CryptoContext should hold a copy")
	}
}
