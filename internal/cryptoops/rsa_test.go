package cryptoops

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"

	jczerrors "github.com/jcz-project/jcz/internal/errors"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

// sharedTestKey lazily generates one 2048-bit key pair for the whole test
// file, since RSA key generation dominates test runtime otherwise.
func sharedTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	testKeyOnce.Do(func() {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("rsa.GenerateKey failed: %v", err)
		}
		testKey = key
	})
	return testKey
}

func pkixPublicPEM(t *testing.T, pub *rsa.PublicKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey failed: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

func pkcs1PublicPEM(pub *rsa.PublicKey) []byte {
	der := x509.MarshalPKCS1PublicKey(pub)
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PUBLIC KEY", Bytes: der})
}

func pkcs8PrivatePEM(t *testing.T, priv *rsa.PrivateKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("MarshalPKCS8PrivateKey failed: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

func pkcs1PrivatePEM(priv *rsa.PrivateKey) []byte {
	der := x509.MarshalPKCS1PrivateKey(priv)
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: der})
}

func TestParsePublicKeyBothPEMForms(t *testing.T) {
	key := sharedTestKey(t)

	pkix, err := ParsePublicKey(pkixPublicPEM(t, &key.PublicKey))
	if err != nil {
		t.Fatalf("ParsePublicKey (PKIX) failed: %v", err)
	}
	if pkix.N.Cmp(key.PublicKey.N) != 0 {
		t.Error("PKIX-parsed modulus mismatch")
	}

	pkcs1, err := ParsePublicKey(pkcs1PublicPEM(&key.PublicKey))
	if err != nil {
		t.Fatalf("ParsePublicKey (PKCS1) failed: %v", err)
	}
	if pkcs1.N.Cmp(key.PublicKey.N) != 0 {
		t.Error("PKCS1-parsed modulus mismatch")
	}
}

func TestParsePrivateKeyBothPEMForms(t *testing.T) {
	key := sharedTestKey(t)

	pkcs8, err := ParsePrivateKey(pkcs8PrivatePEM(t, key))
	if err != nil {
		t.Fatalf("ParsePrivateKey (PKCS8) failed: %v", err)
	}
	if pkcs8.N.Cmp(key.N) != 0 {
		t.Error("PKCS8-parsed modulus mismatch")
	}

	pkcs1, err := ParsePrivateKey(pkcs1PrivatePEM(key))
	if err != nil {
		t.Fatalf("ParsePrivateKey (PKCS1) failed: %v", err)
	}
	if pkcs1.N.Cmp(key.N) != 0 {
		t.Error("PKCS1-parsed modulus mismatch")
	}
}

func TestParsePublicKeyRejectsWeakModulus(t *testing.T) {
	weak, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	_, err = ParsePublicKey(pkixPublicPEM(t, &weak.PublicKey))
	if err == nil {
		t.Error("expected an error for a sub-2048-bit public key")
	}
}

func TestParsePrivateKeyRejectsWeakModulus(t *testing.T) {
	weak, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}
	_, err = ParsePrivateKey(pkcs8PrivatePEM(t, weak))
	if err == nil {
		t.Error("expected an error for a sub-2048-bit private key")
	}
}

func TestParsePublicKeyRejectsGarbage(t *testing.T) {
	_, err := ParsePublicKey([]byte("not a pem block at all"))
	if err == nil {
		t.Error("expected an error for non-PEM input")
	}
}

func TestEncryptDecryptRsaRoundTrip(t *testing.T) {
	key := sharedTestKey(t)
	plaintext := []byte("payload protected by a hybrid RSA+AES container")

	meta, ciphertext, err := EncryptRsa(plaintext, &key.PublicKey)
	if err != nil {
		t.Fatalf("EncryptRsa failed: %v", err)
	}
	if len(meta.WrappedKey) != key.Size() {
		t.Errorf("wrapped key length = %d, want %d (modulus size)", len(meta.WrappedKey), key.Size())
	}

	decrypted, err := DecryptRsa(meta, ciphertext, key)
	if err != nil {
		t.Fatalf("DecryptRsa failed: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Error("decrypted plaintext does not match original")
	}
}

func TestDecryptRsaWrongKeyFails(t *testing.T) {
	key := sharedTestKey(t)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	meta, ciphertext, err := EncryptRsa([]byte("data"), &key.PublicKey)
	if err != nil {
		t.Fatalf("EncryptRsa failed: %v", err)
	}

	_, err = DecryptRsa(meta, ciphertext, other)
	if !jczerrors.Is(err, jczerrors.ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestDecryptRsaCorruptedCiphertextFails(t *testing.T) {
	key := sharedTestKey(t)
	meta, ciphertext, err := EncryptRsa([]byte("data"), &key.PublicKey)
	if err != nil {
		t.Fatalf("EncryptRsa failed: %v", err)
	}
	corrupted := append([]byte(nil), ciphertext...)
	corrupted[0] ^= 0xFF

	_, err = DecryptRsa(meta, corrupted, key)
	if !jczerrors.IsAuthFailed(err) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}
}
