package errors

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrCancelled", ErrCancelled},
		{"ErrAuthFailed", ErrAuthFailed},
		{"ErrInvalidContainer", ErrInvalidContainer},
		{"ErrUnsupportedVersion", ErrUnsupportedVersion},
		{"ErrNoInputFiles", ErrNoInputFiles},
		{"ErrDuplicateBasenames", ErrDuplicateBasenames},
		{"ErrInvalidExtension", ErrInvalidExtension},
		{"ErrMutuallyExclusive", ErrMutuallyExclusive},
		{"ErrInvalidPassword", ErrInvalidPassword},
		{"ErrFileNotFound", ErrFileNotFound},
		{"ErrFileExists", ErrFileExists},
		{"ErrRandFailure", ErrRandFailure},
		{"ErrKeyDerivation", ErrKeyDerivation},
		{"ErrDecryptionFailed", ErrDecryptionFailed},
		{"ErrInvalidKey", ErrInvalidKey},
		{"ErrTempDirFailed", ErrTempDirFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Error("sentinel error should not be nil")
			}
			if tt.err.Error() == "" {
				t.Error("sentinel error should have a message")
			}
		})
	}
}

func TestCryptoError(t *testing.T) {
	baseErr := errors.New("underlying error")
	cryptoErr := NewCryptoError("rand", baseErr)

	if cryptoErr.Error() != "crypto rand: underlying error" {
		t.Errorf("unexpected error message: %s", cryptoErr.Error())
	}

	if cryptoErr.Unwrap() != baseErr {
		t.Error("Unwrap should return underlying error")
	}

	// Test with nil error
	cryptoErrNil := NewCryptoError("argon2", nil)
	if cryptoErrNil.Error() != "crypto argon2 failed" {
		t.Errorf("unexpected error message for nil: %s", cryptoErrNil.Error())
	}
}

func TestFileError(t *testing.T) {
	baseErr := errors.New("permission denied")
	fileErr := NewFileError("open", "/path/to/file", baseErr)

	if fileErr.Error() != "open /path/to/file: permission denied" {
		t.Errorf("unexpected error message: %s", fileErr.Error())
	}

	if fileErr.Unwrap() != baseErr {
		t.Error("Unwrap should return underlying error")
	}

	// Test with nil error
	fileErrNil := NewFileError("stat", "/some/path", nil)
	if fileErrNil.Error() != "stat /some/path failed" {
		t.Errorf("unexpected error message for nil: %s", fileErrNil.Error())
	}
}

func TestValidationError(t *testing.T) {
	validErr := NewValidationError("password", "must not be empty")

	expected := "validation: password: must not be empty"
	if validErr.Error() != expected {
		t.Errorf("unexpected error message: %s", validErr.Error())
	}
}

func TestContainerError(t *testing.T) {
	baseErr := errors.New("decode failed")
	containerErr := NewContainerError("magic", baseErr)

	if containerErr.Error() != "container magic: decode failed" {
		t.Errorf("unexpected error message: %s", containerErr.Error())
	}

	if containerErr.Unwrap() != baseErr {
		t.Error("Unwrap should return underlying error")
	}
}

func TestKeyError(t *testing.T) {
	baseErr := errors.New("modulus too small")
	keyErr := NewKeyError("pub.pem", baseErr)

	if keyErr.Error() != "key pub.pem: modulus too small" {
		t.Errorf("unexpected error message: %s", keyErr.Error())
	}
	if keyErr.Unwrap() != baseErr {
		t.Error("Unwrap should return underlying error")
	}
}

func TestToolError(t *testing.T) {
	baseErr := errors.New("exit status 1")
	toolErr := NewToolError("gzip", "gzip: no such file", baseErr)

	if toolErr.Error() != "gzip: exit status 1: gzip: no such file" {
		t.Errorf("unexpected error message: %s", toolErr.Error())
	}
	if toolErr.Unwrap() != baseErr {
		t.Error("Unwrap should return underlying error")
	}
}

func TestIs(t *testing.T) {
	if !Is(ErrCancelled, ErrCancelled) {
		t.Error("Is should return true for same error")
	}

	if Is(ErrCancelled, ErrAuthFailed) {
		t.Error("Is should return false for different errors")
	}
}

func TestAs(t *testing.T) {
	cryptoErr := NewCryptoError("test", errors.New("test"))

	var target *CryptoError
	if !As(cryptoErr, &target) {
		t.Error("As should find CryptoError")
	}

	if target.Op != "test" {
		t.Errorf("unexpected Op: %s", target.Op)
	}
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base")
	wrapped := Wrap(baseErr, "context")

	if wrapped.Error() != "context: base" {
		t.Errorf("unexpected wrapped message: %s", wrapped.Error())
	}

	// Test with nil
	if Wrap(nil, "context") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestConvenienceFunctions(t *testing.T) {
	if !IsCancelled(ErrCancelled) {
		t.Error("IsCancelled should return true for ErrCancelled")
	}

	if IsCancelled(ErrAuthFailed) {
		t.Error("IsCancelled should return false for other errors")
	}

	if !IsAuthFailed(ErrAuthFailed) {
		t.Error("IsAuthFailed should return true for ErrAuthFailed")
	}

	if !IsInvalidContainer(ErrInvalidContainer) {
		t.Error("IsInvalidContainer should return true for ErrInvalidContainer")
	}

	if !IsInvalidContainer(ErrUnsupportedVersion) {
		t.Error("IsInvalidContainer should return true for ErrUnsupportedVersion")
	}
}
