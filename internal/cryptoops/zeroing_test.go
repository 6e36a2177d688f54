package cryptoops

import (
	"bytes"
	"testing"
)

func TestSecureZero(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	SecureZero(data)

	for i, b := range data {
		if b != 0 {
			t.Errorf("SecureZero: byte %d = %d; want 0", i, b)
		}
	}
}

func TestSecureZeroEmpty(t *testing.T) {
	SecureZero(nil)
	SecureZero([]byte{})
}

func TestSecureZeroLarge(t *testing.T) {
	data := make([]byte, 1024*1024)
	for i := range data {
		data[i] = byte(i % 256)
	}

	SecureZero(data)

	zeros := make([]byte, len(data))
	if !bytes.Equal(data, zeros) {
		t.Error("SecureZero did not zero all bytes in large buffer")
	}
}

func TestSecureZeroMultiple(t *testing.T) {
	slice1 := []byte{1, 2, 3}
	slice2 := []byte{4, 5, 6, 7}
	slice3 := []byte{8, 9}

	SecureZeroMultiple(slice1, slice2, slice3)

	for i, b := range slice1 {
		if b != 0 {
			t.Errorf("slice1[%d] = %d; want 0", i, b)
		}
	}
	for i, b := range slice2 {
		if b != 0 {
			t.Errorf("slice2[%d] = %d; want 0", i, b)
		}
	}
	for i, b := range slice3 {
		if b != 0 {
			t.Errorf("slice3[%d] = %d; want 0", i, b)
		}
	}
}

func TestSecureZeroMultipleEmpty(t *testing.T) {
	SecureZeroMultiple()
	SecureZeroMultiple(nil)
	SecureZeroMultiple(nil, []byte{}, nil)
}

func TestCryptoContext(t *testing.T) {
	cc := &CryptoContext{
		Password:   []byte{1, 2, 3, 4},
		DerivedKey: []byte{5, 6, 7, 8},
		DataKey:    []byte{9, 10, 11, 12},
	}

	passwordRef := cc.Password
	derivedRef := cc.DerivedKey
	dataKeyRef := cc.DataKey

	cc.Close()

	if cc.Password != nil {
		t.Error("Password should be nil after Close()")
	}
	if cc.DerivedKey != nil {
		t.Error("DerivedKey should be nil after Close()")
	}
	if cc.DataKey != nil {
		t.Error("DataKey should be nil after Close()")
	}

	zeros4 := make([]byte, 4)
	if !bytes.Equal(passwordRef, zeros4) {
		t.Error("Password data should be zeroed")
	}
	if !bytes.Equal(derivedRef, zeros4) {
		t.Error("DerivedKey data should be zeroed")
	}
	if !bytes.Equal(dataKeyRef, zeros4) {
		t.Error("DataKey data should be zeroed")
	}
}

func TestCryptoContextCloseIdempotent(t *testing.T) {
	cc := &CryptoContext{Password: []byte{1, 2, 3, 4}}

	cc.Close()
	cc.Close()
	cc.Close()
}

func TestCryptoContextNilFields(t *testing.T) {
	cc := &CryptoContext{}
	cc.Close()
}
