// Package cryptoops implements the Password and RSA hybrid ciphers used to
// seal and open jcz containers, plus the key-material zeroing discipline
// shared by both.
package cryptoops

import "crypto/subtle"

// SecureZero overwrites a byte slice with zeros to reduce the window
// during which key material is recoverable from a memory dump.
//
// Due to the garbage collector and compiler optimizations this cannot
// guarantee complete erasure, but subtle.ConstantTimeCopy prevents the
// zeroing from being optimized away as a dead store.
func SecureZero(b []byte) {
	if len(b) == 0 {
		return
	}
	zeros := make([]byte, len(b))
	subtle.ConstantTimeCopy(1, b, zeros)
}

// SecureZeroMultiple zeros several byte slices in one call.
func SecureZeroMultiple(slices ...[]byte) {
	for _, s := range slices {
		SecureZero(s)
	}
}

// CryptoContext holds every sensitive buffer touched by one encrypt or
// decrypt call. Close zeros all of them; every cipher operation defers
// Close immediately after the context is populated.
type CryptoContext struct {
	Password   []byte
	DerivedKey []byte
	DataKey    []byte
	closed     bool
}

// Close securely zeros all cryptographic materials. Idempotent.
func (cc *CryptoContext) Close() {
	if cc.closed {
		return
	}
	SecureZeroMultiple(cc.Password, cc.DerivedKey, cc.DataKey)
	cc.Password = nil
	cc.DerivedKey = nil
	cc.DataKey = nil
	cc.closed = true
}
