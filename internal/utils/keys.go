package utils

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key purposes derived from the root SESSION_SECRET.  Each purpose yields an
// independent 32-byte HMAC key so a session cookie can never be replayed as
// a device token and vice versa.
const (
	PurposeSessionCookie = "door-access-admin/session-cookie"
	PurposeDeviceToken   = "door-access-admin/device-token"
)

// DeriveKey expands secret into a 32-byte key bound to purpose.
func DeriveKey(secret, purpose string) []byte {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		// HKDF-SHA256 can produce up to 8160 bytes; 32 never fails.
		panic("hkdf: " + err.Error())
	}
	return key
}
