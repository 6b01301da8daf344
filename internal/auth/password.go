// Package auth derives and verifies salted password hashes for account
// credentials. The derivation parameters are fixed: callers must not
// assume the work factor is tunable.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes  = 16
	iterations = 1000
	keyBytes   = 64
)

// ErrInvalidCredential is returned when a password does not match the
// stored hash.
var ErrInvalidCredential = errors.New("invalid credential")

// Register derives a hash for a new password. It generates a fresh random
// salt; both the hash and the salt are hex encoded.
func Register(rawPassword string) (hash, salt string, err error) {
	salt, err = newSalt()
	if err != nil {
		return "", "", err
	}
	return derive(rawPassword, salt), salt, nil
}

// Verify reports whether rawPassword, derived with the stored salt,
// matches expectedHash.
func Verify(rawPassword, salt, expectedHash string) bool {
	derived := derive(rawPassword, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(expectedHash)) == 1
}

// ChangePassword verifies the old password and, on success, derives a hash
// for the new one under a fresh salt. Salts are never reused across a
// password change.
func ChangePassword(oldRaw, newRaw, salt, expectedHash string) (newHash, freshSalt string, err error) {
	if !Verify(oldRaw, salt, expectedHash) {
		return "", "", ErrInvalidCredential
	}
	freshSalt, err = newSalt()
	if err != nil {
		return "", "", err
	}
	return derive(newRaw, freshSalt), freshSalt, nil
}

func newSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func derive(rawPassword, salt string) string {
	key := pbkdf2.Key([]byte(rawPassword), []byte(salt), iterations, keyBytes, sha512.New)
	return hex.EncodeToString(key)
}
