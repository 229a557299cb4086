// Package cryptox hashes and verifies user passwords.
//
// New hashes are bcrypt. Stores created by earlier releases hold unsalted
// SHA-256 hex digests; those still verify and report NeedsRehash so callers
// can upgrade them after a successful login.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor for new hashes. Tests lower it.
var BcryptCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt hash of password.
func HashPassword(password []byte) (string, error) {
	h, err := bcrypt.GenerateFromPassword(password, BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// LegacyDigest returns the unsalted SHA-256 hex digest used by old stores.
func LegacyDigest(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

func isLegacy(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

// VerifyPassword reports whether password matches hash. An empty hash never
// matches.
func VerifyPassword(hash string, password []byte) (bool, error) {
	switch {
	case hash == "":
		return false, nil
	case isLegacy(hash):
		want := LegacyDigest(password)
		return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(want)) == 1, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), password)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// NeedsRehash reports whether hash should be replaced by a fresh bcrypt hash.
func NeedsRehash(hash string) bool {
	if hash == "" {
		return false
	}
	if isLegacy(hash) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(hash))
	return err != nil || cost < BcryptCost
}
