// Package auth handles credential hashing for user records.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashCredential hashes a plain text credential using bcrypt.
func HashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckCredential reports whether the plain text credential matches the
// stored bcrypt hash.
func CheckCredential(hashedCredential, credential string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCredential), []byte(credential))
}

// dummyHash is a throwaway hash at the same cost as stored credentials.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("medisave"), bcrypt.DefaultCost)

// DummyCheck burns a full bcrypt comparison. Failure paths with no stored
// hash call it so an unknown identifier costs the same as a credential
// mismatch.
func DummyCheck(credential string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(credential))
}
