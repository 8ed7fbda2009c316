// Copyright (c) 2025 Olga Voronina
// Health Diary - personal health metrics tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package auth implements credential hashing and the login/session state
// machine. Passwords are never stored in plaintext: the stored token is
// hex(salt) followed by hex(PBKDF2-HMAC-SHA256 key).
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 32
	keyLen     = 32
	iterations = 100000
	// hex chars occupied by the salt at the front of a stored token.
	saltHexLen = saltLen * 2
)

// HashPassword derives a salted password token. The result is 128 hex
// characters: 64 of salt followed by 64 of derived key.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	return hex.EncodeToString(salt) + hex.EncodeToString(key), nil
}

// VerifyPassword checks a password against a stored token.
//
// Tokens of 64 hex characters or fewer predate the salted format and are
// compared directly; this keeps accounts created before the PBKDF2 switch
// working. Undecodable tokens fall back to the same plain comparison.
func VerifyPassword(password, stored string) bool {
	if len(stored) <= saltHexLen {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
	salt, err := hex.DecodeString(stored[:saltHexLen])
	if err != nil {
		return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
	}
	key := pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
	computed := hex.EncodeToString(key)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored[saltHexLen:])) == 1
}
