// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid token format")
)

const voterTokenBytes = 24

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewRecordID returns a UUIDv4 for rows that are never addressed by URL
// (vote rows, result snapshots).
func NewRecordID() string {
	return uuid.NewString()
}

func sign(message, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(message))
	return h.Sum(nil)
}

// GenerateAdminKey derives the admin key for a session. It is deterministic,
// so the key never has to be stored.
func GenerateAdminKey(sessionID, salt string) string {
	return base64.RawURLEncoding.EncodeToString(sign("admin:"+sessionID, salt))
}

// ValidateAdminKey checks if the provided admin key is valid for the session
func ValidateAdminKey(sessionID, adminKey, salt string) error {
	expected := GenerateAdminKey(sessionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// GenerateVoterToken creates a random 192-bit voter secret, URL-safe base64
// without padding.
func GenerateVoterToken() (string, error) {
	b := make([]byte, voterTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// CheckVoterToken rejects values that could not have come from
// GenerateVoterToken, before any database lookup.
func CheckVoterToken(token string) error {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(b) != voterTokenBytes {
		return ErrInvalidToken
	}
	return nil
}

// GenerateShareSlug creates a short, deterministic base62 slug for a session
func GenerateShareSlug(sessionID, salt string) string {
	sum := sign("slug:"+sessionID, salt)
	return base62Encode(sum[:8])
}

const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// base62Encode encodes up to the first 8 bytes of data as an unsigned integer.
func base62Encode(data []byte) string {
	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}
	if num == 0 {
		return "0"
	}

	var buf [11]byte // 62^11 > 2^64
	pos := len(buf)
	for num > 0 {
		pos--
		buf[pos] = base62Chars[num%62]
		num /= 62
	}
	return string(buf[pos:])
}

// HashIP returns a salted 64-bit hex digest of an IP address
func HashIP(ip, salt string) string {
	return hex.EncodeToString(sign(ip, salt)[:8])
}
