package users

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashMethod = "pbkdf2:sha256"
	saltLength = 16
	keyLength  = 32
)

// Iterations is the PBKDF2 work factor for newly hashed passwords.
// Stored hashes carry their own count, so changing it never breaks logins.
var Iterations = 600000

var (
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrMalformedHash    = errors.New("malformed password hash")
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash encoded as
// "pbkdf2:sha256:<iterations>$<salt>$<hex key>".
func HashPassword(pw string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(pw), []byte(saltHex), Iterations, keyLength, sha256.New)
	return fmt.Sprintf("%s:%d$%s$%s", hashMethod, Iterations, saltHex, hex.EncodeToString(key)), nil
}

// CheckPassword returns nil when pw matches the encoded hash.
func CheckPassword(encoded, pw string) error {
	method, salt, want, ok := splitHash(encoded)
	if !ok {
		return ErrMalformedHash
	}
	iterStr, found := strings.CutPrefix(method, hashMethod+":")
	if !found {
		return ErrMalformedHash
	}
	iter, err := strconv.Atoi(iterStr)
	if err != nil || iter <= 0 {
		return ErrMalformedHash
	}
	wantKey, err := hex.DecodeString(want)
	if err != nil {
		return ErrMalformedHash
	}

	got := pbkdf2.Key([]byte(pw), []byte(salt), iter, len(wantKey), sha256.New)
	if subtle.ConstantTimeCompare(got, wantKey) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

func splitHash(encoded string) (method, salt, key string, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}
