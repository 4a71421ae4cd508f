// Package cryptox implements the credential codec: salt generation, the
// salted password digest and simulated one-time codes.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/cloudvault/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the salt length in bytes (128 bits).
	SaltSize = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32

	oneTimeCodeDigits = 6
)

// DeriveSalt returns a fresh hex-encoded salt of SaltSize random bytes.
func DeriveSalt() (string, error) {
	return common.MakeRandHexString(SaltSize)
}

// Digest derives the stored password digest from salt and password using
// Argon2id. Same inputs always give the same hex string.
func Digest(salt, password string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key)
}

// VerifyDigest recomputes the digest of password and compares it with the
// stored one in constant time.
func VerifyDigest(salt, password, digest string) bool {
	candidate := Digest(salt, password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// GenerateOneTimeCode returns a random six-digit decimal code.
func GenerateOneTimeCode() (string, error) {
	limit := big.NewInt(1_000_000)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", oneTimeCodeDigits, n.Int64()), nil
}
