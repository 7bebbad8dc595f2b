package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// GenerateCode returns a 6-digit one-time login code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", errors.New("Unable to generate code")
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode derives an argon2id hash of the code under a fresh random salt,
// encoded as salt.hash in base64 for storage.
func HashCode(code string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.New("Unable to create salt")
	}

	hash := argon2.IDKey([]byte(code), salt, 1, 64*1024, 4, 32)

	saltBase64 := base64.StdEncoding.EncodeToString(salt)
	hashBase64 := base64.StdEncoding.EncodeToString(hash)
	return fmt.Sprintf("%s.%s", saltBase64, hashBase64), nil
}

// CompareCode checks a submitted code against a stored salt.hash value in
// constant time.
func CompareCode(code, hashedCode string) error {
	parts := strings.Split(hashedCode, ".")
	if len(parts) != 2 {
		return errors.New("invalid format")
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return errors.New("invalid format")
	}
	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return errors.New("invalid format")
	}

	computed := argon2.IDKey([]byte(code), salt, 1, 64*1024, 4, 32)

	if len(hash) != len(computed) || subtle.ConstantTimeCompare(hash, computed) != 1 {
		return errors.New("Incorrect code")
	}
	return nil
}
