package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns passwords into stored credential digests and checks
// candidates against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// NewPasswordHasher returns the hasher for a configured scheme ("bcrypt" or "md5").
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case "bcrypt":
		return BcryptHasher{Cost: bcrypt.DefaultCost}, nil
	case "md5":
		return MD5Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// BcryptHasher stores salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comparing password: %w", err)
	}
	return true, nil
}

// MD5Hasher stores unsalted hex MD5 digests. It exists only to keep accounts
// created by the legacy system able to log in; it is not fit for new deployments.
type MD5Hasher struct{}

func (MD5Hasher) Hash(password string) (string, error) {
	sum := md5.Sum([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h MD5Hasher) Verify(hash, password string) (bool, error) {
	candidate, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1, nil
}
