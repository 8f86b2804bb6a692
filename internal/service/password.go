package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a password into the form stored on the roster and
// checks a login attempt against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) bool
}

// PlainHasher stores passwords as given and compares them exactly. It keeps
// rosters written by earlier app versions readable and is the default.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return password, nil }

func (PlainHasher) Compare(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// BcryptHasher stores bcrypt hashes. Cost 0 means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("service.BcryptHasher.Hash: %w", err)
	}
	return string(b), nil
}

func (BcryptHasher) Compare(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// NewPasswordHasher returns the hasher registered under name: "plain" or "bcrypt".
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "", "plain":
		return PlainHasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("service.NewPasswordHasher: unknown hasher %q", name)
	}
}
