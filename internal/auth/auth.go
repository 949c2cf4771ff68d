// Package auth checks the shared operator credential.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the id or password does not match
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginErrorMessage is shown to the operator after a failed login
const LoginErrorMessage = "아이디 또는 비밀번호가 올바르지 않아요"

// Credentials is the single operator account
type Credentials struct {
	id   []byte
	hash []byte
}

// NewCredentials builds the operator account. passwordHash is a bcrypt hash
// and wins over password, a legacy plaintext value that is hashed here.
func NewCredentials(id, password, passwordHash string) (*Credentials, error) {
	if id == "" {
		return nil, errors.New("admin id is required")
	}

	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &Credentials{id: []byte(id), hash: []byte(passwordHash)}, nil
	}

	if password == "" {
		return nil, errors.New("admin password or password hash is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Credentials{id: []byte(id), hash: []byte(hash)}, nil
}

// HashPassword returns the bcrypt hash to put in admin_password_hash
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether id and password match the operator account
func (c *Credentials) Verify(id, password string) error {
	idOK := subtle.ConstantTimeCompare([]byte(id), c.id) == 1
	pwErr := bcrypt.CompareHashAndPassword(c.hash, []byte(password))
	if !idOK || pwErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}
