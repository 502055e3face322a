// Package password hashes and verifies user passwords.
//
// New hashes use the configured algorithm. Verification recognises every
// supported encoding, so switching the algorithm keeps existing accounts
// working.
package password

import (
	"strings"

	"github.com/dtroode/postboard-server/internal/model"
)

// Hasher hashes with one algorithm and verifies any supported encoding.
type Hasher struct {
	primary scheme
	bcrypt  *Bcrypt
	argon2  *Argon2id
}

type scheme interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

var _ model.PasswordHasher = (*Hasher)(nil)

// NewBcryptHasher hashes new passwords with bcrypt at the given cost.
func NewBcryptHasher(cost int) *Hasher {
	b := NewBcrypt(cost)
	return &Hasher{primary: b, bcrypt: b, argon2: NewArgon2id(nil)}
}

// NewArgon2idHasher hashes new passwords with argon2id.
func NewArgon2idHasher(params *Argon2Params) *Hasher {
	a := NewArgon2id(params)
	return &Hasher{primary: a, bcrypt: NewBcrypt(0), argon2: a}
}

// Hash returns a salted hash of password.
func (h *Hasher) Hash(password string) (string, error) {
	return h.primary.Hash(password)
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (h *Hasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, argon2Prefix):
		return h.argon2.Verify(password, hash)
	case strings.HasPrefix(hash, "$2"):
		return h.bcrypt.Verify(password, hash)
	default:
		return false
	}
}
