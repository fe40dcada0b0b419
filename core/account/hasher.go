package account

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	"github.com/lowkey/studybuddy/core"
)

// Hasher turns plaintext passwords into one-way digests and verifies them.
type Hasher interface {
	Hash(pwd string) (string, error)
	Verify(pwd, hash string) bool
}

// SHA256Hasher produces the lowercase hex SHA-256 digest of the password's UTF-8 bytes.
// Digests are deterministic, so records written by earlier runs stay verifiable.
type SHA256Hasher struct{}

var _ Hasher = SHA256Hasher{}

func (SHA256Hasher) Hash(pwd string) (string, error) {
	sum := sha256.Sum256([]byte(pwd))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(pwd, hash string) bool {
	got, _ := h.Hash(pwd)
	return subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
}

// BcryptHasher produces salted bcrypt hashes.
type BcryptHasher struct {
	Cost int
}

var _ Hasher = BcryptHasher{}

func (h BcryptHasher) Hash(pwd string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(pwd, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) == nil
}

// NewHasher returns the Hasher selected by conf.
func NewHasher(conf core.SecurityConfig) Hasher {
	if conf.PasswordHasher == "bcrypt" {
		return BcryptHasher{Cost: conf.BcryptCost}
	}
	return SHA256Hasher{}
}

const decoyPassword = "studybuddy-decoy"

// Decoy stands in for the hash of an account that does not exist. Verify discards its
// result and costs the same as a verification against a real hash of the same Hasher.
type Decoy struct {
	hasher Hasher
	hash   string
}

func NewDecoy(h Hasher) *Decoy {
	hash, _ := h.Hash(decoyPassword)
	return &Decoy{hasher: h, hash: hash}
}

func (d *Decoy) Verify(pwd string) {
	_ = d.hasher.Verify(pwd, d.hash)
}
