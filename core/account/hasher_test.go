package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lowkey/studybuddy/core"
)

func TestSHA256Hasher(t *testing.T) {
	h := SHA256Hasher{}

	got, err := h.Hash("abc")
	require.NoError(t, err)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", got)

	again, _ := h.Hash("abc")
	assert.Equal(t, got, again, "hash must be deterministic")

	assert.True(t, h.Verify("abc", got))
	assert.False(t, h.Verify("abd", got))
	assert.False(t, h.Verify("abc", ""))
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, h.Verify("s3cret", hash))
	assert.False(t, h.Verify("s3cre", hash))
	assert.False(t, h.Verify("s3cret", "not-a-bcrypt-hash"))
}

func TestNewHasher(t *testing.T) {
	assert.IsType(t, SHA256Hasher{}, NewHasher(core.SecurityConfig{PasswordHasher: "sha256"}))
	assert.Equal(t, BcryptHasher{Cost: 5}, NewHasher(core.SecurityConfig{PasswordHasher: "bcrypt", BcryptCost: 5}))
}

func TestDecoy(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	d := NewDecoy(h)

	cost, err := bcrypt.Cost([]byte(d.hash))
	require.NoError(t, err, "decoy must be a real hash")
	assert.Equal(t, bcrypt.MinCost, cost)
	d.Verify("anything")
}
