package hasher

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/mkarsten/tablehost/internal/model"
)

// Hasher is a one-way password hashing service. There is no reverse
// operation; Verify is the only way to check a raw password against a hash.
type Hasher interface {
	Hash(rawPassword string) (model.PasswordHash, error)
	Verify(rawPassword string, hash model.PasswordHash) bool
}

// Bcrypt implements Hasher using golang.org/x/crypto/bcrypt
type Bcrypt struct {
	cost int
}

// New creates a Bcrypt hasher with the default cost
func New() *Bcrypt {
	return &Bcrypt{cost: bcrypt.DefaultCost}
}

// NewWithCost creates a Bcrypt hasher with an explicit cost. Tests use
// bcrypt.MinCost to keep hashing fast.
func NewWithCost(cost int) *Bcrypt {
	return &Bcrypt{cost: cost}
}

var _ Hasher = (*Bcrypt)(nil)

// Hash derives a one-way hash from the raw password
func (b *Bcrypt) Hash(rawPassword string) (model.PasswordHash, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), b.cost)
	if err != nil {
		return "", err
	}
	return model.PasswordHash(hash), nil
}

// Verify reports whether the raw password matches the hash
func (b *Bcrypt) Verify(rawPassword string, hash model.PasswordHash) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}
