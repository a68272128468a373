// Package hasher wraps the password-hashing capability behind a small type so
// the service layer depends on hash/verify, not on bcrypt directly.
package hasher

import "golang.org/x/crypto/bcrypt"

// Hasher produces and checks bcrypt digests.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given bcrypt cost; zero or out-of-range values
// fall back to bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &Hasher{cost: cost}
}

// Hash returns the digest of a plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether the plaintext matches the stored digest.
func (h *Hasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
