package security

import "golang.org/x/crypto/bcrypt"

// DefaultCost matches the work factor the mobile clients were tuned against.
const DefaultCost = 10

// HashPassword hashes a plain text password with bcrypt. The salt is
// embedded in the output, so hashing the same input twice yields two
// different storable credentials.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash with a plaintext attempt.
// A malformed stored hash comes back as a mismatch error, never a panic,
// so callers can treat any non-nil result as "no match".
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
