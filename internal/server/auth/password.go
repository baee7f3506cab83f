package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost matches the work factor the deployed system was provisioned
// with. Raising it invalidates no existing hashes (cost is embedded in the
// digest) but slows registration and login.
const bcryptCost = 10

// HashPassword derives a salted bcrypt digest from the plaintext password.
// Every call produces a different digest for the same input.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored digest.
// Malformed digests are treated as a mismatch, never an error; the
// underlying comparison is timing-safe.
func CheckPassword(password string, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
