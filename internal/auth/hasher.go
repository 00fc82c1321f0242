package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted one-way digest of plaintext. Each call
// salts independently, so two hashes of the same password differ and must
// be compared through VerifyPassword.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks plaintext against a stored hash in constant time.
// A corrupted or unparsable hash fails closed: the function returns false
// rather than surfacing an error to the request.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
