package security

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost matches the work factor the account data was created
// with. Lower configured values are raised to this floor.
const DefaultBcryptCost = 12

func HashPassword(password string, cost int) (string, error) {
	if cost < DefaultBcryptCost {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a candidate against the stored hash. bcrypt's
// comparison is constant-time over the digest.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
