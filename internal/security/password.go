package security

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a salted bcrypt hash from a plaintext password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a stored bcrypt hash against a plaintext candidate.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
