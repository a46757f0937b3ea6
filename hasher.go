package quadauth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash of password. The salt is
// generated per call and embedded in the output, so nothing beyond the
// hash needs storing.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt
// hash. Any mismatch, including a malformed or empty hash, is a plain
// false; callers never see an error from this path.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
