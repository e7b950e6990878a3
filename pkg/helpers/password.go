package helpers

import "golang.org/x/crypto/bcrypt"

// DummyPasswordHash is a bcrypt digest of a throwaway value, computed once
// at startup. Login compares against it when no account matches the email
// so that a lookup miss costs the same as a real password check.
var DummyPasswordHash = func() string {
	b, _ := bcrypt.GenerateFromPassword([]byte("habbit-dummy-password"), bcrypt.DefaultCost)
	return string(b)
}()

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password.
// Returns false on any malformed hash instead of failing.
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
