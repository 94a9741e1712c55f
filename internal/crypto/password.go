package crypto

import "golang.org/x/crypto/bcrypt"

// DummyHash is compared against when a login email matches no account,
// so unknown-user and wrong-password take the same path and cost. The
// compare result is discarded on that path; the hash only has to be a
// well-formed bcrypt value.
const DummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
