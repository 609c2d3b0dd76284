package authutil

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
	BcryptCost       = 12
)

var (
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters.")
	ErrPasswordTooLong  = errors.New("Password must be at most 72 bytes.")
	ErrPasswordCommon   = errors.New("This password is too easy to guess.")
	ErrPasswordIsEmail  = errors.New("Password must not contain the account email.")
)

// guessable holds passwords an attacker tries first against an admin panel.
var guessable = map[string]struct{}{
	"123456": {}, "1234567": {}, "12345678": {}, "123456789": {},
	"111111": {}, "000000": {}, "654321": {}, "abc123": {},
	"password": {}, "password1": {}, "passw0rd": {}, "qwerty": {},
	"qwerty123": {}, "letmein": {}, "welcome": {}, "changeme": {},
	"admin": {}, "admin123": {}, "administrator": {}, "root": {},
	"dd-admin": {}, "duediligence": {}, "diligence": {},
}

// ValidatePassword checks an admin password. email may be empty; when set,
// the password may not contain the address or its local part.
func ValidatePassword(password, email string) error {
	switch {
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	lower := strings.ToLower(password)
	if _, bad := guessable[lower]; bad {
		return ErrPasswordCommon
	}
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		local, _, _ := strings.Cut(email, "@")
		if strings.Contains(lower, email) || (len(local) >= 3 && strings.Contains(lower, local)) {
			return ErrPasswordIsEmail
		}
	}
	return nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether hash was made with a lower cost than
// BcryptCost. Login upgrades such hashes after a successful check.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost < BcryptCost
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare spends the same bcrypt work as CheckPassword without a real
// hash. Login calls it for unknown or disabled accounts so response time does
// not reveal which emails exist.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
