// Package authutil holds credential rules shared by the login endpoint, the
// admin seeder and the ddadmin client.
package authutil

import (
	"errors"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/normalize"
)

// ErrInvalidCredentials is the only failure a login caller ever sees for a
// wrong email, wrong password or disabled account.
var ErrInvalidCredentials = errors.New("Invalid email or password.")

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Normalized returns in with the email trimmed and lowercased.
func (in LoginInput) Normalized() LoginInput {
	in.Email = normalize.Email(in.Email)
	return in
}

// ValidateLogin checks the shape of a login attempt without touching storage.
// It returns nil when both fields look usable.
func ValidateLogin(in LoginInput) map[string]string {
	errs := map[string]string{}
	switch {
	case normalize.Email(in.Email) == "":
		errs["email"] = "Email is required"
	case !formguard.ValidEmail(in.Email):
		errs["email"] = "Please enter a valid email address"
	}
	switch {
	case in.Password == "":
		errs["password"] = "Password is required"
	case len(in.Password) < MinPasswordLength:
		errs["password"] = ErrPasswordTooShort.Error()
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
