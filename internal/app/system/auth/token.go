package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// Token errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

const tokenName = "ddsite-token"

// Claims are the signed contents of a bearer token.
type Claims struct {
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JTI      string `json:"jti"`
	IssuedAt int64  `json:"iat"`
}

// TokenIssuer signs and verifies admin bearer tokens. Tokens are
// HMAC-signed and timestamped by securecookie; they are not encrypted.
type TokenIssuer struct {
	sc     *securecookie.SecureCookie
	maxAge time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer whose tokens live for maxAge. Key rules
// match NewSessionManager.
func NewTokenIssuer(key string, maxAge time.Duration, secure bool, logger *zap.Logger) (*TokenIssuer, error) {
	if err := checkKey("token", key, secure, logger); err != nil {
		return nil, err
	}
	if maxAge <= 0 {
		maxAge = 12 * time.Hour
	}
	sc := securecookie.New([]byte(key), nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(maxAge.Seconds()))
	return &TokenIssuer{sc: sc, maxAge: maxAge, now: time.Now}, nil
}

// MaxAge returns the token lifetime.
func (ti *TokenIssuer) MaxAge() time.Duration { return ti.maxAge }

// Issue signs a token for u and returns it with its expiry.
func (ti *TokenIssuer) Issue(u *SessionUser) (string, time.Time, error) {
	now := ti.now()
	c := Claims{
		Sub:      u.ID,
		Email:    u.Email,
		Role:     u.Role,
		JTI:      uuid.NewString(),
		IssuedAt: now.Unix(),
	}
	tok, err := ti.sc.Encode(tokenName, c)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, now.Add(ti.maxAge).UTC(), nil
}

// Verify checks the signature and age of tok.
func (ti *TokenIssuer) Verify(tok string) (*Claims, error) {
	var c Claims
	if err := ti.sc.Decode(tokenName, tok, &c); err != nil {
		if t, _ := classifySessionError(err); t == sessionErrExpired {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if c.Sub == "" || c.IssuedAt == 0 {
		return nil, ErrInvalidToken
	}
	if ti.now().Sub(time.Unix(c.IssuedAt, 0)) > ti.maxAge {
		return nil, ErrExpiredToken
	}
	return &c, nil
}
