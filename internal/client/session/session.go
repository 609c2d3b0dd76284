// Package session is the admin client's sign-in state. The server checks
// every request; this gate only decides whether the client bothers to try.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/authutil"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/app/system/formguard"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/localstore"
)

// State of the gate.
type State string

const (
	Anonymous     State = "anonymous"
	Authenticated State = "authenticated"
)

// ErrNotAuthenticated is returned by Require while anonymous.
var ErrNotAuthenticated = errors.New("not signed in")

// Authenticator is the server side. *client.Client implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (client.LoginResult, error)
	Logout(ctx context.Context) error
	SetToken(tok string)
}

// Store is durable key/value storage. *localstore.Store implements it.
type Store interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
	Delete(key string) error
}

// Credentials is the persisted token.
type Credentials struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
}

// Gate tracks whether an admin token is held.
type Gate struct {
	auth  Authenticator
	store Store
	now   func() time.Time

	mu    sync.RWMutex
	creds Credentials
	state State
}

// New returns an anonymous Gate. Call Restore to pick up a saved token.
func New(auth Authenticator, store Store) *Gate {
	return &Gate{auth: auth, store: store, now: time.Now, state: Anonymous}
}

// Restore derives the state from the stored token without any network
// call. An expired token is dropped.
func (g *Gate) Restore() State {
	var c Credentials
	ok, err := g.store.Get(localstore.KeyToken, &c)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil || !ok || c.Token == "" {
		g.setAnonymous()
		return g.state
	}
	if !c.ExpiresAt.IsZero() && !g.now().Before(c.ExpiresAt) {
		_ = g.store.Delete(localstore.KeyToken)
		g.setAnonymous()
		return g.state
	}
	g.creds = c
	g.state = Authenticated
	g.auth.SetToken(c.Token)
	return g.state
}

// Login validates the credentials' shape locally, then signs in. Shape
// errors return *formguard.ValidationError without a network call.
func (g *Gate) Login(ctx context.Context, email, password string) error {
	in := authutil.LoginInput{Email: email, Password: password}.Normalized()
	if fields := authutil.ValidateLogin(in); fields != nil {
		return &formguard.ValidationError{Fields: fields}
	}

	res, err := g.auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		return err
	}
	c := Credentials{Token: res.Token, ExpiresAt: res.ExpiresAt, Role: res.Role, Email: in.Email}
	if res.User != nil {
		c.Name = res.User.Name
	}
	if err := g.store.Set(localstore.KeyToken, c); err != nil {
		return err
	}

	g.mu.Lock()
	g.creds = c
	g.state = Authenticated
	g.mu.Unlock()
	g.auth.SetToken(c.Token)
	return nil
}

// Logout forgets the token. The server call is best effort.
func (g *Gate) Logout(ctx context.Context) error {
	_ = g.auth.Logout(ctx)
	err := g.store.Delete(localstore.KeyToken)

	g.mu.Lock()
	g.setAnonymous()
	g.mu.Unlock()
	return err
}

// State reports the current state.
func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Current returns the held credentials.
func (g *Gate) Current() (Credentials, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.creds, g.state == Authenticated
}

// Require returns ErrNotAuthenticated unless a token is held.
func (g *Gate) Require() error {
	if g.State() != Authenticated {
		return ErrNotAuthenticated
	}
	return nil
}

// setAnonymous clears the in-memory state. Caller holds mu.
func (g *Gate) setAnonymous() {
	g.creds = Credentials{}
	g.state = Anonymous
	g.auth.SetToken("")
}
