// Package session holds the authentication state of the CLI: the current
// session token and the user profile it belongs to.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
)

// loginFailedMsg is shown when the server rejects a login without
// supplying its own message.
const loginFailedMsg = "Login fehlgeschlagen"

// Store is the auth session store. It owns the token and user profile;
// readers go through the accessors and never mutate state directly. The
// invariant is that a user profile is only ever set while a token is set
// (a restore in flight may briefly hold a token without a profile, but
// converges to either both set or both cleared).
type Store struct {
	client  *api.Client
	secrets keyring.Store
	log     zerolog.Logger

	mu    sync.RWMutex
	token string
	user  *api.UserProfile
	subs  []func()
}

// New creates the session store and restores a persisted session. The
// token is read once from the secret store; if one exists, the user
// profile is fetched immediately; a rejected token deauthenticates
// silently. The store registers itself as the client's token provider,
// so every subsequent API call carries the current session token.
func New(ctx context.Context, client *api.Client, secrets keyring.Store, log zerolog.Logger) *Store {
	s := &Store{
		client:  client,
		secrets: secrets,
		log:     log,
	}
	client.TokenProvider = s

	token, err := secrets.Get(keyring.ServiceName, keyring.KeyAuthToken)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			log.Warn().Err(err).Msg("failed to read persisted token")
		}
		return s
	}
	if token != "" {
		s.token = token
		s.FetchUser(ctx)
	}

	return s
}

// Token returns the current session token, or "" when logged out.
// It satisfies api.TokenProvider.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the current user profile, or nil when not fetched.
func (s *Store) User() *api.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsLoggedIn reports whether a session token is present.
func (s *Store) IsLoggedIn() bool {
	return s.Token() != ""
}

// Subscribe registers a callback invoked after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn()
	}
}

// Login authenticates with the given credentials. On success the token is
// stored in memory and in the secret store, and the user profile is
// fetched. A rejection is returned as an error carrying the server's
// message (or a generic fallback); unlike every other store operation the
// failure is not converted to state, so the caller can surface it inline.
// On failure the session stays logged out and nothing is persisted.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.client.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	if resp.Token == "" {
		if resp.Error != "" {
			return errors.New(resp.Error)
		}
		return errors.New(loginFailedMsg)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.mu.Unlock()

	if err := s.secrets.Set(keyring.ServiceName, keyring.KeyAuthToken, resp.Token); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist session token")
	}
	s.notify()

	s.FetchUser(ctx)
	return nil
}

// Logout clears the in-memory session and removes the persisted token.
// It cannot fail; secret-store errors are only logged.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.secrets.Delete(keyring.ServiceName, keyring.KeyAuthToken); err != nil {
		s.log.Warn().Err(err).Msg("failed to remove persisted token")
	}
	s.notify()
}

// FetchUser loads the profile for the current token. Without a token it
// does nothing. Any failure, network or a token the server no longer
// accepts, logs the session out rather than leaving it half
// authenticated; the error is deliberately not surfaced.
func (s *Store) FetchUser(ctx context.Context) {
	if !s.IsLoggedIn() {
		return
	}

	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Fehler beim Abrufen der Benutzerdaten")
		s.Logout()
		return
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.notify()
}

// Register creates a new user account. It does not log the new user in;
// callers follow up with Login.
func (s *Store) Register(ctx context.Context, name, email, password string) (*api.UserProfile, error) {
	return s.client.Register(ctx, api.RegisterRequest{Name: name, Email: email, Password: password})
}
