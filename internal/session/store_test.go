package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocktracker/stocktracker-cli/internal/api"
	"github.com/stocktracker/stocktracker-cli/internal/keyring"
	"github.com/stocktracker/stocktracker-cli/internal/logging"
)

// newTestStore builds a session store against the given server without any
// persisted token.
func newTestStore(t *testing.T, serverURL string) (*Store, *keyring.MockStore) {
	t.Helper()
	secrets := keyring.NewMockStore()
	client := api.NewClient(serverURL, nil)
	store := New(context.Background(), client, secrets, logging.NewSilent())
	return store, secrets
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		case "/users/me":
			assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"id":"1","name":"T","email":"t@t.com"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	store, secrets := newTestStore(t, server.URL)

	err := store.Login(context.Background(), "t@t.com", "p")

	require.NoError(t, err)
	assert.True(t, store.IsLoggedIn())
	assert.Equal(t, "abc", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, "T", store.User().Name)

	persisted, err := secrets.Get(keyring.ServiceName, keyring.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", persisted)
}

func TestLogin_RejectedWithServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	store, secrets := newTestStore(t, server.URL)

	err := store.Login(context.Background(), "t@t.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.False(t, store.IsLoggedIn())
	assert.Nil(t, store.User())

	// Nothing persisted on failure
	_, err = secrets.Get(keyring.ServiceName, keyring.KeyAuthToken)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestLogin_RejectedWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, server.URL)

	err := store.Login(context.Background(), "t@t.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Login fehlgeschlagen", err.Error())
}

func TestLogin_TransportError(t *testing.T) {
	store, _ := newTestStore(t, "http://localhost:99999")

	err := store.Login(context.Background(), "t@t.com", "p")

	assert.Error(t, err)
	assert.False(t, store.IsLoggedIn())
}

func TestLogout_ClearsEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		case "/users/me":
			_, _ = w.Write([]byte(`{"id":"1","name":"T","email":"t@t.com"}`))
		}
	}))
	defer server.Close()

	store, secrets := newTestStore(t, server.URL)
	require.NoError(t, store.Login(context.Background(), "t@t.com", "p"))

	store.Logout()

	assert.False(t, store.IsLoggedIn())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	_, err := secrets.Get(keyring.ServiceName, keyring.KeyAuthToken)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestRestore_ValidPersistedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/me", r.URL.Path)
		assert.Equal(t, "Bearer persisted", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","name":"T","email":"t@t.com"}`))
	}))
	defer server.Close()

	secrets := keyring.NewMockStore().WithData(keyring.ServiceName, keyring.KeyAuthToken, "persisted")
	client := api.NewClient(server.URL, nil)

	store := New(context.Background(), client, secrets, logging.NewSilent())

	assert.True(t, store.IsLoggedIn())
	require.NotNil(t, store.User())
	assert.Equal(t, "T", store.User().Name)
}

func TestRestore_InvalidPersistedToken(t *testing.T) {
	// A rejected restore must deauthenticate silently, clearing the
	// persisted token too.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer server.Close()

	secrets := keyring.NewMockStore().WithData(keyring.ServiceName, keyring.KeyAuthToken, "stale")
	client := api.NewClient(server.URL, nil)

	store := New(context.Background(), client, secrets, logging.NewSilent())

	assert.False(t, store.IsLoggedIn())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	_, err := secrets.Get(keyring.ServiceName, keyring.KeyAuthToken)
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestRestore_NoPersistedToken(t *testing.T) {
	// No network traffic without a token
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	store, _ := newTestStore(t, server.URL)

	assert.False(t, store.IsLoggedIn())
	assert.False(t, called)
}

func TestFetchUser_WithoutTokenIsNoop(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	store, _ := newTestStore(t, server.URL)
	store.FetchUser(context.Background())

	assert.False(t, called)
}

func TestStore_IsClientTokenProvider(t *testing.T) {
	// The store registers itself as the client's token provider so every
	// API call carries the session token.
	var receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		case "/users/me":
			_, _ = w.Write([]byte(`{"id":"1","email":"t@t.com"}`))
		default:
			receivedAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	secrets := keyring.NewMockStore()
	client := api.NewClient(server.URL, nil)
	store := New(context.Background(), client, secrets, logging.NewSilent())
	require.NoError(t, store.Login(context.Background(), "t@t.com", "p"))

	resp, err := client.Get(context.Background(), "/portfolios")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "Bearer abc", receivedAuth)
}

func TestSubscribe_NotifiedOnChange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			_, _ = w.Write([]byte(`{"token":"abc"}`))
		case "/users/me":
			_, _ = w.Write([]byte(`{"id":"1","email":"t@t.com"}`))
		}
	}))
	defer server.Close()

	store, _ := newTestStore(t, server.URL)

	notified := 0
	store.Subscribe(func() { notified++ })

	require.NoError(t, store.Login(context.Background(), "t@t.com", "p"))
	assert.Greater(t, notified, 0)

	before := notified
	store.Logout()
	assert.Greater(t, notified, before)
}

func TestRegister(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/register", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"9","name":"Jane","email":"jane@example.com"}`))
	}))
	defer server.Close()

	store, _ := newTestStore(t, server.URL)

	user, err := store.Register(context.Background(), "Jane", "jane@example.com", "pw")

	require.NoError(t, err)
	assert.Equal(t, "9", user.ID)
	// Registration does not log in
	assert.False(t, store.IsLoggedIn())
}
