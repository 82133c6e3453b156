package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStore_GetPrefersEnvForToken(t *testing.T) {
	t.Setenv(EnvAuthToken, "env-token")

	underlying := NewMockStore().WithData(ServiceName, KeyAuthToken, "keyring-token")
	store := NewEnvStore(underlying)

	got, err := store.Get(ServiceName, KeyAuthToken)

	require.NoError(t, err)
	assert.Equal(t, "env-token", got)
}

func TestEnvStore_GetFallsBackToUnderlying(t *testing.T) {
	t.Setenv(EnvAuthToken, "")

	underlying := NewMockStore().WithData(ServiceName, KeyAuthToken, "keyring-token")
	store := NewEnvStore(underlying)

	got, err := store.Get(ServiceName, KeyAuthToken)

	require.NoError(t, err)
	assert.Equal(t, "keyring-token", got)
}

func TestEnvStore_GetOtherKeysIgnoreEnv(t *testing.T) {
	t.Setenv(EnvAuthToken, "env-token")

	underlying := NewMockStore()
	store := NewEnvStore(underlying)

	_, err := store.Get(ServiceName, "other_key")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnvStore_SetAndDeletePassThrough(t *testing.T) {
	underlying := NewMockStore()
	store := NewEnvStore(underlying)

	require.NoError(t, store.Set(ServiceName, KeyAuthToken, "value"))

	got, err := underlying.Get(ServiceName, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, store.Delete(ServiceName, KeyAuthToken))
	_, err = underlying.Get(ServiceName, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_RoundTrip(t *testing.T) {
	store := NewMockStore()

	_, err := store.Get(ServiceName, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ServiceName, KeyAuthToken, "abc"))

	got, err := store.Get(ServiceName, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, store.Delete(ServiceName, KeyAuthToken))
	_, err = store.Get(ServiceName, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMockStore_ConfiguredErrors(t *testing.T) {
	boom := errors.New("boom")

	store := NewMockStore().WithGetError(boom)
	_, err := store.Get(ServiceName, KeyAuthToken)
	assert.ErrorIs(t, err, boom)

	store = NewMockStore().WithSetError(boom)
	assert.ErrorIs(t, store.Set(ServiceName, KeyAuthToken, "x"), boom)

	store = NewMockStore().WithDeleteError(boom)
	assert.ErrorIs(t, store.Delete(ServiceName, KeyAuthToken), boom)
}
