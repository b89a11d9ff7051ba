package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	prodURL = "https://mate.academy/students-api"
	devURL  = "http://localhost:8080"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".tada")
	prev := Dir
	Dir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { Dir = prev })
	t.Setenv(EnvVar, "")
	return dir
}

func freezeClock(t *testing.T, at time.Time) *time.Time {
	t.Helper()
	clock := at
	prev := now
	now = func() time.Time { return clock }
	t.Cleanup(func() { now = prev })
	return &clock
}

func TestEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://mate.academy/students-api":  prodURL,
		"HTTPS://Mate.Academy/students-api/": prodURL,
		" http://localhost:8080 ":            devURL,
		"http://localhost:8080/":             devURL,
	}
	for in, want := range cases {
		got, err := Endpoint(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Endpoint("/todos")
	assert.Error(t, err)
}

func TestSaveLookupForget(t *testing.T) {
	dir := useTempDir(t)

	tok, err := Lookup(prodURL)
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, Save(prodURL+"/", "Bearer abc.def", 0))
	st, err := os.Stat(filepath.Join(dir, credFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	tok, err = Lookup(prodURL)
	require.NoError(t, err)
	require.NotNil(t, tok)
	assert.Equal(t, "abc.def", tok.Value)
	assert.Equal(t, "file", tok.Source)
	assert.Equal(t, prodURL, tok.Endpoint)
	assert.Nil(t, tok.ExpiresAt)
	assert.Equal(t, "abc.def", Bearer(prodURL))

	require.NoError(t, Forget(prodURL))
	require.NoError(t, Forget(prodURL), "forgetting twice is fine")
	assert.Empty(t, Bearer(prodURL))
	_, err = os.Stat(filepath.Join(dir, credFileName))
	assert.True(t, os.IsNotExist(err), "the file goes away with the last token")
}

func TestTokensAreScopedToEndpoint(t *testing.T) {
	useTempDir(t)

	require.NoError(t, Save(prodURL, "prod-token", 0))
	assert.Empty(t, Bearer(devURL))

	require.NoError(t, Save(devURL, "dev-token", 0))
	assert.Equal(t, "prod-token", Bearer(prodURL))
	assert.Equal(t, "dev-token", Bearer(devURL))

	eps, err := Endpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{devURL, prodURL}, eps)

	require.NoError(t, Forget(devURL))
	assert.Equal(t, "prod-token", Bearer(prodURL))
}

func TestExpiredTokenIsNotSent(t *testing.T) {
	useTempDir(t)
	clock := freezeClock(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	require.NoError(t, Save(prodURL, "short-lived", time.Hour))
	tok, err := Lookup(prodURL)
	require.NoError(t, err)
	require.NotNil(t, tok.ExpiresAt)
	assert.Equal(t, clock.Add(time.Hour), *tok.ExpiresAt)

	*clock = clock.Add(time.Hour)
	tok, err = Lookup(prodURL)
	assert.ErrorIs(t, err, ErrExpired)
	require.NotNil(t, tok)
	assert.Equal(t, "short-lived", tok.Value)
	assert.Empty(t, Bearer(prodURL))
}

func TestEnvOverridesFile(t *testing.T) {
	useTempDir(t)
	require.NoError(t, Save(prodURL, "from-file", 0))
	t.Setenv(EnvVar, "bearer from-env")

	tok, err := Lookup(prodURL)
	require.NoError(t, err)
	assert.Equal(t, "from-env", tok.Value)
	assert.Equal(t, "env", tok.Source)
	assert.Equal(t, "from-env", Bearer(devURL), "the override applies to every endpoint")
}

func TestSaveRejectsBadInput(t *testing.T) {
	useTempDir(t)
	assert.Error(t, Save(prodURL, "   ", 0))
	assert.Error(t, Save(prodURL, "tok", -time.Second))
	assert.Error(t, Save("not a url", "tok", 0))
}
