package jolt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shiftcall/internal/infrastructure/crypto"
	"github.com/example/shiftcall/internal/internaltypes"
)

func newTestJar(t *testing.T, secret byte) *CookieJar {
	t.Helper()
	hashKey, blockKey, err := crypto.DeriveCookieKeys(bytes.Repeat([]byte{secret}, 32))
	require.NoError(t, err)
	return NewCookieJar(filepath.Join(t.TempDir(), "cache", "session"), hashKey, blockKey, time.Hour)
}

func TestCookieJar_RoundTrip(t *testing.T) {
	jar := newTestJar(t, 1)

	_, err := jar.Load()
	require.ErrorIs(t, err, internaltypes.ErrNotFound)

	cookies := []Cookie{
		{Name: "sid", Value: "abc", Domain: "app.joltup.com", Path: "/", Secure: true, HTTPOnly: true},
		{Name: "pref", Value: string(bytes.Repeat([]byte("x"), 5000)), Domain: ".joltup.com", Path: "/"},
	}
	require.NoError(t, jar.Save(cookies))

	info, err := os.Stat(jar.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(jar.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "abc")

	got, err := jar.Load()
	require.NoError(t, err)
	assert.Equal(t, cookies, got)

	require.NoError(t, jar.Clear())
	require.NoError(t, jar.Clear())
	_, err = jar.Load()
	assert.ErrorIs(t, err, internaltypes.ErrNotFound)
}

func TestCookieJar_RejectsForeignKey(t *testing.T) {
	jar := newTestJar(t, 1)
	require.NoError(t, jar.Save([]Cookie{{Name: "sid", Value: "abc"}}))

	hashKey, blockKey, err := crypto.DeriveCookieKeys(bytes.Repeat([]byte{2}, 32))
	require.NoError(t, err)
	other := NewCookieJar(jar.Path(), hashKey, blockKey, time.Hour)

	_, err = other.Load()
	require.Error(t, err)
	assert.NotErrorIs(t, err, internaltypes.ErrNotFound)
}

func TestCookieJar_RejectsTampering(t *testing.T) {
	jar := newTestJar(t, 1)
	require.NoError(t, jar.Save([]Cookie{{Name: "sid", Value: "abc"}}))

	require.NoError(t, os.WriteFile(jar.Path(), []byte("garbage"), 0o600))
	_, err := jar.Load()
	assert.Error(t, err)
}
