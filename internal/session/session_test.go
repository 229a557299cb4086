package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/movielib/internal/common"
)

func TestGenerateToken_RoundTrip(t *testing.T) {
	secret := []byte("secret")

	tok, err := GenerateToken("bob", secret, time.Hour)
	require.NoError(t, err)

	name, err := UsernameFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
}

func TestUsernameFromToken_Rejects(t *testing.T) {
	secret := []byte("secret")

	t.Run("wrong key", func(t *testing.T) {
		tok, err := GenerateToken("bob", secret, time.Hour)
		require.NoError(t, err)
		_, err = UsernameFromToken(tok, []byte("other"))
		require.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := GenerateToken("bob", secret, -time.Minute)
		require.NoError(t, err)
		_, err = UsernameFromToken(tok, secret)
		require.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{Username: "bob"}).SignedString(secret)
		require.NoError(t, err)
		_, err = UsernameFromToken(tok, secret)
		require.ErrorIs(t, err, common.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := UsernameFromToken("not-a-token", secret)
		require.ErrorIs(t, err, common.ErrInvalidToken)
	})
}

func TestStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session")

	s, err := NewStore(path, "configured-secret", time.Hour)
	require.NoError(t, err)

	_, err = s.Load()
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, s.Save("alice"))
	name, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, s.Clear())
}

func TestStore_GeneratedKeyIsReused(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	s1, err := NewStore(path, "", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s1.Save("carol"))

	_, err = os.Stat(path + ".key")
	require.NoError(t, err)

	s2, err := NewStore(path, "", time.Hour)
	require.NoError(t, err)
	name, err := s2.Load()
	require.NoError(t, err)
	assert.Equal(t, "carol", name)

	s3, err := NewStore(path, "different", time.Hour)
	require.NoError(t, err)
	_, err = s3.Load()
	require.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("", "x", time.Hour)
	require.ErrorIs(t, err, common.ErrValidation)
}
