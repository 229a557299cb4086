// Package session remembers the logged-in user between runs as a signed
// token on disk.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/movielib/internal/common"
)

// Claims carries the standard claims plus the user name.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

func GenerateToken(username string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		Username: username,
	})

	return token.SignedString(secretKey)
}

func UsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Username == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Username, nil
}

// Store keeps one token file. Without a configured secret a random key is
// generated next to the token file and reused.
type Store struct {
	path   string
	secret []byte
	ttl    time.Duration
}

func NewStore(path, secret string, ttl time.Duration) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty session file", common.ErrValidation)
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	s := &Store{path: path, ttl: ttl}
	if secret != "" {
		s.secret = []byte(secret)
		return s, nil
	}

	key, err := loadOrCreateKey(path + ".key")
	if err != nil {
		return nil, err
	}
	s.secret = key
	return s, nil
}

func loadOrCreateKey(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	if err := writePrivate(path, []byte(key)); err != nil {
		return nil, err
	}
	return []byte(key), nil
}

func writePrivate(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Save remembers username until the store TTL elapses.
func (s *Store) Save(username string) error {
	token, err := GenerateToken(username, s.secret, s.ttl)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	return writePrivate(s.path, []byte(token))
}

// Load returns the remembered user. No file yields common.ErrNotFound;
// an expired or tampered token yields common.ErrInvalidToken.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read session: %w", err)
	}
	return UsernameFromToken(strings.TrimSpace(string(b)), s.secret)
}

// Clear forgets the remembered user.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
