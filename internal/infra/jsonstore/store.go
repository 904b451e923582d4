// Package jsonstore persists the signed-in session in a JSON file.
package jsonstore

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/runoshun/taskboard/internal/domain"
)

// sessionData is the JSON file structure.
// Key names match what the web client keeps in local storage.
// Fields are ordered to minimize memory padding.
type sessionData struct {
	User   *domain.User `json:"taskboard_user,omitempty"`
	Token  string       `json:"taskboard_token,omitempty"`
	Sealed string       `json:"sealed,omitempty"` // base64 AES-GCM of the other fields
}

// Cipher seals the session at rest.
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Store implements domain.SessionStore using a JSON file.
type Store struct {
	cipher   Cipher
	clock    domain.Clock
	path     string
	lockPath string
}

// Option configures a Store.
type Option func(*Store)

// WithCipher encrypts the session before it is written.
func WithCipher(c Cipher) Option {
	return func(s *Store) { s.cipher = c }
}

// WithClock sets the clock used for token expiry checks.
func WithClock(c domain.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     path,
		lockPath: path + ".lock",
		clock:    domain.RealClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure Store implements SessionStore.
var _ domain.SessionStore = (*Store)(nil)

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted session, or nil if there is none.
// A JWT whose exp claim has passed is removed and reported as
// domain.ErrSessionExpired. Opaque tokens never expire locally.
func (s *Store) Load() (*domain.Session, error) {
	var session *domain.Session
	expired := false

	err := s.withLock(syscall.LOCK_EX, func() error {
		data, err := s.read()
		if err != nil || data == nil {
			return err
		}
		if data.Token == "" {
			return nil
		}
		if exp, ok := tokenExpiry(data.Token); ok && !s.clock.Now().Before(exp) {
			expired = true
			return s.remove()
		}
		session = &domain.Session{Token: data.Token}
		if data.User != nil {
			session.User = *data.User
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, domain.ErrSessionExpired
	}
	return session, nil
}

// Save persists the session. A nil session clears it.
func (s *Store) Save(session *domain.Session) error {
	if session == nil {
		return s.Clear()
	}
	user := session.User
	return s.withLock(syscall.LOCK_EX, func() error {
		return s.write(&sessionData{Token: session.Token, User: &user})
	})
}

// Clear removes the persisted session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	return s.withLock(syscall.LOCK_EX, s.remove)
}

// tokenExpiry returns the exp claim of a JWT without verifying its signature.
// The server is the authority on validity; this only avoids sending a token
// that is known to be stale.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case json.Number:
		v, err := exp.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(v, 0), true
	}
	return time.Time{}, false
}

func (s *Store) withLock(lockType int, fn func() error) error {
	lock, err := s.acquireLock(lockType)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)
	return fn()
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

// read returns nil when no session file exists.
func (s *Store) read() (*sessionData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var data sessionData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	if data.Sealed == "" {
		return &data, nil
	}
	if s.cipher == nil {
		return nil, errors.New("session file is encrypted but no session key is configured")
	}
	sealed, err := base64.StdEncoding.DecodeString(data.Sealed)
	if err != nil {
		return nil, fmt.Errorf("decode sealed session: %w", err)
	}
	plain, err := s.cipher.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("decrypt session: %w", err)
	}
	var inner sessionData
	if err := json.Unmarshal(plain, &inner); err != nil {
		return nil, fmt.Errorf("parse sealed session: %w", err)
	}
	return &inner, nil
}

func (s *Store) write(data *sessionData) error {
	if s.cipher != nil {
		plain, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		sealed, err := s.cipher.Encrypt(plain)
		if err != nil {
			return fmt.Errorf("encrypt session: %w", err)
		}
		data = &sessionData{Sealed: base64.StdEncoding.EncodeToString(sealed)}
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

func (s *Store) remove() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
