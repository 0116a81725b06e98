// Package secrets keeps session tokens in the os keyring.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/99designs/keyring"
)

const serviceName = "hn"

var ErrNotFound = errors.New("secrets: no token stored")

// Store is the subset of keyring operations the cli needs, keyed by username.
type Store interface {
	Token(username string) (string, error)
	SetToken(username, token string) error
	DeleteToken(username string) error
}

type KeyringStore struct {
	ring keyring.Keyring
}

func NewKeyringStore(ring keyring.Keyring) KeyringStore {
	return KeyringStore{ring: ring}
}

func itemKey(username string) string {
	return "token:" + username
}

func (s KeyringStore) Token(username string) (string, error) {
	item, err := s.ring.Get(itemKey(username))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(item.Data), nil
}

func (s KeyringStore) SetToken(username, token string) error {
	err := s.ring.Set(keyring.Item{
		Key:   itemKey(username),
		Data:  []byte(token),
		Label: fmt.Sprintf("hacker news session (%s)", username),
	})
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (s KeyringStore) DeleteToken(username string) error {
	err := s.ring.Remove(itemKey(username))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

var keyringOpenFunc = keyring.Open

// openKeyringWithTimeout guards against backends that block forever waiting on
// an unlock prompt nobody will see.
func openKeyringWithTimeout(config keyring.Config, timeout time.Duration) (keyring.Keyring, error) {
	type result struct {
		ring keyring.Keyring
		err  error
	}
	done := make(chan result, 1)
	go func() {
		ring, err := keyringOpenFunc(config)
		done <- result{ring: ring, err: err}
	}()

	select {
	case r := <-done:
		return r.ring, r.err
	case <-time.After(timeout):
		return nil, fmt.Errorf(
			"timed out opening the keyring after %s, set HN_KEYRING_BACKEND=file to use an encrypted file instead",
			timeout,
		)
	}
}

// OpenDefault opens the os keyring. HN_KEYRING_BACKEND=file selects an encrypted
// file under dataDir, its password is read from HN_KEYRING_PASSWORD.
func OpenDefault(dataDir string) (KeyringStore, error) {
	config := keyring.Config{
		ServiceName:              serviceName,
		KeychainTrustApplication: true,
		FileDir:                  filepath.Join(dataDir, "keyring"),
		FilePasswordFunc:         keyring.FixedStringPrompt(os.Getenv("HN_KEYRING_PASSWORD")),
	}
	if os.Getenv("HN_KEYRING_BACKEND") == "file" {
		config.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}

	ring, err := openKeyringWithTimeout(config, 5*time.Second)
	if err != nil {
		return KeyringStore{}, err
	}
	return NewKeyringStore(ring), nil
}
