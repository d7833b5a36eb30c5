// internal/config/keyring.go
package config

import (
	"github.com/99designs/keyring"
	"github.com/cockroachdb/errors"
)

const serviceName = "ezmoji"

// KeyringStore manages secret storage in system keyring
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore creates a new keyring store instance
func NewKeyringStore() (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open keyring")
	}
	return &KeyringStore{ring: ring}, nil
}

// SetPassword stores a secret under name
func (k *KeyringStore) SetPassword(name, secret string) error {
	return k.ring.Set(keyring.Item{
		Key:  name,
		Data: []byte(secret),
	})
}

// GetPassword retrieves the secret stored under name
func (k *KeyringStore) GetPassword(name string) (string, error) {
	item, err := k.ring.Get(name)
	if err != nil {
		return "", errors.Wrapf(err, "secret not found: %s", name)
	}
	return string(item.Data), nil
}
