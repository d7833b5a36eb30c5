// internal/config/crypto.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/cockroachdb/errors"
)

const (
	masterKeyName = "__master_key__"
	masterKeySize = 32
)

// ErrSealed is returned for ciphertext that is malformed or sealed with another key.
var ErrSealed = errors.New("cannot open sealed value")

// GetMasterKey returns the AES key kept in the keyring, creating it on first use.
// It protects the store password and snippet code.
func GetMasterKey() ([]byte, error) {
	ks, err := NewKeyringStore()
	if err != nil {
		return nil, err
	}

	if keyHex, err := ks.GetPassword(masterKeyName); err == nil {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != masterKeySize {
			return nil, errors.Newf("keyring entry %s is not a %d-byte key", masterKeyName, masterKeySize)
		}
		return key, nil
	}

	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, errors.Wrap(err, "generate master key")
	}
	if err := ks.SetPassword(masterKeyName, hex.EncodeToString(key)); err != nil {
		return nil, errors.Wrap(err, "store master key")
	}
	return key, nil
}

// KeyCipher seals strings with a fixed AES-GCM key. Sealed values are hex of
// nonce followed by ciphertext.
type KeyCipher struct {
	Key []byte
}

func (c KeyCipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.Key)
	if err != nil {
		return nil, errors.Wrap(err, "aes key")
	}
	return cipher.NewGCM(block)
}

// Encrypt seals plain with a fresh random nonce.
func (c KeyCipher) Encrypt(plain string) (string, error) {
	gcm, err := c.aead()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "nonce")
	}
	return hex.EncodeToString(gcm.Seal(nonce, nonce, []byte(plain), nil)), nil
}

// Decrypt opens a value produced by Encrypt.
func (c KeyCipher) Decrypt(sealed string) (string, error) {
	raw, err := hex.DecodeString(sealed)
	if err != nil {
		return "", errors.Mark(errors.Wrap(err, "decode sealed value"), ErrSealed)
	}
	gcm, err := c.aead()
	if err != nil {
		return "", err
	}
	n := gcm.NonceSize()
	if len(raw) < n {
		return "", errors.Wrap(ErrSealed, "ciphertext too short")
	}
	plain, err := gcm.Open(nil, raw[:n], raw[n:], nil)
	if err != nil {
		return "", errors.Mark(err, ErrSealed)
	}
	return string(plain), nil
}

// Encrypt seals plainText with key.
func Encrypt(plainText string, key []byte) (string, error) {
	return KeyCipher{Key: key}.Encrypt(plainText)
}

// Decrypt opens a hex value sealed with key.
func Decrypt(cipherTextHex string, key []byte) (string, error) {
	return KeyCipher{Key: key}.Decrypt(cipherTextHex)
}
