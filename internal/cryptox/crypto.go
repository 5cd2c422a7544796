// Package cryptox seals byte blobs (backup snapshots) under a passphrase.
//
// The key is derived with Argon2id from the passphrase and a random salt and
// the payload is encrypted with AES-256-GCM. A sealed blob is laid out as
//
//	magic(4) | salt(16) | nonce(12) | ciphertext
//
// so it carries everything except the passphrase needed to open it.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32
)

var magic = []byte("FTB1")

var (
	ErrNotSealed     = errors.New("data is not a sealed blob")
	ErrDecryptFailed = errors.New("wrong passphrase or corrupted data")
)

// DeriveKey stretches a passphrase into a 256-bit AES key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// IsSealed reports whether data starts with the sealed-blob header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// Seal encrypts plaintext under passphrase.
func Seal(plaintext, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("salt: %w", err)
	}

	aead, err := newAEAD(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	out := make([]byte, 0, len(magic)+saltSize+nonceSize+len(plaintext)+aead.Overhead())
	out = append(out, magic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, magic), nil
}

// Open reverses Seal.
func Open(sealed, passphrase []byte) ([]byte, error) {
	if !IsSealed(sealed) || len(sealed) < len(magic)+saltSize+nonceSize {
		return nil, ErrNotSealed
	}
	rest := sealed[len(magic):]
	salt, rest := rest[:saltSize], rest[saltSize:]
	nonce, ciphertext := rest[:nonceSize], rest[nonceSize:]

	aead, err := newAEAD(DeriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, magic)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
