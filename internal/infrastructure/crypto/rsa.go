// Package crypto encrypts individual credential fields with the provider's
// RSA public key before they leave the process. The provider delivers the
// key as base64-encoded DER and expects PKCS#1 v1.5 ciphertext, base64
// encoded, in place of the plaintext field value.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidKey means the configured public key could not be parsed.
	ErrInvalidKey = errors.New("invalid provider public key")
	// ErrEncrypt means the plaintext could not be encrypted (typically it
	// exceeds the RSA block size). Callers must abort the containing
	// request; the field is never sent unencrypted.
	ErrEncrypt = errors.New("field encryption failed")
)

// Encryptor performs RSA PKCS#1 v1.5 field encryption. It is stateless
// after construction and safe for concurrent use.
type Encryptor struct {
	publicKey *rsa.PublicKey
}

// NewEncryptor parses a base64-encoded DER public key.
func NewEncryptor(publicKeyB64 string) (*Encryptor, error) {
	trimmed := strings.TrimSpace(publicKeyB64)
	if trimmed == "" {
		return nil, ErrInvalidKey
	}

	der, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key", ErrInvalidKey)
	}

	return &Encryptor{publicKey: rsaKey}, nil
}

// Encrypt returns the base64-encoded PKCS#1 v1.5 ciphertext of plaintext.
// An empty plaintext passes through unchanged: optional credential fields
// are simply omitted from requests, never encrypted as empty strings.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, e.publicKey, []byte(plaintext))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncrypt, err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
