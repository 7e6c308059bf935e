package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	SecretSize   = 32
	hashKeySize  = 64
	blockKeySize = 32
)

// NewSecret returns a fresh base64 secret suitable for SESSION_SECRET.
func NewSecret() (string, error) {
	b := make([]byte, SecretSize)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeSecret accepts padded or unpadded standard base64.
func DecodeSecret(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("secret is empty")
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("secret is not base64: %w", err)
		}
	}
	if len(b) < 16 {
		return nil, fmt.Errorf("secret must decode to at least 16 bytes (got %d)", len(b))
	}
	return b, nil
}

// DeriveCookieKeys expands one secret into independent HMAC and AES keys.
func DeriveCookieKeys(secret []byte) (hashKey, blockKey []byte, err error) {
	hashKey, err = expand(secret, "shiftcall session hash", hashKeySize)
	if err != nil {
		return nil, nil, err
	}
	blockKey, err = expand(secret, "shiftcall session block", blockKeySize)
	if err != nil {
		return nil, nil, err
	}
	return hashKey, blockKey, nil
}

func expand(secret []byte, info string, n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), out); err != nil {
		return nil, fmt.Errorf("derive %q: %w", info, err)
	}
	return out, nil
}
