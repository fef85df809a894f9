package codec

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters. N=2^15 keeps derivation around tens of milliseconds,
// which is fine for a whole-snapshot slot written once per user action.
const (
	scryptN       = 1 << 15
	scryptR       = 8
	scryptP       = 1
	sealedSaltLen = 16
)

// ErrSealedPayload is returned when a sealed payload fails to open: the
// text is truncated, tampered with, or sealed under a different passphrase.
var ErrSealedPayload = errors.New("cannot open sealed payload")

// Sealed is an authenticated-cipher Codec: XChaCha20-Poly1305 with a key
// derived from a passphrase via scrypt. Each Encode uses a fresh salt and
// nonce, stored alongside the ciphertext, so the same plaintext never seals
// to the same opaque text twice.
type Sealed struct {
	passphrase []byte
}

var _ Codec = (*Sealed)(nil)

// NewSealed returns a Sealed codec for the given passphrase.
func NewSealed(passphrase string) (*Sealed, error) {
	if passphrase == "" {
		return nil, errors.New("sealed codec requires a non-empty passphrase")
	}
	return &Sealed{passphrase: []byte(passphrase)}, nil
}

func (s *Sealed) key(salt []byte) ([]byte, error) {
	return scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
}

// Encode seals plain and returns base64(salt || nonce || ciphertext).
func (s *Sealed) Encode(plain string) string {
	buf := make([]byte, sealedSaltLen+chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process cannot do anything
		// crypto-related; there is no degraded mode worth offering.
		panic(fmt.Sprintf("codec: reading random bytes: %v", err))
	}
	salt := buf[:sealedSaltLen]
	nonce := buf[sealedSaltLen:]

	key, err := s.key(salt)
	if err != nil {
		panic(fmt.Sprintf("codec: deriving key: %v", err))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		panic(fmt.Sprintf("codec: constructing cipher: %v", err))
	}

	sealed := aead.Seal(buf, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed)
}

// Decode reverses Encode. Any tampering, truncation, or passphrase mismatch
// yields an error wrapping ErrSealedPayload.
func (s *Sealed) Decode(opaque string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedPayload, err)
	}
	if len(raw) < sealedSaltLen+chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("%w: payload too short", ErrSealedPayload)
	}
	salt := raw[:sealedSaltLen]
	nonce := raw[sealedSaltLen : sealedSaltLen+chacha20poly1305.NonceSizeX]
	ciphertext := raw[sealedSaltLen+chacha20poly1305.NonceSizeX:]

	key, err := s.key(salt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedPayload, err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedPayload, err)
	}

	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealedPayload, err)
	}
	return string(plain), nil
}
