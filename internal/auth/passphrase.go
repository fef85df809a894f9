// Package auth implements the optional single-owner access control for the
// ledger's HTTP surface: a passphrase checked against a bcrypt hash, traded
// for a short-lived session token.
//
// This is not multi-user account management. There is exactly one principal
// and no registration; when no passphrase hash is configured the surface
// runs open, which is the normal mode on a private device.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassphrase = errors.New("invalid passphrase")

// PassphraseAuthenticator verifies the owner's passphrase against a stored
// bcrypt hash.
type PassphraseAuthenticator struct {
	hash []byte
}

// NewPassphraseAuthenticator creates an authenticator for the given bcrypt
// hash, as produced by HashPassphrase.
func NewPassphraseAuthenticator(bcryptHash string) *PassphraseAuthenticator {
	return &PassphraseAuthenticator{hash: []byte(bcryptHash)}
}

// Authenticate checks the passphrase. It returns ErrInvalidPassphrase on
// mismatch and nil on success.
func (a *PassphraseAuthenticator) Authenticate(passphrase string) error {
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(passphrase)); err != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

// HashPassphrase returns the bcrypt hash of a passphrase, for storing in the
// configuration file.
func HashPassphrase(passphrase string) (string, error) {
	if len(passphrase) < 8 {
		return "", errors.New("passphrase must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
