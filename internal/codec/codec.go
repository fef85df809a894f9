// Package codec provides the reversible transform between snapshot JSON and
// the opaque text held in the persistence slot.
//
// Two implementations share the Codec interface: Obfuscating, a plain
// base64 transform that hides data from casual inspection only, and Sealed,
// an authenticated cipher for callers that need real confidentiality. The
// ledger store works against the interface and does not care which is
// injected.
package codec

import (
	"encoding/base64"
	"fmt"
)

// Codec is a reversible transform between plain text and opaque stored
// text. Decode(Encode(x)) == x must hold for all valid UTF-8 x. Encode
// never fails; Decode reports malformed or foreign input as a recoverable
// error and never panics.
type Codec interface {
	Encode(plain string) string
	Decode(opaque string) (string, error)
}

// Obfuscating is a base64 transform of the UTF-8 bytes of the input.
//
// This is obfuscation, not encryption: anyone with the stored text can
// reverse it. It exists to keep ledger contents out of casual view in the
// storage file. Use Sealed when confidentiality matters.
type Obfuscating struct{}

var _ Codec = Obfuscating{}

// Encode returns the standard-base64 form of plain.
func (Obfuscating) Encode(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// Decode reverses Encode. Input that is not valid base64 yields an error.
func (Obfuscating) Decode(opaque string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(opaque)
	if err != nil {
		return "", fmt.Errorf("malformed stored text: %w", err)
	}
	return string(b), nil
}
