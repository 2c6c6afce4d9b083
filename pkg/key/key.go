// Package key derives stable catalog identifiers from source text.
package key

import (
	"crypto/md5"
	"encoding/hex"
)

// Key identifies a catalog entry. It is derived from the entry's source
// text, so it survives refactors that move a call site as long as the
// literal itself is unchanged.
type Key string

// Derive computes the key for a source text: "h_" followed by the first
// 12 hex characters of the MD5 digest of the UTF-8 encoded text. MD5 is
// used as a content fingerprint here, never for security.
func Derive(text string) Key {
	sum := md5.Sum([]byte(text))
	return Key("h_" + hex.EncodeToString(sum[:6]))
}
