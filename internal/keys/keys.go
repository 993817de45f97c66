// Package keys names registry storage keys.
package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxName bounds schema names so keys stay small in every provider.
const MaxName = 200

var ErrName = errors.New("trytebuffer: invalid schema name")

// Entry returns the provider key of the named schema.
func Entry(ns, name string) string {
	return "schema:" + ns + ":" + name
}

// Check rejects names that would make ambiguous or unprintable keys.
func Check(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrName)
	case len(name) > MaxName:
		return fmt.Errorf("%w: %d bytes, max %d", ErrName, len(name), MaxName)
	case strings.ContainsRune(name, ':'):
		return fmt.Errorf("%w: %q contains ':'", ErrName, name)
	case strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || !unicode.IsPrint(r) }) >= 0:
		return fmt.Errorf("%w: %q contains space or control characters", ErrName, name)
	}
	return nil
}

// Fingerprint is a short stable digest of an encoded schema: the first
// 16 hex chars of its SHA-256.
func Fingerprint(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:8])
}
