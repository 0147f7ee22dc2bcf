// Package email provides normalization and syntactic validation of
// subscriber email addresses. It is pure: no network, no mailbox checks.
package email

import (
	"regexp"
	"strings"
)

// MaxLength is the maximum accepted address length after trimming.
// 254 characters is the practical limit from RFC 5321.
const MaxLength = 254

// addressPattern matches acceptable addresses: a non-empty local part,
// a single @, and a dotted domain ending in an alphabetic TLD of at
// least two characters. The character classes admit no whitespace.
var addressPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Normalize converts a raw address to its canonical form: surrounding
// whitespace trimmed and the whole address lower-cased. Two inputs that
// normalize to the same string identify the same subscriber.
//
// It returns the canonical address and true when the input is
// acceptable, or "" and false otherwise. Normalize never modifies any
// state and is safe for concurrent use.
func Normalize(raw string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(raw))

	if addr == "" || len(addr) > MaxLength {
		return "", false
	}

	if !addressPattern.MatchString(addr) {
		return "", false
	}

	return addr, true
}

// Valid reports whether raw normalizes to an acceptable address.
func Valid(raw string) bool {
	_, ok := Normalize(raw)
	return ok
}
