// Package roomcode generates and validates the short shareable codes that
// address game rooms. Codes use a fixed-length alphabet with the visually
// confusable characters (0/O, 1/I/L) removed, and lookups are
// case-insensitive.
package roomcode

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
)

// Alphabet is the unambiguous character set room codes are drawn from.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Length is the fixed room code length.
const Length = 5

// Generate returns a fresh code that the exists predicate rejects as taken.
// Collisions simply re-roll; with 32^5 combinations against a handful of live
// rooms the loop terminates almost immediately.
func Generate(rng *rand.Rand, exists func(code string) bool) string {
	for {
		b := make([]byte, Length)
		for i := range b {
			b[i] = Alphabet[rng.IntN(len(Alphabet))]
		}
		code := string(b)
		if !exists(code) {
			return code
		}
	}
}

// Normalize canonicalises caller-supplied codes for lookup.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks that a normalized code has the right shape.
func Validate(code string) error {
	if len(code) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(code))
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return fmt.Errorf("invalid character %q at position %d", code[i], i)
		}
	}
	return nil
}
