package keytable

import (
	"fmt"

	"github.com/moffa90/go-ntrcard/blowfish"
)

// SizeError indicates a key table blob of the wrong size.
type SizeError struct {
	Got int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid key table size: got %d bytes, expected %d", e.Got, blowfish.TableSize)
}

// DigestMismatchError indicates a key table file does not match its
// configured digest.
type DigestMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *DigestMismatchError) Error() string {
	return fmt.Sprintf("key table %s: blake2b digest mismatch: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// MissingTableError indicates no table is registered for a selector.
type MissingTableError struct {
	Selector blowfish.Selector
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("no key table loaded for %s", e.Selector)
}
