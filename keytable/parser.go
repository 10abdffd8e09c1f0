package keytable

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/moffa90/go-ntrcard/blowfish"
)

// Parse reads a key table blob from the given file path.
//
// Example:
//
//	t, err := keytable.Parse("ntr_key1.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Parse(path string) (*blowfish.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader reads a key table blob from any io.Reader. Exactly
// blowfish.TableSize bytes must be available.
func ParseReader(r io.Reader) (*blowfish.Table, error) {
	data, err := io.ReadAll(io.LimitReader(r, blowfish.TableSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read key table: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a key table blob.
func ParseTable(data []byte) (*blowfish.Table, error) {
	if len(data) != blowfish.TableSize {
		return nil, &SizeError{Got: len(data)}
	}

	var t blowfish.Table
	for i := range t {
		t[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return &t, nil
}

// MarshalTable encodes t in the blob layout read by ParseTable.
func MarshalTable(t *blowfish.Table) []byte {
	data := make([]byte, blowfish.TableSize)
	for i, w := range t {
		binary.LittleEndian.PutUint32(data[i*4:], w)
	}
	return data
}

// Digest returns the lowercase hex BLAKE2b-256 digest of a blob.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// verifyDigest checks data against a hex digest. An empty want skips the
// check.
func verifyDigest(path string, data []byte, want string) error {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return nil
	}
	if got := Digest(data); got != want {
		return &DigestMismatchError{Path: path, Expected: want, Actual: got}
	}
	return nil
}
