package keytable

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-ntrcard/blowfish"
)

func randomBlob(seed int64) []byte {
	data := make([]byte, blowfish.TableSize)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

func writeBlob(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "key1.bin")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestParseTableLittleEndian(t *testing.T) {
	data := make([]byte, blowfish.TableSize)
	copy(data, []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD})
	copy(data[len(data)-4:], []byte{0x78, 0x56, 0x34, 0x12})

	table, err := ParseTable(data)
	require.NoError(t, err)

	assert.Equal(t, uint32(0x04030201), table[0])
	assert.Equal(t, uint32(0xDDCCBBAA), table[1])
	assert.Equal(t, uint32(0x12345678), table[blowfish.Entries-1])
	assert.Equal(t, data, MarshalTable(table))
}

func TestParseTableWrongSize(t *testing.T) {
	for _, size := range []int{0, 4, blowfish.TableSize - 1, blowfish.TableSize + 1} {
		_, err := ParseTable(make([]byte, size))
		require.Error(t, err, "size %d", size)

		var sizeErr *SizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, size, sizeErr.Got)
	}
}

func TestParseReaderRejectsTrailingData(t *testing.T) {
	data := append(randomBlob(1), 0x00)

	_, err := ParseReader(bytes.NewReader(data))
	assert.Error(t, err)

	table, err := ParseReader(bytes.NewReader(data[:blowfish.TableSize]))
	require.NoError(t, err)
	assert.Equal(t, data[:blowfish.TableSize], MarshalTable(table))
}

func TestParseFile(t *testing.T) {
	data := randomBlob(2)
	path := writeBlob(t, data)

	table, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, data, MarshalTable(table))

	_, err = Parse(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", Digest(nil))
	assert.Len(t, Digest(randomBlob(3)), 64)
}

func TestStoreLoad(t *testing.T) {
	data := randomBlob(4)
	path := writeBlob(t, data)
	digest := Digest(data)

	tests := []struct {
		name    string
		digest  string
		wantErr bool
	}{
		{"no digest", "", false},
		{"matching digest", digest, false},
		{"matching digest upper case", strings.ToUpper(digest), false},
		{"wrong digest", Digest(randomBlob(5)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			err := store.Load(blowfish.KeyNTR, path, tt.digest)

			if tt.wantErr {
				var mismatch *DigestMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, path, mismatch.Path)
				assert.Empty(t, store.Selectors())
				return
			}

			require.NoError(t, err)
			var table blowfish.Table
			require.NoError(t, store.InitTable(&table, blowfish.KeyNTR))
			assert.Equal(t, data, MarshalTable(&table))
		})
	}
}

func TestStoreLoadWrongSize(t *testing.T) {
	path := writeBlob(t, make([]byte, 16))

	err := NewStore().Load(blowfish.KeyB9Dev, path, "")

	var sizeErr *SizeError
	require.ErrorAs(t, err, &sizeErr)
	assert.Contains(t, err.Error(), path)
}

func TestStoreInitTableMissing(t *testing.T) {
	store := NewStore()
	var table blowfish.Table

	err := store.InitTable(&table, blowfish.KeyB9Retail)

	var missing *MissingTableError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, blowfish.KeyB9Retail, missing.Selector)
	assert.Contains(t, err.Error(), "b9-retail")
}

func TestStoreRegisterCopies(t *testing.T) {
	store := NewStore()
	var src blowfish.Table
	src[0] = 1
	store.Register(blowfish.KeyNTR, &src)
	src[0] = 2

	var out blowfish.Table
	require.NoError(t, store.InitTable(&out, blowfish.KeyNTR))
	assert.Equal(t, uint32(1), out[0])

	out[0] = 3
	var again blowfish.Table
	require.NoError(t, store.InitTable(&again, blowfish.KeyNTR))
	assert.Equal(t, uint32(1), again[0], "callers must not alias the stored table")
}

func TestStoreSelectors(t *testing.T) {
	store := NewStore()
	var table blowfish.Table
	store.Register(blowfish.KeyB9Dev, &table)
	store.Register(blowfish.KeyNTR, &table)
	store.Register(blowfish.KeyB9Retail, &table)

	assert.Equal(t, []blowfish.Selector{blowfish.KeyNTR, blowfish.KeyB9Retail, blowfish.KeyB9Dev}, store.Selectors())
}
