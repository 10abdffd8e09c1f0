package blowfish

import (
	"fmt"
	"math/bits"
)

// Table geometry.
const (
	// PEntries is the number of entries in the P array
	PEntries = 18

	// SBoxEntries is the number of entries in each S box
	SBoxEntries = 256

	// SBoxes is the number of S boxes
	SBoxes = 4

	// Entries is the total number of uint32 words in a Table
	Entries = PEntries + SBoxes*SBoxEntries

	// TableSize is the size in bytes of a serialized Table
	TableSize = Entries * 4

	// Rounds is the number of Feistel rounds
	Rounds = 16
)

// Table is the P array followed by the four S boxes.
type Table [Entries]uint32

// Selector picks the key material loaded into a Table.
type Selector int

const (
	// KeyNTR is the retail NTR table expanded with the cartridge game code
	KeyNTR Selector = iota

	// KeyB9Retail is the retail boot9 table, used as loaded
	KeyB9Retail

	// KeyB9Dev is the development boot9 table, used as loaded
	KeyB9Dev
)

// Derived reports whether the key schedule runs on top of the loaded table.
func (s Selector) Derived() bool {
	return s == KeyNTR
}

func (s Selector) String() string {
	switch s {
	case KeyNTR:
		return "ntr"
	case KeyB9Retail:
		return "b9-retail"
	case KeyB9Dev:
		return "b9-dev"
	default:
		return fmt.Sprintf("selector(%d)", int(s))
	}
}

// ParseSelector returns the Selector named by s, as printed by String.
func ParseSelector(s string) (Selector, error) {
	switch s {
	case "ntr":
		return KeyNTR, nil
	case "b9-retail":
		return KeyB9Retail, nil
	case "b9-dev":
		return KeyB9Dev, nil
	default:
		return 0, fmt.Errorf("unknown key selector %q", s)
	}
}

// P returns the P array.
func (t *Table) P() []uint32 {
	return t[:PEntries]
}

// S returns S box n (0..3).
func (t *Table) S(n int) []uint32 {
	off := PEntries + n*SBoxEntries
	return t[off : off+SBoxEntries]
}

func (t *Table) f(z uint32) uint32 {
	x := t[PEntries+0*SBoxEntries+int(z>>24)]
	x = t[PEntries+1*SBoxEntries+int((z>>16)&0xFF)] + x
	x = t[PEntries+2*SBoxEntries+int((z>>8)&0xFF)] ^ x
	x = t[PEntries+3*SBoxEntries+int(z&0xFF)] + x
	return x
}

// Encrypt encrypts the block lr in place. lr[1] is the left half and lr[0]
// the right half; the output halves come back swapped.
func (t *Table) Encrypt(lr *[2]uint32) {
	x := lr[1]
	y := lr[0]

	for i := 0; i < Rounds; i++ {
		z := t[i] ^ x
		x = y ^ t.f(z)
		y = z
	}

	lr[0] = x ^ t[16]
	lr[1] = y ^ t[17]
}

// Decrypt is the inverse of Encrypt.
func (t *Table) Decrypt(lr *[2]uint32) {
	x := lr[1]
	y := lr[0]

	for i := Rounds + 1; i > 1; i-- {
		z := t[i] ^ x
		x = y ^ t.f(z)
		y = z
	}

	lr[0] = x ^ t[1]
	lr[1] = y ^ t[0]
}

// ApplyKey runs one pass of the key schedule. key is modified in place and
// must be reused unchanged for a following pass.
func (t *Table) ApplyKey(key *[3]uint32) {
	hi := [2]uint32{key[1], key[2]}
	t.Encrypt(&hi)
	key[1], key[2] = hi[0], hi[1]

	lo := [2]uint32{key[0], key[1]}
	t.Encrypt(&lo)
	key[0], key[1] = lo[0], lo[1]

	for i := 0; i < PEntries; i++ {
		t[i] ^= bits.ReverseBytes32(key[i%2])
	}

	var scratch [2]uint32
	for i := 0; i < Entries; i += 2 {
		t.Encrypt(&scratch)
		t[i] = scratch[1]
		t[i+1] = scratch[0]
	}
}

// DeriveKey returns the initial key words for a game code.
func DeriveKey(gameCode uint32) [3]uint32 {
	return [3]uint32{gameCode, gameCode >> 1, gameCode << 1}
}

// Derive expands the table with the key derived from gameCode. The schedule
// is applied twice with the same key array. The final key state is returned.
func (t *Table) Derive(gameCode uint32) [3]uint32 {
	key := DeriveKey(gameCode)
	t.ApplyKey(&key)
	t.ApplyKey(&key)
	return key
}
