package simcard

import (
	"encoding/binary"
	"math/rand"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/protocol"
)

// Typical retail header transfer setups.
const (
	DefaultKey1ROMCNT protocol.RegisterFlags = 0x081808F8
	DefaultKey2ROMCNT protocol.RegisterFlags = 0x00416657
)

// HeaderSpec describes a header built by BuildHeader. Zero ROMCNT fields
// take the retail defaults.
type HeaderSpec struct {
	Title      string
	GameCode   string
	Key2Seed   byte
	Key1ROMCNT protocol.RegisterFlags
	Key2ROMCNT protocol.RegisterFlags
}

// BuildHeader returns a protocol.HeaderSize-byte header described by hs.
func BuildHeader(hs HeaderSpec) []byte {
	if hs.Key1ROMCNT == 0 {
		hs.Key1ROMCNT = DefaultKey1ROMCNT
	}
	if hs.Key2ROMCNT == 0 {
		hs.Key2ROMCNT = DefaultKey2ROMCNT
	}

	hdr := make([]byte, protocol.HeaderSize)
	copy(hdr[protocol.HeaderTitleOffset:protocol.HeaderTitleOffset+protocol.HeaderTitleSize], hs.Title)
	copy(hdr[protocol.HeaderGameCodeOffset:protocol.HeaderGameCodeOffset+4], hs.GameCode)
	hdr[protocol.HeaderKey2SeedOffset] = hs.Key2Seed
	binary.LittleEndian.PutUint32(hdr[protocol.HeaderKey2ROMCNTOffset:], uint32(hs.Key2ROMCNT))
	binary.LittleEndian.PutUint32(hdr[protocol.HeaderKey1ROMCNTOffset:], uint32(hs.Key1ROMCNT))
	return hdr
}

// SyntheticTable returns a pseudo-random key table. It stands in for the
// vendor tables, which this module does not ship; any table works as long
// as host and card use the same one.
func SyntheticTable(seed int64) *blowfish.Table {
	rng := rand.New(rand.NewSource(seed))
	var t blowfish.Table
	for i := range t {
		t[i] = rng.Uint32()
	}
	return &t
}
