package protocol

import (
	"bytes"
	"encoding/binary"
)

// ParseHeader extracts the handshake fields from a header read. data must
// hold at least HeaderMinSize bytes; a full read is HeaderSize bytes.
//
// Layout (little-endian words):
//
//	0x00 TITLE(12)  0x0C GAMECODE(4)  0x13 KEY2SEED(1)
//	0x60 KEY2_ROMCNT(4)  0x64 KEY1_ROMCNT(4)
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < HeaderMinSize {
		return nil, &ResponseLengthError{Operation: "header read", Want: HeaderMinSize, Got: len(data)}
	}

	title := data[HeaderTitleOffset : HeaderTitleOffset+HeaderTitleSize]
	if i := bytes.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	h := &Header{
		Title:      string(title),
		GameCode:   binary.LittleEndian.Uint32(data[HeaderGameCodeOffset:]),
		Key2Seed:   data[HeaderKey2SeedOffset],
		Key2ROMCNT: RegisterFlags(binary.LittleEndian.Uint32(data[HeaderKey2ROMCNTOffset:])),
		Key1ROMCNT: RegisterFlags(binary.LittleEndian.Uint32(data[HeaderKey1ROMCNTOffset:])),
	}

	return h, nil
}

// ParseChipID decodes a chip identifier read. The identifier is sent
// little-endian.
func ParseChipID(data []byte) (uint32, error) {
	if len(data) != ChipIDSize {
		return 0, &ResponseLengthError{Operation: "chip id read", Want: ChipIDSize, Got: len(data)}
	}
	return binary.LittleEndian.Uint32(data), nil
}
