package protocol

import (
	"encoding/binary"
	"fmt"
)

// Command is an 8-byte command word in bus order: byte 0 is clocked out
// first.
type Command [CommandSize]byte

// Uint64 returns the command read as a little-endian word, so the opcode
// byte ends up in the low bits.
func (c Command) Uint64() uint64 {
	return binary.LittleEndian.Uint64(c[:])
}

// Opcode returns the first byte on the bus.
func (c Command) Opcode() byte {
	return c[0]
}

func (c Command) String() string {
	return fmt.Sprintf("%X", c[:])
}

// CommandFromUint64 is the inverse of Command.Uint64.
func CommandFromUint64(v uint64) Command {
	var c Command
	binary.LittleEndian.PutUint64(c[:], v)
	return c
}

// Header holds the cartridge header fields the handshake depends on.
type Header struct {
	// Title is the 12-byte game title, NUL padded
	Title string

	// GameCode is the 32-bit game code, little-endian at offset 0x0C
	GameCode uint32

	// Key2Seed selects the KEY2 X register seed byte
	Key2Seed byte

	// Key1ROMCNT is the KEY1 transfer setup stored in the header
	Key1ROMCNT RegisterFlags

	// Key2ROMCNT is the KEY2 transfer setup stored in the header
	Key2ROMCNT RegisterFlags
}

// GameCodeString returns the game code as the four ASCII characters it is
// printed with on the cartridge label.
func (h *Header) GameCodeString() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], h.GameCode)
	return string(b[:])
}
