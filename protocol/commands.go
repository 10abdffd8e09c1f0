package protocol

import (
	"encoding/binary"

	"github.com/moffa90/go-ntrcard/blowfish"
)

// RawCommand builds an unencrypted command with the opcode in byte 0 and
// every other byte zero.
func RawCommand(opcode byte) Command {
	return Command{opcode}
}

// BuildActivateKey1 builds the RAW mode command that switches the cartridge
// into KEY1 mode. It carries ij and the current KEY1 counter k in plain
// text:
//
//	[3C][II][IJ][JJ][0K][KK][KK][00]
//
// The counter is not consumed by this command.
func BuildActivateKey1(ij, k uint32) Command {
	v := uint64(CmdRawActivateKey1) |
		uint64(ij&0xFF0000)>>8 | uint64(ij&0xFF00)<<8 | uint64(ij&0xFF)<<24 |
		uint64(k&0xF0000)<<16 | uint64(k&0xFF00)<<32 | uint64(k&0xFF)<<48
	return CommandFromUint64(v)
}

// EncodeKey1 packs a KEY1 command into its plain text word. Nibbles are
// interleaved as follows, with byte 0 on the right (C = cmd, A = arg,
// I/J = ij, K = k):
//
//	KK KK JK JJ II AI AA CA
//
// Only the low 4 bits of cmd and the low 24 bits of ij and k are used, and
// only the low 20 bits of k make it onto the bus.
func EncodeKey1(cmd byte, arg uint16, ij, k uint32) Command {
	v := uint64(cmd&0xF)<<4 |
		uint64(arg&0xF000)>>12 | uint64(arg&0xFF0)<<4 | uint64(arg&0xF)<<20 |
		uint64(ij&0xF00000)>>4 | uint64(ij&0xFF000)<<12 | uint64(ij&0xFF0)<<28 | uint64(ij&0xF)<<44 |
		uint64(k&0xF0000)<<24 | uint64(k&0xFF00)<<40 | uint64(k&0xFF)<<56
	return CommandFromUint64(v)
}

// DecodeKey1 unpacks a plain text KEY1 word built by EncodeKey1.
func DecodeKey1(c Command) (cmd byte, arg uint16, ij, k uint32) {
	v := c.Uint64()
	cmd = byte(v>>4) & 0xF
	arg = uint16(v&0xF)<<12 | uint16(v>>4)&0xFF0 | uint16(v>>20)&0xF
	ij = uint32(v<<4)&0xF00000 | uint32(v>>12)&0xFF000 | uint32(v>>28)&0xFF0 | uint32(v>>44)&0xF
	k = uint32(v>>24)&0xF0000 | uint32(v>>40)&0xFF00 | uint32(v>>56)&0xFF
	return cmd, arg, ij, k
}

// EncryptKey1 encrypts a plain text KEY1 word. The cipher sees the bus
// bytes as two big-endian words, bytes 0-3 being the left half.
func EncryptKey1(t *blowfish.Table, c Command) Command {
	lr := splitWords(c)
	t.Encrypt(&lr)
	return joinWords(lr)
}

// DecryptKey1 is the inverse of EncryptKey1.
func DecryptKey1(t *blowfish.Table, c Command) Command {
	lr := splitWords(c)
	t.Decrypt(&lr)
	return joinWords(lr)
}

func splitWords(c Command) [2]uint32 {
	return [2]uint32{
		binary.BigEndian.Uint32(c[4:8]),
		binary.BigEndian.Uint32(c[0:4]),
	}
}

func joinWords(lr [2]uint32) Command {
	var c Command
	binary.BigEndian.PutUint32(c[0:4], lr[1])
	binary.BigEndian.PutUint32(c[4:8], lr[0])
	return c
}

// BuildKey2ChipID builds the KEY2 mode chip identifier read.
func BuildKey2ChipID() Command {
	return RawCommand(CmdKey2ChipID)
}

// BuildKey2DataRead builds a KEY2 mode page read. The address is sent
// big-endian right after the opcode:
//
//	[B7][A3][A2][A1][A0][00][00][00]
func BuildKey2DataRead(addr uint32) Command {
	c := RawCommand(CmdKey2DataRead)
	binary.BigEndian.PutUint32(c[1:5], addr)
	return c
}

// Key2SeedRegisters derives the initial KEY2 X and Y registers from the
// header seed byte and the mn constant sent with CmdKey1InitKey2. Both
// registers are 39 bits wide.
func Key2SeedRegisters(seed byte, mn uint32) (x, y uint64) {
	x = uint64(key2SeedBytes[seed&7]) + uint64(mn)<<15 + 0x6000
	y = Key2InitialY
	return x, y
}
