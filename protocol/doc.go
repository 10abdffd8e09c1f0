// Package protocol implements the NTR game card bus encoding.
//
// This package provides pure functions to build command words, pack ROMCNT
// transfer setups and decode card responses. It does no I/O.
//
// # Bus Overview
//
// Every exchange starts with an 8-byte command word followed by a response
// of a command-specific length. The card moves through three modes:
//
//	RAW:  commands in plain text, opcode in byte 0
//	KEY1: commands Blowfish-encrypted (see package blowfish)
//	KEY2: commands and responses run through the hardware stream cipher
//
// # Command Builders
//
//	protocol.RawCommand(protocol.CmdRawChipID)
//	protocol.BuildActivateKey1(ij, k)
//	protocol.EncryptKey1(table, protocol.EncodeKey1(cmd, arg, ij, k))
//	protocol.BuildKey2DataRead(addr)
//
// # Transfer Setup
//
// RegisterFlags is the 32-bit ROMCNT value that goes with each exchange:
//
//	flags := protocol.RegisterFlags(0).
//	    WithSlowClock(true).
//	    WithPostDelay(0x18)
//
// # Response Parsers
//
//	hdr, err := protocol.ParseHeader(buf)
//	id, err := protocol.ParseChipID(buf[:4])
package protocol
