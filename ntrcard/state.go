package ntrcard

import (
	"fmt"
	"strings"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/protocol"
)

// Status is the encryption mode the host believes the card is in.
type Status uint8

const (
	// StatusUnknown means the card is in an unknown mode. Reached after a
	// failed KEY1 or KEY2 activation; only a card reset recovers from it.
	StatusUnknown Status = iota

	// StatusRaw means commands are sent in plain text
	StatusRaw

	// StatusKey1 means commands are Blowfish-encrypted
	StatusKey1

	// StatusKey2 means commands and responses go through the KEY2 stream
	StatusKey2
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusRaw:
		return "raw"
	case StatusKey1:
		return "key1"
	case StatusKey2:
		return "key2"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus returns the Status named by s, as printed by String.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unknown":
		return StatusUnknown, nil
	case "raw":
		return StatusRaw, nil
	case "key1":
		return StatusKey1, nil
	case "key2":
		return StatusKey2, nil
	default:
		return 0, fmt.Errorf("unknown card status %q", s)
	}
}

// State is everything the host tracks about one card session.
type State struct {
	// Status is the current mode
	Status Status

	// ChipID is read in RAW mode and is the reference for the later checks
	ChipID uint32

	// Key1ChipID is read right after KEY1 activation
	Key1ChipID uint32

	// Key2ChipID is read right after KEY2 activation
	Key2ChipID uint32

	// GameCode is read from the header and keys the KEY1 table
	GameCode uint32

	// Title is the header game title, for logging
	Title string

	// Key1Table is the KEY1 cipher table
	Key1Table blowfish.Table

	// Key1Key is the key array left by the last key schedule pass
	Key1Key [3]uint32

	// K is the KEY1 command counter, consumed by every encrypted command
	K uint32

	// IJ is a fixed KEY1 command argument
	IJ uint32

	// L is the KEY1 command argument sent with handshake commands
	L uint16

	// Key2Seed is the header seed byte
	Key2Seed byte

	// Key2MN is the KEY2 seed constant
	Key2MN uint32

	// Key2X and Key2Y are the initial KEY2 registers
	Key2X uint64
	Key2Y uint64

	// HeaderKey1ROMCNT and HeaderKey2ROMCNT are the transfer setups stored
	// in the header. They are not modified after the header read.
	HeaderKey1ROMCNT protocol.RegisterFlags
	HeaderKey2ROMCNT protocol.RegisterFlags

	// Key1ROMCNT and Key2ROMCNT are the working transfer setups
	Key1ROMCNT protocol.RegisterFlags
	Key2ROMCNT protocol.RegisterFlags
}

// applyHeader copies the handshake fields of a header read into the state.
func (s *State) applyHeader(h *protocol.Header) {
	s.GameCode = h.GameCode
	s.Title = h.Title
	s.HeaderKey1ROMCNT = h.Key1ROMCNT
	s.Key1ROMCNT = h.Key1ROMCNT
	s.HeaderKey2ROMCNT = h.Key2ROMCNT
	s.Key2ROMCNT = h.Key2ROMCNT
	s.Key2Seed = h.Key2Seed
}
