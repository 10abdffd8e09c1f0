package protocol

import "fmt"

// ROMCNT register bits.
const (
	// FlagLargeSecureArea selects the secure area mode that moves 0x1000
	// bytes per command
	FlagLargeSecureArea RegisterFlags = 1 << 28

	// FlagSlowClock selects the 4.2MHz transfer clock instead of 6.7MHz
	FlagSlowClock RegisterFlags = 1 << 27

	// FlagKey2Command makes the hardware KEY2-encrypt the command
	FlagKey2Command RegisterFlags = 1 << 22

	// FlagSecurityEnable turns on the KEY2 engine
	FlagSecurityEnable RegisterFlags = 1 << 14

	// FlagKey2Data makes the hardware KEY2-decrypt the response
	FlagKey2Data RegisterFlags = 1 << 13

	// FlagKey2Response is the pair of bits that enable response decryption
	FlagKey2Response = FlagSecurityEnable | FlagKey2Data

	// PostDelayMask covers the 6-bit delay field at bits 16-21
	PostDelayMask RegisterFlags = 0x3F << postDelayShift

	// PreDelayMask covers the 13-bit delay field at bits 0-12
	PreDelayMask RegisterFlags = 0x1FFF

	postDelayShift = 16
)

// RegisterFlags is a ROMCNT value describing one transfer: clock rate,
// delays and which parts of the exchange the KEY2 hardware handles.
//
// Values are immutable; the With methods return a copy with one field
// replaced and every other bit preserved.
type RegisterFlags uint32

// Key2Command reports whether the command is KEY2-encrypted.
func (f RegisterFlags) Key2Command() bool {
	return f&FlagKey2Command != 0
}

// Key2Response reports whether the response is KEY2-encrypted.
func (f RegisterFlags) Key2Response() bool {
	return f&FlagKey2Response == FlagKey2Response
}

// SlowClock reports whether the slow transfer clock is selected.
func (f RegisterFlags) SlowClock() bool {
	return f&FlagSlowClock != 0
}

// LargeSecureArea reports whether large secure area reads are selected.
func (f RegisterFlags) LargeSecureArea() bool {
	return f&FlagLargeSecureArea != 0
}

// PreDelay returns the 13-bit delay field (part 1).
func (f RegisterFlags) PreDelay() uint16 {
	return uint16(f & PreDelayMask)
}

// PostDelay returns the 6-bit delay field (part 2).
func (f RegisterFlags) PostDelay() uint8 {
	return uint8((f & PostDelayMask) >> postDelayShift)
}

func (f RegisterFlags) with(mask RegisterFlags, on bool) RegisterFlags {
	if on {
		return f | mask
	}
	return f &^ mask
}

// WithKey2Command returns f with the command encryption bit set to on.
func (f RegisterFlags) WithKey2Command(on bool) RegisterFlags {
	return f.with(FlagKey2Command, on)
}

// WithKey2Response returns f with both response encryption bits set to on.
func (f RegisterFlags) WithKey2Response(on bool) RegisterFlags {
	return f.with(FlagKey2Response, on)
}

// WithSlowClock returns f with the clock selector set to on.
func (f RegisterFlags) WithSlowClock(on bool) RegisterFlags {
	return f.with(FlagSlowClock, on)
}

// WithLargeSecureArea returns f with the secure area mode set to on.
func (f RegisterFlags) WithLargeSecureArea(on bool) RegisterFlags {
	return f.with(FlagLargeSecureArea, on)
}

// WithPreDelay returns f with the 13-bit delay field replaced. Bits above
// the field width are dropped.
func (f RegisterFlags) WithPreDelay(v uint16) RegisterFlags {
	return f&^PreDelayMask | RegisterFlags(v)&PreDelayMask
}

// WithPostDelay returns f with the 6-bit delay field replaced. Bits above
// the field width are dropped.
func (f RegisterFlags) WithPostDelay(v uint8) RegisterFlags {
	return f&^PostDelayMask | (RegisterFlags(v)<<postDelayShift)&PostDelayMask
}

func (f RegisterFlags) String() string {
	return fmt.Sprintf("0x%08X{cmd=%t resp=%t slow=%t large=%t pre=0x%X post=0x%X}",
		uint32(f), f.Key2Command(), f.Key2Response(), f.SlowClock(),
		f.LargeSecureArea(), f.PreDelay(), f.PostDelay())
}
